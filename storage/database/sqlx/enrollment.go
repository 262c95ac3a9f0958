package sqlxrepos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

// AddEnrollment holds both directions of the relation in one row of
// course_student, so the write is atomic by construction. The insert is
// idempotent against accidental duplicates.
func (repo *enrollmentRepository) AddEnrollment(studentID identity.ID, courseID string) error {
	_, err := repo.db.Exec(
		`INSERT INTO course_student (course_id, student_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		courseID, studentID,
	)
	if err != nil {
		return errors.Wrap(err, "inserting enrollment")
	}
	return nil
}

func (repo *enrollmentRepository) IsEnrolled(studentID identity.ID, courseID string) (bool, error) {
	var exists bool
	err := repo.db.Get(&exists,
		`SELECT EXISTS (SELECT 1 FROM course_student WHERE course_id = $1 AND student_id = $2)`,
		courseID, studentID,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking enrollment")
	}
	return exists, nil
}

func (repo *enrollmentRepository) StudentCourses(studentID identity.ID) ([]string, error) {
	ids := []string{}
	err := repo.db.Select(&ids, `SELECT course_id FROM course_student WHERE student_id = $1 ORDER BY seq`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting student courses")
	}
	return ids, nil
}

func (repo *enrollmentRepository) CourseStudents(courseID string) ([]identity.ID, error) {
	raw := []string{}
	err := repo.db.Select(&raw, `SELECT student_id FROM course_student WHERE course_id = $1 ORDER BY seq`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting course students")
	}
	ids := make([]identity.ID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, identity.ID(id))
	}
	return ids, nil
}
