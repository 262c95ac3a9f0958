package dummydb

import (
	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
)

type enrollmentRepository struct {
	db *enrollmentTable
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollment}
}

// AddEnrollment updates both directions of the relation under one lock so
// a partial write can never be observed.
func (repo *enrollmentRepository) AddEnrollment(studentID identity.ID, courseID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.studentCourses[studentID] = appendUniqueStr(repo.db.studentCourses[studentID], courseID)
	repo.db.courseStudents[courseID] = appendUniqueID(repo.db.courseStudents[courseID], studentID)
	return nil
}

func (repo *enrollmentRepository) IsEnrolled(studentID identity.ID, courseID string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return containsStr(repo.db.studentCourses[studentID], courseID), nil
}

func (repo *enrollmentRepository) StudentCourses(studentID identity.ID) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := repo.db.studentCourses[studentID]
	return append([]string{}, ids...), nil
}

func (repo *enrollmentRepository) CourseStudents(courseID string) ([]identity.ID, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := repo.db.courseStudents[courseID]
	return append([]identity.ID{}, ids...), nil
}
