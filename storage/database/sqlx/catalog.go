package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/luminalearn/lumina/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

type lectureRow struct {
	ID              string    `db:"id"`
	CourseID        string    `db:"course_id"`
	Title           string    `db:"title"`
	Date            time.Time `db:"date"`
	DurationSeconds int64     `db:"duration_seconds"`
}

func (row lectureRow) lecture() catalog.Lecture {
	return catalog.Lecture{
		ID:       row.ID,
		CourseID: row.CourseID,
		Title:    row.Title,
		Date:     row.Date,
		Duration: time.Duration(row.DurationSeconds) * time.Second,
	}
}

func (repo *catalogRepository) CreateCourse(course catalog.Course) (catalog.Course, error) {
	_, err := repo.db.Exec(
		`INSERT INTO course (id, teacher_id, name, description, price, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		course.ID, course.Teacher, course.Name, course.Description, course.Price, course.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.Course{}, catalog.ErrCourseExists
		}
		return catalog.Course{}, errors.Wrap(err, "inserting course")
	}
	return course, nil
}

func (repo *catalogRepository) GetCourse(id string) (catalog.Course, error) {
	var course catalog.Course
	err := repo.db.QueryRow(
		`SELECT id, teacher_id, name, description, price, created_at FROM course WHERE id = $1`, id,
	).Scan(&course.ID, &course.Teacher, &course.Name, &course.Description, &course.Price, &course.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return catalog.Course{}, catalog.ErrCourseNotFound
		}
		return catalog.Course{}, errors.Wrap(err, "selecting course")
	}
	return course, nil
}

func (repo *catalogRepository) CreateLecture(lecture catalog.Lecture) (catalog.Lecture, error) {
	_, err := repo.db.Exec(
		`INSERT INTO lecture (id, course_id, title, date, duration_seconds) VALUES ($1, $2, $3, $4, $5)`,
		lecture.ID, lecture.CourseID, lecture.Title, lecture.Date, int64(lecture.Duration/time.Second),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.Lecture{}, catalog.ErrLectureExists
		}
		return catalog.Lecture{}, errors.Wrap(err, "inserting lecture")
	}
	return lecture, nil
}

func (repo *catalogRepository) GetLecture(id string) (catalog.Lecture, error) {
	var row lectureRow
	err := repo.db.Get(&row, `SELECT id, course_id, title, date, duration_seconds FROM lecture WHERE id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return catalog.Lecture{}, catalog.ErrLectureNotFound
		}
		return catalog.Lecture{}, errors.Wrap(err, "selecting lecture")
	}
	return row.lecture(), nil
}

func (repo *catalogRepository) CreateAssignment(assignment catalog.Assignment) (catalog.Assignment, error) {
	_, err := repo.db.Exec(
		`INSERT INTO assignment (course_id, id, title, description) VALUES ($1, $2, $3, $4)`,
		assignment.CourseID, assignment.ID, assignment.Title, assignment.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.Assignment{}, catalog.ErrAssignmentExists
		}
		return catalog.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return assignment, nil
}

func (repo *catalogRepository) GetAssignment(courseID, id string) (catalog.Assignment, error) {
	var assignment catalog.Assignment
	err := repo.db.QueryRow(
		`SELECT course_id, id, title, description FROM assignment WHERE course_id = $1 AND id = $2`, courseID, id,
	).Scan(&assignment.CourseID, &assignment.ID, &assignment.Title, &assignment.Description)
	if err != nil {
		if isNoRows(err) {
			return catalog.Assignment{}, catalog.ErrAssignmentNotFound
		}
		return catalog.Assignment{}, errors.Wrap(err, "selecting assignment")
	}
	return assignment, nil
}

func (repo *catalogRepository) CourseLectures(courseID string) ([]string, error) {
	ids := []string{}
	if err := repo.db.Select(&ids, `SELECT id FROM lecture WHERE course_id = $1 ORDER BY seq`, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting course lectures")
	}
	return ids, nil
}

func (repo *catalogRepository) CourseAssignments(courseID string) ([]string, error) {
	ids := []string{}
	if err := repo.db.Select(&ids, `SELECT id FROM assignment WHERE course_id = $1 ORDER BY seq`, courseID); err != nil {
		return nil, errors.Wrap(err, "selecting course assignments")
	}
	return ids, nil
}
