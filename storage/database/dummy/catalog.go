package dummydb

import (
	"github.com/luminalearn/lumina/core/catalog"
)

type catalogRepository struct {
	db *catalogTable
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db.catalog}
}

func (repo *catalogRepository) CreateCourse(course catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[course.ID]; ok {
		return catalog.Course{}, catalog.ErrCourseExists
	}
	repo.db.courses[course.ID] = &course
	repo.db.courseLectures[course.ID] = []string{}
	repo.db.courseAssignments[course.ID] = []string{}
	return course, nil
}

func (repo *catalogRepository) GetCourse(id string) (catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if course, ok := repo.db.courses[id]; ok {
		return *course, nil
	}
	return catalog.Course{}, catalog.ErrCourseNotFound
}

func (repo *catalogRepository) CreateLecture(lecture catalog.Lecture) (catalog.Lecture, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.lectures[lecture.ID]; ok {
		return catalog.Lecture{}, catalog.ErrLectureExists
	}
	repo.db.lectures[lecture.ID] = &lecture
	repo.db.courseLectures[lecture.CourseID] = appendUniqueStr(repo.db.courseLectures[lecture.CourseID], lecture.ID)
	return lecture, nil
}

func (repo *catalogRepository) GetLecture(id string) (catalog.Lecture, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lecture, ok := repo.db.lectures[id]; ok {
		return *lecture, nil
	}
	return catalog.Lecture{}, catalog.ErrLectureNotFound
}

func (repo *catalogRepository) CreateAssignment(assignment catalog.Assignment) (catalog.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := assignmentKey{courseID: assignment.CourseID, id: assignment.ID}
	if _, ok := repo.db.assignments[key]; ok {
		return catalog.Assignment{}, catalog.ErrAssignmentExists
	}
	repo.db.assignments[key] = &assignment
	repo.db.courseAssignments[assignment.CourseID] = appendUniqueStr(repo.db.courseAssignments[assignment.CourseID], assignment.ID)
	return assignment, nil
}

func (repo *catalogRepository) GetAssignment(courseID, id string) (catalog.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if assignment, ok := repo.db.assignments[assignmentKey{courseID: courseID, id: id}]; ok {
		return *assignment, nil
	}
	return catalog.Assignment{}, catalog.ErrAssignmentNotFound
}

func (repo *catalogRepository) CourseLectures(courseID string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := repo.db.courseLectures[courseID]
	return append([]string{}, ids...), nil
}

func (repo *catalogRepository) CourseAssignments(courseID string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := repo.db.courseAssignments[courseID]
	return append([]string{}, ids...), nil
}
