package catalog

import (
	"errors"
	"time"

	"github.com/luminalearn/lumina/core/identity"
)

var (
	// errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrCourseExists       = errors.New("a course with this id already exists")
	ErrLectureExists      = errors.New("a lecture with this id already exists")
	ErrAssignmentExists   = errors.New("an assignment with this id already exists for this course")
	ErrNotTeacher         = errors.New("identity is not a registered teacher")
	ErrNotCourseOwner     = errors.New("only the course teacher may perform this operation")
)

type (
	// Registry is the role lookup the catalog needs; satisfied by *identity.Service.
	Registry interface {
		IsTeacher(id identity.ID) (bool, error)
	}

	Repository interface {
		// CreateCourse also initializes the course's child indices
		// (lectures, assignments, students).
		CreateCourse(course Course) (Course, error)
		GetCourse(id string) (Course, error)
		// CreateLecture appends the lecture to its course's index and
		// initializes an empty attendee list.
		CreateLecture(lecture Lecture) (Lecture, error)
		GetLecture(id string) (Lecture, error)
		CreateAssignment(assignment Assignment) (Assignment, error)
		GetAssignment(courseID, id string) (Assignment, error)
		CourseLectures(courseID string) ([]string, error)
		CourseAssignments(courseID string) ([]string, error)
	}

	Service struct {
		repo     Repository
		registry Registry
	}
)

func NewService(repo Repository, registry Registry) *Service {
	return &Service{repo: repo, registry: registry}
}

// CreateCourse records a new course owned by actor. Only registered
// teachers may create courses; the owner is immutable afterwards.
func (svc *Service) CreateCourse(actor identity.ID, nc NewCourse) (Course, error) {
	isTeacher, err := svc.registry.IsTeacher(actor)
	if err != nil {
		return Course{}, err
	}
	if !isTeacher {
		return Course{}, ErrNotTeacher
	}
	course := Course{
		ID:          nc.ID,
		Teacher:     actor,
		Name:        nc.Name,
		Description: nc.Description,
		Price:       nc.Price,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateCourse(course)
}

func (svc *Service) GetCourse(id string) (Course, error) {
	return svc.repo.GetCourse(id)
}

// CheckOwner verifies that actor is the owning teacher of the given course.
func (svc *Service) CheckOwner(actor identity.ID, courseID string) (Course, error) {
	course, err := svc.repo.GetCourse(courseID)
	if err != nil {
		return Course{}, err
	}
	if course.Teacher != actor {
		return Course{}, ErrNotCourseOwner
	}
	return course, nil
}

func (svc *Service) CreateLecture(actor identity.ID, courseID string, nl NewLecture) (Lecture, error) {
	if _, err := svc.CheckOwner(actor, courseID); err != nil {
		return Lecture{}, err
	}
	lecture := Lecture{
		ID:       nl.ID,
		CourseID: courseID,
		Title:    nl.Title,
		Date:     nl.Date.UTC(),
		Duration: nl.Duration,
	}
	return svc.repo.CreateLecture(lecture)
}

func (svc *Service) GetLecture(id string) (Lecture, error) {
	return svc.repo.GetLecture(id)
}

func (svc *Service) CreateAssignment(actor identity.ID, courseID string, na NewAssignment) (Assignment, error) {
	if _, err := svc.CheckOwner(actor, courseID); err != nil {
		return Assignment{}, err
	}
	assignment := Assignment{
		ID:          na.ID,
		CourseID:    courseID,
		Title:       na.Title,
		Description: na.Description,
	}
	return svc.repo.CreateAssignment(assignment)
}

func (svc *Service) GetAssignment(courseID, id string) (Assignment, error) {
	return svc.repo.GetAssignment(courseID, id)
}

func (svc *Service) CourseLectures(courseID string) ([]string, error) {
	if _, err := svc.repo.GetCourse(courseID); err != nil {
		return nil, err
	}
	return svc.repo.CourseLectures(courseID)
}

func (svc *Service) CourseAssignments(courseID string) ([]string, error) {
	if _, err := svc.repo.GetCourse(courseID); err != nil {
		return nil, err
	}
	return svc.repo.CourseAssignments(courseID)
}
