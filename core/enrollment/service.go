package enrollment

import (
	"errors"

	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/identity"
)

var (
	// errors
	ErrAlreadyEnrolled = errors.New("student already enrolled in this course")
	ErrNotEnrolled     = errors.New("student not enrolled in this course")
)

type (
	// Registry is the role lookup the ledger needs; satisfied by *identity.Service.
	Registry interface {
		IsStudent(id identity.ID) (bool, error)
	}

	// Catalog is the course lookup the ledger needs; satisfied by *catalog.Service.
	Catalog interface {
		GetCourse(id string) (catalog.Course, error)
	}

	Repository interface {
		// AddEnrollment writes both directions of the membership relation
		// (student -> courses and course -> students) as one operation;
		// a partial write must not be observable.
		AddEnrollment(studentID identity.ID, courseID string) error
		IsEnrolled(studentID identity.ID, courseID string) (bool, error)
		StudentCourses(studentID identity.ID) ([]string, error)
		CourseStudents(courseID string) ([]identity.ID, error)
	}

	Service struct {
		repo     Repository
		registry Registry
		catalog  Catalog
	}
)

func NewService(repo Repository, registry Registry, catalog Catalog) *Service {
	return &Service{repo: repo, registry: registry, catalog: catalog}
}

// Enroll records actor's membership in the given course.
// For priced courses, payment verification is the calling layer's business;
// this operation only records membership.
func (svc *Service) Enroll(actor identity.ID, courseID string) error {
	if _, err := svc.catalog.GetCourse(courseID); err != nil {
		return err
	}
	isStudent, err := svc.registry.IsStudent(actor)
	if err != nil {
		return err
	}
	if !isStudent {
		return identity.ErrNotRegistered
	}
	enrolled, err := svc.repo.IsEnrolled(actor, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}
	return svc.repo.AddEnrollment(actor, courseID)
}

func (svc *Service) IsEnrolled(studentID identity.ID, courseID string) (bool, error) {
	return svc.repo.IsEnrolled(studentID, courseID)
}

func (svc *Service) StudentCourses(studentID identity.ID) ([]string, error) {
	return svc.repo.StudentCourses(studentID)
}

func (svc *Service) CourseStudents(courseID string) ([]identity.ID, error) {
	if _, err := svc.catalog.GetCourse(courseID); err != nil {
		return nil, err
	}
	return svc.repo.CourseStudents(courseID)
}
