package coursework

import (
	"errors"
	"time"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
)

var (
	// errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidScore       = errors.New("score must be between 0 and 100")
)

type (
	// Catalog is the lookup surface the workflow needs; satisfied by *catalog.Service.
	Catalog interface {
		GetCourse(id string) (catalog.Course, error)
		GetAssignment(courseID, id string) (catalog.Assignment, error)
		CheckOwner(actor identity.ID, courseID string) (catalog.Course, error)
	}

	// Ledger is the enrollment lookup the workflow needs; satisfied by *enrollment.Service.
	Ledger interface {
		IsEnrolled(studentID identity.ID, courseID string) (bool, error)
	}

	Repository interface {
		// PutSubmission creates or overwrites the submission for its
		// (course, assignment, student) key.
		PutSubmission(sub Submission) (Submission, error)
		GetSubmission(courseID, assignmentID string, studentID identity.ID) (Submission, error)
		SetGrade(courseID, assignmentID string, studentID identity.ID, grade Grade) (Submission, error)
	}

	Service struct {
		repo    Repository
		catalog Catalog
		ledger  Ledger
		conf    *core.Config
	}
)

func NewService(repo Repository, catalog Catalog, ledger Ledger, conf *core.Config) *Service {
	return &Service{repo: repo, catalog: catalog, ledger: ledger, conf: conf}
}

// Submit creates or overwrites actor's submission for the assignment.
// Whether an existing grade survives resubmission is governed by
// Config.Coursework.ResubmitClearsGrade; grading itself is always a
// separate explicit act.
func (svc *Service) Submit(actor identity.ID, courseID, assignmentID string, ns NewSubmission) (Submission, error) {
	if _, err := svc.catalog.GetCourse(courseID); err != nil {
		return Submission{}, err
	}
	enrolled, err := svc.ledger.IsEnrolled(actor, courseID)
	if err != nil {
		return Submission{}, err
	}
	if !enrolled {
		return Submission{}, enrollment.ErrNotEnrolled
	}
	if _, err = svc.catalog.GetAssignment(courseID, assignmentID); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		CourseID:     courseID,
		AssignmentID: assignmentID,
		StudentID:    actor,
		Content:      ns.Content,
		SubmittedAt:  time.Now().UTC(),
	}
	if !svc.conf.Coursework.ResubmitClearsGrade {
		if prev, err := svc.repo.GetSubmission(courseID, assignmentID, actor); err == nil {
			sub.Grade = prev.Grade
		} else if err != ErrSubmissionNotFound {
			return Submission{}, err
		}
	}
	return svc.repo.PutSubmission(sub)
}

// Grade attaches a score and feedback to an existing submission.
// Only the owning teacher of the course may grade.
func (svc *Service) Grade(actor identity.ID, courseID, assignmentID string, studentID identity.ID, ng NewGrade) (Submission, error) {
	if _, err := svc.catalog.CheckOwner(actor, courseID); err != nil {
		return Submission{}, err
	}
	if _, err := svc.catalog.GetAssignment(courseID, assignmentID); err != nil {
		return Submission{}, err
	}
	if ng.Score < 0 || ng.Score > 100 {
		return Submission{}, core.NewValidationError(ErrInvalidScore, core.FieldError{Field: "score", Error: ErrInvalidScore.Error()})
	}
	if _, err := svc.repo.GetSubmission(courseID, assignmentID, studentID); err != nil {
		return Submission{}, err
	}
	return svc.repo.SetGrade(courseID, assignmentID, studentID, Grade{Score: ng.Score, Feedback: ng.Feedback})
}

func (svc *Service) GetSubmission(courseID, assignmentID string, studentID identity.ID) (Submission, error) {
	return svc.repo.GetSubmission(courseID, assignmentID, studentID)
}
