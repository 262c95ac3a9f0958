package coursework

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/identity"
)

type Grade struct {
	Score    int    `json:"score"` // 0..100
	Feedback string `json:"feedback"`
}

type Submission struct {
	CourseID     string      `json:"course_id"`
	AssignmentID string      `json:"assignment_id"`
	StudentID    identity.ID `json:"student_id"`
	Content      string      `json:"content"`
	SubmittedAt  time.Time   `json:"submitted_at"` // UTC
	Grade        *Grade      `json:"grade,omitempty"`
}

// Graded reports whether a grade has been attached to the submission.
func (s Submission) Graded() bool { return s.Grade != nil }

// NewSubmission contains information needed to submit an assignment.
type NewSubmission struct {
	Content string `json:"content" validate:"required"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate, translator ut.Translator) error {
	ns.Content = core.CleanString(ns.Content)
	return validate.Struct(ns)
}

// NewGrade contains information needed to grade a submission.
type NewGrade struct {
	Score    int    `json:"score" validate:"min=0,max=100"`
	Feedback string `json:"feedback"`
}

func (ng *NewGrade) Validate(validate *validator.Validate, translator ut.Translator) error {
	ng.Feedback = core.CleanString(ng.Feedback)
	return validate.Struct(ng)
}
