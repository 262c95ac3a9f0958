package catalog

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/identity"
)

type Course struct {
	ID          string      `json:"id"`
	Teacher     identity.ID `json:"teacher"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       int64       `json:"price"` // smallest currency unit; 0 = free
	CreatedAt   time.Time   `json:"created_at"` // UTC
}

type Lecture struct {
	ID       string        `json:"id"`
	CourseID string        `json:"course_id"`
	Title    string        `json:"title"`
	Date     time.Time     `json:"date"` // scheduled start, UTC
	Duration time.Duration `json:"duration"`
}

type Assignment struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	ID          string `json:"id" validate:"required,slug"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"min=0"`
}

func (nc *NewCourse) Validate(validate *validator.Validate, translator ut.Translator) error {
	nc.ID = core.CleanString(nc.ID, true /* lower */)
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// NewLecture contains information needed to create a new Lecture.
type NewLecture struct {
	ID       string        `json:"id" validate:"required,slug"`
	Title    string        `json:"title" validate:"required"`
	Date     time.Time     `json:"date" validate:"required"`
	Duration time.Duration `json:"duration" validate:"min=0"`
}

func (nl *NewLecture) Validate(validate *validator.Validate, translator ut.Translator) error {
	nl.ID = core.CleanString(nl.ID, true /* lower */)
	nl.Title = core.CleanString(nl.Title)
	return validate.Struct(nl)
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	ID          string `json:"id" validate:"required,slug"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func (na *NewAssignment) Validate(validate *validator.Validate, translator ut.Translator) error {
	na.ID = core.CleanString(na.ID, true /* lower */)
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}
