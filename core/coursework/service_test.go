package coursework_test

import (
	"testing"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/coursework"
	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
	dummydb "github.com/luminalearn/lumina/storage/database/dummy"
)

// setup builds a graded-coursework fixture: teacher "prof" owning course
// "go101" with assignment "hw1", and enrolled student "alice".
func setup(t *testing.T, conf *core.Config) *coursework.Service {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	idSvc := identity.NewService(dummydb.NewIdentityRepository(db))
	catSvc := catalog.NewService(dummydb.NewCatalogRepository(db), idSvc)
	enrSvc := enrollment.NewService(dummydb.NewEnrollmentRepository(db), idSvc, catSvc)

	for _, acct := range []struct {
		id      identity.ID
		teacher bool
	}{{"prof", true}, {"alice", false}} {
		if _, err := idSvc.CreateAccount(identity.NewAccount{ID: string(acct.id), Name: string(acct.id), Password: "pwd", PasswordConfirm: "pwd"}); err != nil {
			t.Fatalf("CreateAccount() failed, %v", err)
		}
		if acct.teacher {
			err = idSvc.RegisterTeacher(acct.id)
		} else {
			err = idSvc.RegisterStudent(acct.id)
		}
		if err != nil {
			t.Fatalf("registering role failed, %v", err)
		}
	}
	if _, err := catSvc.CreateCourse("prof", catalog.NewCourse{ID: "go101", Name: "Intro"}); err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}
	if _, err := catSvc.CreateAssignment("prof", "go101", catalog.NewAssignment{ID: "hw1", Title: "Homework 1"}); err != nil {
		t.Fatalf("CreateAssignment() failed, %v", err)
	}
	if err := enrSvc.Enroll("alice", "go101"); err != nil {
		t.Fatalf("Enroll() failed, %v", err)
	}

	return coursework.NewService(dummydb.NewCourseworkRepository(db), catSvc, enrSvc, conf)
}

func TestService_Submit(t *testing.T) {
	svc := setup(t, &core.Config{})

	tests := []struct {
		name       string
		actor      identity.ID
		course     string
		assignment string
		wantErr    error
	}{
		{name: "course not found", actor: "alice", course: "nope", assignment: "hw1", wantErr: catalog.ErrCourseNotFound},
		{name: "not enrolled", actor: "bob", course: "go101", assignment: "hw1", wantErr: enrollment.ErrNotEnrolled},
		{name: "assignment not found", actor: "alice", course: "go101", assignment: "nope", wantErr: catalog.ErrAssignmentNotFound},
		{name: "submit", actor: "alice", course: "go101", assignment: "hw1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := svc.Submit(tt.actor, tt.course, tt.assignment, coursework.NewSubmission{Content: "my answer"})
			if err != tt.wantErr {
				t.Fatalf("Submit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if sub.Content != "my answer" {
					t.Errorf("Content = %q, want %q", sub.Content, "my answer")
				}
				if sub.SubmittedAt.IsZero() {
					t.Error("SubmittedAt not set")
				}
				if sub.Graded() {
					t.Error("fresh submission is graded")
				}
			}
		})
	}

	t.Run("resubmit overwrites content", func(t *testing.T) {
		sub, err := svc.Submit("alice", "go101", "hw1", coursework.NewSubmission{Content: "better answer"})
		if err != nil {
			t.Fatalf("Submit() unexpected error = %v", err)
		}
		if sub.Content != "better answer" {
			t.Errorf("Content = %q, want %q", sub.Content, "better answer")
		}
	})
}

func TestService_Grade(t *testing.T) {
	svc := setup(t, &core.Config{})
	if _, err := svc.Submit("alice", "go101", "hw1", coursework.NewSubmission{Content: "answer"}); err != nil {
		t.Fatalf("Submit() failed, %v", err)
	}

	t.Run("not the course owner", func(t *testing.T) {
		if _, err := svc.Grade("alice", "go101", "hw1", "alice", coursework.NewGrade{Score: 90}); err != catalog.ErrNotCourseOwner {
			t.Errorf("Grade() error = %v, wantErr %v", err, catalog.ErrNotCourseOwner)
		}
	})

	t.Run("assignment not found", func(t *testing.T) {
		if _, err := svc.Grade("prof", "go101", "nope", "alice", coursework.NewGrade{Score: 90}); err != catalog.ErrAssignmentNotFound {
			t.Errorf("Grade() error = %v, wantErr %v", err, catalog.ErrAssignmentNotFound)
		}
	})

	t.Run("score out of bounds", func(t *testing.T) {
		for _, score := range []int{-1, 101} {
			_, err := svc.Grade("prof", "go101", "hw1", "alice", coursework.NewGrade{Score: score})
			if _, ok := err.(*core.ValidationError); !ok {
				t.Errorf("Grade(score=%d) error = %T, want *core.ValidationError", score, err)
			}
		}
	})

	t.Run("no submission", func(t *testing.T) {
		if _, err := svc.Grade("prof", "go101", "hw1", "bob", coursework.NewGrade{Score: 90}); err != coursework.ErrSubmissionNotFound {
			t.Errorf("Grade() error = %v, wantErr %v", err, coursework.ErrSubmissionNotFound)
		}
	})

	t.Run("grade", func(t *testing.T) {
		for _, score := range []int{0, 100, 85} { // bounds are inclusive
			sub, err := svc.Grade("prof", "go101", "hw1", "alice", coursework.NewGrade{Score: score, Feedback: "ok"})
			if err != nil {
				t.Fatalf("Grade(score=%d) unexpected error = %v", score, err)
			}
			if !sub.Graded() || sub.Grade.Score != score {
				t.Errorf("Grade() = %+v, want score %d", sub.Grade, score)
			}
		}
	})
}

func TestService_Submit_resubmitGradePolicy(t *testing.T) {
	t.Run("grade survives by default", func(t *testing.T) {
		svc := setup(t, &core.Config{})
		if _, err := svc.Submit("alice", "go101", "hw1", coursework.NewSubmission{Content: "v1"}); err != nil {
			t.Fatalf("Submit() failed, %v", err)
		}
		if _, err := svc.Grade("prof", "go101", "hw1", "alice", coursework.NewGrade{Score: 70}); err != nil {
			t.Fatalf("Grade() failed, %v", err)
		}

		sub, err := svc.Submit("alice", "go101", "hw1", coursework.NewSubmission{Content: "v2"})
		if err != nil {
			t.Fatalf("Submit() failed, %v", err)
		}
		if !sub.Graded() || sub.Grade.Score != 70 {
			t.Errorf("Grade = %+v, want score 70 carried over", sub.Grade)
		}
	})

	t.Run("grade cleared when configured", func(t *testing.T) {
		conf := &core.Config{}
		conf.Coursework.ResubmitClearsGrade = true
		svc := setup(t, conf)
		if _, err := svc.Submit("alice", "go101", "hw1", coursework.NewSubmission{Content: "v1"}); err != nil {
			t.Fatalf("Submit() failed, %v", err)
		}
		if _, err := svc.Grade("prof", "go101", "hw1", "alice", coursework.NewGrade{Score: 70}); err != nil {
			t.Fatalf("Grade() failed, %v", err)
		}

		sub, err := svc.Submit("alice", "go101", "hw1", coursework.NewSubmission{Content: "v2"})
		if err != nil {
			t.Fatalf("Submit() failed, %v", err)
		}
		if sub.Graded() {
			t.Errorf("Grade = %+v, want nil after resubmission", sub.Grade)
		}
	})
}
