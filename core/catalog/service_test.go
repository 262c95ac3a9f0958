package catalog_test

import (
	"testing"
	"time"

	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/identity"
	dummydb "github.com/luminalearn/lumina/storage/database/dummy"
)

func setup(t *testing.T) (*catalog.Service, *identity.Service) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	idSvc := identity.NewService(dummydb.NewIdentityRepository(db))
	return catalog.NewService(dummydb.NewCatalogRepository(db), idSvc), idSvc
}

func registerTeacher(t *testing.T, idSvc *identity.Service, id identity.ID) {
	t.Helper()
	if _, err := idSvc.CreateAccount(identity.NewAccount{ID: string(id), Name: string(id), Password: "pwd", PasswordConfirm: "pwd"}); err != nil {
		t.Fatalf("CreateAccount() failed, %v", err)
	}
	if err := idSvc.RegisterTeacher(id); err != nil {
		t.Fatalf("RegisterTeacher() failed, %v", err)
	}
}

func createCourse(t *testing.T, svc *catalog.Service, teacher identity.ID, id string) catalog.Course {
	t.Helper()
	crs, err := svc.CreateCourse(teacher, catalog.NewCourse{ID: id, Name: "Course " + id})
	if err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}
	return crs
}

func TestService_CreateCourse(t *testing.T) {
	svc, idSvc := setup(t)
	registerTeacher(t, idSvc, "prof")

	t.Run("not a teacher", func(t *testing.T) {
		if _, err := svc.CreateCourse("rando", catalog.NewCourse{ID: "go101", Name: "Intro"}); err != catalog.ErrNotTeacher {
			t.Errorf("CreateCourse() error = %v, wantErr %v", err, catalog.ErrNotTeacher)
		}
	})

	t.Run("create", func(t *testing.T) {
		crs, err := svc.CreateCourse("prof", catalog.NewCourse{ID: "go101", Name: "Intro", Description: "Basics", Price: 1500})
		if err != nil {
			t.Fatalf("CreateCourse() unexpected error = %v", err)
		}
		if crs.Teacher != "prof" {
			t.Errorf("Teacher = %s, want prof", crs.Teacher)
		}
		if crs.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		registerTeacher(t, idSvc, "prof2")
		if _, err := svc.CreateCourse("prof2", catalog.NewCourse{ID: "go101", Name: "Takeover"}); err != catalog.ErrCourseExists {
			t.Errorf("CreateCourse() error = %v, wantErr %v", err, catalog.ErrCourseExists)
		}
		// original course untouched
		crs, err := svc.GetCourse("go101")
		if err != nil {
			t.Fatalf("GetCourse() failed, %v", err)
		}
		if crs.Teacher != "prof" || crs.Name != "Intro" {
			t.Errorf("GetCourse() = %+v, want original course", crs)
		}
	})
}

func TestService_CheckOwner(t *testing.T) {
	svc, idSvc := setup(t)
	registerTeacher(t, idSvc, "prof")
	createCourse(t, svc, "prof", "go101")

	tests := []struct {
		name    string
		actor   identity.ID
		course  string
		wantErr error
	}{
		{name: "course not found", actor: "prof", course: "nope", wantErr: catalog.ErrCourseNotFound},
		{name: "not the owner", actor: "rando", course: "go101", wantErr: catalog.ErrNotCourseOwner},
		{name: "owner", actor: "prof", course: "go101"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CheckOwner(tt.actor, tt.course); err != tt.wantErr {
				t.Errorf("CheckOwner() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_CreateLecture(t *testing.T) {
	svc, idSvc := setup(t)
	registerTeacher(t, idSvc, "prof")
	createCourse(t, svc, "prof", "go101")

	date := time.Date(2021, 9, 6, 9, 0, 0, 0, time.UTC)
	nl := catalog.NewLecture{ID: "w1", Title: "Week 1", Date: date, Duration: 2 * time.Hour}

	t.Run("not the owner", func(t *testing.T) {
		if _, err := svc.CreateLecture("rando", "go101", nl); err != catalog.ErrNotCourseOwner {
			t.Errorf("CreateLecture() error = %v, wantErr %v", err, catalog.ErrNotCourseOwner)
		}
	})

	t.Run("create", func(t *testing.T) {
		lect, err := svc.CreateLecture("prof", "go101", nl)
		if err != nil {
			t.Fatalf("CreateLecture() unexpected error = %v", err)
		}
		if lect.CourseID != "go101" {
			t.Errorf("CourseID = %s, want go101", lect.CourseID)
		}
		if got, err := svc.GetLecture("w1"); err != nil || got.Title != "Week 1" {
			t.Errorf("GetLecture() = %+v, %v", got, err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		if _, err := svc.CreateLecture("prof", "go101", nl); err != catalog.ErrLectureExists {
			t.Errorf("CreateLecture() error = %v, wantErr %v", err, catalog.ErrLectureExists)
		}
	})

	t.Run("course index", func(t *testing.T) {
		ids, err := svc.CourseLectures("go101")
		if err != nil {
			t.Fatalf("CourseLectures() unexpected error = %v", err)
		}
		if len(ids) != 1 || ids[0] != "w1" {
			t.Errorf("CourseLectures() = %v, want [w1]", ids)
		}
		if _, err := svc.CourseLectures("nope"); err != catalog.ErrCourseNotFound {
			t.Errorf("CourseLectures() error = %v, wantErr %v", err, catalog.ErrCourseNotFound)
		}
	})
}

func TestService_CreateAssignment(t *testing.T) {
	svc, idSvc := setup(t)
	registerTeacher(t, idSvc, "prof")
	createCourse(t, svc, "prof", "go101")
	createCourse(t, svc, "prof", "go201")

	na := catalog.NewAssignment{ID: "hw1", Title: "Homework 1"}

	t.Run("not the owner", func(t *testing.T) {
		if _, err := svc.CreateAssignment("rando", "go101", na); err != catalog.ErrNotCourseOwner {
			t.Errorf("CreateAssignment() error = %v, wantErr %v", err, catalog.ErrNotCourseOwner)
		}
	})

	t.Run("create", func(t *testing.T) {
		if _, err := svc.CreateAssignment("prof", "go101", na); err != nil {
			t.Fatalf("CreateAssignment() unexpected error = %v", err)
		}
		if _, err := svc.GetAssignment("go101", "hw1"); err != nil {
			t.Errorf("GetAssignment() failed, %v", err)
		}
	})

	t.Run("duplicate id in same course", func(t *testing.T) {
		if _, err := svc.CreateAssignment("prof", "go101", na); err != catalog.ErrAssignmentExists {
			t.Errorf("CreateAssignment() error = %v, wantErr %v", err, catalog.ErrAssignmentExists)
		}
	})

	t.Run("same id in another course", func(t *testing.T) {
		// assignment ids are scoped per course
		if _, err := svc.CreateAssignment("prof", "go201", na); err != nil {
			t.Errorf("CreateAssignment() unexpected error = %v", err)
		}
	})

	t.Run("lookup is course scoped", func(t *testing.T) {
		if _, err := svc.GetAssignment("go301", "hw1"); err != catalog.ErrAssignmentNotFound {
			t.Errorf("GetAssignment() error = %v, wantErr %v", err, catalog.ErrAssignmentNotFound)
		}
	})
}
