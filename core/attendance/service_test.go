package attendance

import (
	"testing"
	"time"

	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

type memRepo struct {
	sessions  map[string]Session
	records   map[string]Record
	attendees map[string][]identity.ID
}

var _ Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{
		sessions:  make(map[string]Session),
		records:   make(map[string]Record),
		attendees: make(map[string][]identity.ID),
	}
}

func recKey(lectureID string, studentID identity.ID) string {
	return lectureID + "/" + string(studentID)
}

func (r *memRepo) PutSession(session Session) (Session, error) {
	r.sessions[session.LectureID] = session
	return session, nil
}

func (r *memRepo) GetSession(lectureID string) (Session, error) {
	if s, ok := r.sessions[lectureID]; ok {
		return s, nil
	}
	return Session{}, ErrSessionNotFound
}

func (r *memRepo) SetSessionActive(lectureID string, active bool) (Session, error) {
	s, ok := r.sessions[lectureID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	s.IsActive = active
	r.sessions[lectureID] = s
	return s, nil
}

func (r *memRepo) CreateRecord(rec Record) (Record, error) {
	key := recKey(rec.LectureID, rec.StudentID)
	if _, ok := r.records[key]; ok {
		return Record{}, ErrAlreadyMarked
	}
	r.records[key] = rec
	r.attendees[rec.LectureID] = append(r.attendees[rec.LectureID], rec.StudentID)
	return rec, nil
}

func (r *memRepo) GetRecord(lectureID string, studentID identity.ID) (Record, error) {
	if rec, ok := r.records[recKey(lectureID, studentID)]; ok {
		return rec, nil
	}
	return Record{}, ErrRecordNotFound
}

func (r *memRepo) HasRecord(lectureID string, studentID identity.ID) (bool, error) {
	_, ok := r.records[recKey(lectureID, studentID)]
	return ok, nil
}

func (r *memRepo) LectureAttendees(lectureID string) ([]identity.ID, error) {
	return r.attendees[lectureID], nil
}

type stubCatalog struct {
	lectures map[string]catalog.Lecture
	courses  map[string]catalog.Course
	// per-course lecture order, kept stable for Stats
	order map[string][]string
}

func (c *stubCatalog) GetLecture(id string) (catalog.Lecture, error) {
	if l, ok := c.lectures[id]; ok {
		return l, nil
	}
	return catalog.Lecture{}, catalog.ErrLectureNotFound
}

func (c *stubCatalog) CheckOwner(actor identity.ID, courseID string) (catalog.Course, error) {
	crs, ok := c.courses[courseID]
	if !ok {
		return catalog.Course{}, catalog.ErrCourseNotFound
	}
	if crs.Teacher != actor {
		return catalog.Course{}, catalog.ErrNotCourseOwner
	}
	return crs, nil
}

func (c *stubCatalog) CourseLectures(courseID string) ([]string, error) {
	if _, ok := c.courses[courseID]; !ok {
		return nil, catalog.ErrCourseNotFound
	}
	return c.order[courseID], nil
}

type stubLedger map[string]bool

func (l stubLedger) IsEnrolled(studentID identity.ID, courseID string) (bool, error) {
	return l[string(studentID)+"/"+courseID], nil
}

const (
	teacherID = identity.ID("prof")
	studentID = identity.ID("alice")
	otherID   = identity.ID("bob")
	courseID  = "go101"
	lectureID = "go101-w1"
)

func setupService() (*Service, *memRepo) {
	repo := newMemRepo()
	cat := &stubCatalog{
		lectures: map[string]catalog.Lecture{
			lectureID:  {ID: lectureID, CourseID: courseID, Title: "Week 1"},
			"go101-w2": {ID: "go101-w2", CourseID: courseID, Title: "Week 2"},
			"go101-w3": {ID: "go101-w3", CourseID: courseID, Title: "Week 3"},
		},
		courses: map[string]catalog.Course{
			courseID: {ID: courseID, Teacher: teacherID, Name: "Intro"},
		},
		order: map[string][]string{
			courseID: {lectureID, "go101-w2", "go101-w3"},
		},
	}
	ledger := stubLedger{
		string(studentID) + "/" + courseID: true,
		string(otherID) + "/" + courseID:   true,
	}
	return NewService(repo, cat, ledger, nopLogger{}), repo
}

func TestService_StartSession(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	base := time.Date(2021, 9, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	svc, _ := setupService()

	t.Run("lecture not found", func(t *testing.T) {
		if _, err := svc.StartSession(teacherID, "nope", time.Hour); err != catalog.ErrLectureNotFound {
			t.Errorf("StartSession() error = %v, wantErr %v", err, catalog.ErrLectureNotFound)
		}
	})

	t.Run("not the course owner", func(t *testing.T) {
		if _, err := svc.StartSession(studentID, lectureID, time.Hour); err != catalog.ErrNotCourseOwner {
			t.Errorf("StartSession() error = %v, wantErr %v", err, catalog.ErrNotCourseOwner)
		}
	})

	var firstToken string
	t.Run("start", func(t *testing.T) {
		sess, err := svc.StartSession(teacherID, lectureID, time.Hour)
		if err != nil {
			t.Fatalf("StartSession() unexpected error = %v", err)
		}
		if !sess.IsActive {
			t.Error("session not active")
		}
		if sess.Token == "" {
			t.Error("session has no token")
		}
		if !sess.StartTime.Equal(base) {
			t.Errorf("StartTime = %v, want %v", sess.StartTime, base)
		}
		if want := base.Add(time.Hour); !sess.EndTime.Equal(want) {
			t.Errorf("EndTime = %v, want %v", sess.EndTime, want)
		}
		firstToken = sess.Token
	})

	t.Run("second start while active", func(t *testing.T) {
		if _, err := svc.StartSession(teacherID, lectureID, time.Hour); err != ErrSessionActive {
			t.Errorf("StartSession() error = %v, wantErr %v", err, ErrSessionActive)
		}
	})

	t.Run("reopen after close", func(t *testing.T) {
		if _, err := svc.CloseSession(teacherID, lectureID); err != nil {
			t.Fatalf("CloseSession() unexpected error = %v", err)
		}
		sess, err := svc.StartSession(teacherID, lectureID, time.Hour)
		if err != nil {
			t.Fatalf("StartSession() unexpected error = %v", err)
		}
		if sess.Token == firstToken {
			t.Error("reopened session reused the previous token")
		}
	})

	t.Run("reopen after expiry", func(t *testing.T) {
		nowFunc = func() time.Time { return base.Add(2 * time.Hour) }
		sess, err := svc.StartSession(teacherID, lectureID, time.Hour)
		if err != nil {
			t.Fatalf("StartSession() unexpected error = %v", err)
		}
		if want := base.Add(3 * time.Hour); !sess.EndTime.Equal(want) {
			t.Errorf("EndTime = %v, want %v", sess.EndTime, want)
		}
	})
}

func TestService_MarkAttendance(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	base := time.Date(2021, 9, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	svc, _ := setupService()
	sess, err := svc.StartSession(teacherID, lectureID, time.Hour)
	if err != nil {
		t.Fatalf("StartSession() failed, %v", err)
	}

	tests := []struct {
		name    string
		student identity.ID
		lecture string
		token   string
		at      time.Time
		wantErr error
	}{
		{name: "lecture not found", student: studentID, lecture: "nope", token: sess.Token, wantErr: catalog.ErrLectureNotFound},
		{name: "not enrolled", student: "mallory", lecture: lectureID, token: sess.Token, wantErr: enrollment.ErrNotEnrolled},
		{name: "no session", student: studentID, lecture: "go101-w2", token: sess.Token, wantErr: ErrSessionNotFound},
		{name: "wrong token", student: studentID, lecture: lectureID, token: "bogus", wantErr: ErrInvalidToken},
		{name: "empty token", student: studentID, lecture: lectureID, token: "", wantErr: ErrInvalidToken},
		{name: "mark at deadline", student: studentID, lecture: lectureID, token: sess.Token, at: base.Add(time.Hour)},
		{name: "duplicate mark", student: studentID, lecture: lectureID, token: sess.Token, wantErr: ErrAlreadyMarked},
		{name: "expired", student: otherID, lecture: lectureID, token: sess.Token, at: base.Add(time.Hour + time.Second), wantErr: ErrSessionExpired},
		{name: "expired with wrong token", student: otherID, lecture: lectureID, token: "bogus", at: base.Add(2 * time.Hour), wantErr: ErrSessionExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at := tt.at
			if at.IsZero() {
				at = base
			}
			nowFunc = func() time.Time { return at }

			rec, err := svc.MarkAttendance(tt.student, tt.lecture, tt.token)
			if err != tt.wantErr {
				t.Fatalf("MarkAttendance() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if !rec.Verified {
					t.Error("token-verified record not flagged as verified")
				}
				if !rec.Timestamp.Equal(at) {
					t.Errorf("Timestamp = %v, want %v", rec.Timestamp, at)
				}
			}
		})
	}

	t.Run("closed session", func(t *testing.T) {
		nowFunc = func() time.Time { return base }
		if _, err := svc.CloseSession(teacherID, lectureID); err != nil {
			t.Fatalf("CloseSession() failed, %v", err)
		}
		if _, err := svc.MarkAttendance(otherID, lectureID, sess.Token); err != ErrSessionNotActive {
			t.Errorf("MarkAttendance() error = %v, wantErr %v", err, ErrSessionNotActive)
		}
	})
}

func TestService_MarkAttendance_failedTokenLeavesNoRecord(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	base := time.Date(2021, 9, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	svc, repo := setupService()
	if _, err := svc.StartSession(teacherID, lectureID, time.Hour); err != nil {
		t.Fatalf("StartSession() failed, %v", err)
	}
	if _, err := svc.MarkAttendance(studentID, lectureID, "bogus"); err != ErrInvalidToken {
		t.Fatalf("MarkAttendance() error = %v, wantErr %v", err, ErrInvalidToken)
	}

	if has, _ := repo.HasRecord(lectureID, studentID); has {
		t.Error("rejected mark left a record behind")
	}
}

func TestService_CloseSession(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	base := time.Date(2021, 9, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	svc, _ := setupService()

	t.Run("no session", func(t *testing.T) {
		if _, err := svc.CloseSession(teacherID, lectureID); err != ErrSessionNotFound {
			t.Errorf("CloseSession() error = %v, wantErr %v", err, ErrSessionNotFound)
		}
	})

	if _, err := svc.StartSession(teacherID, lectureID, time.Hour); err != nil {
		t.Fatalf("StartSession() failed, %v", err)
	}

	t.Run("not the course owner", func(t *testing.T) {
		if _, err := svc.CloseSession(studentID, lectureID); err != catalog.ErrNotCourseOwner {
			t.Errorf("CloseSession() error = %v, wantErr %v", err, catalog.ErrNotCourseOwner)
		}
	})

	t.Run("close", func(t *testing.T) {
		sess, err := svc.CloseSession(teacherID, lectureID)
		if err != nil {
			t.Fatalf("CloseSession() unexpected error = %v", err)
		}
		if sess.IsActive {
			t.Error("session still active after close")
		}
	})

	t.Run("already closed", func(t *testing.T) {
		if _, err := svc.CloseSession(teacherID, lectureID); err != ErrSessionNotActive {
			t.Errorf("CloseSession() error = %v, wantErr %v", err, ErrSessionNotActive)
		}
	})
}

func TestService_MarkManual(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	base := time.Date(2021, 9, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	svc, _ := setupService()

	tests := []struct {
		name    string
		actor   identity.ID
		lecture string
		student identity.ID
		wantErr error
	}{
		{name: "lecture not found", actor: teacherID, lecture: "nope", student: studentID, wantErr: catalog.ErrLectureNotFound},
		{name: "not the course owner", actor: studentID, lecture: lectureID, student: studentID, wantErr: catalog.ErrNotCourseOwner},
		{name: "student not enrolled", actor: teacherID, lecture: lectureID, student: "mallory", wantErr: enrollment.ErrNotEnrolled},
		{name: "mark without any session", actor: teacherID, lecture: lectureID, student: studentID},
		{name: "already marked", actor: teacherID, lecture: lectureID, student: studentID, wantErr: ErrAlreadyMarked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := svc.MarkManual(tt.actor, tt.lecture, tt.student)
			if err != tt.wantErr {
				t.Fatalf("MarkManual() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && rec.Verified {
				t.Error("manual record flagged as verified")
			}
		})
	}
}

func TestService_MarkManual_afterVerifiedMark(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	base := time.Date(2021, 9, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	svc, _ := setupService()
	sess, err := svc.StartSession(teacherID, lectureID, time.Hour)
	if err != nil {
		t.Fatalf("StartSession() failed, %v", err)
	}
	if _, err := svc.MarkAttendance(studentID, lectureID, sess.Token); err != nil {
		t.Fatalf("MarkAttendance() failed, %v", err)
	}

	// a manual mark must not overwrite the verified record
	if _, err := svc.MarkManual(teacherID, lectureID, studentID); err != ErrAlreadyMarked {
		t.Fatalf("MarkManual() error = %v, wantErr %v", err, ErrAlreadyMarked)
	}
	rec, err := svc.GetRecord(lectureID, studentID)
	if err != nil {
		t.Fatalf("GetRecord() failed, %v", err)
	}
	if !rec.Verified {
		t.Error("verified record lost its flag")
	}
}

func TestService_Attendees(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	base := time.Date(2021, 9, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	svc, _ := setupService()

	if _, err := svc.Attendees("nope"); err != catalog.ErrLectureNotFound {
		t.Errorf("Attendees() error = %v, wantErr %v", err, catalog.ErrLectureNotFound)
	}

	sess, err := svc.StartSession(teacherID, lectureID, time.Hour)
	if err != nil {
		t.Fatalf("StartSession() failed, %v", err)
	}
	if _, err := svc.MarkAttendance(studentID, lectureID, sess.Token); err != nil {
		t.Fatalf("MarkAttendance() failed, %v", err)
	}
	if _, err := svc.MarkAttendance(otherID, lectureID, sess.Token); err != nil {
		t.Fatalf("MarkAttendance() failed, %v", err)
	}

	attendees, err := svc.Attendees(lectureID)
	if err != nil {
		t.Fatalf("Attendees() unexpected error = %v", err)
	}
	if len(attendees) != 2 || attendees[0] != studentID || attendees[1] != otherID {
		t.Errorf("Attendees() = %v, want [%s %s]", attendees, studentID, otherID)
	}
}

func TestService_Stats(t *testing.T) {
	defer func() { nowFunc = time.Now }()
	base := time.Date(2021, 9, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return base }

	svc, _ := setupService()

	if _, err := svc.Stats(studentID, "nope"); err != catalog.ErrCourseNotFound {
		t.Errorf("Stats() error = %v, wantErr %v", err, catalog.ErrCourseNotFound)
	}

	stats, err := svc.Stats(studentID, courseID)
	if err != nil {
		t.Fatalf("Stats() unexpected error = %v", err)
	}
	if stats.Attended != 0 || stats.Total != 3 {
		t.Errorf("Stats() = %+v, want {Attended:0 Total:3}", stats)
	}

	// one verified mark, one manual mark across two lectures
	sess, err := svc.StartSession(teacherID, lectureID, time.Hour)
	if err != nil {
		t.Fatalf("StartSession() failed, %v", err)
	}
	if _, err := svc.MarkAttendance(studentID, lectureID, sess.Token); err != nil {
		t.Fatalf("MarkAttendance() failed, %v", err)
	}
	if _, err := svc.MarkManual(teacherID, "go101-w2", studentID); err != nil {
		t.Fatalf("MarkManual() failed, %v", err)
	}

	stats, err = svc.Stats(studentID, courseID)
	if err != nil {
		t.Fatalf("Stats() unexpected error = %v", err)
	}
	if stats.Attended != 2 || stats.Total != 3 {
		t.Errorf("Stats() = %+v, want {Attended:2 Total:3}", stats)
	}

	// other students' marks do not leak in
	stats, err = svc.Stats(otherID, courseID)
	if err != nil {
		t.Fatalf("Stats() unexpected error = %v", err)
	}
	if stats.Attended != 0 {
		t.Errorf("Stats().Attended = %d, want 0", stats.Attended)
	}
}
