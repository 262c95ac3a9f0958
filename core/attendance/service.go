package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/enrollment"
	"github.com/luminalearn/lumina/core/identity"
)

var (
	// errors
	ErrSessionActive    = errors.New("an attendance session is already active for this lecture")
	ErrSessionNotFound  = errors.New("no attendance session found for this lecture")
	ErrSessionNotActive = errors.New("attendance session is not active")
	ErrSessionExpired   = errors.New("attendance session has expired")
	ErrInvalidToken     = errors.New("invalid attendance token")
	ErrAlreadyMarked    = errors.New("attendance already marked")
	ErrRecordNotFound   = errors.New("attendance record not found")
)

type (
	// Catalog is the lookup surface the engine needs; satisfied by *catalog.Service.
	Catalog interface {
		GetLecture(id string) (catalog.Lecture, error)
		CheckOwner(actor identity.ID, courseID string) (catalog.Course, error)
		CourseLectures(courseID string) ([]string, error)
	}

	// Ledger is the enrollment lookup the engine needs; satisfied by *enrollment.Service.
	Ledger interface {
		IsEnrolled(studentID identity.ID, courseID string) (bool, error)
	}

	Repository interface {
		// PutSession overwrites any prior session for the lecture.
		PutSession(session Session) (Session, error)
		GetSession(lectureID string) (Session, error)
		SetSessionActive(lectureID string, active bool) (Session, error)
		// CreateRecord refuses to overwrite an existing record and appends
		// the student to the lecture's attendee list, membership-checked.
		CreateRecord(rec Record) (Record, error)
		GetRecord(lectureID string, studentID identity.ID) (Record, error)
		HasRecord(lectureID string, studentID identity.ID) (bool, error)
		LectureAttendees(lectureID string) ([]identity.ID, error)
	}

	Service struct {
		repo    Repository
		catalog Catalog
		ledger  Ledger
		logger  core.Logger
	}
)

func NewService(repo Repository, catalog Catalog, ledger Ledger, logger core.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, ledger: ledger, logger: logger}
}

// StartSession opens a verification window on the lecture and returns the
// session holding the fresh token. The token is handed to the caller for
// out-of-band distribution (a displayed code); no other read path exposes it.
// A lecture whose prior session was closed or has logically expired may be
// reopened; an active unexpired session may not be replaced.
func (svc *Service) StartSession(actor identity.ID, lectureID string, duration time.Duration) (Session, error) {
	lecture, err := svc.catalog.GetLecture(lectureID)
	if err != nil {
		return Session{}, err
	}
	if _, err = svc.catalog.CheckOwner(actor, lecture.CourseID); err != nil {
		return Session{}, err
	}

	now := nowFunc().UTC()
	prev, err := svc.repo.GetSession(lectureID)
	if err == nil {
		if prev.IsActive && !prev.Expired(now) {
			return Session{}, ErrSessionActive
		}
	} else if err != ErrSessionNotFound {
		return Session{}, err
	}

	token, err := generateToken()
	if err != nil {
		return Session{}, err
	}
	session := Session{
		LectureID: lectureID,
		Token:     token,
		StartTime: now,
		EndTime:   now.Add(duration),
		IsActive:  true,
	}
	session, err = svc.repo.PutSession(session)
	if err != nil {
		return Session{}, err
	}
	svc.logger.Info(fmt.Sprintf("attendance session started for lecture %s, expires at %s", lectureID, session.EndTime))
	return session, nil
}

// MarkAttendance validates the presented token and records actor's
// presence. Expiry, token equality and duplicate-record prevention are
// three independent gates, each able to fail on its own; the expiry check
// always runs before the token check so an expired token never validates.
func (svc *Service) MarkAttendance(actor identity.ID, lectureID, presentedToken string) (Record, error) {
	lecture, err := svc.catalog.GetLecture(lectureID)
	if err != nil {
		return Record{}, err
	}
	enrolled, err := svc.ledger.IsEnrolled(actor, lecture.CourseID)
	if err != nil {
		return Record{}, err
	}
	if !enrolled {
		return Record{}, enrollment.ErrNotEnrolled
	}

	session, err := svc.repo.GetSession(lectureID)
	if err != nil {
		return Record{}, err
	}
	if !session.IsActive {
		return Record{}, ErrSessionNotActive
	}
	now := nowFunc().UTC()
	if session.Expired(now) {
		return Record{}, ErrSessionExpired
	}
	if !tokensEqual(presentedToken, session.Token) {
		return Record{}, ErrInvalidToken
	}

	marked, err := svc.repo.HasRecord(lectureID, actor)
	if err != nil {
		return Record{}, err
	}
	if marked {
		return Record{}, ErrAlreadyMarked
	}

	rec := Record{
		LectureID: lectureID,
		StudentID: actor,
		Timestamp: now,
		Verified:  true,
	}
	rec, err = svc.repo.CreateRecord(rec)
	if err != nil {
		return Record{}, err
	}
	svc.logger.Info(fmt.Sprintf("student %s marked attendance for lecture %s", actor, lectureID))
	return rec, nil
}

// CloseSession deactivates the lecture's session. The session record is
// retained for audit; only the active flag changes.
func (svc *Service) CloseSession(actor identity.ID, lectureID string) (Session, error) {
	lecture, err := svc.catalog.GetLecture(lectureID)
	if err != nil {
		return Session{}, err
	}
	if _, err = svc.catalog.CheckOwner(actor, lecture.CourseID); err != nil {
		return Session{}, err
	}
	session, err := svc.repo.GetSession(lectureID)
	if err != nil {
		return Session{}, err
	}
	if !session.IsActive {
		return Session{}, ErrSessionNotActive
	}
	return svc.repo.SetSessionActive(lectureID, false)
}

// MarkManual is the teacher-issued override: no session state is consulted
// and no token is required. The record carries Verified: false to keep the
// provenance distinguishable.
func (svc *Service) MarkManual(actor identity.ID, lectureID string, studentID identity.ID) (Record, error) {
	lecture, err := svc.catalog.GetLecture(lectureID)
	if err != nil {
		return Record{}, err
	}
	if _, err = svc.catalog.CheckOwner(actor, lecture.CourseID); err != nil {
		return Record{}, err
	}
	enrolled, err := svc.ledger.IsEnrolled(studentID, lecture.CourseID)
	if err != nil {
		return Record{}, err
	}
	if !enrolled {
		return Record{}, enrollment.ErrNotEnrolled
	}
	marked, err := svc.repo.HasRecord(lectureID, studentID)
	if err != nil {
		return Record{}, err
	}
	if marked {
		return Record{}, ErrAlreadyMarked
	}

	rec := Record{
		LectureID: lectureID,
		StudentID: studentID,
		Timestamp: nowFunc().UTC(),
		Verified:  false,
	}
	rec, err = svc.repo.CreateRecord(rec)
	if err != nil {
		return Record{}, err
	}
	svc.logger.Info(fmt.Sprintf("teacher %s manually marked student %s for lecture %s", actor, studentID, lectureID))
	return rec, nil
}

func (svc *Service) GetSession(lectureID string) (Session, error) {
	return svc.repo.GetSession(lectureID)
}

func (svc *Service) GetRecord(lectureID string, studentID identity.ID) (Record, error) {
	return svc.repo.GetRecord(lectureID, studentID)
}

func (svc *Service) HasAttended(lectureID string, studentID identity.ID) (bool, error) {
	return svc.repo.HasRecord(lectureID, studentID)
}

func (svc *Service) Attendees(lectureID string) ([]identity.ID, error) {
	if _, err := svc.catalog.GetLecture(lectureID); err != nil {
		return nil, err
	}
	return svc.repo.LectureAttendees(lectureID)
}

// Stats returns the student's attended count over the course's full
// lecture list. Pure read; no state is mutated.
func (svc *Service) Stats(studentID identity.ID, courseID string) (Stats, error) {
	lectureIDs, err := svc.catalog.CourseLectures(courseID)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: len(lectureIDs)}
	for _, id := range lectureIDs {
		attended, err := svc.repo.HasRecord(id, studentID)
		if err != nil {
			return Stats{}, err
		}
		if attended {
			stats.Attended++
		}
	}
	return stats, nil
}
