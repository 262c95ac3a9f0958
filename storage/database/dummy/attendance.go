package dummydb

import (
	"github.com/luminalearn/lumina/core/attendance"
	"github.com/luminalearn/lumina/core/identity"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) PutSession(session attendance.Session) (attendance.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.sessions[session.LectureID] = &session
	return session, nil
}

func (repo *attendanceRepository) GetSession(lectureID string) (attendance.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if session, ok := repo.db.sessions[lectureID]; ok {
		return *session, nil
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}

func (repo *attendanceRepository) SetSessionActive(lectureID string, active bool) (attendance.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	session, ok := repo.db.sessions[lectureID]
	if !ok {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	session.IsActive = active
	return *session, nil
}

// CreateRecord writes the record and the attendee-list append under one
// lock; the record is never overwritten once present.
func (repo *attendanceRepository) CreateRecord(rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := recordKey{lectureID: rec.LectureID, studentID: rec.StudentID}
	if _, ok := repo.db.records[key]; ok {
		return attendance.Record{}, attendance.ErrAlreadyMarked
	}
	repo.db.records[key] = &rec
	repo.db.attendees[rec.LectureID] = appendUniqueID(repo.db.attendees[rec.LectureID], rec.StudentID)
	return rec, nil
}

func (repo *attendanceRepository) GetRecord(lectureID string, studentID identity.ID) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.records[recordKey{lectureID: lectureID, studentID: studentID}]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (repo *attendanceRepository) HasRecord(lectureID string, studentID identity.ID) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.records[recordKey{lectureID: lectureID, studentID: studentID}]
	return ok, nil
}

func (repo *attendanceRepository) LectureAttendees(lectureID string) ([]identity.ID, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := repo.db.attendees[lectureID]
	return append([]identity.ID{}, ids...), nil
}
