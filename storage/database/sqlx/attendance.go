package sqlxrepos

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/luminalearn/lumina/core/attendance"
	"github.com/luminalearn/lumina/core/identity"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) PutSession(session attendance.Session) (attendance.Session, error) {
	_, err := repo.db.Exec(
		`INSERT INTO attendance_session (lecture_id, token, start_time, end_time, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (lecture_id)
		 DO UPDATE SET token = EXCLUDED.token, start_time = EXCLUDED.start_time,
		               end_time = EXCLUDED.end_time, is_active = EXCLUDED.is_active`,
		session.LectureID, session.Token, session.StartTime, session.EndTime, session.IsActive,
	)
	if err != nil {
		return attendance.Session{}, errors.Wrap(err, "upserting session")
	}
	return session, nil
}

func (repo *attendanceRepository) GetSession(lectureID string) (attendance.Session, error) {
	var session attendance.Session
	err := repo.db.QueryRow(
		`SELECT lecture_id, token, start_time, end_time, is_active FROM attendance_session WHERE lecture_id = $1`,
		lectureID,
	).Scan(&session.LectureID, &session.Token, &session.StartTime, &session.EndTime, &session.IsActive)
	if err != nil {
		if isNoRows(err) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, errors.Wrap(err, "selecting session")
	}
	return session, nil
}

func (repo *attendanceRepository) SetSessionActive(lectureID string, active bool) (attendance.Session, error) {
	res, err := repo.db.Exec(`UPDATE attendance_session SET is_active = $1 WHERE lecture_id = $2`, active, lectureID)
	if err != nil {
		return attendance.Session{}, errors.Wrap(err, "updating session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return repo.GetSession(lectureID)
}

func (repo *attendanceRepository) CreateRecord(rec attendance.Record) (attendance.Record, error) {
	_, err := repo.db.Exec(
		`INSERT INTO attendance_record (lecture_id, student_id, ts, verified) VALUES ($1, $2, $3, $4)`,
		rec.LectureID, rec.StudentID, rec.Timestamp, rec.Verified,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
		return attendance.Record{}, errors.Wrap(err, "inserting record")
	}
	return rec, nil
}

func (repo *attendanceRepository) GetRecord(lectureID string, studentID identity.ID) (attendance.Record, error) {
	var rec attendance.Record
	err := repo.db.QueryRow(
		`SELECT lecture_id, student_id, ts, verified FROM attendance_record WHERE lecture_id = $1 AND student_id = $2`,
		lectureID, studentID,
	).Scan(&rec.LectureID, &rec.StudentID, &rec.Timestamp, &rec.Verified)
	if err != nil {
		if isNoRows(err) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "selecting record")
	}
	return rec, nil
}

func (repo *attendanceRepository) HasRecord(lectureID string, studentID identity.ID) (bool, error) {
	var exists bool
	err := repo.db.Get(&exists,
		`SELECT EXISTS (SELECT 1 FROM attendance_record WHERE lecture_id = $1 AND student_id = $2)`,
		lectureID, studentID,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking record")
	}
	return exists, nil
}

// LectureAttendees derives the attendee list from the records themselves,
// ordered by marking time.
func (repo *attendanceRepository) LectureAttendees(lectureID string) ([]identity.ID, error) {
	raw := []string{}
	err := repo.db.Select(&raw, `SELECT student_id FROM attendance_record WHERE lecture_id = $1 ORDER BY ts`, lectureID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting attendees")
	}
	ids := make([]identity.ID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, identity.ID(id))
	}
	return ids, nil
}
