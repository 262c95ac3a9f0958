package attendance

import (
	"time"

	"github.com/luminalearn/lumina/core/identity"
)

// Session is a lecture's time-boxed verification window. A lecture has a
// single session slot, reused across time: starting a new session
// overwrites the previous one. Expiry is never stored; it is computed on
// read against EndTime.
type Session struct {
	LectureID string    `json:"lecture_id"`
	Token     string    `json:"-"` // session-scoped secret, never exposed on a read path
	StartTime time.Time `json:"start_time"` // UTC
	EndTime   time.Time `json:"end_time"`   // UTC
	IsActive  bool      `json:"is_active"`
}

// Expired reports the session's logical expiry at the given instant.
// The deadline itself is still inside the window.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.EndTime)
}

// Record is a student's attendance for a lecture. Created exactly once,
// never overwritten. Verified is false for teacher-issued manual marks.
type Record struct {
	LectureID string      `json:"lecture_id"`
	StudentID identity.ID `json:"student_id"`
	Timestamp time.Time   `json:"timestamp"` // UTC
	Verified  bool        `json:"verified"`
}

// Stats aggregates a student's attendance across a course's lectures.
type Stats struct {
	Attended int `json:"attended"`
	Total    int `json:"total"`
}
