package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/luminalearn/lumina/core/coursework"
	"github.com/luminalearn/lumina/core/identity"
)

type courseworkRepository struct {
	db *sqlx.DB
}

var _ coursework.Repository = (*courseworkRepository)(nil) // interface compliance check

func NewCourseworkRepository(db *sqlx.DB) coursework.Repository {
	return &courseworkRepository{db: db}
}

type submissionRow struct {
	CourseID     string      `db:"course_id"`
	AssignmentID string      `db:"assignment_id"`
	StudentID    string      `db:"student_id"`
	Content      string      `db:"content"`
	SubmittedAt  time.Time   `db:"submitted_at"`
	Score        null.Int    `db:"score"`
	Feedback     null.String `db:"feedback"`
}

func (row submissionRow) submission() coursework.Submission {
	sub := coursework.Submission{
		CourseID:     row.CourseID,
		AssignmentID: row.AssignmentID,
		StudentID:    identity.ID(row.StudentID),
		Content:      row.Content,
		SubmittedAt:  row.SubmittedAt,
	}
	if row.Score.Valid {
		sub.Grade = &coursework.Grade{Score: row.Score.Int, Feedback: row.Feedback.String}
	}
	return sub
}

func (repo *courseworkRepository) PutSubmission(sub coursework.Submission) (coursework.Submission, error) {
	score := null.IntFromPtr(nil)
	feedback := null.StringFromPtr(nil)
	if sub.Grade != nil {
		score = null.IntFrom(sub.Grade.Score)
		feedback = null.StringFrom(sub.Grade.Feedback)
	}
	_, err := repo.db.Exec(
		`INSERT INTO submission (course_id, assignment_id, student_id, content, submitted_at, score, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (course_id, assignment_id, student_id)
		 DO UPDATE SET content = EXCLUDED.content, submitted_at = EXCLUDED.submitted_at,
		               score = EXCLUDED.score, feedback = EXCLUDED.feedback`,
		sub.CourseID, sub.AssignmentID, sub.StudentID, sub.Content, sub.SubmittedAt, score, feedback,
	)
	if err != nil {
		return coursework.Submission{}, errors.Wrap(err, "upserting submission")
	}
	return sub, nil
}

func (repo *courseworkRepository) GetSubmission(courseID, assignmentID string, studentID identity.ID) (coursework.Submission, error) {
	var row submissionRow
	err := repo.db.Get(&row,
		`SELECT course_id, assignment_id, student_id, content, submitted_at, score, feedback
		 FROM submission WHERE course_id = $1 AND assignment_id = $2 AND student_id = $3`,
		courseID, assignmentID, studentID,
	)
	if err != nil {
		if isNoRows(err) {
			return coursework.Submission{}, coursework.ErrSubmissionNotFound
		}
		return coursework.Submission{}, errors.Wrap(err, "selecting submission")
	}
	return row.submission(), nil
}

func (repo *courseworkRepository) SetGrade(courseID, assignmentID string, studentID identity.ID, grade coursework.Grade) (coursework.Submission, error) {
	res, err := repo.db.Exec(
		`UPDATE submission SET score = $1, feedback = $2
		 WHERE course_id = $3 AND assignment_id = $4 AND student_id = $5`,
		grade.Score, grade.Feedback, courseID, assignmentID, studentID,
	)
	if err != nil {
		return coursework.Submission{}, errors.Wrap(err, "updating grade")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return coursework.Submission{}, coursework.ErrSubmissionNotFound
	}
	return repo.GetSubmission(courseID, assignmentID, studentID)
}
