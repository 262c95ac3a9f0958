package dummydb

import (
	"github.com/luminalearn/lumina/core/coursework"
	"github.com/luminalearn/lumina/core/identity"
)

type courseworkRepository struct {
	db *courseworkTable
}

var _ coursework.Repository = (*courseworkRepository)(nil) // interface compliance check

func NewCourseworkRepository(db *DB) coursework.Repository {
	return &courseworkRepository{db: db.coursework}
}

func (repo *courseworkRepository) PutSubmission(sub coursework.Submission) (coursework.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := submissionKey{courseID: sub.CourseID, assignmentID: sub.AssignmentID, studentID: sub.StudentID}
	repo.db.submissions[key] = &sub
	return sub, nil
}

func (repo *courseworkRepository) GetSubmission(courseID, assignmentID string, studentID identity.ID) (coursework.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	key := submissionKey{courseID: courseID, assignmentID: assignmentID, studentID: studentID}
	if sub, ok := repo.db.submissions[key]; ok {
		return *sub, nil
	}
	return coursework.Submission{}, coursework.ErrSubmissionNotFound
}

func (repo *courseworkRepository) SetGrade(courseID, assignmentID string, studentID identity.ID, grade coursework.Grade) (coursework.Submission, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := submissionKey{courseID: courseID, assignmentID: assignmentID, studentID: studentID}
	sub, ok := repo.db.submissions[key]
	if !ok {
		return coursework.Submission{}, coursework.ErrSubmissionNotFound
	}
	sub.Grade = &grade
	return *sub, nil
}
