package dummydb

import (
	"sync"

	"github.com/luminalearn/lumina/core/attendance"
	"github.com/luminalearn/lumina/core/catalog"
	"github.com/luminalearn/lumina/core/coursework"
	"github.com/luminalearn/lumina/core/identity"
)

type (
	DB struct {
		identity   *identityTable
		catalog    *catalogTable
		enrollment *enrollmentTable
		coursework *courseworkTable
		attendance *attendanceTable
	}

	identityTable struct {
		sync.RWMutex
		accounts map[identity.ID]*identity.Account
		admin    identity.ID
		teachers map[identity.ID]bool
		students map[identity.ID]bool
	}

	catalogTable struct {
		sync.RWMutex
		courses           map[string]*catalog.Course
		lectures          map[string]*catalog.Lecture
		assignments       map[assignmentKey]*catalog.Assignment
		courseLectures    map[string][]string
		courseAssignments map[string][]string
	}

	enrollmentTable struct {
		sync.RWMutex
		studentCourses map[identity.ID][]string
		courseStudents map[string][]identity.ID
	}

	courseworkTable struct {
		sync.RWMutex
		submissions map[submissionKey]*coursework.Submission
	}

	attendanceTable struct {
		sync.RWMutex
		sessions  map[string]*attendance.Session
		records   map[recordKey]*attendance.Record
		attendees map[string][]identity.ID
	}

	assignmentKey struct {
		courseID string
		id       string
	}

	submissionKey struct {
		courseID     string
		assignmentID string
		studentID    identity.ID
	}

	recordKey struct {
		lectureID string
		studentID identity.ID
	}
)

func Open() (*DB, error) {
	db := &DB{
		identity: &identityTable{
			accounts: make(map[identity.ID]*identity.Account),
			teachers: make(map[identity.ID]bool),
			students: make(map[identity.ID]bool),
		},
		catalog: &catalogTable{
			courses:           make(map[string]*catalog.Course),
			lectures:          make(map[string]*catalog.Lecture),
			assignments:       make(map[assignmentKey]*catalog.Assignment),
			courseLectures:    make(map[string][]string),
			courseAssignments: make(map[string][]string),
		},
		enrollment: &enrollmentTable{
			studentCourses: make(map[identity.ID][]string),
			courseStudents: make(map[string][]identity.ID),
		},
		coursework: &courseworkTable{
			submissions: make(map[submissionKey]*coursework.Submission),
		},
		attendance: &attendanceTable{
			sessions:  make(map[string]*attendance.Session),
			records:   make(map[recordKey]*attendance.Record),
			attendees: make(map[string][]identity.ID),
		},
	}
	return db, nil
}

// appendUniqueStr is the idempotent set-append used by every list-shaped
// index in this package: child-id lists, enrollment lists, attendee lists.
func appendUniqueStr(list []string, v string) []string {
	for _, elem := range list {
		if elem == v {
			return list
		}
	}
	return append(list, v)
}

func appendUniqueID(list []identity.ID, v identity.ID) []identity.ID {
	for _, elem := range list {
		if elem == v {
			return list
		}
	}
	return append(list, v)
}

func containsStr(list []string, v string) bool {
	for _, elem := range list {
		if elem == v {
			return true
		}
	}
	return false
}
