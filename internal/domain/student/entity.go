// Package student contains the student aggregate: the academic record a
// student builds up (GPA, total marks, per-subject marks) together with the
// stated course and college preferences used by the recommendation ranker.
// This is core business logic - no external dependencies beyond the shared
// domain package.
package student

import (
	"strings"
	"time"

	"github.com/unihub/college-match-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ENUMS
// ═══════════════════════════════════════════════════════════════════════════

// Role defines the access role of an account.
type Role string

const (
	// RoleStudent - a regular student account.
	RoleStudent Role = "student"
	// RoleAdmin - an administrator managing the catalog.
	RoleAdmin Role = "admin"
)

// IsValid checks the role value.
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// ═══════════════════════════════════════════════════════════════════════════
// MARK
// ═══════════════════════════════════════════════════════════════════════════

// Mark is a single subject grade owned by exactly one student. It is created
// when a grade is recorded and removed when it is retracted.
type Mark struct {
	// ID - unique identifier (UUID).
	ID string

	// StudentID - owning student.
	StudentID string

	// Subject - case-insensitive subject identity.
	Subject shared.Subject

	// Grade - display label (A+, B, C+, ...).
	Grade string

	// GradePoint - grade point on the 0.0-4.0 scale.
	GradePoint float64

	// RecordedAt - when the grade was recorded.
	RecordedAt time.Time
}

// NewMarkParams holds parameters for creating a mark.
type NewMarkParams struct {
	ID         string
	StudentID  string
	Subject    string
	Grade      string
	GradePoint float64
}

// NewMark creates a new mark with validation. When the grade label is
// omitted it is derived from the grade point.
func NewMark(params NewMarkParams) (*Mark, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("student", "NewMark", shared.ErrInvalidID, "mark id is required")
	}
	if params.StudentID == "" {
		return nil, shared.NewDomainError("student", "NewMark", shared.ErrInvalidID, "student id is required")
	}

	subject, err := shared.NewSubject(params.Subject)
	if err != nil {
		return nil, err
	}

	if params.GradePoint < 0 || params.GradePoint > float64(shared.MaxGPA) {
		return nil, shared.ErrInvalidGradePoint
	}

	grade := strings.TrimSpace(params.Grade)
	if grade == "" {
		grade = string(shared.GradeLetterFor(params.GradePoint))
	}

	return &Mark{
		ID:         params.ID,
		StudentID:  params.StudentID,
		Subject:    subject,
		Grade:      grade,
		GradePoint: params.GradePoint,
		RecordedAt: time.Now().UTC(),
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// PREFERENCES
// ═══════════════════════════════════════════════════════════════════════════

// Preferences holds the course and college identifiers a student has marked
// as preferred. Order is irrelevant; membership is what the ranker reads.
type Preferences struct {
	// CourseIDs - preferred course identifiers.
	CourseIDs []string

	// CollegeIDs - preferred college identifiers.
	CollegeIDs []string
}

// PrefersCourse reports whether the course is among the preferred ones.
func (p Preferences) PrefersCourse(courseID string) bool {
	for _, id := range p.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// PrefersCollege reports whether the college is among the preferred ones.
func (p Preferences) PrefersCollege(collegeID string) bool {
	for _, id := range p.CollegeIDs {
		if id == collegeID {
			return true
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════════════════════
// STUDENT RECORD
// ═══════════════════════════════════════════════════════════════════════════

// StudentRecord is the aggregate root for a student account and academic
// record. GPA and TotalMarks are both stored; when both are present they are
// not reconciled automatically - the caller chooses which is authoritative
// per request (see admission.EffectiveGPA).
type StudentRecord struct {
	// ID - unique identifier (UUID).
	ID string

	// Name - display name.
	Name string

	// Email - unique login email.
	Email string

	// Phone - optional contact phone.
	Phone string

	// Role - account role.
	Role Role

	// PasswordHash - bcrypt hash of the password.
	PasswordHash string

	// RefreshToken - current refresh token (empty when logged out).
	RefreshToken string

	// GPA - overall grade-point average (0.0-4.0).
	GPA shared.GPA

	// TotalMarks - aggregate SEE score out of 500.
	TotalMarks shared.TotalMarks

	// Marks - recorded subject marks. Order is irrelevant.
	Marks []Mark

	// Preferences - preferred courses and colleges.
	Preferences Preferences

	// CreatedAt / UpdatedAt - lifecycle timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStudentParams holds parameters for creating a student record.
type NewStudentParams struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	GPA          float64
	TotalMarks   float64
}

// NewStudent creates a new student record with validation.
func NewStudent(params NewStudentParams) (*StudentRecord, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("student", "New", shared.ErrInvalidID, "student id is required")
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, shared.NewDomainError("student", "New", shared.ErrEmptyValue, "name is required")
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("student", "New", shared.ErrInvalidFormat, "a valid email is required")
	}

	if params.PasswordHash == "" {
		return nil, shared.NewDomainError("student", "New", shared.ErrEmptyValue, "password hash is required")
	}

	gpa, err := shared.NewGPA(params.GPA)
	if err != nil {
		return nil, err
	}

	totalMarks, err := shared.NewTotalMarks(params.TotalMarks)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &StudentRecord{
		ID:           params.ID,
		Name:         strings.TrimSpace(params.Name),
		Email:        email,
		Phone:        strings.TrimSpace(params.Phone),
		Role:         RoleStudent,
		PasswordHash: params.PasswordHash,
		GPA:          gpa,
		TotalMarks:   totalMarks,
		Marks:        nil,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// MarkBySubject returns the mark for the given subject, compared
// case-insensitively, or nil when no such mark exists.
func (s *StudentRecord) MarkBySubject(subject shared.Subject) *Mark {
	key := subject.Key()
	for i := range s.Marks {
		if s.Marks[i].Subject.Key() == key {
			return &s.Marks[i]
		}
	}
	return nil
}

// AddMark attaches a mark to the record. A second mark for the same subject
// is rejected so the evaluator always sees one grade per subject.
func (s *StudentRecord) AddMark(mark *Mark) error {
	if mark == nil {
		return shared.NewDomainError("student", "AddMark", shared.ErrInvalidInput, "mark is nil")
	}
	if existing := s.MarkBySubject(mark.Subject); existing != nil {
		return shared.ErrDuplicateSubjectMark
	}
	s.Marks = append(s.Marks, *mark)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveMark detaches a mark by ID. Returns ErrMarkNotFound when the record
// holds no such mark.
func (s *StudentRecord) RemoveMark(markID string) error {
	for i := range s.Marks {
		if s.Marks[i].ID == markID {
			s.Marks = append(s.Marks[:i], s.Marks[i+1:]...)
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return shared.ErrMarkNotFound
}

// SetGPA stores a recomputed GPA on the record.
func (s *StudentRecord) SetGPA(gpa shared.GPA) error {
	if !gpa.IsValid() {
		return shared.NewDomainError("student", "SetGPA", shared.ErrValueOutOfRange, "GPA must be between 0.0 and 4.0")
	}
	s.GPA = gpa
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPreferences replaces the stated preferences.
func (s *StudentRecord) SetPreferences(prefs Preferences) {
	s.Preferences = prefs
	s.UpdatedAt = time.Now().UTC()
}

// IsAdmin reports whether the account may manage the catalog.
func (s *StudentRecord) IsAdmin() bool {
	return s.Role == RoleAdmin
}
