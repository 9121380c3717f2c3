// Package catalog contains the reference data of College Match Hub:
// courses, colleges, and the admission programs colleges offer. Catalog data
// is read-mostly; the admission engine consumes it as an immutable snapshot.
package catalog

import (
	"strings"
	"time"

	"github.com/unihub/college-match-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// COURSE
// ═══════════════════════════════════════════════════════════════════════════

// Course is immutable reference data describing a study stream
// (Science, Management, Humanities, ...).
type Course struct {
	// ID - unique identifier (UUID).
	ID string

	// Name - course name.
	Name string

	// Description - optional free-text description.
	Description string

	// DurationYears - program length in years.
	DurationYears int

	CreatedAt time.Time
}

// NewCourse creates a course with validation. Duration defaults to the
// two-year +2 program when not given.
func NewCourse(id, name, description string, durationYears int) (*Course, error) {
	if id == "" {
		return nil, shared.NewDomainError("catalog", "NewCourse", shared.ErrInvalidID, "course id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("catalog", "NewCourse", shared.ErrEmptyValue, "course name is required")
	}
	if durationYears < 0 {
		return nil, shared.NewDomainError("catalog", "NewCourse", shared.ErrNegativeValue, "duration cannot be negative")
	}
	if durationYears == 0 {
		durationYears = 2
	}

	return &Course{
		ID:            id,
		Name:          strings.TrimSpace(name),
		Description:   strings.TrimSpace(description),
		DurationYears: durationYears,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// SUBJECT REQUIREMENT
// ═══════════════════════════════════════════════════════════════════════════

// SubjectRequirement is a per-subject admission threshold inside an offered
// program: the student's mark in Subject must reach MinGradePoint.
type SubjectRequirement struct {
	// Subject - case-insensitive subject identity.
	Subject shared.Subject

	// MinGrade - display label of the threshold (B, C+, ...).
	MinGrade string

	// MinGradePoint - threshold on the 0.0-4.0 scale.
	MinGradePoint float64
}

// NewSubjectRequirement creates a requirement with validation.
func NewSubjectRequirement(subject, minGrade string, minGradePoint float64) (SubjectRequirement, error) {
	subj, err := shared.NewSubject(subject)
	if err != nil {
		return SubjectRequirement{}, err
	}
	if minGradePoint < 0 || minGradePoint > float64(shared.MaxGPA) {
		return SubjectRequirement{}, shared.NewDomainError("catalog", "NewSubjectRequirement",
			shared.ErrValueOutOfRange, "minimum grade point must be between 0.0 and 4.0")
	}

	label := strings.TrimSpace(minGrade)
	if label == "" {
		label = string(shared.GradeLetterFor(minGradePoint))
	}

	return SubjectRequirement{
		Subject:       subj,
		MinGrade:      label,
		MinGradePoint: minGradePoint,
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// OFFERED PROGRAM
// ═══════════════════════════════════════════════════════════════════════════

// OfferedProgram is a college's admission track for one course, carrying its
// own GPA floor and subject thresholds. The requirement list may be empty
// (GPA-only admission). It is owned by exactly one college.
type OfferedProgram struct {
	// ID - unique identifier (UUID).
	ID string

	// Course - the referenced course, resolved. One-way reference; a course
	// never points back at programs.
	Course Course

	// MinimumGPA - the GPA floor. Must be strictly positive: a zero floor
	// would divide the match percentage by zero, so it is rejected at
	// write time and defended against again in the evaluator.
	MinimumGPA float64

	// SubjectRequirements - ordered per-subject thresholds.
	SubjectRequirements []SubjectRequirement
}

// NewOfferedProgram creates a program with validation.
func NewOfferedProgram(id string, course Course, minimumGPA float64, requirements []SubjectRequirement) (*OfferedProgram, error) {
	if id == "" {
		return nil, shared.NewDomainError("catalog", "NewOfferedProgram", shared.ErrInvalidID, "program id is required")
	}
	if course.ID == "" {
		return nil, shared.ErrCourseNotFound
	}
	if minimumGPA <= 0 {
		return nil, shared.ErrInvalidMinimumGPA
	}
	if minimumGPA > float64(shared.MaxGPA) {
		return nil, shared.NewDomainError("catalog", "NewOfferedProgram",
			shared.ErrValueOutOfRange, "minimum GPA cannot exceed 4.0")
	}

	return &OfferedProgram{
		ID:                  id,
		Course:              course,
		MinimumGPA:          minimumGPA,
		SubjectRequirements: requirements,
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// COLLEGE
// ═══════════════════════════════════════════════════════════════════════════

// Contact holds college contact information.
type Contact struct {
	Phone string
	Email string
}

// College is the aggregate root for a catalog entry: the institution and the
// ordered list of programs it offers.
type College struct {
	// ID - unique identifier (UUID).
	ID string

	// Name - institution name.
	Name string

	// Location - free-text location, matched by substring in search.
	Location string

	// Contact - contact information.
	Contact Contact

	// Programs - ordered offered programs. The order is preserved all the
	// way into ranked output so stable sorting keeps catalog order on ties.
	Programs []OfferedProgram

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCollege creates a college with validation.
func NewCollege(id, name, location string, contact Contact, programs []OfferedProgram) (*College, error) {
	if id == "" {
		return nil, shared.NewDomainError("catalog", "NewCollege", shared.ErrInvalidID, "college id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("catalog", "NewCollege", shared.ErrEmptyValue, "college name is required")
	}
	if strings.TrimSpace(location) == "" {
		return nil, shared.NewDomainError("catalog", "NewCollege", shared.ErrEmptyValue, "college location is required")
	}

	now := time.Now().UTC()

	return &College{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Location:  strings.TrimSpace(location),
		Contact:   contact,
		Programs:  programs,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MatchesLocation reports whether the college location contains the query
// substring, compared case-insensitively. An empty query matches everything.
func (c *College) MatchesLocation(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Location), q)
}
