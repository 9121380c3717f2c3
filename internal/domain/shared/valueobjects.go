// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"math"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// GPA Value Object
// ═══════════════════════════════════════════════════════════════════════════

// GPA represents a grade-point average on the 0.0-4.0 scale used by the
// SEE (Secondary Education Examination) grading system.
type GPA float64

const (
	MinGPA GPA = 0.0
	MaxGPA GPA = 4.0
)

// IsValid checks if the GPA is within the 0.0-4.0 scale.
func (g GPA) IsValid() bool {
	return g >= MinGPA && g <= MaxGPA
}

// Float64 returns the underlying float64 value.
func (g GPA) Float64() float64 {
	return float64(g)
}

// String returns the GPA formatted to two decimal places.
func (g GPA) String() string {
	return fmt.Sprintf("%.2f", float64(g))
}

// Percentage converts the GPA to a percentage on the 0-100 scale.
func (g GPA) Percentage() float64 {
	return float64(g) / float64(MaxGPA) * 100
}

// NewGPA creates a new GPA with validation.
func NewGPA(value float64) (GPA, error) {
	g := GPA(value)
	if !g.IsValid() {
		return 0, NewDomainError("shared", "NewGPA", ErrValueOutOfRange, "GPA must be between 0.0 and 4.0")
	}
	return g, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TotalMarks Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TotalMarks represents an aggregate examination score out of FullMarks
// (the SEE total of 500).
type TotalMarks float64

// FullMarks is the maximum aggregate score a student can obtain.
const FullMarks TotalMarks = 500

// IsValid checks if the total marks value is within range.
func (t TotalMarks) IsValid() bool {
	return t >= 0 && t <= FullMarks
}

// Float64 returns the underlying float64 value.
func (t TotalMarks) Float64() float64 {
	return float64(t)
}

// ToGPA converts the total marks to the equivalent GPA using the fixed
// linear scale gpa = totalMarks/500 * 4.0.
func (t TotalMarks) ToGPA() GPA {
	return GPA(float64(t) / float64(FullMarks) * float64(MaxGPA))
}

// NewTotalMarks creates a new TotalMarks with validation.
func NewTotalMarks(value float64) (TotalMarks, error) {
	t := TotalMarks(value)
	if !t.IsValid() {
		return 0, NewDomainError("shared", "NewTotalMarks", ErrValueOutOfRange, "total marks must be between 0 and 500")
	}
	return t, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Subject Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Subject is the case-insensitive identity of an examination subject.
// All comparisons between student marks and program requirements go through
// Key() so the evaluator and the analytics aggregator can never disagree
// about subject identity.
type Subject string

// Key returns the normalized comparison key: trimmed and lower-cased.
func (s Subject) Key() string {
	return strings.ToLower(strings.TrimSpace(string(s)))
}

// String returns the display form of the subject.
func (s Subject) String() string {
	return string(s)
}

// Equals compares two subjects by normalized key.
func (s Subject) Equals(other Subject) bool {
	return s.Key() == other.Key()
}

// IsValid checks the subject name is non-empty after normalization.
func (s Subject) IsValid() bool {
	return s.Key() != ""
}

// NewSubject creates a Subject with validation, preserving display casing.
func NewSubject(name string) (Subject, error) {
	s := Subject(strings.TrimSpace(name))
	if !s.IsValid() {
		return "", NewDomainError("shared", "NewSubject", ErrEmptyValue, "subject name cannot be empty")
	}
	return s, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// GradeLetter Value Object
// ═══════════════════════════════════════════════════════════════════════════

// GradeLetter is a display label for a grade point (A+, A, B+, ...).
type GradeLetter string

// GradeLetterFor maps a grade point onto the NEB letter-grade ladder.
// The label is display-only; all arithmetic uses the grade point.
func GradeLetterFor(gradePoint float64) GradeLetter {
	switch {
	case gradePoint >= 3.6:
		return "A+"
	case gradePoint >= 3.2:
		return "A"
	case gradePoint >= 2.8:
		return "B+"
	case gradePoint >= 2.4:
		return "B"
	case gradePoint >= 2.0:
		return "C+"
	case gradePoint >= 1.6:
		return "C"
	case gradePoint >= 1.2:
		return "D+"
	case gradePoint >= 0.8:
		return "D"
	default:
		return "E"
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Score Helpers
// ═══════════════════════════════════════════════════════════════════════════

// RoundScore rounds a 0-100 score to the nearest integer.
func RoundScore(value float64) int {
	return int(math.Round(value))
}

// ClampScore clamps a score into [0, 100].
func ClampScore(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters for list queries.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// DefaultPagination returns default pagination.
func DefaultPagination() Pagination {
	return NewPagination(1, DefaultPageSize)
}
