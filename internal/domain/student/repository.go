package student

import (
	"context"

	"github.com/unihub/college-match-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Contracts for the persistence layer. Implementations live in
// infrastructure/persistence.
// ═══════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for student records.
type Repository interface {
	// Create creates a new student record.
	// Returns ErrStudentAlreadyExists when the email is taken.
	Create(ctx context.Context, record *StudentRecord) error

	// GetByID returns a student with marks and preferences loaded.
	// Returns ErrStudentNotFound when no such student exists.
	GetByID(ctx context.Context, id string) (*StudentRecord, error)

	// GetByEmail returns a student by login email.
	// Returns ErrStudentNotFound when no such student exists.
	GetByEmail(ctx context.Context, email string) (*StudentRecord, error)

	// Update persists profile fields, preferences, and the refresh token.
	// Returns ErrStudentNotFound when no such student exists.
	Update(ctx context.Context, record *StudentRecord) error

	// UpdateGPA persists only the stored GPA. This is the single write the
	// admission engine triggers; it is a read-modify-write that callers must
	// serialize per student (see command.RecomputeGPAHandler).
	UpdateGPA(ctx context.Context, id string, gpa shared.GPA) error

	// Delete removes a student record.
	Delete(ctx context.Context, id string) error

	// List returns students with pagination (admin views).
	List(ctx context.Context, page shared.Pagination) ([]*StudentRecord, error)

	// Count returns the total number of students.
	Count(ctx context.Context) (int, error)
}

// MarkRepository defines storage operations for subject marks.
type MarkRepository interface {
	// Add stores a new mark for its owning student.
	Add(ctx context.Context, mark *Mark) error

	// GetByID returns a mark by its identifier.
	// Returns ErrMarkNotFound when no such mark exists.
	GetByID(ctx context.Context, id string) (*Mark, error)

	// ListByStudent returns all marks owned by a student.
	ListByStudent(ctx context.Context, studentID string) ([]Mark, error)

	// Update replaces the grade fields of an existing mark.
	Update(ctx context.Context, mark *Mark) error

	// Remove deletes a mark.
	// Returns ErrMarkNotFound when no such mark exists.
	Remove(ctx context.Context, id string) error
}
