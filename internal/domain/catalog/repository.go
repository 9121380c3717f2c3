package catalog

import (
	"context"

	"github.com/unihub/college-match-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Contracts for the persistence layer. Implementations live in
// infrastructure/persistence. Readers must return colleges with their
// offered programs and course references already resolved - the admission
// engine never performs extra round trips per program.
// ═══════════════════════════════════════════════════════════════════════════

// Filter narrows college listings.
type Filter struct {
	// Location - case-insensitive substring match on the college location.
	// Empty means no location filtering.
	Location string
}

// CollegeRepository defines storage operations for colleges.
type CollegeRepository interface {
	// Create stores a new college with its programs and requirements.
	Create(ctx context.Context, college *College) error

	// GetByID returns a college with programs resolved.
	// Returns ErrCollegeNotFound when no such college exists.
	GetByID(ctx context.Context, id string) (*College, error)

	// List returns colleges matching the filter, in catalog order,
	// with programs resolved.
	List(ctx context.Context, filter Filter, page shared.Pagination) ([]*College, error)

	// ListAll returns the full catalog in catalog order. The matching
	// engine evaluates every college, so no pagination here.
	ListAll(ctx context.Context) ([]*College, error)

	// Update replaces a college and its program list.
	// Returns ErrCollegeNotFound when no such college exists.
	Update(ctx context.Context, college *College) error

	// Delete removes a college and its programs.
	Delete(ctx context.Context, id string) error

	// Count returns the number of colleges matching the filter.
	Count(ctx context.Context, filter Filter) (int, error)
}

// CourseRepository defines storage operations for courses.
type CourseRepository interface {
	// Create stores a new course.
	Create(ctx context.Context, course *Course) error

	// GetByID returns a course.
	// Returns ErrCourseNotFound when no such course exists.
	GetByID(ctx context.Context, id string) (*Course, error)

	// List returns all courses.
	List(ctx context.Context) ([]*Course, error)

	// Update replaces a course.
	// Returns ErrCourseNotFound when no such course exists.
	Update(ctx context.Context, course *Course) error

	// Delete removes a course.
	Delete(ctx context.Context, id string) error
}

// CollegeCache caches the resolved college catalog. Catalog data is
// read-mostly, so a TTL-bound cache in front of the repository is the one
// place caching is allowed; the admission engine itself holds no cache and
// recomputes on every call.
type CollegeCache interface {
	// GetAll returns the cached catalog, or a cache-miss error.
	GetAll(ctx context.Context) ([]*College, error)

	// SetAll stores the catalog snapshot.
	SetAll(ctx context.Context, colleges []*College) error

	// Invalidate drops the cached catalog (called on catalog writes).
	Invalidate(ctx context.Context) error
}
