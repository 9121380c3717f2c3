package query

import (
	"context"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST COURSES QUERY
// ══════════════════════════════════════════════════════════════════════════════

// CourseDTO is the transport view of a course.
type CourseDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	DurationYears int    `json:"duration_years"`
}

// CourseReader is the repository surface the course queries need.
type CourseReader interface {
	GetByID(ctx context.Context, id string) (*catalog.Course, error)
	List(ctx context.Context) ([]*catalog.Course, error)
}

// ListCoursesHandler handles course listings.
type ListCoursesHandler struct {
	courses CourseReader
}

// NewListCoursesHandler creates a new course listing handler.
func NewListCoursesHandler(courses CourseReader) *ListCoursesHandler {
	return &ListCoursesHandler{courses: courses}
}

// Handle lists all courses.
func (h *ListCoursesHandler) Handle(ctx context.Context) ([]CourseDTO, error) {
	courses, err := h.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]CourseDTO, len(courses))
	for i, c := range courses {
		dtos[i] = ToCourseDTO(c)
	}
	return dtos, nil
}

// ToCourseDTO maps a course to its transport view.
func ToCourseDTO(c *catalog.Course) CourseDTO {
	return CourseDTO{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		DurationYears: c.DurationYears,
	}
}
