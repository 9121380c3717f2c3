package query

import (
	"context"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST / GET COLLEGES QUERIES
// Plain catalog reads: location substring filter plus pagination, and a
// single college fetch. No eligibility computation here.
// ══════════════════════════════════════════════════════════════════════════════

// ListCollegesQuery filters and paginates the catalog.
type ListCollegesQuery struct {
	Location string
	Page     int
	PageSize int
}

// CollegeDTO is the catalog view of a college.
type CollegeDTO struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Location string       `json:"location"`
	Phone    string       `json:"phone,omitempty"`
	Email    string       `json:"email,omitempty"`
	Programs []ProgramDTO `json:"offered_programs"`
}

// ProgramDTO is the catalog view of an offered program.
type ProgramDTO struct {
	ID           string           `json:"id"`
	CourseID     string           `json:"course_id"`
	CourseName   string           `json:"course_name"`
	MinimumGPA   float64          `json:"minimum_gpa"`
	Requirements []RequirementDTO `json:"subject_requirements"`
}

// RequirementDTO is the catalog view of a subject requirement.
type RequirementDTO struct {
	Subject       string  `json:"subject"`
	MinGrade      string  `json:"min_grade"`
	MinGradePoint float64 `json:"min_grade_point"`
}

// ListCollegesResult is the paginated catalog listing.
type ListCollegesResult struct {
	Colleges   []CollegeDTO `json:"colleges"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}

// CollegeCatalog is the repository surface the catalog queries need.
type CollegeCatalog interface {
	GetByID(ctx context.Context, id string) (*catalog.College, error)
	List(ctx context.Context, filter catalog.Filter, page shared.Pagination) ([]*catalog.College, error)
	Count(ctx context.Context, filter catalog.Filter) (int, error)
}

// ListCollegesHandler handles catalog listings.
type ListCollegesHandler struct {
	colleges CollegeCatalog
}

// NewListCollegesHandler creates a new catalog listing handler.
func NewListCollegesHandler(colleges CollegeCatalog) *ListCollegesHandler {
	return &ListCollegesHandler{colleges: colleges}
}

// Handle lists colleges matching the optional location substring.
func (h *ListCollegesHandler) Handle(ctx context.Context, q ListCollegesQuery) (*ListCollegesResult, error) {
	filter := catalog.Filter{Location: q.Location}
	page := shared.NewPagination(q.Page, q.PageSize)

	colleges, err := h.colleges.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	total, err := h.colleges.Count(ctx, filter)
	if err != nil {
		total = len(colleges)
	}

	dtos := make([]CollegeDTO, len(colleges))
	for i, c := range colleges {
		dtos[i] = ToCollegeDTO(c)
	}

	return &ListCollegesResult{
		Colleges:   dtos,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.Limit(),
	}, nil
}

// GetCollegeHandler handles single college fetches.
type GetCollegeHandler struct {
	colleges CollegeCatalog
}

// NewGetCollegeHandler creates a new college fetch handler.
func NewGetCollegeHandler(colleges CollegeCatalog) *GetCollegeHandler {
	return &GetCollegeHandler{colleges: colleges}
}

// Handle fetches one college by ID.
func (h *GetCollegeHandler) Handle(ctx context.Context, id string) (*CollegeDTO, error) {
	college, err := h.colleges.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToCollegeDTO(college)
	return &dto, nil
}

// ToCollegeDTO converts a catalog aggregate to its transport view.
func ToCollegeDTO(c *catalog.College) CollegeDTO {
	programs := make([]ProgramDTO, len(c.Programs))
	for i, p := range c.Programs {
		reqs := make([]RequirementDTO, len(p.SubjectRequirements))
		for j, r := range p.SubjectRequirements {
			reqs[j] = RequirementDTO{
				Subject:       r.Subject.String(),
				MinGrade:      r.MinGrade,
				MinGradePoint: r.MinGradePoint,
			}
		}
		programs[i] = ProgramDTO{
			ID:           p.ID,
			CourseID:     p.Course.ID,
			CourseName:   p.Course.Name,
			MinimumGPA:   p.MinimumGPA,
			Requirements: reqs,
		}
	}
	return CollegeDTO{
		ID:       c.ID,
		Name:     c.Name,
		Location: c.Location,
		Phone:    c.Contact.Phone,
		Email:    c.Contact.Email,
		Programs: programs,
	}
}
