package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG ADMIN COMMANDS
// College and course maintenance. Every write publishes a catalog-changed
// event so the cached catalog snapshot is invalidated.
// ══════════════════════════════════════════════════════════════════════════════

// ProgramInput describes one offered program in a college write.
type ProgramInput struct {
	CourseID            string
	MinimumGPA          float64
	SubjectRequirements []RequirementInput
}

// RequirementInput describes one subject requirement in a program write.
type RequirementInput struct {
	Subject       string
	MinGrade      string
	MinGradePoint float64
}

// SaveCollegeCommand creates or replaces a college. ID empty means create.
type SaveCollegeCommand struct {
	ID       string
	Name     string
	Location string
	Phone    string
	Email    string
	Programs []ProgramInput
}

// ManageCatalogHandler handles catalog writes.
type ManageCatalogHandler struct {
	colleges catalog.CollegeRepository
	courses  catalog.CourseRepository
	events   EventPublisher
}

// NewManageCatalogHandler creates a new catalog admin handler.
func NewManageCatalogHandler(colleges catalog.CollegeRepository, courses catalog.CourseRepository, events EventPublisher) *ManageCatalogHandler {
	return &ManageCatalogHandler{colleges: colleges, courses: courses, events: events}
}

// SaveCollege validates and stores a college with its programs. Program
// inputs with a non-positive minimum GPA are rejected here, at write time,
// in addition to the evaluator's own defensive check.
func (h *ManageCatalogHandler) SaveCollege(ctx context.Context, cmd SaveCollegeCommand) (*catalog.College, error) {
	creating := cmd.ID == ""
	id := cmd.ID
	if creating {
		id = uuid.New().String()
	}

	programs, err := h.buildPrograms(ctx, cmd.Programs)
	if err != nil {
		return nil, err
	}

	college, err := catalog.NewCollege(id, cmd.Name, cmd.Location, catalog.Contact{
		Phone: cmd.Phone,
		Email: cmd.Email,
	}, programs)
	if err != nil {
		return nil, err
	}

	if creating {
		err = h.colleges.Create(ctx, college)
	} else {
		err = h.colleges.Update(ctx, college)
	}
	if err != nil {
		return nil, err
	}

	h.publishCatalogChange(ctx, creating, college.ID)
	return college, nil
}

// DeleteCollege removes a college and its programs.
func (h *ManageCatalogHandler) DeleteCollege(ctx context.Context, id string) error {
	if err := h.colleges.Delete(ctx, id); err != nil {
		return err
	}
	if h.events != nil {
		h.events.Publish(ctx, shared.NewCatalogChangedEvent(shared.EventCollegeDeleted, id, "college"))
	}
	return nil
}

// SaveCourseCommand creates or replaces a course. ID empty means create.
type SaveCourseCommand struct {
	ID            string
	Name          string
	Description   string
	DurationYears int
}

// SaveCourse validates and stores a course.
func (h *ManageCatalogHandler) SaveCourse(ctx context.Context, cmd SaveCourseCommand) (*catalog.Course, error) {
	creating := cmd.ID == ""
	id := cmd.ID
	if creating {
		id = uuid.New().String()
	}

	course, err := catalog.NewCourse(id, cmd.Name, cmd.Description, cmd.DurationYears)
	if err != nil {
		return nil, err
	}

	if creating {
		err = h.courses.Create(ctx, course)
	} else {
		err = h.courses.Update(ctx, course)
	}
	if err != nil {
		return nil, err
	}

	if h.events != nil {
		eventType := shared.EventCourseUpdated
		if creating {
			eventType = shared.EventCourseCreated
		}
		h.events.Publish(ctx, shared.NewCatalogChangedEvent(eventType, course.ID, "course"))
	}
	return course, nil
}

// DeleteCourse removes a course.
func (h *ManageCatalogHandler) DeleteCourse(ctx context.Context, id string) error {
	if err := h.courses.Delete(ctx, id); err != nil {
		return err
	}
	if h.events != nil {
		h.events.Publish(ctx, shared.NewCatalogChangedEvent(shared.EventCourseDeleted, id, "course"))
	}
	return nil
}

// buildPrograms resolves course references and validates thresholds.
func (h *ManageCatalogHandler) buildPrograms(ctx context.Context, inputs []ProgramInput) ([]catalog.OfferedProgram, error) {
	programs := make([]catalog.OfferedProgram, 0, len(inputs))
	for _, in := range inputs {
		course, err := h.courses.GetByID(ctx, in.CourseID)
		if err != nil {
			return nil, err
		}

		requirements := make([]catalog.SubjectRequirement, 0, len(in.SubjectRequirements))
		for _, r := range in.SubjectRequirements {
			req, err := catalog.NewSubjectRequirement(r.Subject, r.MinGrade, r.MinGradePoint)
			if err != nil {
				return nil, err
			}
			requirements = append(requirements, req)
		}

		program, err := catalog.NewOfferedProgram(uuid.New().String(), *course, in.MinimumGPA, requirements)
		if err != nil {
			return nil, err
		}
		programs = append(programs, *program)
	}
	return programs, nil
}

func (h *ManageCatalogHandler) publishCatalogChange(ctx context.Context, created bool, collegeID string) {
	if h.events == nil {
		return
	}
	eventType := shared.EventCollegeUpdated
	if created {
		eventType = shared.EventCollegeCreated
	}
	h.events.Publish(ctx, shared.NewCatalogChangedEvent(eventType, collegeID, "college"))
}
