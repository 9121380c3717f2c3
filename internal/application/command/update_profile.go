package command

import (
	"context"
	"strings"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE / PREFERENCES COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand carries partial profile updates. Nil fields are left
// unchanged.
type UpdateProfileCommand struct {
	StudentID  string
	Name       *string
	Phone      *string
	GPA        *float64
	TotalMarks *float64
}

// UpdateProfileHandler handles profile updates.
type UpdateProfileHandler struct {
	students student.Repository
	events   EventPublisher
}

// NewUpdateProfileHandler creates a new profile update handler.
func NewUpdateProfileHandler(students student.Repository, events EventPublisher) *UpdateProfileHandler {
	return &UpdateProfileHandler{students: students, events: events}
}

// Handle applies the provided fields and persists the record.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) error {
	record, err := h.students.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return err
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return shared.NewDomainError("command", "UpdateProfile", shared.ErrEmptyValue, "name cannot be empty")
		}
		record.Name = name
	}
	if cmd.Phone != nil {
		record.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.GPA != nil {
		gpa, err := shared.NewGPA(*cmd.GPA)
		if err != nil {
			return err
		}
		if err := record.SetGPA(gpa); err != nil {
			return err
		}
	}
	if cmd.TotalMarks != nil {
		totalMarks, err := shared.NewTotalMarks(*cmd.TotalMarks)
		if err != nil {
			return err
		}
		record.TotalMarks = totalMarks
	}

	if err := h.students.Update(ctx, record); err != nil {
		return err
	}

	if h.events != nil {
		h.events.Publish(ctx, shared.NewSimpleEvent(shared.EventStudentProfileUpdated, record.ID))
	}
	return nil
}

// UpdatePreferencesCommand replaces the stated preferences.
type UpdatePreferencesCommand struct {
	StudentID  string
	CourseIDs  []string
	CollegeIDs []string
}

// UpdatePreferencesHandler handles preference updates.
type UpdatePreferencesHandler struct {
	students student.Repository
	events   EventPublisher
}

// NewUpdatePreferencesHandler creates a new preferences handler.
func NewUpdatePreferencesHandler(students student.Repository, events EventPublisher) *UpdatePreferencesHandler {
	return &UpdatePreferencesHandler{students: students, events: events}
}

// Handle replaces the preference sets wholesale.
func (h *UpdatePreferencesHandler) Handle(ctx context.Context, cmd UpdatePreferencesCommand) error {
	record, err := h.students.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return err
	}

	record.SetPreferences(student.Preferences{
		CourseIDs:  cmd.CourseIDs,
		CollegeIDs: cmd.CollegeIDs,
	})

	if err := h.students.Update(ctx, record); err != nil {
		return err
	}

	if h.events != nil {
		h.events.Publish(ctx, shared.NewSimpleEvent(shared.EventStudentPreferencesSet, record.ID))
	}
	return nil
}
