// Package command contains write operations following CQRS pattern.
// Commands modify state and emit domain events; they return minimal data.
package command

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// EventPublisher publishes domain events. Handlers tolerate a nil publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event shared.Event)
}

// RegisterStudentCommand carries the registration inputs. Name, email and
// password are required; GPA and total marks both, matching the enrollment
// form of the SEE admissions flow.
type RegisterStudentCommand struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	GPA        float64
	TotalMarks float64
}

// Validate checks the command inputs.
func (c *RegisterStudentCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("command", "RegisterStudent", shared.ErrInvalidInput, "name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return shared.NewDomainError("command", "RegisterStudent", shared.ErrInvalidInput, "email is required")
	}
	if len(c.Password) < 8 {
		return shared.NewDomainError("command", "RegisterStudent", shared.ErrInvalidInput, "password must be at least 8 characters")
	}
	return nil
}

// RegisterStudentResult is returned after a successful registration.
type RegisterStudentResult struct {
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
}

// RegisterStudentHandler handles new registrations.
type RegisterStudentHandler struct {
	students student.Repository
	events   EventPublisher
}

// NewRegisterStudentHandler creates a new registration handler.
func NewRegisterStudentHandler(students student.Repository, events EventPublisher) *RegisterStudentHandler {
	return &RegisterStudentHandler{students: students, events: events}
}

// Handle hashes the password, builds the record, and stores it.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.WrapError("command", "RegisterStudent", shared.ErrInvalidInput, "failed to hash password", err)
	}

	record, err := student.NewStudent(student.NewStudentParams{
		ID:           uuid.New().String(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		Phone:        cmd.Phone,
		PasswordHash: string(hash),
		GPA:          cmd.GPA,
		TotalMarks:   cmd.TotalMarks,
	})
	if err != nil {
		return nil, err
	}

	if err := h.students.Create(ctx, record); err != nil {
		return nil, err
	}

	if h.events != nil {
		h.events.Publish(ctx, shared.NewStudentRegisteredEvent(record.ID, record.Email, record.Name, record.GPA.Float64()))
	}

	return &RegisterStudentResult{StudentID: record.ID, Email: record.Email}, nil
}
