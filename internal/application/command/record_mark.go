package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD / RETRACT MARK COMMANDS
// Mark mutations publish events; the GPA recompute subscribes to them, so
// recording a grade never mutates the stored GPA inline.
// ══════════════════════════════════════════════════════════════════════════════

// RecordMarkCommand carries a new subject grade for a student.
type RecordMarkCommand struct {
	StudentID  string
	Subject    string
	Grade      string
	GradePoint float64
}

// RecordMarkHandler handles grade recording.
type RecordMarkHandler struct {
	students student.Repository
	marks    student.MarkRepository
	events   EventPublisher
}

// NewRecordMarkHandler creates a new mark recording handler.
func NewRecordMarkHandler(students student.Repository, marks student.MarkRepository, events EventPublisher) *RecordMarkHandler {
	return &RecordMarkHandler{students: students, marks: marks, events: events}
}

// Handle validates ownership and subject uniqueness, stores the mark, and
// publishes MarkRecorded.
func (h *RecordMarkHandler) Handle(ctx context.Context, cmd RecordMarkCommand) (*student.Mark, error) {
	record, err := h.students.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	mark, err := student.NewMark(student.NewMarkParams{
		ID:         uuid.New().String(),
		StudentID:  record.ID,
		Subject:    cmd.Subject,
		Grade:      cmd.Grade,
		GradePoint: cmd.GradePoint,
	})
	if err != nil {
		return nil, err
	}

	// Enforces one grade per subject before touching storage.
	if err := record.AddMark(mark); err != nil {
		return nil, err
	}

	if err := h.marks.Add(ctx, mark); err != nil {
		return nil, err
	}

	if h.events != nil {
		h.events.Publish(ctx, shared.NewMarkRecordedEvent(record.ID, mark.ID, mark.Subject.String(), mark.GradePoint))
	}

	return mark, nil
}

// RetractMarkCommand removes a recorded grade.
type RetractMarkCommand struct {
	StudentID string
	MarkID    string
}

// RetractMarkHandler handles grade retraction.
type RetractMarkHandler struct {
	marks  student.MarkRepository
	events EventPublisher
}

// NewRetractMarkHandler creates a new mark retraction handler.
func NewRetractMarkHandler(marks student.MarkRepository, events EventPublisher) *RetractMarkHandler {
	return &RetractMarkHandler{marks: marks, events: events}
}

// Handle removes the mark after checking it belongs to the caller, and
// publishes MarkRetracted.
func (h *RetractMarkHandler) Handle(ctx context.Context, cmd RetractMarkCommand) error {
	mark, err := h.marks.GetByID(ctx, cmd.MarkID)
	if err != nil {
		return err
	}

	if mark.StudentID != cmd.StudentID {
		return shared.NewDomainError("command", "RetractMark", shared.ErrForbidden, "mark belongs to another student")
	}

	if err := h.marks.Remove(ctx, cmd.MarkID); err != nil {
		return err
	}

	if h.events != nil {
		h.events.Publish(ctx, shared.NewMarkRetractedEvent(mark.StudentID, mark.ID, mark.Subject.String()))
	}

	return nil
}
