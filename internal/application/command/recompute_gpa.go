package command

import (
	"context"

	"github.com/unihub/college-match-hub/internal/domain/admission"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
	"github.com/unihub/college-match-hub/pkg/keymutex"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOMPUTE GPA COMMAND
// The one write the admission engine triggers. Recomputation is an explicit
// command the caller opts into - reads never persist anything - and it is
// serialized per student ID so a recompute cannot interleave with another
// recompute for the same student and persist a stale mean.
// ══════════════════════════════════════════════════════════════════════════════

// RecomputeGPACommand identifies the student whose GPA to refresh.
type RecomputeGPACommand struct {
	StudentID string
}

// RecomputeGPAResult reports the recomputed value.
type RecomputeGPAResult struct {
	StudentID string  `json:"student_id"`
	OldGPA    float64 `json:"old_gpa"`
	NewGPA    float64 `json:"new_gpa"`
	MarkCount int     `json:"mark_count"`
}

// RecomputeGPAHandler handles GPA recomputation.
type RecomputeGPAHandler struct {
	students student.Repository
	locks    *keymutex.KeyMutex
	events   EventPublisher
}

// NewRecomputeGPAHandler creates a new recompute handler.
func NewRecomputeGPAHandler(students student.Repository, events EventPublisher) *RecomputeGPAHandler {
	return &RecomputeGPAHandler{
		students: students,
		locks:    keymutex.New(),
		events:   events,
	}
}

// Handle aggregates the student's current marks and persists the mean as the
// stored GPA. Fails with ErrNoMarksFound when the student has no marks; the
// stored GPA is left untouched in that case.
func (h *RecomputeGPAHandler) Handle(ctx context.Context, cmd RecomputeGPACommand) (*RecomputeGPAResult, error) {
	if cmd.StudentID == "" {
		return nil, shared.NewDomainError("command", "RecomputeGPA", shared.ErrInvalidID, "student id is required")
	}

	var result *RecomputeGPAResult
	err := h.locks.WithLock(cmd.StudentID, func() error {
		record, err := h.students.GetByID(ctx, cmd.StudentID)
		if err != nil {
			return err
		}

		gpa, err := admission.AggregateGPA(record.Marks)
		if err != nil {
			return err
		}

		oldGPA := record.GPA.Float64()
		if err := h.students.UpdateGPA(ctx, record.ID, gpa); err != nil {
			return err
		}

		result = &RecomputeGPAResult{
			StudentID: record.ID,
			OldGPA:    oldGPA,
			NewGPA:    gpa.Float64(),
			MarkCount: len(record.Marks),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if h.events != nil {
		h.events.Publish(ctx, shared.NewStudentGPARecomputedEvent(result.StudentID, result.OldGPA, result.NewGPA, result.MarkCount))
	}

	return result, nil
}
