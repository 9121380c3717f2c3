// Package eventhandler contains subscribers for domain events.
package eventhandler

import (
	"context"

	"github.com/unihub/college-match-hub/internal/application/command"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON MARK CHANGED HANDLER
// Every mark mutation invalidates the student's stored GPA. This subscriber
// bridges mark events to the explicit recompute command, so the stored GPA
// converges to the mean of current marks without the mark write path having
// to know about aggregation at all.
// ══════════════════════════════════════════════════════════════════════════════

// OnMarkChangedHandler recomputes a student's GPA after a mark is recorded,
// updated, or retracted.
type OnMarkChangedHandler struct {
	recompute *command.RecomputeGPAHandler
	log       *logger.Logger
}

// NewOnMarkChangedHandler creates a new mark change subscriber.
func NewOnMarkChangedHandler(recompute *command.RecomputeGPAHandler, log *logger.Logger) *OnMarkChangedHandler {
	if log == nil {
		log = logger.Default()
	}
	return &OnMarkChangedHandler{
		recompute: recompute,
		log:       log.With(logger.Component("on_mark_changed")),
	}
}

// EventTypes lists the event types this handler subscribes to.
func (h *OnMarkChangedHandler) EventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventMarkRecorded,
		shared.EventMarkUpdated,
		shared.EventMarkRetracted,
	}
}

// Handle recomputes the GPA of the student the event belongs to.
func (h *OnMarkChangedHandler) Handle(ctx context.Context, event shared.Event) error {
	studentID := event.AggregateID()

	result, err := h.recompute.Handle(ctx, command.RecomputeGPACommand{StudentID: studentID})
	if err != nil {
		// Retracting the last mark leaves the student without marks; the
		// stored GPA stays as-is and that is not a failure of this handler.
		if shared.IsNoMarks(err) {
			h.log.Info("skipping recompute, student has no marks",
				logger.StudentID(studentID),
				logger.String("event_type", string(event.EventType())),
			)
			return nil
		}
		return err
	}

	h.log.Info("gpa recomputed",
		logger.StudentID(studentID),
		logger.Float64("old_gpa", result.OldGPA),
		logger.Float64("new_gpa", result.NewGPA),
		logger.Int("mark_count", result.MarkCount),
	)
	return nil
}
