package query

import (
	"context"

	"github.com/unihub/college-match-hub/internal/domain/admission"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACADEMIC SUMMARY QUERY
// Per-subject and overall pass/fail/percentage analytics over a student's
// recorded marks.
// ══════════════════════════════════════════════════════════════════════════════

// GetAcademicSummaryQuery identifies the student to summarize.
type GetAcademicSummaryQuery struct {
	StudentID string
}

// GetAcademicSummaryHandler handles academic summary queries.
type GetAcademicSummaryHandler struct {
	students StudentReader
}

// NewGetAcademicSummaryHandler creates a new academic summary handler.
func NewGetAcademicSummaryHandler(students StudentReader) *GetAcademicSummaryHandler {
	return &GetAcademicSummaryHandler{students: students}
}

// Handle loads the student's marks and aggregates them. A student with no
// recorded marks gets ErrNoMarksFound, not a zeroed summary.
func (h *GetAcademicSummaryHandler) Handle(ctx context.Context, q GetAcademicSummaryQuery) (*admission.AcademicSummary, error) {
	record, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	return admission.Analyze(record.Marks)
}
