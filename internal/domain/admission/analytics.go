package admission

import (
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// SUBJECT ANALYTICS AGGREGATOR
// Per-subject and overall pass/fail/percentage summaries over a student's
// mark set. Independent of the evaluator - it consumes only the marks.
// ═══════════════════════════════════════════════════════════════════════════

// PassStatus labels a subject outcome.
type PassStatus string

const (
	StatusPass PassStatus = "Pass"
	StatusFail PassStatus = "Fail"
)

// PassThreshold is the grade point at or above which a subject counts as
// passed. Fixed design constant of the grading scheme, not configuration.
const PassThreshold = 2.0

// SubjectSummary is the per-subject line of an academic summary.
type SubjectSummary struct {
	// Subject - display form of the subject.
	Subject string `json:"subject"`

	// Grade - display label of the recorded grade.
	Grade string `json:"grade"`

	// GradePoint - recorded grade point.
	GradePoint float64 `json:"grade_point"`

	// Percentage - gradePoint/4.0 * 100.
	Percentage float64 `json:"percentage"`

	// Status - Pass when GradePoint >= PassThreshold, otherwise Fail.
	Status PassStatus `json:"status"`
}

// OverallSummary aggregates the whole mark set.
type OverallSummary struct {
	// GPA - mean of all grade points.
	GPA float64 `json:"gpa"`

	// Percentage - the mean converted to the 0-100 scale.
	Percentage float64 `json:"percentage"`

	// TotalSubjects - number of marks analyzed.
	TotalSubjects int `json:"total_subjects"`

	// PassedCount / FailedCount - subjects at or above / below the
	// pass threshold.
	PassedCount int `json:"passed_count"`
	FailedCount int `json:"failed_count"`
}

// AcademicSummary is the full analytics result.
type AcademicSummary struct {
	PerSubject []SubjectSummary `json:"per_subject"`
	Overall    OverallSummary   `json:"overall"`
}

// Analyze converts a student's mark set into per-subject and overall
// summaries. Fails with ErrNoMarksFound on an empty set - checked before
// aggregation so the mean never divides by zero.
func Analyze(marks []student.Mark) (*AcademicSummary, error) {
	if len(marks) == 0 {
		return nil, shared.ErrEmptyMarkSet
	}

	perSubject := make([]SubjectSummary, len(marks))
	passed := 0
	var sum float64

	for i, m := range marks {
		status := StatusFail
		if m.GradePoint >= PassThreshold {
			status = StatusPass
			passed++
		}

		perSubject[i] = SubjectSummary{
			Subject:    m.Subject.String(),
			Grade:      m.Grade,
			GradePoint: m.GradePoint,
			Percentage: m.GradePoint / float64(shared.MaxGPA) * 100,
			Status:     status,
		}
		sum += m.GradePoint
	}

	mean := sum / float64(len(marks))

	return &AcademicSummary{
		PerSubject: perSubject,
		Overall: OverallSummary{
			GPA:           mean,
			Percentage:    mean / float64(shared.MaxGPA) * 100,
			TotalSubjects: len(marks),
			PassedCount:   passed,
			FailedCount:   len(marks) - passed,
		},
	}, nil
}
