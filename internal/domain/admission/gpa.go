// Package admission implements the eligibility evaluation and recommendation
// scoring engine. Every function here is a pure, synchronous computation over
// a snapshot of student and catalog data supplied by the caller: no I/O, no
// internal caching, safe for any number of concurrent callers as long as the
// snapshot is not mutated mid-call.
package admission

import (
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// AggregateGPA derives a GPA as the arithmetic mean of the grade points over
// all marks. Returns ErrNoMarksFound when the set is empty - checked up
// front so the mean never divides by zero.
func AggregateGPA(marks []student.Mark) (shared.GPA, error) {
	if len(marks) == 0 {
		return 0, shared.ErrEmptyMarkSet
	}

	var sum float64
	for _, m := range marks {
		sum += m.GradePoint
	}

	return shared.GPA(sum / float64(len(marks))), nil
}

// EffectiveGPA resolves the GPA to evaluate with: a supplied GPA wins;
// otherwise total marks are converted via the fixed linear scale
// gpa = totalMarks/500 * 4.0. Both absent is a caller error.
func EffectiveGPA(suppliedGPA, totalMarks *float64) (shared.GPA, error) {
	if suppliedGPA != nil {
		return shared.NewGPA(*suppliedGPA)
	}
	if totalMarks != nil {
		tm, err := shared.NewTotalMarks(*totalMarks)
		if err != nil {
			return 0, err
		}
		return tm.ToGPA(), nil
	}
	return 0, shared.ErrNoEffectiveGPA
}
