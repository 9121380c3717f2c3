package admission

import (
	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// ELIGIBILITY EVALUATOR
// Decides, for one student and one offered program, whether the admission
// requirements are satisfied, and scores the fit when they are.
// ═══════════════════════════════════════════════════════════════════════════

// EligibilityResult is the derived, non-persisted outcome of evaluating one
// offered program. MatchPercentage is only meaningful when Eligible is true.
type EligibilityResult struct {
	// Program - the evaluated program.
	Program catalog.OfferedProgram

	// Eligible - whether all admission requirements are satisfied.
	Eligible bool

	// MatchPercentage - fit on the 0-100 scale, capped at 100.
	// A student exactly at the minimum GPA scores 100.
	MatchPercentage float64
}

// Evaluate applies a program's admission requirements to a student snapshot.
//
// The GPA floor is checked first. Subject requirements are only walked while
// the student is still eligible, and the first failing requirement stops the
// walk: a mark for the requirement's subject (compared case-insensitively via
// the normalized subject key) must exist and reach the requirement's minimum
// grade point.
//
// A program with a non-positive minimum GPA is a catalog data-integrity
// violation; Evaluate fails fast with ErrInvalidProgramData instead of
// propagating NaN or Inf into scores.
func Evaluate(program catalog.OfferedProgram, studentGPA shared.GPA, marks []student.Mark) (EligibilityResult, error) {
	if program.MinimumGPA <= 0 {
		return EligibilityResult{}, shared.ErrProgramZeroGPA
	}

	result := EligibilityResult{Program: program, Eligible: true}

	if studentGPA.Float64() < program.MinimumGPA {
		result.Eligible = false
	}

	if result.Eligible {
		for _, req := range program.SubjectRequirements {
			mark := markForSubject(marks, req.Subject)
			if mark == nil || mark.GradePoint < req.MinGradePoint {
				result.Eligible = false
				break
			}
		}
	}

	if result.Eligible {
		pct := studentGPA.Float64() / program.MinimumGPA * 100
		if pct > 100 {
			pct = 100
		}
		result.MatchPercentage = pct
	}

	return result, nil
}

// EvaluateCollege evaluates every program a college offers and returns the
// eligible ones in the college's catalog order. Evaluation of the remaining
// programs continues past ineligible ones - only requirement checks inside a
// single program short-circuit.
func EvaluateCollege(college *catalog.College, studentGPA shared.GPA, marks []student.Mark) ([]EligibilityResult, error) {
	eligible := make([]EligibilityResult, 0, len(college.Programs))
	for _, program := range college.Programs {
		result, err := Evaluate(program, studentGPA, marks)
		if err != nil {
			return nil, err
		}
		if result.Eligible {
			eligible = append(eligible, result)
		}
	}
	return eligible, nil
}

// markForSubject finds the student mark for a subject by normalized key.
func markForSubject(marks []student.Mark, subject shared.Subject) *student.Mark {
	key := subject.Key()
	for i := range marks {
		if marks[i].Subject.Key() == key {
			return &marks[i]
		}
	}
	return nil
}
