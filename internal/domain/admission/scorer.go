package admission

import (
	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// MATCH SCORER
// College-level aggregation of per-program match percentages.
// ═══════════════════════════════════════════════════════════════════════════

// CollegeMatch is a college paired with its eligible programs and aggregate
// fit score. A college with zero eligible programs is never scored - it is
// excluded from results entirely, not reported as 0.
type CollegeMatch struct {
	// College - the matched college.
	College *catalog.College

	// EligiblePrograms - programs the student qualifies for, catalog order.
	EligiblePrograms []EligibilityResult

	// MatchScore - mean of the per-program match percentages, rounded to
	// the nearest integer.
	MatchScore int
}

// ScoreCollege aggregates a non-empty sequence of eligible program results
// into a college-level fit score.
func ScoreCollege(college *catalog.College, eligible []EligibilityResult) (CollegeMatch, error) {
	if len(eligible) == 0 {
		return CollegeMatch{}, shared.NewDomainError("admission", "ScoreCollege",
			shared.ErrInvalidInput, "cannot score a college with no eligible programs")
	}

	return CollegeMatch{
		College:          college,
		EligiblePrograms: eligible,
		MatchScore:       shared.RoundScore(averageMatch(eligible)),
	}, nil
}

// averageMatch is the arithmetic mean of per-program match percentages.
func averageMatch(eligible []EligibilityResult) float64 {
	var sum float64
	for _, r := range eligible {
		sum += r.MatchPercentage
	}
	return sum / float64(len(eligible))
}
