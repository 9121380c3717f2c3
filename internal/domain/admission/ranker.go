package admission

import (
	"sort"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// RECOMMENDATION RANKER
// Folds preference signals into the match score and ranks colleges for a
// specific student. Uses the student's own profile GPA and marks, never
// ad-hoc search criteria.
// ═══════════════════════════════════════════════════════════════════════════

// Ranking weights. Match quality dominates; the preferred-course bonus
// outweighs institutional affinity because course fit matters more than
// where it is taught. These are empirical constants - callers that need
// different weighting must treat them as configuration.
const (
	// MatchWeight scales the average match percentage into the score.
	MatchWeight = 0.6

	// PreferredCourseBonus is added when any eligible program's course is
	// among the student's preferred courses.
	PreferredCourseBonus = 25.0

	// PreferredCollegeBonus is added when the college itself is preferred.
	PreferredCollegeBonus = 15.0

	// MaxRecommendations caps the ranked output length.
	MaxRecommendations = 10
)

// ProgramRecommendation is one eligible program inside a recommendation.
type ProgramRecommendation struct {
	// Program - the eligible program.
	Program catalog.OfferedProgram

	// MatchPercentage - per-program fit (0-100].
	MatchPercentage float64

	// IsPreferred - whether the program's course is a stated preference.
	IsPreferred bool
}

// RecommendationResult is the derived, non-persisted per-college ranking
// entry.
type RecommendationResult struct {
	// College - the recommended college.
	College *catalog.College

	// RecommendationScore - weighted composite, clamped to [0, 100] and
	// rounded to the nearest integer.
	RecommendationScore int

	// HasPreferredCourse - at least one eligible program is preferred.
	HasPreferredCourse bool

	// IsPreferredCollege - the college itself is preferred.
	IsPreferredCollege bool

	// EligiblePrograms - the programs behind the score, catalog order.
	EligiblePrograms []ProgramRecommendation
}

// RankCollege evaluates one college against the student's profile and folds
// in preference signals. Returns (nil, nil) when no program is eligible:
// such a college is excluded from output, never scored.
func RankCollege(college *catalog.College, record *student.StudentRecord) (*RecommendationResult, error) {
	eligible, err := EvaluateCollege(college, record.GPA, record.Marks)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	programs := make([]ProgramRecommendation, len(eligible))
	hasPreferredCourse := false
	var sum float64
	for i, r := range eligible {
		preferred := record.Preferences.PrefersCourse(r.Program.Course.ID)
		if preferred {
			hasPreferredCourse = true
		}
		programs[i] = ProgramRecommendation{
			Program:         r.Program,
			MatchPercentage: r.MatchPercentage,
			IsPreferred:     preferred,
		}
		sum += r.MatchPercentage
	}
	avgMatch := sum / float64(len(eligible))

	isPreferredCollege := record.Preferences.PrefersCollege(college.ID)

	score := avgMatch * MatchWeight
	if hasPreferredCourse {
		score += PreferredCourseBonus
	}
	if isPreferredCollege {
		score += PreferredCollegeBonus
	}

	return &RecommendationResult{
		College:             college,
		RecommendationScore: shared.RoundScore(shared.ClampScore(score)),
		HasPreferredCourse:  hasPreferredCourse,
		IsPreferredCollege:  isPreferredCollege,
		EligiblePrograms:    programs,
	}, nil
}

// Rank evaluates the whole catalog snapshot for a student and returns the
// top colleges by recommendation score, descending. The sort is stable, so
// colleges with equal scores keep their catalog order. Output length is
// min(MaxRecommendations, colleges with at least one eligible program).
func Rank(colleges []*catalog.College, record *student.StudentRecord) ([]RecommendationResult, error) {
	results := make([]RecommendationResult, 0, len(colleges))
	for _, college := range colleges {
		result, err := RankCollege(college, record)
		if err != nil {
			return nil, err
		}
		if result != nil {
			results = append(results, *result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RecommendationScore > results[j].RecommendationScore
	})

	if len(results) > MaxRecommendations {
		results = results[:MaxRecommendations]
	}

	return results, nil
}
