package admission

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

func profile(gpa float64, prefs student.Preferences, marks ...student.Mark) *student.StudentRecord {
	return &student.StudentRecord{
		ID:          "student-1",
		Name:        "Aarav Shrestha",
		GPA:         shared.GPA(gpa),
		Marks:       marks,
		Preferences: prefs,
	}
}

// singleProgramCollege builds a college with one GPA-only program.
func singleProgramCollege(id, courseID string, minGPA float64) *catalog.College {
	return &catalog.College{
		ID:       id,
		Name:     id,
		Location: "Kathmandu",
		Programs: []catalog.OfferedProgram{
			{ID: id + "-p1", Course: course(courseID, courseID), MinimumGPA: minGPA},
		},
	}
}

func TestRankCollege_PreferredCourseBonus(t *testing.T) {
	// Eligible program in preferred course X, no college preference:
	// round(100*0.6 + 25) = 85.
	college := singleProgramCollege("college-1", "course-x", 2.5)
	record := profile(3.0, student.Preferences{CourseIDs: []string{"course-x"}})

	result, err := RankCollege(college, record)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.HasPreferredCourse)
	assert.False(t, result.IsPreferredCollege)
	assert.Equal(t, 85, result.RecommendationScore)
	require.Len(t, result.EligiblePrograms, 1)
	assert.True(t, result.EligiblePrograms[0].IsPreferred)
	assert.InDelta(t, 100.0, result.EligiblePrograms[0].MatchPercentage, 0.001)
}

func TestRankCollege_BothBonusesClamped(t *testing.T) {
	// avgMatch 100 -> 60 + 25 + 15 = 100; must never exceed 100.
	college := singleProgramCollege("college-1", "course-x", 2.0)
	record := profile(3.0, student.Preferences{
		CourseIDs:  []string{"course-x"},
		CollegeIDs: []string{"college-1"},
	})

	result, err := RankCollege(college, record)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 100, result.RecommendationScore)
	assert.True(t, result.HasPreferredCourse)
	assert.True(t, result.IsPreferredCollege)
}

func TestRankCollege_NoEligibleProgramsExcluded(t *testing.T) {
	college := singleProgramCollege("college-1", "course-x", 3.9)
	record := profile(2.0, student.Preferences{})

	result, err := RankCollege(college, record)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestRank_ScoreBounds(t *testing.T) {
	colleges := []*catalog.College{
		singleProgramCollege("c1", "x", 0.5), // huge raw match, capped at 100
		singleProgramCollege("c2", "y", 3.0),
	}
	record := profile(3.0, student.Preferences{
		CourseIDs:  []string{"x", "y"},
		CollegeIDs: []string{"c1", "c2"},
	})

	results, err := Rank(colleges, record)
	require.NoError(t, err)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.RecommendationScore, 0)
		assert.LessOrEqual(t, r.RecommendationScore, 100)
	}
}

func TestRank_SortsDescendingAndTruncatesToTopTen(t *testing.T) {
	var colleges []*catalog.College
	for i := 0; i < 15; i++ {
		// Floors above 3.0 leave 11 eligible colleges for a 3.0 student.
		minGPA := 2.0 + float64(i)*0.1
		colleges = append(colleges, singleProgramCollege(fmt.Sprintf("c%02d", i), "x", minGPA))
	}
	record := profile(3.0, student.Preferences{})

	results, err := Rank(colleges, record)
	require.NoError(t, err)

	assert.Len(t, results, MaxRecommendations)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].RecommendationScore, results[i].RecommendationScore)
	}
}

func TestRank_OutputShorterThanTenWhenFewEligible(t *testing.T) {
	colleges := []*catalog.College{
		singleProgramCollege("c1", "x", 2.5),
		singleProgramCollege("c2", "y", 3.9), // ineligible for GPA 3.0
		singleProgramCollege("c3", "z", 2.8),
	}
	record := profile(3.0, student.Preferences{})

	results, err := Rank(colleges, record)
	require.NoError(t, err)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotEqual(t, "c2", r.College.ID)
	}
}

func TestRank_TiesKeepCatalogOrder(t *testing.T) {
	// Identical programs -> identical scores; stable sort must preserve the
	// catalog iteration order.
	colleges := []*catalog.College{
		singleProgramCollege("first", "x", 3.0),
		singleProgramCollege("second", "x", 3.0),
		singleProgramCollege("third", "x", 3.0),
	}
	record := profile(3.2, student.Preferences{})

	results, err := Rank(colleges, record)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].College.ID)
	assert.Equal(t, "second", results[1].College.ID)
	assert.Equal(t, "third", results[2].College.ID)
}

func TestScoreCollege_MeanRoundedToNearestInteger(t *testing.T) {
	college := &catalog.College{ID: "c1", Name: "c1", Location: "Kathmandu"}
	eligible := []EligibilityResult{
		{MatchPercentage: 90.0, Eligible: true},
		{MatchPercentage: 81.0, Eligible: true},
	}

	match, err := ScoreCollege(college, eligible)
	require.NoError(t, err)
	assert.Equal(t, 86, match.MatchScore) // mean 85.5 rounds to 86
}

func TestScoreCollege_EmptyEligibleRejected(t *testing.T) {
	college := &catalog.College{ID: "c1", Name: "c1", Location: "Kathmandu"}
	_, err := ScoreCollege(college, nil)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
