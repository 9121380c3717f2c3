package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

func course(id, name string) catalog.Course {
	return catalog.Course{ID: id, Name: name, DurationYears: 2}
}

func program(minGPA float64, reqs ...catalog.SubjectRequirement) catalog.OfferedProgram {
	return catalog.OfferedProgram{
		ID:                  "program-1",
		Course:              course("course-sci", "Science"),
		MinimumGPA:          minGPA,
		SubjectRequirements: reqs,
	}
}

func requirement(subject string, minGradePoint float64) catalog.SubjectRequirement {
	return catalog.SubjectRequirement{
		Subject:       shared.Subject(subject),
		MinGrade:      string(shared.GradeLetterFor(minGradePoint)),
		MinGradePoint: minGradePoint,
	}
}

func TestEvaluate_GPAOnlyAdmission(t *testing.T) {
	// Scenario A: GPA 3.2 against minimum 3.0, no subject requirements.
	// 3.2/3.0*100 = 106.67, capped at 100.
	result, err := Evaluate(program(3.0), shared.GPA(3.2), nil)
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	assert.Equal(t, 100.0, result.MatchPercentage)
}

func TestEvaluate_BelowMinimumGPA(t *testing.T) {
	// Scenario B: GPA 2.0 against minimum 3.0.
	result, err := Evaluate(program(3.0), shared.GPA(2.0), nil)
	require.NoError(t, err)

	assert.False(t, result.Eligible)
	assert.Zero(t, result.MatchPercentage)
}

func TestEvaluate_ExactMinimumScoresHundred(t *testing.T) {
	result, err := Evaluate(program(3.0), shared.GPA(3.0), nil)
	require.NoError(t, err)

	assert.True(t, result.Eligible)
	assert.Equal(t, 100.0, result.MatchPercentage)
}

func TestEvaluate_EligibleMatchAlwaysCapped(t *testing.T) {
	// The GPA floor gates eligibility, so an eligible student's ratio is
	// always >= 1 and the cap pins the match at exactly 100.
	result, err := Evaluate(program(3.2), shared.GPA(3.2), nil)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Equal(t, 100.0, result.MatchPercentage)

	result, err = Evaluate(program(3.2), shared.GPA(4.0), nil)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Equal(t, 100.0, result.MatchPercentage)
}

func TestEvaluate_SubjectRequirementSatisfied(t *testing.T) {
	marks := []student.Mark{mark("Mathematics", 3.2), mark("English", 3.0)}
	p := program(2.8, requirement("Mathematics", 3.0), requirement("English", 2.4))

	result, err := Evaluate(p, shared.GPA(3.1), marks)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.InDelta(t, 100.0, result.MatchPercentage, 0.001)
}

func TestEvaluate_SubjectRequirementBelowThreshold(t *testing.T) {
	marks := []student.Mark{mark("Mathematics", 2.8)}
	p := program(2.5, requirement("Mathematics", 3.0))

	result, err := Evaluate(p, shared.GPA(3.5), marks)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
}

func TestEvaluate_MissingSubjectMark(t *testing.T) {
	marks := []student.Mark{mark("English", 3.6)}
	p := program(2.5, requirement("Science", 2.4))

	result, err := Evaluate(p, shared.GPA(3.5), marks)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
}

func TestEvaluate_SubjectMatchIsCaseInsensitive(t *testing.T) {
	marks := []student.Mark{mark("mathematics", 3.6)}
	p := program(2.5, requirement("MATHEMATICS", 3.0))

	result, err := Evaluate(p, shared.GPA(3.0), marks)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
}

func TestEvaluate_ZeroMinimumGPARejected(t *testing.T) {
	_, err := Evaluate(program(0), shared.GPA(3.0), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidProgramData)

	_, err = Evaluate(program(-1), shared.GPA(3.0), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidProgramData)
}

func TestEvaluate_Idempotent(t *testing.T) {
	marks := []student.Mark{mark("Mathematics", 3.2)}
	p := program(2.8, requirement("Mathematics", 3.0))

	first, err := Evaluate(p, shared.GPA(3.1), marks)
	require.NoError(t, err)
	second, err := Evaluate(p, shared.GPA(3.1), marks)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluate_MatchMonotonicInGPA(t *testing.T) {
	marks := []student.Mark{mark("Mathematics", 3.2)}
	p := program(3.0, requirement("Mathematics", 3.0))

	prev := -1.0
	for _, gpa := range []float64{3.0, 3.1, 3.2, 3.5, 4.0} {
		result, err := Evaluate(p, shared.GPA(gpa), marks)
		require.NoError(t, err)
		require.True(t, result.Eligible)
		assert.GreaterOrEqual(t, result.MatchPercentage, prev)
		assert.LessOrEqual(t, result.MatchPercentage, 100.0)
		prev = result.MatchPercentage
	}
}

func TestEvaluate_RaisingGPANeverRevokesEligibility(t *testing.T) {
	p := program(3.0)

	low, err := Evaluate(p, shared.GPA(2.9), nil)
	require.NoError(t, err)
	high, err := Evaluate(p, shared.GPA(3.1), nil)
	require.NoError(t, err)

	assert.False(t, low.Eligible)
	assert.True(t, high.Eligible)
}

func TestEvaluateCollege_KeepsCatalogOrder(t *testing.T) {
	college := &catalog.College{
		ID:       "college-1",
		Name:     "Trinity International College",
		Location: "Dillibazar, Kathmandu",
		Programs: []catalog.OfferedProgram{
			{ID: "p1", Course: course("c1", "Science"), MinimumGPA: 3.5},
			{ID: "p2", Course: course("c2", "Management"), MinimumGPA: 2.5},
			{ID: "p3", Course: course("c3", "Humanities"), MinimumGPA: 2.0},
		},
	}

	eligible, err := EvaluateCollege(college, shared.GPA(3.0), nil)
	require.NoError(t, err)

	require.Len(t, eligible, 2)
	assert.Equal(t, "p2", eligible[0].Program.ID)
	assert.Equal(t, "p3", eligible[1].Program.ID)
}
