package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

func TestAnalyze_OverallSummary(t *testing.T) {
	// Scenario C: Math 3.0, Science 3.4, English 3.6.
	marks := []student.Mark{
		mark("Math", 3.0),
		mark("Science", 3.4),
		mark("English", 3.6),
	}

	summary, err := Analyze(marks)
	require.NoError(t, err)

	assert.InDelta(t, 3.3333, summary.Overall.GPA, 0.001)
	assert.InDelta(t, 83.33, summary.Overall.Percentage, 0.01)
	assert.Equal(t, 3, summary.Overall.TotalSubjects)
	assert.Equal(t, 3, summary.Overall.PassedCount)
	assert.Equal(t, 0, summary.Overall.FailedCount)
}

func TestAnalyze_PerSubjectLines(t *testing.T) {
	marks := []student.Mark{mark("Math", 3.0)}

	summary, err := Analyze(marks)
	require.NoError(t, err)

	require.Len(t, summary.PerSubject, 1)
	line := summary.PerSubject[0]
	assert.Equal(t, "Math", line.Subject)
	assert.Equal(t, 3.0, line.GradePoint)
	assert.InDelta(t, 75.0, line.Percentage, 0.001)
	assert.Equal(t, StatusPass, line.Status)
}

func TestAnalyze_PassFailThreshold(t *testing.T) {
	marks := []student.Mark{
		mark("Math", 2.0),    // exactly at threshold: pass
		mark("Science", 1.9), // below: fail
		mark("English", 3.6),
	}

	summary, err := Analyze(marks)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Overall.PassedCount)
	assert.Equal(t, 1, summary.Overall.FailedCount)
	assert.Equal(t, StatusPass, summary.PerSubject[0].Status)
	assert.Equal(t, StatusFail, summary.PerSubject[1].Status)
}

func TestAnalyze_EmptyMarkSet(t *testing.T) {
	_, err := Analyze(nil)
	assert.ErrorIs(t, err, shared.ErrNoMarksFound)
}
