package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

func mark(subject string, gradePoint float64) student.Mark {
	return student.Mark{
		ID:         subject + "-mark",
		StudentID:  "student-1",
		Subject:    shared.Subject(subject),
		Grade:      string(shared.GradeLetterFor(gradePoint)),
		GradePoint: gradePoint,
	}
}

func TestAggregateGPA(t *testing.T) {
	marks := []student.Mark{
		mark("Math", 3.0),
		mark("Science", 3.4),
		mark("English", 3.6),
	}

	gpa, err := AggregateGPA(marks)
	require.NoError(t, err)
	assert.InDelta(t, 3.3333, gpa.Float64(), 0.001)
}

func TestAggregateGPA_EmptySet(t *testing.T) {
	_, err := AggregateGPA(nil)
	assert.ErrorIs(t, err, shared.ErrNoMarksFound)
}

func TestEffectiveGPA_SuppliedWins(t *testing.T) {
	gpaIn := 3.5
	totalMarks := 250.0

	gpa, err := EffectiveGPA(&gpaIn, &totalMarks)
	require.NoError(t, err)
	assert.Equal(t, 3.5, gpa.Float64())
}

func TestEffectiveGPA_FromTotalMarks(t *testing.T) {
	// Scenario E: totalMarks=380, no explicit GPA -> 380/500*4.0 = 3.04.
	totalMarks := 380.0

	gpa, err := EffectiveGPA(nil, &totalMarks)
	require.NoError(t, err)
	assert.InDelta(t, 3.04, gpa.Float64(), 0.0001)
}

func TestEffectiveGPA_BothAbsent(t *testing.T) {
	_, err := EffectiveGPA(nil, nil)
	assert.ErrorIs(t, err, shared.ErrMissingCriteria)
}

func TestEffectiveGPA_OutOfRange(t *testing.T) {
	bad := 4.5
	_, err := EffectiveGPA(&bad, nil)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	badMarks := 600.0
	_, err = EffectiveGPA(nil, &badMarks)
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
}
