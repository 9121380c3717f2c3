package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

func TestGetRecommendations_PreferenceBonusesApplied(t *testing.T) {
	science := testCourse("course-sci", "Science")
	management := testCourse("course-mgmt", "Management")
	colleges := &fakeCollegeReader{colleges: []*catalog.College{
		// 100% match, preferred course and college: 60 + 25 + 15 = 100.
		testCollege("college-1", "Kathmandu", testProgram("p1", science, 2.0)),
		// 100% match, no preferences: 60.
		testCollege("college-2", "Kathmandu", testProgram("p2", management, 2.0)),
	}}
	record := testStudent("student-1", 3.0)
	record.Preferences = student.Preferences{
		CourseIDs:  []string{"course-sci"},
		CollegeIDs: []string{"college-1"},
	}
	students := studentReaderWith(record)

	handler := NewGetRecommendationsHandler(colleges, students)
	result, err := handler.Handle(context.Background(), GetRecommendationsQuery{StudentID: "student-1"})
	require.NoError(t, err)

	require.Len(t, result.Colleges, 2)
	first := result.Colleges[0]
	assert.Equal(t, "college-1", first.CollegeID)
	assert.Equal(t, 100, first.RecommendationScore)
	assert.True(t, first.HasPreferredCourse)
	assert.True(t, first.IsPreferredCollege)
	require.Len(t, first.EligiblePrograms, 1)
	assert.True(t, first.EligiblePrograms[0].IsPreferred)

	second := result.Colleges[1]
	assert.Equal(t, "college-2", second.CollegeID)
	assert.Equal(t, 60, second.RecommendationScore)
	assert.False(t, second.HasPreferredCourse)
}

func TestGetRecommendations_TopTenTruncation(t *testing.T) {
	science := testCourse("course-sci", "Science")
	var all []*catalog.College
	// Twelve eligible colleges, all tied at the same score: the top 10 in
	// catalog order survive.
	for i := 0; i < 12; i++ {
		all = append(all, testCollege(
			fmt.Sprintf("college-%02d", i), "Kathmandu",
			testProgram(fmt.Sprintf("p%02d", i), science, 2.0),
		))
	}
	colleges := &fakeCollegeReader{colleges: all}
	students := studentReaderWith(testStudent("student-1", 3.0))

	handler := NewGetRecommendationsHandler(colleges, students)
	result, err := handler.Handle(context.Background(), GetRecommendationsQuery{StudentID: "student-1"})
	require.NoError(t, err)

	require.Len(t, result.Colleges, 10)
	for i, c := range result.Colleges {
		assert.Equal(t, fmt.Sprintf("college-%02d", i), c.CollegeID)
		assert.Equal(t, 60, c.RecommendationScore)
	}
}

func TestGetRecommendations_ProfileEcho(t *testing.T) {
	colleges := &fakeCollegeReader{}
	record := testStudent("student-1", 3.2,
		testMark("student-1", "Mathematics", 3.0),
		testMark("student-1", "Science", 3.4))
	record.TotalMarks = shared.TotalMarks(380)
	record.Preferences = student.Preferences{CourseIDs: []string{"course-sci"}}
	students := studentReaderWith(record)

	handler := NewGetRecommendationsHandler(colleges, students)
	result, err := handler.Handle(context.Background(), GetRecommendationsQuery{StudentID: "student-1"})
	require.NoError(t, err)

	assert.Empty(t, result.Colleges)
	profile := result.StudentProfile
	assert.Equal(t, "student-1", profile.StudentID)
	assert.InDelta(t, 3.2, profile.GPA, 0.001)
	assert.InDelta(t, 380.0, profile.TotalMarks, 0.001)
	assert.Equal(t, 2, profile.MarkCount)
	assert.Equal(t, []string{"course-sci"}, profile.PreferredCourseIDs)
}

func TestGetRecommendations_StudentNotFound(t *testing.T) {
	handler := NewGetRecommendationsHandler(&fakeCollegeReader{}, studentReaderWith())
	_, err := handler.Handle(context.Background(), GetRecommendationsQuery{StudentID: "missing"})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
