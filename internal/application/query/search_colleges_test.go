package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/college-match-hub/internal/domain/catalog"
	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ═══════════════════════════════════════════════════════════════════════════
// FAKES
// ═══════════════════════════════════════════════════════════════════════════

type fakeCollegeReader struct {
	colleges []*catalog.College
	err      error
}

func (f *fakeCollegeReader) ListAll(ctx context.Context) ([]*catalog.College, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.colleges, nil
}

type fakeStudentReader struct {
	records map[string]*student.StudentRecord
}

func (f *fakeStudentReader) GetByID(ctx context.Context, id string) (*student.StudentRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return record, nil
}

func studentReaderWith(records ...*student.StudentRecord) *fakeStudentReader {
	m := make(map[string]*student.StudentRecord, len(records))
	for _, r := range records {
		m[r.ID] = r
	}
	return &fakeStudentReader{records: m}
}

// ═══════════════════════════════════════════════════════════════════════════
// FIXTURES
// ═══════════════════════════════════════════════════════════════════════════

func testCourse(id, name string) catalog.Course {
	return catalog.Course{ID: id, Name: name, DurationYears: 2}
}

func testProgram(id string, course catalog.Course, minGPA float64, reqs ...catalog.SubjectRequirement) catalog.OfferedProgram {
	return catalog.OfferedProgram{
		ID:                  id,
		Course:              course,
		MinimumGPA:          minGPA,
		SubjectRequirements: reqs,
	}
}

func testRequirement(subject string, minGradePoint float64) catalog.SubjectRequirement {
	req, err := catalog.NewSubjectRequirement(subject, "", minGradePoint)
	if err != nil {
		panic(err)
	}
	return req
}

func testCollege(id, location string, programs ...catalog.OfferedProgram) *catalog.College {
	return &catalog.College{
		ID:       id,
		Name:     id,
		Location: location,
		Programs: programs,
	}
}

func testStudent(id string, gpa float64, marks ...student.Mark) *student.StudentRecord {
	return &student.StudentRecord{
		ID:    id,
		Name:  "Test Student",
		Email: id + "@example.com",
		GPA:   shared.GPA(gpa),
		Marks: marks,
	}
}

func testMark(studentID, subject string, gradePoint float64) student.Mark {
	return student.Mark{
		StudentID:  studentID,
		Subject:    shared.Subject(subject),
		Grade:      string(shared.GradeLetterFor(gradePoint)),
		GradePoint: gradePoint,
	}
}

func floatPtr(v float64) *float64 { return &v }

// ═══════════════════════════════════════════════════════════════════════════
// TESTS
// ═══════════════════════════════════════════════════════════════════════════

func TestSearchColleges_ProfileFallback(t *testing.T) {
	science := testCourse("course-sci", "Science")
	colleges := &fakeCollegeReader{colleges: []*catalog.College{
		testCollege("college-1", "Kathmandu", testProgram("p1", science, 3.0)),
	}}
	students := studentReaderWith(testStudent("student-1", 3.0))

	handler := NewSearchCollegesHandler(colleges, students)
	result, err := handler.Handle(context.Background(), SearchCollegesQuery{StudentID: "student-1"})
	require.NoError(t, err)

	assert.True(t, result.Criteria.FromProfile)
	assert.InDelta(t, 3.0, result.Criteria.EffectiveGPA, 0.001)
	require.Len(t, result.Colleges, 1)
	assert.Equal(t, 100, result.Colleges[0].MatchScore)
	assert.Equal(t, 1, result.TotalEligible)
}

func TestSearchColleges_ExplicitGPAOverridesProfile(t *testing.T) {
	science := testCourse("course-sci", "Science")
	colleges := &fakeCollegeReader{colleges: []*catalog.College{
		testCollege("college-1", "Kathmandu", testProgram("p1", science, 3.5)),
	}}
	// Profile GPA 2.0 would not qualify; the explicit 3.8 must.
	students := studentReaderWith(testStudent("student-1", 2.0))

	handler := NewSearchCollegesHandler(colleges, students)
	result, err := handler.Handle(context.Background(), SearchCollegesQuery{
		StudentID: "student-1",
		Criteria:  SearchCriteria{GPA: floatPtr(3.8)},
	})
	require.NoError(t, err)

	assert.False(t, result.Criteria.FromProfile)
	assert.InDelta(t, 3.8, result.Criteria.EffectiveGPA, 0.001)
	require.Len(t, result.Colleges, 1)
}

func TestSearchColleges_TotalMarksConvertedWhenGPAAbsent(t *testing.T) {
	science := testCourse("course-sci", "Science")
	colleges := &fakeCollegeReader{colleges: []*catalog.College{
		testCollege("college-1", "Kathmandu", testProgram("p1", science, 3.0)),
	}}
	students := studentReaderWith(testStudent("student-1", 0))

	handler := NewSearchCollegesHandler(colleges, students)
	// 400/500 * 4.0 = 3.2
	result, err := handler.Handle(context.Background(), SearchCollegesQuery{
		StudentID: "student-1",
		Criteria:  SearchCriteria{TotalMarks: floatPtr(400)},
	})
	require.NoError(t, err)

	assert.False(t, result.Criteria.FromProfile)
	assert.InDelta(t, 3.2, result.Criteria.EffectiveGPA, 0.001)
	require.Len(t, result.Colleges, 1)
}

func TestSearchColleges_SubjectsOverrideProfileMarks(t *testing.T) {
	science := testCourse("course-sci", "Science")
	program := testProgram("p1", science, 2.5, testRequirement("Mathematics", 3.0))
	colleges := &fakeCollegeReader{colleges: []*catalog.College{
		testCollege("college-1", "Kathmandu", program),
	}}
	// Profile mark would qualify; the ad-hoc criteria replace it wholesale.
	students := studentReaderWith(testStudent("student-1", 3.0,
		testMark("student-1", "Mathematics", 3.6)))

	handler := NewSearchCollegesHandler(colleges, students)
	result, err := handler.Handle(context.Background(), SearchCollegesQuery{
		StudentID: "student-1",
		Criteria: SearchCriteria{Subjects: []SubjectCriterion{
			{Subject: "Mathematics", GradePoint: 2.0},
		}},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Colleges)
	assert.Equal(t, 0, result.TotalEligible)
	assert.Equal(t, 1, result.Criteria.SubjectCount)
}

func TestSearchColleges_IneligibleCollegeExcludedNotScoredZero(t *testing.T) {
	science := testCourse("course-sci", "Science")
	colleges := &fakeCollegeReader{colleges: []*catalog.College{
		testCollege("college-1", "Kathmandu", testProgram("p1", science, 3.9)),
		testCollege("college-2", "Kathmandu", testProgram("p2", science, 2.0)),
	}}
	students := studentReaderWith(testStudent("student-1", 3.0))

	handler := NewSearchCollegesHandler(colleges, students)
	result, err := handler.Handle(context.Background(), SearchCollegesQuery{StudentID: "student-1"})
	require.NoError(t, err)

	require.Len(t, result.Colleges, 1)
	assert.Equal(t, "college-2", result.Colleges[0].CollegeID)
}

func TestSearchColleges_TiesKeepCatalogOrder(t *testing.T) {
	// Eligible programs always match at 100, so whole-catalog searches
	// produce tied scores; the stable sort must preserve catalog order.
	science := testCourse("course-sci", "Science")
	colleges := &fakeCollegeReader{colleges: []*catalog.College{
		testCollege("college-a", "Kathmandu", testProgram("p1", science, 3.0)),
		testCollege("college-b", "Kathmandu", testProgram("p2", science, 2.5)),
		testCollege("college-c", "Kathmandu", testProgram("p3", science, 2.0)),
	}}
	students := studentReaderWith(testStudent("student-1", 3.0))

	handler := NewSearchCollegesHandler(colleges, students)
	result, err := handler.Handle(context.Background(), SearchCollegesQuery{StudentID: "student-1"})
	require.NoError(t, err)

	require.Len(t, result.Colleges, 3)
	assert.Equal(t, "college-a", result.Colleges[0].CollegeID)
	assert.Equal(t, "college-b", result.Colleges[1].CollegeID)
	assert.Equal(t, "college-c", result.Colleges[2].CollegeID)
	for _, c := range result.Colleges {
		assert.Equal(t, 100, c.MatchScore)
	}
}

func TestSearchColleges_LocationFilter(t *testing.T) {
	science := testCourse("course-sci", "Science")
	colleges := &fakeCollegeReader{colleges: []*catalog.College{
		testCollege("college-ktm", "Bagbazar, Kathmandu", testProgram("p1", science, 2.0)),
		testCollege("college-lal", "Lagankhel, Lalitpur", testProgram("p2", science, 2.0)),
	}}
	students := studentReaderWith(testStudent("student-1", 3.0))

	handler := NewSearchCollegesHandler(colleges, students)
	result, err := handler.Handle(context.Background(), SearchCollegesQuery{
		StudentID: "student-1",
		Location:  "lalitpur",
	})
	require.NoError(t, err)

	require.Len(t, result.Colleges, 1)
	assert.Equal(t, "college-lal", result.Colleges[0].CollegeID)
	assert.Equal(t, "lalitpur", result.Criteria.Location)
}

func TestSearchColleges_MalformedSubjectCriteria(t *testing.T) {
	colleges := &fakeCollegeReader{}
	students := studentReaderWith(testStudent("student-1", 3.0))

	handler := NewSearchCollegesHandler(colleges, students)
	_, err := handler.Handle(context.Background(), SearchCollegesQuery{
		StudentID: "student-1",
		Criteria: SearchCriteria{Subjects: []SubjectCriterion{
			{Subject: "Mathematics", GradePoint: 4.5},
		}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrMalformedCriteria)
}

func TestSearchColleges_StudentNotFound(t *testing.T) {
	handler := NewSearchCollegesHandler(&fakeCollegeReader{}, studentReaderWith())
	_, err := handler.Handle(context.Background(), SearchCollegesQuery{StudentID: "missing"})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestSearchColleges_CatalogLoadFailure(t *testing.T) {
	colleges := &fakeCollegeReader{err: errors.New("connection refused")}
	students := studentReaderWith(testStudent("student-1", 3.0))

	handler := NewSearchCollegesHandler(colleges, students)
	_, err := handler.Handle(context.Background(), SearchCollegesQuery{StudentID: "student-1"})
	require.Error(t, err)
}
