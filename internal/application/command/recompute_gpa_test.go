package command

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

func TestRecomputeGPA_PersistsMean(t *testing.T) {
	record := enrolledStudent("student-1",
		student.Mark{ID: "m1", StudentID: "student-1", Subject: "Mathematics", GradePoint: 3.0},
		student.Mark{ID: "m2", StudentID: "student-1", Subject: "Science", GradePoint: 3.4},
		student.Mark{ID: "m3", StudentID: "student-1", Subject: "English", GradePoint: 3.8},
	)
	record.GPA = shared.GPA(2.0)
	repo := newMemStudentRepo(record)
	events := &capturePublisher{}
	handler := NewRecomputeGPAHandler(repo, events)

	result, err := handler.Handle(context.Background(), RecomputeGPACommand{StudentID: "student-1"})
	require.NoError(t, err)

	assert.InDelta(t, 2.0, result.OldGPA, 0.001)
	assert.InDelta(t, 3.4, result.NewGPA, 0.001)
	assert.Equal(t, 3, result.MarkCount)

	stored, err := repo.GetByID(context.Background(), "student-1")
	require.NoError(t, err)
	assert.InDelta(t, 3.4, stored.GPA.Float64(), 0.001)
	require.Equal(t, []shared.EventType{shared.EventStudentGPARecomputed}, events.types())
}

func TestRecomputeGPA_NoMarksLeavesGPAUntouched(t *testing.T) {
	record := enrolledStudent("student-1")
	record.GPA = shared.GPA(3.2)
	repo := newMemStudentRepo(record)
	handler := NewRecomputeGPAHandler(repo, nil)

	_, err := handler.Handle(context.Background(), RecomputeGPACommand{StudentID: "student-1"})
	require.Error(t, err)
	assert.True(t, shared.IsNoMarks(err))

	stored, err := repo.GetByID(context.Background(), "student-1")
	require.NoError(t, err)
	assert.InDelta(t, 3.2, stored.GPA.Float64(), 0.001)
}

func TestRecomputeGPA_MissingStudentID(t *testing.T) {
	handler := NewRecomputeGPAHandler(newMemStudentRepo(), nil)

	_, err := handler.Handle(context.Background(), RecomputeGPACommand{})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

// overlapDetectingRepo fails the test if two recomputes for the same student
// run their read-modify-write concurrently.
type overlapDetectingRepo struct {
	*memStudentRepo
	mu     sync.Mutex
	inside map[string]bool
	t      *testing.T
}

func (r *overlapDetectingRepo) GetByID(ctx context.Context, id string) (*student.StudentRecord, error) {
	r.mu.Lock()
	if r.inside[id] {
		r.mu.Unlock()
		r.t.Error("concurrent recompute for the same student")
		return nil, fmt.Errorf("overlap")
	}
	r.inside[id] = true
	r.mu.Unlock()
	return r.memStudentRepo.GetByID(ctx, id)
}

func (r *overlapDetectingRepo) UpdateGPA(ctx context.Context, id string, gpa shared.GPA) error {
	err := r.memStudentRepo.UpdateGPA(ctx, id, gpa)
	r.mu.Lock()
	r.inside[id] = false
	r.mu.Unlock()
	return err
}

func TestRecomputeGPA_SerializedPerStudent(t *testing.T) {
	record := enrolledStudent("student-1",
		student.Mark{ID: "m1", StudentID: "student-1", Subject: "Mathematics", GradePoint: 3.0},
	)
	repo := &overlapDetectingRepo{
		memStudentRepo: newMemStudentRepo(record),
		inside:         make(map[string]bool),
		t:              t,
	}
	handler := NewRecomputeGPAHandler(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Handle(context.Background(), RecomputeGPACommand{StudentID: "student-1"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
