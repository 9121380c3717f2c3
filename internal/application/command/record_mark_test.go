package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

func enrolledStudent(id string, marks ...student.Mark) *student.StudentRecord {
	return &student.StudentRecord{
		ID:           id,
		Name:         "Aarav Shrestha",
		Email:        id + "@example.com",
		Role:         student.RoleStudent,
		PasswordHash: "x",
		Marks:        marks,
	}
}

func TestRecordMark_Success(t *testing.T) {
	repo := newMemStudentRepo(enrolledStudent("student-1"))
	marks := newMemMarkRepo()
	events := &capturePublisher{}
	handler := NewRecordMarkHandler(repo, marks, events)

	mark, err := handler.Handle(context.Background(), RecordMarkCommand{
		StudentID:  "student-1",
		Subject:    "Mathematics",
		GradePoint: 3.0,
	})
	require.NoError(t, err)

	assert.Equal(t, "student-1", mark.StudentID)
	assert.Equal(t, "mathematics", mark.Subject.Key())
	// Grade label derived from the grade point when omitted.
	assert.Equal(t, "B", mark.Grade)

	stored, err := marks.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, []shared.EventType{shared.EventMarkRecorded}, events.types())
}

func TestRecordMark_DuplicateSubjectRejected(t *testing.T) {
	existing := student.Mark{
		ID: "mark-1", StudentID: "student-1",
		Subject: shared.Subject("Mathematics"), GradePoint: 3.0,
	}
	repo := newMemStudentRepo(enrolledStudent("student-1", existing))
	handler := NewRecordMarkHandler(repo, newMemMarkRepo(), nil)

	// Same subject, different casing.
	_, err := handler.Handle(context.Background(), RecordMarkCommand{
		StudentID:  "student-1",
		Subject:    "  MATHEMATICS ",
		GradePoint: 3.6,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestRecordMark_GradePointOutOfRange(t *testing.T) {
	repo := newMemStudentRepo(enrolledStudent("student-1"))
	handler := NewRecordMarkHandler(repo, newMemMarkRepo(), nil)

	_, err := handler.Handle(context.Background(), RecordMarkCommand{
		StudentID:  "student-1",
		Subject:    "Mathematics",
		GradePoint: 4.2,
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestRecordMark_UnknownStudent(t *testing.T) {
	handler := NewRecordMarkHandler(newMemStudentRepo(), newMemMarkRepo(), nil)

	_, err := handler.Handle(context.Background(), RecordMarkCommand{
		StudentID:  "missing",
		Subject:    "Mathematics",
		GradePoint: 3.0,
	})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestRetractMark_Success(t *testing.T) {
	marks := newMemMarkRepo()
	mark := &student.Mark{
		ID: "mark-1", StudentID: "student-1",
		Subject: shared.Subject("Mathematics"), GradePoint: 3.0,
	}
	require.NoError(t, marks.Add(context.Background(), mark))

	events := &capturePublisher{}
	handler := NewRetractMarkHandler(marks, events)

	err := handler.Handle(context.Background(), RetractMarkCommand{
		StudentID: "student-1",
		MarkID:    "mark-1",
	})
	require.NoError(t, err)

	_, err = marks.GetByID(context.Background(), "mark-1")
	assert.True(t, shared.IsNotFound(err))
	require.Equal(t, []shared.EventType{shared.EventMarkRetracted}, events.types())
}

func TestRetractMark_OtherStudentsMarkForbidden(t *testing.T) {
	marks := newMemMarkRepo()
	mark := &student.Mark{
		ID: "mark-1", StudentID: "student-2",
		Subject: shared.Subject("Mathematics"), GradePoint: 3.0,
	}
	require.NoError(t, marks.Add(context.Background(), mark))

	handler := NewRetractMarkHandler(marks, nil)
	err := handler.Handle(context.Background(), RetractMarkCommand{
		StudentID: "student-1",
		MarkID:    "mark-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	// The mark survives a forbidden retraction.
	_, err = marks.GetByID(context.Background(), "mark-1")
	assert.NoError(t, err)
}
