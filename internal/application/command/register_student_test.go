package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

func TestRegisterStudent_Success(t *testing.T) {
	repo := newMemStudentRepo()
	events := &capturePublisher{}
	handler := NewRegisterStudentHandler(repo, events)

	result, err := handler.Handle(context.Background(), RegisterStudentCommand{
		Name:       "Aarav Shrestha",
		Email:      "Aarav@Example.com",
		Password:   "password123",
		GPA:        3.2,
		TotalMarks: 380,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.StudentID)
	assert.Equal(t, "aarav@example.com", result.Email)

	record, err := repo.GetByID(context.Background(), result.StudentID)
	require.NoError(t, err)
	assert.Equal(t, student.RoleStudent, record.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte("password123")))
	assert.InDelta(t, 3.2, record.GPA.Float64(), 0.001)
	assert.InDelta(t, 380.0, record.TotalMarks.Float64(), 0.001)

	require.Equal(t, []shared.EventType{shared.EventStudentRegistered}, events.types())
}

func TestRegisterStudent_DuplicateEmail(t *testing.T) {
	repo := newMemStudentRepo()
	handler := NewRegisterStudentHandler(repo, nil)

	cmd := RegisterStudentCommand{
		Name:     "Aarav Shrestha",
		Email:    "aarav@example.com",
		Password: "password123",
	}
	_, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestRegisterStudent_Validation(t *testing.T) {
	handler := NewRegisterStudentHandler(newMemStudentRepo(), nil)

	cases := []struct {
		name string
		cmd  RegisterStudentCommand
	}{
		{"missing name", RegisterStudentCommand{Email: "a@b.com", Password: "password123"}},
		{"missing email", RegisterStudentCommand{Name: "A", Password: "password123"}},
		{"short password", RegisterStudentCommand{Name: "A", Email: "a@b.com", Password: "short"}},
		{"invalid email", RegisterStudentCommand{Name: "A", Email: "not-an-email", Password: "password123"}},
		{"gpa out of range", RegisterStudentCommand{Name: "A", Email: "a@b.com", Password: "password123", GPA: 4.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tc.cmd)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
		})
	}
}
