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

func seededStudent(t *testing.T, password string) *student.StudentRecord {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &student.StudentRecord{
		ID:           "student-1",
		Name:         "Aarav Shrestha",
		Email:        "aarav@example.com",
		Role:         student.RoleStudent,
		PasswordHash: string(hash),
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newMemStudentRepo(seededStudent(t, "password123"))
	tokens := newFakeTokenIssuer()
	handler := NewLoginHandler(repo, tokens)

	result, err := handler.Handle(context.Background(), LoginCommand{
		Email:    "AARAV@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "student-1", result.StudentID)
	assert.Equal(t, string(student.RoleStudent), result.Role)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	// The refresh token is persisted on the record.
	record, err := repo.GetByID(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, result.Tokens.RefreshToken, record.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMemStudentRepo(seededStudent(t, "password123"))
	handler := NewLoginHandler(repo, newFakeTokenIssuer())

	_, err := handler.Handle(context.Background(), LoginCommand{
		Email:    "aarav@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameFailure(t *testing.T) {
	handler := NewLoginHandler(newMemStudentRepo(), newFakeTokenIssuer())

	_, err := handler.Handle(context.Background(), LoginCommand{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshToken_RotationInvalidatesOldToken(t *testing.T) {
	repo := newMemStudentRepo(seededStudent(t, "password123"))
	tokens := newFakeTokenIssuer()
	login := NewLoginHandler(repo, tokens)
	refresh := NewRefreshTokenHandler(repo, tokens)

	loginResult, err := login.Handle(context.Background(), LoginCommand{
		Email:    "aarav@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	first := loginResult.Tokens.RefreshToken

	pair, err := refresh.Handle(context.Background(), RefreshTokenCommand{RefreshToken: first})
	require.NoError(t, err)
	assert.NotEqual(t, first, pair.RefreshToken)

	// The rotated-out token no longer matches the record.
	_, err = refresh.Handle(context.Background(), RefreshTokenCommand{RefreshToken: first})
	require.Error(t, err)
	assert.True(t, shared.IsUnauthorized(err))
}

func TestLogout_ClearsRefreshToken(t *testing.T) {
	repo := newMemStudentRepo(seededStudent(t, "password123"))
	tokens := newFakeTokenIssuer()
	login := NewLoginHandler(repo, tokens)
	logout := NewLogoutHandler(repo)

	_, err := login.Handle(context.Background(), LoginCommand{
		Email:    "aarav@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, logout.Handle(context.Background(), "student-1"))

	record, err := repo.GetByID(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Empty(t, record.RefreshToken)
}
