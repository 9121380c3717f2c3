package command

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/unihub/college-match-hub/internal/domain/shared"
	"github.com/unihub/college-match-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN / REFRESH / LOGOUT COMMANDS
// Session issuance around the student repository. Token minting itself
// lives in infrastructure/auth; commands only orchestrate.
// ══════════════════════════════════════════════════════════════════════════════

// TokenIssuer mints and verifies session tokens.
type TokenIssuer interface {
	// IssueAccessToken mints a short-lived access token.
	IssueAccessToken(studentID string, role string) (string, error)

	// IssueRefreshToken mints a long-lived refresh token.
	IssueRefreshToken(studentID string) (string, error)

	// VerifyRefreshToken checks a refresh token and returns the subject.
	VerifyRefreshToken(token string) (string, error)
}

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginCommand carries login credentials.
type LoginCommand struct {
	Email    string
	Password string
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Tokens    TokenPair `json:"tokens"`
}

// LoginHandler handles credential logins.
type LoginHandler struct {
	students student.Repository
	tokens   TokenIssuer
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(students student.Repository, tokens TokenIssuer) *LoginHandler {
	return &LoginHandler{students: students, tokens: tokens}
}

// Handle verifies the password and rotates the stored refresh token.
// Wrong email and wrong password both map to ErrInvalidCredentials so the
// response does not reveal which part failed.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" {
		return nil, shared.NewDomainError("command", "Login", shared.ErrInvalidInput, "email is required")
	}

	record, err := h.students.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(cmd.Password)) != nil {
		return nil, shared.ErrInvalidCredentials
	}

	pair, err := h.issuePair(ctx, record)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		StudentID: record.ID,
		Name:      record.Name,
		Role:      string(record.Role),
		Tokens:    pair,
	}, nil
}

func (h *LoginHandler) issuePair(ctx context.Context, record *student.StudentRecord) (TokenPair, error) {
	access, err := h.tokens.IssueAccessToken(record.ID, string(record.Role))
	if err != nil {
		return TokenPair{}, shared.WrapError("command", "Login", shared.ErrUnauthorized, "failed to mint access token", err)
	}

	refresh, err := h.tokens.IssueRefreshToken(record.ID)
	if err != nil {
		return TokenPair{}, shared.WrapError("command", "Login", shared.ErrUnauthorized, "failed to mint refresh token", err)
	}

	record.RefreshToken = refresh
	if err := h.students.Update(ctx, record); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshTokenCommand carries a refresh token to rotate.
type RefreshTokenCommand struct {
	RefreshToken string
}

// RefreshTokenHandler rotates refresh tokens.
type RefreshTokenHandler struct {
	students student.Repository
	tokens   TokenIssuer
}

// NewRefreshTokenHandler creates a new refresh handler.
func NewRefreshTokenHandler(students student.Repository, tokens TokenIssuer) *RefreshTokenHandler {
	return &RefreshTokenHandler{students: students, tokens: tokens}
}

// Handle verifies the incoming token, checks it is the one on record (a
// rotated-out token is rejected), and issues a fresh pair.
func (h *RefreshTokenHandler) Handle(ctx context.Context, cmd RefreshTokenCommand) (*TokenPair, error) {
	if cmd.RefreshToken == "" {
		return nil, shared.NewDomainError("command", "RefreshToken", shared.ErrUnauthorized, "refresh token is required")
	}

	studentID, err := h.tokens.VerifyRefreshToken(cmd.RefreshToken)
	if err != nil {
		return nil, shared.WrapError("command", "RefreshToken", shared.ErrUnauthorized, "invalid refresh token", err)
	}

	record, err := h.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if record.RefreshToken != cmd.RefreshToken {
		return nil, shared.NewDomainError("command", "RefreshToken", shared.ErrUnauthorized, "refresh token is expired or already used")
	}

	login := &LoginHandler{students: h.students, tokens: h.tokens}
	pair, err := login.issuePair(ctx, record)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// LogoutHandler clears the stored refresh token.
type LogoutHandler struct {
	students student.Repository
}

// NewLogoutHandler creates a new logout handler.
func NewLogoutHandler(students student.Repository) *LogoutHandler {
	return &LogoutHandler{students: students}
}

// Handle invalidates the student's refresh token.
func (h *LogoutHandler) Handle(ctx context.Context, studentID string) error {
	record, err := h.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}

	record.RefreshToken = ""
	return h.students.Update(ctx, record)
}
