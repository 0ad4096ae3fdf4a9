// Package services contains server-side business logic. This file
// implements UserService, which handles registration, login, and
// resolving verified token subjects back to user records.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/feepo/feepo/internal/common"
	"github.com/feepo/feepo/internal/server/auth"
	"github.com/feepo/feepo/internal/server/models"
	"github.com/feepo/feepo/internal/server/repositories/repomanager"
	"github.com/feepo/feepo/internal/server/secrets"
	"github.com/go-playground/validator/v10"
)

// RegistrationFlags reports every validation and uniqueness check of a
// registration attempt. All five are always populated so a client can
// surface multiple problems at once.
type RegistrationFlags struct {
	IsValidEmail    bool `json:"isValidEmail"`
	IsValidUsername bool `json:"isValidUsername"`
	IsValidPassword bool `json:"isValidPassword"`
	IsUsernameTaken bool `json:"isUsernameTaken"`
	IsEmailTaken    bool `json:"isEmailTaken"`
}

// OK reports whether the attempt passed every check.
func (f RegistrationFlags) OK() bool {
	return f.IsValidEmail && f.IsValidUsername && f.IsValidPassword &&
		!f.IsUsernameTaken && !f.IsEmailTaken
}

// AuthResult is a successfully authenticated user plus a freshly issued
// bearer token.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresIn string
}

// UserService provides authentication-related operations:
// - Register: validate input, create the user, mint a token
// - Login: verify credentials and mint a token
// - Resolve: map a verified token subject to a user record
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	keys          *secrets.Keypair
	tokenValidity time.Duration
	validate      *validator.Validate
}

// NewUserService constructs a UserService using repositories and the
// keypair obtained at startup.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, keys *secrets.Keypair, tokenValidity time.Duration) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		keys:          keys,
		tokenValidity: tokenValidity,
		validate:      validator.New(),
	}
}

// Register runs all validation and uniqueness checks, and only when
// every check passes creates the user and issues a token. A failed
// attempt returns the flags and performs no mutation. The returned
// error is reserved for infrastructure failures.
func (s *UserService) Register(ctx context.Context, username, email, password string, profilePicURL *string) (*AuthResult, *RegistrationFlags, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	flags := RegistrationFlags{
		IsValidUsername: username != "",
		IsValidPassword: password != "",
		IsValidEmail:    s.validate.Var(email, "required,email") == nil,
	}

	repo := s.repomanager.Users(s.db)

	// both lookups run so the response can report both conflicts
	taken, err := s.exists(func() (*models.User, error) { return repo.GetByUsername(ctx, username) })
	if err != nil {
		return nil, nil, err
	}
	flags.IsUsernameTaken = taken

	taken, err = s.exists(func() (*models.User, error) { return repo.GetByEmail(ctx, email) })
	if err != nil {
		return nil, nil, err
	}
	flags.IsEmailTaken = taken

	if !flags.OK() {
		return nil, &flags, nil
	}

	cred, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user, err := repo.Create(ctx, &models.User{
		Username:      username,
		Email:         email,
		ProfilePicURL: profilePicURL,
		Hash:          cred.Hash,
		Salt:          cred.Salt,
	})
	if err != nil {
		// the unique constraints are the authoritative guard: a race
		// past the pre-checks still comes back as a conflict, not as
		// an internal error
		if errors.Is(err, common.ErrUsernameTaken) {
			flags.IsUsernameTaken = true
			return nil, &flags, nil
		}
		if errors.Is(err, common.ErrEmailTaken) {
			flags.IsEmailTaken = true
			return nil, &flags, nil
		}
		return nil, nil, err
	}

	result, err := s.issueFor(user)
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

// Login verifies the password for the account registered under email
// and, on success, issues a token. Unknown email and wrong password are
// indistinguishable to the caller: both return ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, &auth.Credential{Salt: user.Salt, Hash: user.Hash}) {
		return nil, common.ErrorUnauthorized
	}

	return s.issueFor(user)
}

// Resolve returns the user record for a verified token subject.
func (s *UserService) Resolve(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.GetByID(ctx, userID)
}

func (s *UserService) exists(lookup func() (*models.User, error)) (bool, error) {
	_, err := lookup()
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *UserService) issueFor(user *models.User) (*AuthResult, error) {
	token, expiresIn, err := auth.IssueToken(user.ID, s.keys.PrivateKey(), s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{User: user, Token: token, ExpiresIn: expiresIn}, nil
}
