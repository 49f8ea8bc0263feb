package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dunkey/dunkey-server/internal/common"
	"github.com/dunkey/dunkey-server/internal/cryptox"
	"github.com/dunkey/dunkey-server/internal/dbx"
	"github.com/dunkey/dunkey-server/internal/logging"
	"github.com/dunkey/dunkey-server/internal/server/auth"
	"github.com/dunkey/dunkey-server/internal/server/config"
	"github.com/dunkey/dunkey-server/internal/server/models"
	"github.com/dunkey/dunkey-server/internal/server/repositories/repomanager"
	"github.com/dunkey/dunkey-server/internal/server/repositories/users"
	"github.com/dunkey/dunkey-server/internal/strength"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRe = regexp.MustCompile(`[^a-zA-Z0-9_.]`)
)

const weakPasswordMessage = "Password must be at least 8 characters long, include uppercase and lowercase letters, a digit, and a symbol."

// SanitizeUsername strips everything except letters, digits, underscores and
// dots.
func SanitizeUsername(username string) string {
	return strings.TrimSpace(usernameRe.ReplaceAllString(username, ""))
}

// UserService handles accounts: registration, login, token refresh, login
// password changes, and the reversible master password.
//
// The login password only ever meets bcrypt (one-way); the master password
// only ever meets the FieldCipher (reversible). The two never cross.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	cipher                       *cryptox.FieldCipher
	audit                        *Audit
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cipher *cryptox.FieldCipher, audit *Audit, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		cipher:                       cipher,
		audit:                        audit,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		bcryptCost:                   cfg.BcryptCost,
	}
}

// Register creates a new account. The login password must pass the strength
// check and is stored as a bcrypt hash only.
func (s *UserService) Register(ctx context.Context, username, email, password, confirm string) (*models.User, error) {
	username = SanitizeUsername(username)
	email = strings.ToLower(strings.TrimSpace(email))

	v := common.NewValidationError()
	if username == "" {
		v.Add("username", "Username is required.")
	}
	if !emailRe.MatchString(email) {
		v.Add("email", "A valid e-mail is required.")
	}
	if !strength.IsStrong(password) {
		v.Add("password", weakPasswordMessage)
	}
	if password != confirm {
		v.Add("confirm_password", "Passwords do not match.")
	}
	if !v.Empty() {
		return nil, v
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetByUsername(ctx, username); err == nil {
		v.Add("username", "Username already taken.")
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		v.Add("email", "Email already registered.")
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if !v.Empty() {
		return nil, v
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{UserName: username, Email: email, PasswordHash: hash})
	if err != nil {
		// The existence checks above race with concurrent registrations;
		// the unique constraints are the source of truth.
		if errors.Is(err, users.ErrDuplicate) {
			v.Add("username", "Username already taken.")
			return nil, v
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.audit.UserRegistered(ctx, username, email)
	return user, nil
}

// Login verifies the login password against the stored bcrypt hash and mints
// a fresh token pair. Unknown users and wrong passwords are
// indistinguishable.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.audit.LoginFailed(ctx, username)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		s.audit.LoginFailed(ctx, username)
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	s.audit.LoginSucceeded(ctx, username)
	return pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// ChangePassword replaces the login password after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword, confirm string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	v := common.NewValidationError()
	if oldPassword == "" || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(oldPassword)) != nil {
		v.Add("old_password", "Current password is incorrect.")
	}
	if newPassword != confirm {
		v.Add("confirm_password", "New passwords do not match.")
	}
	if !strength.IsStrong(newPassword) {
		v.Add("new_password", "New "+lowerFirst(weakPasswordMessage))
	}
	if !v.Empty() {
		return v
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	s.audit.PasswordChanged(ctx, userID)
	return nil
}

// SetMasterPassword encrypts and stores the reversible master password.
func (s *UserService) SetMasterPassword(ctx context.Context, userID, master string) error {
	if master == "" {
		v := common.NewValidationError()
		v.Add("master_password", "Master password is required.")
		return v
	}

	blob, err := s.cipher.EncryptField(master)
	if err != nil {
		return fmt.Errorf("encrypting master password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateMasterPassword(ctx, userID, blob); err != nil {
		return err
	}

	s.audit.MasterPasswordSet(ctx, userID)
	return nil
}

// MasterPassword recovers the stored master password. Returns the empty
// string when none has been set.
func (s *UserService) MasterPassword(ctx context.Context, userID string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(user.EncryptedMasterPassword) == 0 {
		return "", nil
	}

	master, err := s.cipher.DecryptField(user.EncryptedMasterPassword)
	if err != nil {
		s.logger.Error(ctx, "master password failed to decrypt", "user_id", userID)
		return "", err
	}
	return master, nil
}

// DeleteAccount removes the user; vault entries and refresh tokens cascade
// at the schema level.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	repo := s.repomanager.Users(s.db)
	if err := repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.audit.AccountDeleted(ctx, userID)
	return nil
}

// --- helpers below ---

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
