// Package services contains the server-side business logic: account
// registration and login, email verification, cases and their attachments.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/dbx"
	"github.com/dmitrijs2005/bloodbay/internal/logging"
	"github.com/dmitrijs2005/bloodbay/internal/server/auth"
	"github.com/dmitrijs2005/bloodbay/internal/server/config"
	"github.com/dmitrijs2005/bloodbay/internal/server/mail"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AuthService implements the account lifecycle:
//
//	UNREGISTERED --Register--> PENDING_VERIFICATION --Verify--> VERIFIED
//	VERIFIED --ResetPassword--> VERIFIED
//
// Login succeeds only in the VERIFIED state.
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	mailer        mail.Sender
	log           logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	publicURL     string
	notify        bool
}

// NewAuthService constructs an AuthService. Verification emails are not
// sent in the test environment.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Sender, cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		mailer:        mailer,
		log:           log,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		publicURL:     strings.TrimRight(cfg.PublicURL, "/"),
		notify:        !cfg.IsTest(),
	}
}

// Register creates an unverified account and sends the verification link
// to email. It returns the confirmation message shown to the user.
func (s *AuthService) Register(ctx context.Context, email, password, username string) (string, error) {
	if blank(email, password, username) {
		return "", common.NewError(common.ErrValidation, common.MsgRegisterFieldsRequired)
	}

	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	if !validEmail(email) {
		return "", common.NewError(common.ErrValidation, common.MsgInvalidEmail)
	}
	if !validatePassword(password) {
		return "", common.NewError(common.ErrWeakPassword, common.MsgWeakPassword)
	}

	taken, err := s.isTaken(ctx, email, username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", common.NewError(common.ErrConflict, common.MsgUserAlreadyExists)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	token := uuid.NewString()

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			Username:     username,
			PasswordHash: hash,
			Role:         models.RoleUser,
		})
		if err != nil {
			return err
		}
		_, err = s.repomanager.Verifications(tx).Create(ctx, token, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return "", common.NewError(common.ErrConflict, common.MsgUserAlreadyExists)
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)

	if s.notify {
		msg, err := mail.VerificationEmail(user.Email, s.verificationLink(token))
		if err != nil {
			return "", err
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			return "", fmt.Errorf("error sending verification email: %w", err)
		}
	}

	return fmt.Sprintf(common.MsgRegistered, user.Email), nil
}

// Login checks the credentials of a verified account and returns a new
// session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if blank(email, password) {
		return "", common.NewError(common.ErrValidation, common.MsgLoginFieldsRequired)
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !checkPassword(user.PasswordHash, password) {
		return "", common.NewError(common.ErrAuthentication, common.MsgInvalidPassword)
	}

	v, err := s.repomanager.Verifications(s.db).GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("error searching verification: %w", err)
	}
	if v == nil || !v.Verified {
		return "", common.NewError(common.ErrNotVerified, common.MsgNotVerified)
	}

	return s.issueToken(user)
}

// Info decodes a session token.
func (s *AuthService) Info(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, common.NewError(common.ErrMissingToken, common.MsgTokenRequired)
	}
	return auth.ParseToken(token, s.jwtSecret)
}

// ResetPassword replaces the password after checking the old one and
// returns a token for the updated identity.
func (s *AuthService) ResetPassword(ctx context.Context, email, oldPassword, newPassword string) (string, error) {
	if blank(email, oldPassword, newPassword) {
		return "", common.NewError(common.ErrValidation, common.MsgResetFieldsRequired)
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !checkPassword(user.PasswordHash, oldPassword) {
		return "", common.NewError(common.ErrAuthentication, common.MsgInvalidOldPassword)
	}
	if !validatePassword(newPassword) {
		return "", common.NewError(common.ErrWeakPassword, common.MsgWeakPassword)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	updated, err := s.repomanager.Users(s.db).Update(ctx, user.ID, models.UserUpdate{PasswordHash: &hash})
	if err != nil {
		return "", fmt.Errorf("error updating user: %w", err)
	}

	s.log.Info(ctx, "password reset", "user_id", updated.ID)
	return s.issueToken(updated)
}

// --- helpers below ---

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, common.MsgUserNotFound)
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func (s *AuthService) isTaken(ctx context.Context, email, username string) (bool, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("error searching user: %w", err)
	}

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("error searching user: %w", err)
	}

	return false, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token, err := auth.GenerateToken(auth.Identity{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

func (s *AuthService) verificationLink(token string) string {
	return fmt.Sprintf("%s/verify/%s", s.publicURL, token)
}
