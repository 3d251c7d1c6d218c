// Package services contains the record-store business logic. AuthService
// handles sign-up, sign-in, refresh-token rotation and sign-out.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/passionpath/internal/common"
	"github.com/dmitrijs2005/passionpath/internal/dbx"
	rs "github.com/dmitrijs2005/passionpath/internal/recordstore"
	"github.com/dmitrijs2005/passionpath/internal/server/auth"
	"github.com/dmitrijs2005/passionpath/internal/server/config"
	"github.com/dmitrijs2005/passionpath/internal/server/models"
	"github.com/dmitrijs2005/passionpath/internal/server/repositories/repomanager"
)

type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// SignUp creates the account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, creds rs.Credentials) (*rs.Tokens, error) {
	email, err := validateCredentials(creds)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var tokens *rs.Tokens
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{Email: email, PasswordHash: string(hash)})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return err
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		tokens, err = s.generateTokens(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// SignIn verifies the password and issues a new session.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, creds rs.Credentials) (*rs.Tokens, error) {
	email := normalizeEmail(creds.Email)
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword([]byte(user.PasswordHash), creds.Password) {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokens(ctx, user, s.db)
}

// Refresh validates a refresh token and rotates it transactionally.
// Expired tokens yield ErrRefreshTokenExpired, unknown ones ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*rs.Tokens, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if session.Expires.Before(time.Now()) {
		_ = repo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	var tokens *rs.Tokens
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Sessions(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, session.UserID)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		tokens, err = s.generateTokens(ctx, user, tx)
		return err
	}); err != nil {
		return nil, err
	}
	return tokens, nil
}

// SignOut revokes every refresh session of the user. Access tokens already
// issued stay valid until they expire.
func (s *AuthService) SignOut(ctx context.Context, userID string) error {
	if err := s.repomanager.Sessions(s.db).DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error deleting sessions: %w", err)
	}
	return nil
}

func (s *AuthService) generateTokens(ctx context.Context, user *models.User, tx dbx.DBTX) (*rs.Tokens, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.Sessions(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &rs.Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         rs.Identity{ID: user.ID, Email: user.Email},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(creds rs.Credentials) (string, error) {
	email := normalizeEmail(creds.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(creds.Password) < common.MinPasswordLength {
		return "", fmt.Errorf("%w: password should be at least %d characters", common.ErrorValidation, common.MinPasswordLength)
	}
	return email, nil
}
