package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/hash"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

const (
	RoleUser   = "user"
	RoleVendor = "vendor"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	AccessTTL time.Duration
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	User        *models.User
	Role        string
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Address:      strings.TrimSpace(req.Address),
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	u, err := s.Repo.UserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !hash.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrUnauthorized
	}

	role, err := s.roleFor(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	exp := time.Now().Add(s.AccessTTL)
	tok, err := tokens.NewAccessToken(s.JWTSecret, strconv.FormatUint(uint64(u.ID), 10), role, exp)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: tok, AccessExp: exp, User: u, Role: role}, nil
}

// CurrentUser loads the authenticated user together with its current role.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, string, error) {
	u, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, "", notFound(err, "user")
	}
	role, err := s.roleFor(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, role, nil
}

func (s *AuthService) roleFor(ctx context.Context, userID uint) (string, error) {
	if _, err := s.Repo.VendorByUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleUser, nil
		}
		return "", err
	}
	return RoleVendor, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
