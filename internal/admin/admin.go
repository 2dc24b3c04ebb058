// Package admin is the console that approves or rejects the verification
// documents uploaded at signup.
package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

var (
	ErrInvalidDecision    = errors.New("status must be approved or rejected")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Decision string

const (
	Approved Decision = "approved"
	Rejected Decision = "rejected"
)

func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case Approved, Rejected:
		return d, nil
	default:
		return "", ErrInvalidDecision
	}
}

type User struct {
	ID           string            `json:"_id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	BusinessName string            `json:"businessName"`
	Address      string            `json:"address"`
	Role         string            `json:"role"`
	Status       string            `json:"status"`
	Documents    map[string]string `json:"documents,omitempty"`
}

type Gateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	Users(ctx context.Context, token string) ([]User, error)
	UnverifiedUsers(ctx context.Context, token string) ([]User, error)
	VerifyUser(ctx context.Context, token, userID string, d Decision) error
}

type Service struct {
	gw     Gateway
	repo   session.Repository
	secret []byte
	ttl    time.Duration
}

func NewService(gw Gateway, repo session.Repository, secret []byte, ttl time.Duration) *Service {
	return &Service{gw: gw, repo: repo, secret: secret, ttl: ttl}
}

// Login opens an admin session. Its JWT carries the admin claim and the
// backend token is kept under the admin key.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	backendToken, err := s.gw.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	sid := session.NewID()
	if err := session.PutToken(ctx, s.repo, sid, session.KeyAdminToken, backendToken); err != nil {
		return "", err
	}
	return session.NewToken(s.secret, session.Claims{SessionID: sid, Admin: true}, s.ttl)
}

func (s *Service) Users(ctx context.Context, token string) ([]User, error) {
	users, err := s.gw.Users(ctx, token)
	if users == nil && err == nil {
		users = []User{}
	}
	return users, err
}

func (s *Service) Unverified(ctx context.Context, token string) ([]User, error) {
	users, err := s.gw.UnverifiedUsers(ctx, token)
	if users == nil && err == nil {
		users = []User{}
	}
	return users, err
}

func (s *Service) Verify(ctx context.Context, token, userID, status string) (Decision, error) {
	d, err := ParseDecision(status)
	if err != nil {
		return "", err
	}
	return d, s.gw.VerifyUser(ctx, token, userID, d)
}

// RequireAdmin rejects sessions that did not log in through the admin console.
func RequireAdmin(c *fiber.Ctx) error {
	claims, err := session.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if !claims.Admin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access required"})
	}
	return c.Next()
}
