package session

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Claims identify the browser session a request belongs to.
type Claims struct {
	SessionID string
	UserID    string
	Role      string
	Admin     bool
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// NewToken signs c as an HS256 JWT valid for ttl.
func NewToken(secret []byte, c Claims, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"session_id": c.SessionID,
		"user_id":    c.UserID,
		"role":       c.Role,
		"admin":      c.Admin,
		"exp":        time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// FromCtx extracts the session claims from the JWT stored in
// c.Locals("user") by the jwt middleware.
func FromCtx(c *fiber.Ctx) (Claims, error) {
	u := c.Locals("user")
	if u == nil {
		return Claims{}, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return Claims{}, fiber.ErrUnauthorized
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fiber.ErrUnauthorized
	}
	sid, _ := mc["session_id"].(string)
	if sid == "" {
		return Claims{}, fiber.ErrUnauthorized
	}
	out := Claims{SessionID: sid}
	out.UserID, _ = mc["user_id"].(string)
	out.Role, _ = mc["role"].(string)
	out.Admin, _ = mc["admin"].(bool)
	return out, nil
}

// PutToken stores an upstream token (KeyUserToken or KeyAdminToken) as a
// JSON string so every Repository can hold it.
func PutToken(ctx context.Context, repo Repository, sessionID, key, token string) error {
	return PutJSON(ctx, repo, sessionID, key, token)
}

// Token returns a token stored by PutToken.
func Token(ctx context.Context, repo Repository, sessionID, key string) (string, error) {
	var tok string
	if err := GetJSON(ctx, repo, sessionID, key, &tok); err != nil {
		return "", err
	}
	return tok, nil
}

// Upstream resolves the caller's claims and the backend token stored under
// key. A session that never logged in gets fiber.ErrUnauthorized.
func Upstream(c *fiber.Ctx, repo Repository, key string) (Claims, string, error) {
	claims, err := FromCtx(c)
	if err != nil {
		return Claims{}, "", err
	}
	tok, err := Token(c.UserContext(), repo, claims.SessionID, key)
	if errors.Is(err, ErrNotFound) {
		return claims, "", fiber.ErrUnauthorized
	}
	if err != nil {
		return claims, "", err
	}
	return claims, tok, nil
}
