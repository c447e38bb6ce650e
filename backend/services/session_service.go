package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/storydeck/marketplace/backend/config"
	"github.com/storydeck/marketplace/backend/models"
	"github.com/storydeck/marketplace/internal/domain/marketplace"
	storyconfig "github.com/storydeck/marketplace/storydeck/config"
)

var (
	ErrNoToken      = errors.New("no identity token")
	ErrTokenExpired = errors.New("identity token expired")
)

// SessionService issues and verifies HMAC-SHA256 signed identity tokens
type SessionService struct {
	key    []byte
	secure bool
	now    func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(cfg *config.WebAppConfig) *SessionService {
	return &SessionService{
		key:    cfg.SessionKey(),
		secure: cfg.SecureCookies(),
		now:    time.Now,
	}
}

// Mint signs claims valid for ttl. A non-positive ttl uses the default.
func (s *SessionService) Mint(uid, name, email string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(uid) == "" {
		return "", errors.New("uid is required")
	}
	if ttl <= 0 {
		ttl = storyconfig.DefaultTokenTTL
	}
	if ttl > storyconfig.MaxTokenTTL {
		return "", fmt.Errorf("ttl %s exceeds maximum %s", ttl, storyconfig.MaxTokenTTL)
	}

	data, err := json.Marshal(models.IdentityClaims{
		UID:       uid,
		Name:      name,
		Email:     email,
		ExpiresAt: s.now().Add(ttl).UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	return s.signData(data)
}

// Verify checks the token signature and expiry
func (s *SessionService) Verify(token string) (*models.IdentityClaims, error) {
	data, err := s.verifyAndDecodeData(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token signature: %w", err)
	}

	var claims models.IdentityClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claims: %w", err)
	}
	if claims.UID == "" {
		return nil, errors.New("token carries no uid")
	}
	if !s.now().Before(claims.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

// Identity reads the caller's identity from an Authorization bearer token,
// falling back to the session cookie.
func (s *SessionService) Identity(c *fiber.Ctx) (*marketplace.Identity, error) {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		token = c.Cookies(storyconfig.SessionCookieName)
	}
	if token == "" {
		return nil, ErrNoToken
	}

	claims, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	return marketplace.NewIdentity(claims.UID, claims.Name, claims.Email), nil
}

// SetSessionCookie stores token in the session cookie
func (s *SessionService) SetSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     storyconfig.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// DestroySession removes the session cookie
func (s *SessionService) DestroySession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     storyconfig.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session destroyed for request",
		slog.String("type", "http"),
		slog.String("ip", c.IP()),
	)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// signData signs data using HMAC-SHA256
func (s *SessionService) signData(data []byte) (string, error) {
	if len(s.key) == 0 {
		return "", errors.New("session key not configured")
	}

	h := hmac.New(sha256.New, s.key)
	h.Write(data)
	signature := h.Sum(nil)

	combined := append(data, signature...)
	return base64.RawURLEncoding.EncodeToString(combined), nil
}

// verifyAndDecodeData verifies the signature and returns the original data
func (s *SessionService) verifyAndDecodeData(encodedData string) ([]byte, error) {
	if len(s.key) == 0 {
		return nil, errors.New("session key not configured")
	}

	combined, err := base64.RawURLEncoding.DecodeString(encodedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}

	// signature is the trailing 32 bytes
	if len(combined) < sha256.Size {
		return nil, errors.New("invalid data length")
	}
	data := combined[:len(combined)-sha256.Size]
	receivedSignature := combined[len(combined)-sha256.Size:]

	h := hmac.New(sha256.New, s.key)
	h.Write(data)
	if !hmac.Equal(receivedSignature, h.Sum(nil)) {
		return nil, errors.New("signature verification failed")
	}
	return data, nil
}
