package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kidpech/xbox_link_demo/internal/config"
)

// RoleAdmin unlocks the debug endpoints.
const RoleAdmin = "admin"

// Claims extends JWT registered claims with operator metadata.
type Claims struct {
	Role      string `json:"role"`
	SecretVer string `json:"sv"`
	jwt.RegisteredClaims
}

// Manager issues and validates operator tokens.
type Manager struct {
	cfg config.AdminConfig
	now func() time.Time
}

// NewManager builds Manager.
func NewManager(cfg config.AdminConfig) *Manager {
	return &Manager{cfg: cfg, now: time.Now}
}

// IssueToken signs an access token for subject with the given role.
func (m *Manager) IssueToken(subject, role string) (string, time.Time, error) {
	now := m.now().UTC()
	expires := now.Add(m.cfg.TokenTTL)
	claims := Claims{
		Role:      role,
		SecretVer: m.cfg.SecretVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	encoded, err := tkn.SignedString([]byte(m.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return encoded, expires, nil
}

// ParseAccessToken validates and extracts claims.
func (m *Manager) ParseAccessToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(m.cfg.JWTSecret), nil
	}, jwt.WithIssuer(m.cfg.Issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.SecretVer != m.cfg.SecretVersion {
		return nil, errors.New("token version mismatch")
	}
	return claims, nil
}
