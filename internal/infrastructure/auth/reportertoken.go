package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/docket-dev/docket/internal/shared/constants"
	apperrors "github.com/docket-dev/docket/internal/shared/errors"
)

// ReporterClaims scope a token to one reporter. A token without a subject is a
// project-wide widget token; callers must then name the reporter with the
// X-Reporter-Id header or the reporter_id query parameter.
type ReporterClaims struct {
	ReporterName string `json:"reporter_name,omitempty"`
	ProjectID    string `json:"project_id,omitempty"`
	jwt.RegisteredClaims
}

// ReporterID returns the reporter the token is bound to, if any.
func (c *ReporterClaims) ReporterID() string {
	return c.Subject
}

type ReporterTokenService struct {
	secret []byte
	now    func() time.Time
}

func NewReporterTokenService(secret string) *ReporterTokenService {
	return &ReporterTokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs a token and returns it with the rt_ prefix.
func (s *ReporterTokenService) Issue(reporterID, reporterName, projectID string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := &ReporterClaims{
		ReporterName: reporterName,
		ProjectID:    projectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   reporterID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reporter token: %w", err)
	}
	return constants.ReporterTokenPrefix + signed, nil
}

// Verify accepts the token with or without the rt_ prefix.
func (s *ReporterTokenService) Verify(token string) (*ReporterClaims, error) {
	token = strings.TrimPrefix(token, constants.ReporterTokenPrefix)

	parsed, err := jwt.ParseWithClaims(token, &ReporterClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpiredError("reporter token")
		}
		return nil, apperrors.NewTokenInvalidError("reporter token")
	}

	claims, ok := parsed.Claims.(*ReporterClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.NewTokenInvalidError("reporter token")
	}
	return claims, nil
}
