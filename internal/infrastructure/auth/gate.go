package auth

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/config"
	"github.com/docket-dev/docket/internal/shared/constants"
	apperrors "github.com/docket-dev/docket/internal/shared/errors"
)

// Gate classifies a request as api_key, reporter or admin_ui and returns the actor.
type Gate struct {
	apiKeys        []config.APIKeyConfig
	reporterTokens *ReporterTokenService
	adminUIEnabled bool
	allowedOrigins []string
}

func NewGate(authCfg config.AuthConfig, serverCfg config.ServerConfig, reporterTokens *ReporterTokenService) *Gate {
	return &Gate{
		apiKeys:        authCfg.APIKeys,
		reporterTokens: reporterTokens,
		adminUIEnabled: serverCfg.AdminUIEnabled,
		allowedOrigins: serverCfg.AllowedOrigins,
	}
}

// Authenticate inspects the Authorization and X-Reporter-Token headers. A
// request without any credential is admin_ui only when the admin UI is enabled
// and the request comes from an allowed origin.
func (g *Gate) Authenticate(r *http.Request) (authorization.Actor, error) {
	if token := strings.TrimSpace(r.Header.Get(constants.HeaderReporterToken)); token != "" {
		return g.reporter(token)
	}

	header := strings.TrimSpace(r.Header.Get(constants.HeaderAuthorization))
	if header != "" {
		scheme, credential, ok := strings.Cut(header, " ")
		credential = strings.TrimSpace(credential)
		if !ok || !strings.EqualFold(scheme, "Bearer") || credential == "" {
			return authorization.Actor{}, apperrors.NewTokenInvalidError("authorization header")
		}
		if strings.HasPrefix(credential, constants.ReporterTokenPrefix) {
			return g.reporter(credential)
		}
		return g.apiKey(credential)
	}

	if g.adminUIEnabled && g.sameOrigin(r) {
		name := strings.TrimSpace(r.Header.Get(constants.HeaderAdminUser))
		if name == "" {
			name = "admin"
		}
		return authorization.Actor{Scope: authorization.ScopeAdminUI, ID: name, Name: name}, nil
	}

	return authorization.Actor{}, apperrors.NewMissingCredentialError()
}

func (g *Gate) reporter(token string) (authorization.Actor, error) {
	claims, err := g.reporterTokens.Verify(token)
	if err != nil {
		return authorization.Actor{}, err
	}
	return authorization.Actor{
		Scope:     authorization.ScopeReporter,
		ID:        claims.ReporterID(),
		Name:      claims.ReporterName,
		ProjectID: claims.ProjectID,
	}, nil
}

func (g *Gate) apiKey(credential string) (authorization.Actor, error) {
	for _, k := range g.apiKeys {
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(credential)) == 1 {
			return authorization.Actor{Scope: authorization.ScopeAPIKey, ID: k.Name, Name: k.Name}, nil
		}
	}
	return authorization.Actor{}, apperrors.NewTokenInvalidError("api key")
}

// sameOrigin accepts requests without an Origin header (same-origin GETs and
// non-browser calls on the trusted network) and requests whose Origin is the
// served host or an allowed origin.
func (g *Gate) sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(g.allowedOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}
