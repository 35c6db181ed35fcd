package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docket-dev/docket/internal/shared/authorization"
	"github.com/docket-dev/docket/internal/shared/constants"
	"github.com/docket-dev/docket/internal/shared/errors"
	"github.com/docket-dev/docket/internal/shared/logger"
	"github.com/docket-dev/docket/internal/shared/utils"
)

// Authenticator classifies a request into an actor.
type Authenticator interface {
	Authenticate(r *http.Request) (authorization.Actor, error)
}

type AuthMiddleware struct {
	gate   Authenticator
	logger logger.Interface
}

func NewAuthMiddleware(gate Authenticator, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		gate:   gate,
		logger: logger,
	}
}

// RequireActor resolves the caller's scope and stores the actor on the context.
func (m *AuthMiddleware) RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := m.gate.Authenticate(c.Request)
		if err != nil {
			if errors.ShouldLogAuthError(err) {
				m.logger.Warnw("request authentication failed",
					"path", c.Request.URL.Path,
					"client_ip", c.ClientIP(),
					"error", err,
				)
			}
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		if actor.IsReporter() && actor.ID == "" {
			actor.ID = requestedReporterID(c)
		}

		authorization.SetActor(c, actor)
		c.Next()
	}
}

// requestedReporterID names the reporter a project-wide widget token acts for.
func requestedReporterID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(constants.HeaderReporterID)); id != "" {
		return id
	}
	return strings.TrimSpace(c.Query("reporter_id"))
}
