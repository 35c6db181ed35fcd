package authorization

import (
	"github.com/gin-gonic/gin"

	"github.com/docket-dev/docket/internal/shared/constants"
)

// SetActor stores the authenticated actor on the request context.
func SetActor(c *gin.Context, actor Actor) {
	c.Set(constants.ContextKeyActor, actor)
}

// GetActor returns the actor stored by the auth gate.
func GetActor(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(constants.ContextKeyActor)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

// RequireStaff rejects reporter requests before they reach staff-only routes.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.Scope.IsStaff() {
			c.JSON(403, gin.H{
				"success": false,
				"error": gin.H{
					"type":    "forbidden",
					"message": "staff access required",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
