package access

import (
	"net/http"

	"github.com/alaminmiah4274/iron-temple/internal/auth"

	"github.com/gin-gonic/gin"
)

const ctxActor = "access_actor"

// Require resolves the caller's grants on resource and rejects the request
// unless action is allowed at some scope. Anonymous callers get 401, others 403.
func Require(p Policy, resource Resource, action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ParseRole(auth.GetRole(c))
		userID, _ := auth.GetUserID(c)
		grants := p.Grants(role, resource)

		if !grants.Allows(action) {
			if role == Anonymous {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to perform this action"})
			return
		}

		c.Set(ctxActor, Actor{UserID: userID, Role: role, Grants: grants})
		c.Next()
	}
}

// ActorFrom returns the actor stored by Require. Without one the caller is an
// anonymous actor with no grants.
func ActorFrom(c *gin.Context) Actor {
	if v, ok := c.Get(ctxActor); ok {
		if a, ok := v.(Actor); ok {
			return a
		}
	}
	return Actor{Role: Anonymous, Grants: Grants{}}
}
