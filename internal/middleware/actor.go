package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's ID in the context.
const actorIDKey = contextKey("actorID")

// ActorHeader carries the identity of the user performing the accounting
// operation. Authentication happens upstream; this service only needs the
// identity for period authorization and audit stamping.
const ActorHeader = "X-Actor-ID"

// RequireActor extracts the actor ID from the request header and rejects
// requests without one.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(ActorHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + ActorHeader + " header"})
			return
		}
		c.Set(string(actorIDKey), actorID)
		c.Next()
	}
}

// GetActorIDFromContext retrieves the actor ID from the Gin context. It
// returns the ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		actorIDVal = c.Request.Context().Value(actorIDKey)
		if actorIDVal == nil {
			return "", false
		}
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}
	return actorID, true
}
