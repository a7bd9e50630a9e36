package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor_id"

// Actor resolves who is making the request. With a secret configured, a
// bearer token's subject is the actor; otherwise, or without a token, the
// default actor is used. A token that does not verify is rejected.
func Actor(secret, defaultActor string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		actor := defaultActor
		auth := c.GetHeader("Authorization")
		if secret != "" && strings.HasPrefix(auth, "Bearer ") {
			token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
				return
			}
			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token has no subject"})
				return
			}
			actor = sub
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorID returns the actor set by Actor, or "".
func ActorID(c *gin.Context) string {
	return c.GetString(actorKey)
}
