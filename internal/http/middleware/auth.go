package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/pearl-backend/internal/platform/ctxutil"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

// AuthMiddleware resolves the learner from an HS256 bearer token issued by
// the external auth service. The learner id is the token's sub claim.
type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), secret: []byte(strings.TrimSpace(secret))}
}

// OptionalAuth lets anonymous requests through. A token that is present but
// does not verify is rejected with 401.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			c.Next()
			return
		}
		if len(am.secret) == 0 {
			am.log.Debug("bearer token ignored, no signing secret configured")
			c.Next()
			return
		}
		learnerID, err := am.learnerFromToken(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithLearnerID(c.Request.Context(), learnerID))
		c.Next()
	}
}

func (am *AuthMiddleware) learnerFromToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	if strings.TrimSpace(sub) == "" {
		return uuid.Nil, errors.New("token has no subject")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("subject is not a learner id: %w", err)
	}
	if id == uuid.Nil {
		return uuid.Nil, errors.New("nil learner id")
	}
	return id, nil
}

func extractBearer(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
