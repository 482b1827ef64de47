package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"madjoke/src/app/http/response"
	"madjoke/src/core/domain"
	"madjoke/src/core/ports"
	"madjoke/src/core/usecase"
)

// identityKey is the gin context key holding the resolved user.
const identityKey = "auth_user"

// Authenticate resolves the bearer token into a user and stores it in the
// request context. Authentication is optional at this layer: a missing
// header, a malformed or mistyped token, or an unknown user all degrade to
// an anonymous request rather than failing it. Routes that require identity
// reject anonymous callers themselves via RequireUser.
func Authenticate(tokens *usecase.TokenService, users ports.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}

		userName, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.Next()
			return
		}

		user, err := users.GetUserByUserName(c.Request.Context(), userName)
		if err != nil {
			c.Next()
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user for this request, or false when
// the request is anonymous.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// RequireUser returns the authenticated user or rejects the request with the
// fixed 401 body. Callers must return immediately when ok is false.
func RequireUser(c *gin.Context) (*domain.User, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		response.AuthenticationFailed(c)
		c.Abort()
		return nil, false
	}
	return user, true
}
