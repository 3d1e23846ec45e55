package v1

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDCtxKey = "user_id"

// HandleAuthMiddleware resolves the request's identity before any
// handler runs: the Authorization header must carry a two-part
// "Bearer <token>" value and the token must verify. Every failure
// aborts with the same generic 401 body; only the log says which
// step failed.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		h.logger.Warn().Msg("authorization header missing")
		abort(c, newUnauthorizedError(msgAuthenticationFailed))
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		h.logger.Warn().Msg("malformed authorization header")
		abort(c, newUnauthorizedError(msgAuthenticationFailed))
		return
	}

	// Verify collapses bad signature, malformed structure, expiry,
	// wrong purpose tag and empty subject into one negative result.
	claims, ok := h.tokens.Verify(parts[1])
	if !ok {
		h.logger.Warn().Msg("token verification failed")
		abort(c, newUnauthorizedError(msgAuthenticationFailed))
		return
	}

	c.Set(userIDCtxKey, claims.Subject)
	c.Next()
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}
