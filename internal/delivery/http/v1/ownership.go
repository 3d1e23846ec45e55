package v1

import "github.com/gin-gonic/gin"

// requireOwner reconciles the :user_id path segment with the identity
// the middleware resolved from the token. The comparison is exact;
// ids are opaque strings on both sides. A mismatch answers with the
// same 404 body as a nonexistent task, so the existence of resources
// under other owners never shows through. No storage is touched here.
func (h *handlerImpl) requireOwner(c *gin.Context) (string, bool) {
	owner, ok := getStringFromContext(c, userIDCtxKey)
	if !ok || owner == "" {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgAuthenticationFailed))
		return "", false
	}

	claimed := c.Param("user_id")
	if claimed != owner {
		h.logger.Warn().
			Str("user_id", owner).
			Str("claimed", claimed).
			Msg("path owner does not match verified identity")
		abort(c, newNotFoundError(msgTaskNotFound))
		return "", false
	}

	return owner, true
}
