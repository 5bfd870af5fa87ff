package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/response"
)

const (
	CtxVendorIDKey  = "vendorID"
	CtxSessionIDKey = "sessionID"
)

// TokenFromRequest returns the access token from the Authorization bearer header,
// the legacy token header or the access_token cookie, in that order.
func TokenFromRequest(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			if tok = strings.TrimSpace(tok); tok != "" {
				return tok
			}
		}
	}
	if tok := strings.TrimSpace(c.GetHeader("token")); tok != "" {
		return tok
	}
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil {
		return tok
	}
	return ""
}

// Auth validates the access token and requires a live Redis session with the same sid.
// It sets vendorID and sessionID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		if rdb == nil {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		sid, err := rdb.HGet(c.Request.Context(), helpers.SessionKey(claims.VendorID), "sid").Result()
		if err != nil || sid == "" || sid != claims.SessionID {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		c.Set(CtxVendorIDKey, claims.VendorID)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}
