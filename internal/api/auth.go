package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// adminAuthMiddleware gates moderation endpoints behind the shared secret.
// The credential is read from the x-admin-password header, falling back to
// the query parameter of the same name; both sides are trimmed and compared
// in constant time.
func adminAuthMiddleware(secret string, log zerolog.Logger) gin.HandlerFunc {
	expected := strings.TrimSpace(secret)
	authLog := log.With().Str("component", "admin_auth").Logger()

	return func(c *gin.Context) {
		rawHeader := c.GetHeader("x-admin-password")
		rawQuery := c.Query("x-admin-password")
		presented := strings.TrimSpace(rawHeader)
		if presented == "" {
			presented = strings.TrimSpace(rawQuery)
		}

		ok := subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1

		authLog.Debug().
			Bool("header_present", rawHeader != "").
			Bool("query_present", rawQuery != "").
			Str("received", maskSecret(presented)).
			Str("expected", maskSecret(expected)).
			Bool("authorized", ok).
			Msg("Admin auth checked")

		if !ok {
			authLog.Warn().
				Str("received", maskSecret(presented)).
				Str("expected", maskSecret(expected)).
				Str("client_ip", c.ClientIP()).
				Msg("Admin auth failed")
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// maskSecret keeps the first two and last characters so operators can
// recognize a value in logs without the secret ever being written out
func maskSecret(s string) string {
	if s == "" {
		return "(empty)"
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + "***" + s[len(s)-1:]
}
