package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// AdminGate protects back-office asset routes. Visitors without a valid,
// unrevoked access token are redirected to loginPath?redirect=<original>.
func AdminGate(tokens TokenValidator, revocations RevocationChecker, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token != "" {
			if claims, err := authenticate(c.Request.Context(), tokens, revocations, token); err == nil {
				c.Set(ContextEmail, claims.Email)
				c.Next()
				return
			}
		}

		c.Redirect(http.StatusFound, LoginRedirectURL(loginPath, c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginRedirectURL builds /login?redirect=%2Fadmin%2Fleads.
func LoginRedirectURL(loginPath, original string) string {
	q := url.Values{}
	q.Set("redirect", original)
	return loginPath + "?" + q.Encode()
}
