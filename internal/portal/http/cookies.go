package http

import (
	"net/http"
	"time"

	"github.com/tcsservices/loginportal/internal/portal/domain"
)

// Cookie names shared with the browser client. The token cookies are
// HttpOnly; username and company are readable by the UI. The return flag
// gates the silent re-auth flow.
const (
	cookieAccessToken  = "access_token"
	cookieRefreshToken = "refresh_token"
	cookieUsername     = "username"
	cookieCompany      = "company"
	cookieReturn       = "return"
)

// CookieWriter renders the portal's cookie contract. Cookies are
// cross-site (the UI and the portal live on different subdomains), so
// SameSite=None and Secure are required.
type CookieWriter struct {
	Domain string
}

func (c *CookieWriter) base(name, value string, httpOnly bool, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		Expires:  expires,
		HttpOnly: httpOnly,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

// WriteSession sets the full cookie set for a granted session.
func (c *CookieWriter) WriteSession(w http.ResponseWriter, profile domain.UserProfile, pair domain.TokenPair) {
	http.SetCookie(w, c.base(cookieAccessToken, pair.AccessToken, true, pair.AccessExpiresAt))
	http.SetCookie(w, c.base(cookieRefreshToken, pair.RefreshToken, true, pair.RefreshExpiresAt))
	http.SetCookie(w, c.base(cookieUsername, profile.Username, false, pair.RefreshExpiresAt))
	http.SetCookie(w, c.base(cookieCompany, profile.ActiveCompany(), false, pair.AccessExpiresAt))
	http.SetCookie(w, c.base(cookieReturn, "true", false, pair.RefreshExpiresAt))
}

// WriteTokens re-syncs only the token cookies after a rotation.
func (c *CookieWriter) WriteTokens(w http.ResponseWriter, pair domain.TokenPair) {
	http.SetCookie(w, c.base(cookieAccessToken, pair.AccessToken, true, pair.AccessExpiresAt))
	http.SetCookie(w, c.base(cookieRefreshToken, pair.RefreshToken, true, pair.RefreshExpiresAt))
}

// Clear expires every portal cookie. Used at logout and on failed silent
// re-auth so the client does not keep retrying with dead tokens.
func (c *CookieWriter) Clear(w http.ResponseWriter) {
	expired := time.Unix(0, 0)
	for _, name := range []string{
		cookieAccessToken, cookieRefreshToken, cookieUsername, cookieCompany, cookieReturn,
	} {
		cookie := c.base(name, "", true, expired)
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
