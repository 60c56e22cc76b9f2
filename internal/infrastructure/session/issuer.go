package session

import (
	"net/http"
	"time"

	"github.com/auth-api-nosql/internal/config"
)

// CookieName is the transport slot carrying the signed session credential.
const CookieName = "token"

// Issuer owns the cookie transport slot for session credentials: HttpOnly
// always, Secure and SameSite from configuration. Signing lives in the JWT
// provider; the issuer only attaches and clears what it is given.
type Issuer struct {
	domain   string
	secure   bool
	sameSite http.SameSite
	maxAge   time.Duration
}

func NewIssuer(cfg *config.Config, credentialTTL time.Duration) *Issuer {
	return &Issuer{
		domain:   cfg.CookieDomain,
		secure:   cfg.CookieSecure,
		sameSite: parseSameSite(cfg.CookieSameSite),
		maxAge:   credentialTTL,
	}
}

// Attach sets the session cookie on the response.
func (i *Issuer) Attach(w http.ResponseWriter, credential string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    credential,
		Path:     "/",
		Domain:   i.domain,
		MaxAge:   int(i.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: i.sameSite,
	})
}

// Clear expires the session cookie. Logout is stateless: the credential
// itself stays valid until its own expiry.
func (i *Issuer) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   i.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: i.sameSite,
	})
}

func parseSameSite(s string) http.SameSite {
	switch s {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
