package middleware

import (
	"net/http"
	"time"

	"github.com/MrEthical07/taskauth"
)

// CookieTransport keeps the session token in a cookie. A token set or cleared
// during the request is visible to later Token calls on the same transport.
type CookieTransport struct {
	w   http.ResponseWriter
	r   *http.Request
	cfg taskauth.CookieConfig

	overridden bool
	token      string
}

var _ taskauth.TokenTransport = (*CookieTransport)(nil)

// NewCookieTransport returns a transport over one request/response pair.
func NewCookieTransport(w http.ResponseWriter, r *http.Request, cfg taskauth.CookieConfig) *CookieTransport {
	return &CookieTransport{w: w, r: r, cfg: cfg}
}

// Transport returns a CookieTransport configured from engine.
func Transport(engine *taskauth.Engine, w http.ResponseWriter, r *http.Request) *CookieTransport {
	return NewCookieTransport(w, r, engine.CookieConfig())
}

func (t *CookieTransport) Token() string {
	if t.overridden {
		return t.token
	}
	if t.r == nil {
		return ""
	}
	c, err := t.r.Cookie(t.cfg.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (t *CookieTransport) SetToken(token string, expiresAt time.Time) {
	t.overridden = true
	t.token = token
	http.SetCookie(t.w, &http.Cookie{
		Name:     t.cfg.Name,
		Value:    token,
		Path:     t.cfg.Path,
		Domain:   t.cfg.Domain,
		Expires:  expiresAt.UTC(),
		Secure:   t.cfg.Secure,
		HttpOnly: true,
		SameSite: t.cfg.SameSite,
	})
}

func (t *CookieTransport) ClearToken() {
	t.overridden = true
	t.token = ""
	http.SetCookie(t.w, &http.Cookie{
		Name:     t.cfg.Name,
		Value:    "",
		Path:     t.cfg.Path,
		Domain:   t.cfg.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   t.cfg.Secure,
		HttpOnly: true,
		SameSite: t.cfg.SameSite,
	})
}
