package session

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hoshichaam/pasal_storefront_go/internal/services"
	"github.com/hoshichaam/pasal_storefront_go/pkg/errutil"
)

const (
	CookieName = "pasal.session-token"

	// SignInPath is where unauthenticated visitors are sent.
	SignInPath = "/auth/login"

	localsToken = "session.token"
)

// Manager owns the session cookie. Tokens only change through Hooks.Issue.
type Manager struct {
	codec  *Codec
	hooks  Hooks
	secure bool
	log    *slog.Logger
}

func NewManager(codec *Codec, hooks Hooks, secure bool, logger *slog.Logger) *Manager {
	if hooks.Issue == nil {
		hooks.Issue = OnIssue
	}
	if hooks.Read == nil {
		hooks.Read = OnRead
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{codec: codec, hooks: hooks, secure: secure, log: logger}
}

// Load decodes a raw artifact and binds the result to the request. A bad or
// expired artifact binds no token.
func (m *Manager) Load(c *fiber.Ctx, raw string) *Token {
	var tok *Token
	if raw != "" {
		decoded, err := m.codec.Decode(raw)
		if err != nil {
			m.log.Debug("session artifact rejected", "error", err)
		} else {
			tok = decoded
		}
	}
	c.Locals(localsToken, tok)
	return tok
}

// Current returns the token bound to this request, loading it from the
// cookie when nothing has been bound yet.
func (m *Manager) Current(c *fiber.Ctx) *Token {
	if tok, ok := c.Locals(localsToken).(*Token); ok {
		return tok
	}
	return m.Load(c, c.Cookies(CookieName))
}

// View runs the Read hook over the current token.
func (m *Manager) View(c *fiber.Ctx) View {
	return m.hooks.Read(m.Current(c))
}

// Issue runs the Issue hook and, when it produced a new token, signs it into
// the cookie. It reports whether the cookie was written.
func (m *Manager) Issue(c *fiber.Ctx, result services.AuthResult) (bool, error) {
	existing := m.Current(c)
	next := m.hooks.Issue(existing, &result)
	if next == existing {
		return false, nil
	}

	signed, err := m.codec.Encode(next)
	if err != nil {
		errutil.LogError(m.log, "session sign failed", err)
		return false, err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    signed,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   m.secure,
		Expires:  time.Now().Add(m.codec.TTL()),
		Path:     "/",
	})
	c.Locals(localsToken, next)
	return true, nil
}

// Clear drops the cookie and unbinds the token for the rest of the request.
func (m *Manager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.secure,
		Path:     "/",
	})
	c.Locals(localsToken, (*Token)(nil))
}
