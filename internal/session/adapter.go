// Package session keeps the signed-in principal in a signed cookie.
//
// The Manager is the session mechanism: it reads and writes the cookie and
// calls two hooks at fixed points. Issue runs when a login completes and
// decides what the long-lived token carries; Read runs on every request and
// projects the token into the View the rest of the app sees.
package session

import (
	"bytes"
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hoshichaam/pasal_storefront_go/internal/services"
)

// Token is the claim set stored in the session cookie. AccessToken is
// non-empty exactly when the token belongs to a signed-in principal.
type Token struct {
	AccessToken string          `json:"accessToken"`
	Role        string          `json:"role,omitempty"`
	User        json.RawMessage `json:"user,omitempty"`
	jwt.RegisteredClaims
}

func (t *Token) authenticated() bool { return t != nil && t.AccessToken != "" }

// View is the read-only session exposed to handlers. It is rebuilt from the
// token on every read.
type View struct {
	Authenticated bool           `json:"authenticated"`
	AccessToken   string         `json:"accessToken,omitempty"`
	User          map[string]any `json:"user,omitempty"`
}

func (v View) Role() string {
	r, _ := v.User["role"].(string)
	return r
}

// Hooks are the two lifecycle callbacks the Manager invokes.
type Hooks struct {
	Issue func(existing *Token, result *services.AuthResult) *Token
	Read  func(tok *Token) View
}

func DefaultHooks() Hooks {
	return Hooks{Issue: OnIssue, Read: OnRead}
}

// OnIssue copies the backend principal into the token when result is a
// successful login. Any other call returns existing untouched. A login always
// starts a new token with empty registered claims, so the codec stamps a new
// session id.
func OnIssue(existing *Token, result *services.AuthResult) *Token {
	if result == nil || !result.IsAuthenticated() {
		return existing
	}
	return &Token{
		AccessToken: result.Token,
		Role:        result.Role,
		User:        append(json.RawMessage(nil), result.User...),
	}
}

// OnRead projects tok into a View. The user is the stored backend payload
// with role forced to the token's role claim.
func OnRead(tok *Token) View {
	if !tok.authenticated() {
		return View{}
	}

	user := map[string]any{}
	if len(tok.User) > 0 {
		if payload, ok := decodeObject(tok.User); ok {
			user = payload
		}
	}
	user["role"] = tok.Role

	return View{
		Authenticated: true,
		AccessToken:   tok.AccessToken,
		User:          user,
	}
}

// decodeObject keeps numbers as json.Number so large ids survive intact.
func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	if dec.Decode(&payload) != nil || payload == nil {
		return nil, false
	}
	return payload, true
}
