package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hoshichaam/pasal_storefront_go/internal/logging"
	"github.com/hoshichaam/pasal_storefront_go/pkg/errutil"
)

// ActiveSessionMessage is the nested message the backend sends when the
// principal is already signed in elsewhere.
const ActiveSessionMessage = "user have active session"

type Credentials struct {
	Email            string
	Password         string
	ReloginRequested bool
}

type AuthKind int

const (
	AuthRejected AuthKind = iota
	AuthAuthenticated
	AuthActiveSessionConflict
)

func (k AuthKind) String() string {
	switch k {
	case AuthAuthenticated:
		return "authenticated"
	case AuthActiveSessionConflict:
		return "active_session_conflict"
	default:
		return "rejected"
	}
}

// ErrorDetail is the backend's failure payload. Raw is forwarded untouched so
// the caller can render whatever the backend said.
type ErrorDetail struct {
	Status  int             `json:"status,omitempty"`
	Message string          `json:"message"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// AuthResult is the outcome of one Authorize call. Token, Role and User are
// set only for AuthAuthenticated; Detail only for the two failure kinds.
type AuthResult struct {
	Kind   AuthKind
	Token  string
	Role   string
	User   json.RawMessage
	Detail *ErrorDetail
}

func Authenticated(token, role string, user json.RawMessage) AuthResult {
	return AuthResult{Kind: AuthAuthenticated, Token: token, Role: role, User: user}
}

func ActiveSessionConflict(detail ErrorDetail) AuthResult {
	return AuthResult{Kind: AuthActiveSessionConflict, Detail: &detail}
}

func Rejected(detail ErrorDetail) AuthResult {
	return AuthResult{Kind: AuthRejected, Detail: &detail}
}

func (r AuthResult) IsAuthenticated() bool {
	return r.Kind == AuthAuthenticated && r.Token != ""
}

type CredentialAuthorizer struct {
	backend IdentityBackend
	log     *slog.Logger
}

func NewCredentialAuthorizer(b IdentityBackend, logger *slog.Logger) *CredentialAuthorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialAuthorizer{backend: b, log: logger}
}

// Authorize exchanges credentials for a backend principal. It never returns
// an error: every failure is folded into a Rejected or ActiveSessionConflict
// result.
func (a *CredentialAuthorizer) Authorize(ctx context.Context, cred Credentials) AuthResult {
	resp, err := a.backend.Login(ctx, LoginPayload{
		Email:    cred.Email,
		Password: cred.Password,
		ReLogin:  cred.ReloginRequested,
	})
	if err != nil {
		errutil.LogError(a.log, "login exchange failed", err)
		return Rejected(ErrorDetail{Message: "identity service unavailable"})
	}

	if !resp.OK() {
		if nested, ok := activeSessionDetail(resp.Body); ok {
			a.log.Info("login conflict: active session",
				"email", logging.MaskEmail(cred.Email), "relogin", cred.ReloginRequested)
			return ActiveSessionConflict(ErrorDetail{
				Status:  resp.Status,
				Message: ActiveSessionMessage,
				Raw:     nested,
			})
		}
		a.log.Info("login rejected", "email", logging.MaskEmail(cred.Email), "status", resp.Status)
		return Rejected(ErrorDetail{
			Status:  resp.Status,
			Message: messageOf(resp.Body, resp.Status),
			Raw:     resp.Body,
		})
	}

	token, role, ok := principalOf(resp.Body)
	if !ok {
		a.log.Info("login returned no principal", "email", logging.MaskEmail(cred.Email))
		return Rejected(ErrorDetail{Status: resp.Status, Message: "invalid credentials", Raw: resp.Body})
	}

	a.log.Debug("login ok", "email", logging.MaskEmail(cred.Email), "role", role, "token", logging.ShortToken(token))
	return Authenticated(token, role, resp.Body)
}

// principalOf pulls the bearer token and role out of a login payload. Only
// token is required to be a non-empty string; the rest of the payload is
// opaque, and a non-string role is kept as its compact JSON text.
func principalOf(body json.RawMessage) (token, role string, ok bool) {
	if isNullBody(body) {
		return "", "", false
	}
	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) != nil {
		return "", "", false
	}
	if json.Unmarshal(fields["token"], &token) != nil || token == "" {
		return "", "", false
	}
	return token, roleText(fields["role"]), true
}

func roleText(raw json.RawMessage) string {
	if isNullBody(raw) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) != nil {
		return ""
	}
	return buf.String()
}

// activeSessionDetail returns body.message when body.message.message is the
// active-session sentinel.
func activeSessionDetail(body json.RawMessage) (json.RawMessage, bool) {
	var outer struct {
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(body, &outer) != nil || len(outer.Message) == 0 {
		return nil, false
	}
	var inner struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(outer.Message, &inner) != nil {
		return nil, false
	}
	return outer.Message, inner.Message == ActiveSessionMessage
}

// messageOf picks a human-readable line out of an arbitrary error body.
func messageOf(body json.RawMessage, status int) string {
	var s string
	if json.Unmarshal(body, &s) == nil && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) == nil {
		for _, key := range []string{"message", "msg", "error"} {
			v, ok := fields[key]
			if !ok {
				continue
			}
			if json.Unmarshal(v, &s) == nil && s != "" {
				return s
			}
			if m := messageOf(v, 0); m != "" {
				return m
			}
		}
	}
	if status == 0 {
		return ""
	}
	return http.StatusText(status)
}

func isNullBody(b json.RawMessage) bool {
	t := bytes.TrimSpace(b)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
