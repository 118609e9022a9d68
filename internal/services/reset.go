package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/hoshichaam/pasal_storefront_go/internal/logging"
	"github.com/hoshichaam/pasal_storefront_go/pkg/errutil"
)

// ChangePasswordPath is the page the reset outcome navigates back to.
const ChangePasswordPath = "/auth/change-password"

const (
	resetFailedMessage      = "Failed to reset password"
	resetUnreachableMessage = "Unable to reach the server, please try again"
)

type ResetRequest struct {
	Email       string
	Token       string
	NewPassword string
}

type ResetStatus int

const (
	ResetHardFailed ResetStatus = iota
	ResetSoftFailed
	ResetSucceeded
)

func (s ResetStatus) String() string {
	switch s {
	case ResetSucceeded:
		return "succeeded"
	case ResetSoftFailed:
		return "soft_failed"
	default:
		return "hard_failed"
	}
}

// ResetOutcome carries the result of one reset submission. It is a value to
// render and navigate with, not something to keep around.
type ResetOutcome struct {
	Status    ResetStatus
	Succeeded bool
	Message   string
}

// Navigate returns the page the client should move to. Hard failures stay
// on the current page.
func (o ResetOutcome) Navigate() (string, bool) {
	switch o.Status {
	case ResetSucceeded:
		return resetPageURL("1"), true
	case ResetSoftFailed:
		return resetPageURL("0"), true
	default:
		return "", false
	}
}

// ClearsForm reports whether the password form goes back to its defaults.
func (o ResetOutcome) ClearsForm() bool { return o.Status == ResetSucceeded }

func resetPageURL(flag string) string {
	q := url.Values{}
	q.Set("s", flag)
	return ChangePasswordPath + "?" + q.Encode()
}

type PasswordResetOrchestrator struct {
	backend IdentityBackend
	log     *slog.Logger
}

func NewPasswordResetOrchestrator(b IdentityBackend, logger *slog.Logger) *PasswordResetOrchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PasswordResetOrchestrator{backend: b, log: logger}
}

// Submit posts the reset once. A 2xx without a msg field counts as a soft
// failure even though the call itself went through.
func (o *PasswordResetOrchestrator) Submit(ctx context.Context, req ResetRequest) ResetOutcome {
	resp, err := o.backend.ResetPassword(ctx, ResetPayload{
		Email:    req.Email,
		Token:    req.Token,
		Password: req.NewPassword,
	})
	if err != nil {
		errutil.LogError(o.log, "reset exchange failed", err)
		return ResetOutcome{Status: ResetHardFailed, Message: resetUnreachableMessage}
	}

	msg := resetMessage(resp.Body)
	if !resp.OK() {
		o.log.Info("reset rejected", "email", logging.MaskEmail(req.Email), "status", resp.Status)
		if msg == "" {
			msg = resetFailedMessage
		}
		return ResetOutcome{Status: ResetHardFailed, Message: msg}
	}

	if msg == "" {
		o.log.Warn("reset response carried no msg", "email", logging.MaskEmail(req.Email), "status", resp.Status)
		return ResetOutcome{Status: ResetSoftFailed}
	}

	o.log.Info("reset ok", "email", logging.MaskEmail(req.Email), "token", logging.ShortToken(req.Token))
	return ResetOutcome{Status: ResetSucceeded, Succeeded: true, Message: msg}
}

func resetMessage(body json.RawMessage) string {
	var out struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(body, &out) != nil {
		return ""
	}
	return out.Msg
}
