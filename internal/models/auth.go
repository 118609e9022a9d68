package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

type LoginRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	ReLogin  FlexBool `json:"re_login"`
}

// FlexBool accepts a JSON boolean or the string form the sign-in form posts
// ("true"/"false").
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*b = false
		return nil
	}
	parsed, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = FlexBool(parsed)
	return nil
}

type ChangePasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"strongpassword"`
	ConfirmPassword string `json:"re_enter_password" validate:"required,eqfield=NewPassword"`
}

// ResetQuery is read off the change-password page URL at submit time.
type ResetQuery struct {
	Email string `query:"email" json:"email" validate:"required,email"`
	Token string `query:"token" json:"token" validate:"required"`
}

type StrengthRequest struct {
	Password string `json:"password"`
}

type ChangePasswordResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
	ClearForm bool   `json:"clearForm"`
}

type LoginResponse struct {
	Role string         `json:"role"`
	User map[string]any `json:"user"`
}
