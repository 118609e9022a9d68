// Package passwordpolicy scores candidate passwords against the storefront
// password rules. Everything here is pure and safe to call on every keystroke.
package passwordpolicy

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// MinLength is the shortest password that satisfies the length rule.
const MinLength = 8

const MinLengthLabel = "Includes at least 8 characters"

// Rule is one character-class requirement.
type Rule struct {
	Pattern *regexp.Regexp
	Label   string
}

// Rules is the fixed character-class rule set, in display order.
var Rules = []Rule{
	{Pattern: regexp.MustCompile(`[0-9]`), Label: "Includes number"},
	{Pattern: regexp.MustCompile(`[a-z]`), Label: "Includes lowercase letter"},
	{Pattern: regexp.MustCompile(`[A-Z]`), Label: "Includes uppercase letter"},
	{Pattern: regexp.MustCompile(`[$&+,:;=?@#|'<>.^*()%!-]`), Label: "Includes special symbol"},
}

type Tier string

const (
	TierWeak   Tier = "weak"
	TierMedium Tier = "medium"
	TierStrong Tier = "strong"
)

// Color is the indicator colour used by the storefront for a tier.
func (t Tier) Color() string {
	switch t {
	case TierStrong:
		return "#4CD349"
	case TierMedium:
		return "yellow"
	default:
		return "red"
	}
}

const (
	minScore = 10
	maxScore = 100
)

// Requirement is a single checklist line shown under the password field.
type Requirement struct {
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

type Assessment struct {
	Score     int      `json:"score"`
	Satisfied []string `json:"satisfied"`
	MinLength bool     `json:"minLength"`
	Tier      Tier     `json:"tier"`
}

// Requirements lists the length rule followed by every character-class rule.
func (a Assessment) Requirements() []Requirement {
	met := make(map[string]bool, len(a.Satisfied))
	for _, l := range a.Satisfied {
		met[l] = true
	}
	out := make([]Requirement, 0, len(Rules)+1)
	out = append(out, Requirement{Label: MinLengthLabel, Met: a.MinLength})
	for _, r := range Rules {
		out = append(out, Requirement{Label: r.Label, Met: met[r.Label]})
	}
	return out
}

// Evaluate scores password. The penalty multiplier starts at 1 for short
// passwords and grows by one per unmet rule; each step costs a fifth of the
// scale. The score never drops below 10.
func Evaluate(password string) Assessment {
	longEnough := utf8.RuneCountInString(password) >= MinLength

	multiplier := 0
	if !longEnough {
		multiplier = 1
	}

	satisfied := make([]string, 0, len(Rules))
	for _, r := range Rules {
		if r.Pattern.MatchString(password) {
			satisfied = append(satisfied, r.Label)
		} else {
			multiplier++
		}
	}

	step := maxScore / (len(Rules) + 1)
	score := max(maxScore-step*multiplier, minScore)

	return Assessment{
		Score:     score,
		Satisfied: satisfied,
		MinLength: longEnough,
		Tier:      tierFor(score),
	}
}

func tierFor(score int) Tier {
	switch {
	case score == maxScore:
		return TierStrong
	case score > 50:
		return TierMedium
	default:
		return TierWeak
	}
}

var (
	ErrRequired       = errors.New("New password is required")
	ErrTooShort       = errors.New("Password must be at least 8 characters")
	ErrNeedsNumber    = errors.New("Number required")
	ErrNeedsLowercase = errors.New("Lowercase letter required")
	ErrNeedsUppercase = errors.New("Uppercase letter required")
	ErrNeedsSpecial   = errors.New("Special symbol required")
)

// ruleErrors lines up with Rules.
var ruleErrors = []error{ErrNeedsNumber, ErrNeedsLowercase, ErrNeedsUppercase, ErrNeedsSpecial}

// Validate returns the first unmet requirement, or nil when the password
// fully meets the policy.
func Validate(password string) error {
	if password == "" {
		return ErrRequired
	}
	if utf8.RuneCountInString(password) < MinLength {
		return ErrTooShort
	}
	for i, r := range Rules {
		if !r.Pattern.MatchString(password) {
			return ruleErrors[i]
		}
	}
	return nil
}
