package passwordpolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_Scores(t *testing.T) {
	tests := []struct {
		name     string
		password string
		score    int
		tier     Tier
	}{
		{"empty", "", 10, TierWeak},
		{"all rules met", "Abcdef1!", 100, TierStrong},
		{"long lowercase only", "abcdefghij", 40, TierWeak},
		{"short but all classes", "Ab1!", 80, TierMedium},
		{"long missing symbol", "Abcdefg1", 80, TierMedium},
		{"long missing symbol and digit", "Abcdefgh", 60, TierMedium},
		{"short digits only", "123", 20, TierWeak},
		{"exactly seven chars all classes", "Abcde1!", 80, TierMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Evaluate(tt.password)
			assert.Equal(t, tt.score, a.Score)
			assert.Equal(t, tt.tier, a.Tier)
		})
	}
}

func TestEvaluate_FullPolicyIsStrong(t *testing.T) {
	for _, p := range []string{"Passw0rd!", "zZ9$zzzz", "Hello-World-42", "(Secret)Key7"} {
		a := Evaluate(p)
		assert.Equal(t, 100, a.Score, p)
		assert.Equal(t, TierStrong, a.Tier, p)
		assert.True(t, a.MinLength, p)
		assert.Len(t, a.Satisfied, len(Rules), p)
	}
}

func TestEvaluate_AddingRuleClassNeverLowersScore(t *testing.T) {
	base := "aaaaaaaa"
	additions := []string{"1", "A", "!", "Z9", "#B"}

	prev := Evaluate(base).Score
	current := base
	for _, add := range additions {
		current += add
		score := Evaluate(current).Score
		assert.GreaterOrEqual(t, score, prev, current)
		prev = score
	}
}

func TestEvaluate_NoStateBetweenCalls(t *testing.T) {
	first := Evaluate("Abcdef1!")
	_ = Evaluate("")
	_ = Evaluate("x")
	again := Evaluate("Abcdef1!")

	assert.Equal(t, first, again)
	assert.Equal(t, Evaluate(""), Evaluate(""))
}

func TestEvaluate_LengthCountsCharacters(t *testing.T) {
	// four runes, more than eight bytes
	a := Evaluate("ééé1")
	assert.False(t, a.MinLength)
}

func TestAssessment_Requirements(t *testing.T) {
	reqs := Evaluate("abc1").Requirements()
	require.Len(t, reqs, 5)

	assert.Equal(t, Requirement{Label: MinLengthLabel, Met: false}, reqs[0])
	assert.Equal(t, Requirement{Label: "Includes number", Met: true}, reqs[1])
	assert.Equal(t, Requirement{Label: "Includes lowercase letter", Met: true}, reqs[2])
	assert.Equal(t, Requirement{Label: "Includes uppercase letter", Met: false}, reqs[3])
	assert.Equal(t, Requirement{Label: "Includes special symbol", Met: false}, reqs[4])
}

func TestTier_Color(t *testing.T) {
	assert.Equal(t, "#4CD349", TierStrong.Color())
	assert.Equal(t, "yellow", TierMedium.Color())
	assert.Equal(t, "red", TierWeak.Color())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"", ErrRequired},
		{"Ab1!", ErrTooShort},
		{"Abcdefgh!", ErrNeedsNumber},
		{"ABCDEFG1!", ErrNeedsLowercase},
		{"abcdefg1!", ErrNeedsUppercase},
		{"Abcdefg12", ErrNeedsSpecial},
		{"Abcdefg1!", nil},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := Validate(tt.password)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
