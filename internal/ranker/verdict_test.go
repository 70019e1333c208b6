package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/joeyma/commitrank/internal/errors"
)

func TestParseVerdictJSON(t *testing.T) {
	score, reason, err := ParseVerdict(`{"score": 8, "reason": "clear and specific"}`)
	require.NoError(t, err)
	assert.Equal(t, 8, score)
	assert.Equal(t, "clear and specific", reason)
}

func TestParseVerdictJSONClamped(t *testing.T) {
	score, _, err := ParseVerdict(`{"score": 42, "reason": "overenthusiastic"}`)
	require.NoError(t, err)
	assert.Equal(t, 10, score)

	score, _, err = ParseVerdict(`{"score": 0, "reason": "harsh"}`)
	require.NoError(t, err)
	assert.Equal(t, 1, score)
}

func TestParseVerdictFallbackText(t *testing.T) {
	score, reason, err := ParseVerdict("I would rate this commit a 6 out of 10.")
	require.NoError(t, err)
	assert.Equal(t, 6, score)
	assert.Equal(t, "I would rate this commit a 6 out of 10.", reason)
}

func TestParseVerdictNoScore(t *testing.T) {
	_, _, err := ParseVerdict("the commit message is fine")
	require.Error(t, err)
	assert.True(t, apperrors.IsParse(err))
}
