package ranker

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/joeyma/commitrank/internal/domain"
	apperrors "github.com/joeyma/commitrank/internal/errors"
)

// verdict mirrors the JSON object the rubric asks the model to return
type verdict struct {
	Score  *int   `json:"score"`
	Reason string `json:"reason"`
}

var scorePattern = regexp.MustCompile(`\b([0-9]|10)\b`)

// ParseVerdict extracts the numeric score and rationale from a model
// response. It prefers the rubric's JSON shape and falls back to the first
// in-range integer in the raw text. Scores are clamped to the 1-10 bounds.
func ParseVerdict(content string) (int, string, error) {
	var v verdict
	if err := json.Unmarshal([]byte(content), &v); err == nil && v.Score != nil {
		return clampScore(*v.Score), v.Reason, nil
	}

	if m := scorePattern.FindString(content); m != "" {
		score, err := strconv.Atoi(m)
		if err == nil {
			return clampScore(score), content, nil
		}
	}

	return 0, "", apperrors.NewParseError("no numeric score in model response")
}

func clampScore(score int) int {
	if score < domain.MinScore {
		return domain.MinScore
	}
	if score > domain.MaxScore {
		return domain.MaxScore
	}
	return score
}
