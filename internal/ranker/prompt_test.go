package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDeterministic(t *testing.T) {
	message := "fix: close response body on early return"

	system1, user1 := BuildPrompt(message)
	system2, user2 := BuildPrompt(message)

	assert.Equal(t, system1, system2)
	assert.Equal(t, user1, user2)
}

func TestBuildPromptContainsMessage(t *testing.T) {
	system, user := BuildPrompt("chore: bump deps")

	assert.Contains(t, user, "chore: bump deps")
	assert.Contains(t, system, "scale of 1-10")
}

func TestBuildPromptDiffersByMessage(t *testing.T) {
	_, user1 := BuildPrompt("first message")
	_, user2 := BuildPrompt("second message")

	assert.NotEqual(t, user1, user2)
}
