package ranker

import "fmt"

// systemPrompt is the fixed scoring rubric sent with every request
const systemPrompt = `You are an expert at evaluating Git commit message quality.
Rate the commit message on a scale of 1-10 based on:
- Clarity: Is the purpose of the change clear?
- Specificity: Does it provide specific details about what changed?
- Completeness: Does it explain the why behind the change?
- Format: Does it follow conventional commit format?

Respond with a JSON object:
{"score": 7, "reason": "Clear and specific with conventional format"}`

// BuildPrompt returns the system and user messages for one commit message.
// The output is a pure function of the message: identical messages produce
// byte-identical prompts.
func BuildPrompt(message string) (system, user string) {
	return systemPrompt, fmt.Sprintf("Commit message:\n%s", message)
}
