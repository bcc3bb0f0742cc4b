package prompts

// Prompt is a reusable piece of text that can be injected into an LLM
// interaction as a system instruction.
type Prompt struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Version     string `json:"version"`
}
