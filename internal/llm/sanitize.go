package llm

import "strings"

// StripCodeFence removes surrounding markdown code-fence markup from a model
// reply. Vision models routinely wrap JSON in ```json fences even when told
// not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
