package parsers

import (
	"fmt"
	"strings"
)

// basic safety limits to avoid pathological model outputs
const (
	maxContentLen = 128 * 1024 // 128KB
)

// extractJSONObject strips markdown code fences and surrounding prose,
// returning the outermost JSON object in the model output.
func extractJSONObject(content string) (string, error) {
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}

	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return s[start : end+1], nil
}
