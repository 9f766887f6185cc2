package llm

import "strings"

// CleanText strips code fences and surrounding quotes from a model reply
func CleanText(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.IndexByte(content, '\n'); nl >= 0 {
			content = content[nl+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	content = strings.TrimSpace(content)
	if len(content) >= 2 {
		first, last := content[0], content[len(content)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			content = strings.TrimSpace(content[1 : len(content)-1])
		}
	}
	return content
}
