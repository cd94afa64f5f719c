package llm

import "strings"

// CleanJSONBlock removes markdown code block wrappers and conversational text
// around a JSON object or array.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	candidate := text[start:]
	var extracted string
	if candidate[0] == '{' {
		extracted = extractJSONObject(candidate)
	} else {
		extracted = extractJSONArray(candidate)
	}
	if extracted == "" {
		return text
	}
	return extracted
}

func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

// extractBalanced returns the prefix of s spanning the first balanced open/close
// pair, ignoring delimiters inside JSON strings. Returns "" when s does not
// start with open or never closes.
func extractBalanced(s string, open, closing byte) string {
	if len(s) == 0 || s[0] != open {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
