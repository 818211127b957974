package probe

import (
	"strings"

	"golang.org/x/net/html"
)

// previewLimit caps the extracted text preview length in characters.
const previewLimit = 300

// extractTitle returns the text of the first <title> element, if any
func extractTitle(content string) string {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				if z.Next() == html.TextToken {
					return strings.TrimSpace(string(z.Text()))
				}
				return ""
			}
		}
	}
}

// extractPreview strips script/style blocks and all markup, collapses
// whitespace and truncates to limit characters.
func extractPreview(content string, limit int) string {
	z := html.NewTokenizer(strings.NewReader(content))
	var parts []string
	skipDepth := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			if isSkippedTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isSkippedTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text != "" {
				parts = append(parts, text)
			}
		}
	}

	preview := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if len(preview) > limit {
		preview = preview[:limit]
	}
	return preview
}

func isSkippedTag(name string) bool {
	return name == "script" || name == "style"
}
