package httpclient

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxDetailBodyBytes = 64 << 10 // 64 KiB
	maxDetailLen       = 256
)

// FailureDetail extracts a short human-readable hint from a non-JSON error
// body: the <title> of an HTML error page, or a trimmed text snippet.
func FailureDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxDetailBodyBytes {
		body = body[:maxDetailBodyBytes]
	}

	trimmed := bytes.TrimSpace(body)
	if looksLikeHTML(trimmed) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
		if err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return clip(title)
			}
			if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
				return clip(h1)
			}
		}
	}
	return clip(string(trimmed))
}

func looksLikeHTML(body []byte) bool {
	if len(body) == 0 || body[0] != '<' {
		return false
	}
	head := strings.ToLower(string(body[:min(len(body), 512)]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html") ||
		strings.Contains(head, "<title") || strings.Contains(head, "<h1")
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxDetailLen {
		return s[:maxDetailLen] + "..."
	}
	return s
}
