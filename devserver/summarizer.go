package devserver

import (
	"net/url"
	"slices"
	"strings"
	"unicode"
)

// The development server doesn't fetch pages or run a model. These functions
// produce stable placeholder output so that clients have something to show.

// leadingSentences returns the first n sentences of text.
func leadingSentences(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	var sb strings.Builder
	var count int
	for _, r := range text {
		sb.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n {
				break
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

func summarizeURL(u string) string {
	return "Summary of " + u + "."
}

var stopWords = []string{"www", "com", "org", "net", "html", "htm", "php", "the", "and", "for", "with", "index"}

// urlKeywords returns up to limit distinct words from the host and path of u.
func urlKeywords(u string, limit int) []string {
	parsed, err := url.Parse(u)
	if err != nil {
		return nil
	}
	words := strings.FieldsFunc(strings.ToLower(parsed.Hostname()+"/"+parsed.Path), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var keywords []string
	for _, w := range words {
		if len(w) < 3 || slices.Contains(stopWords, w) || slices.Contains(keywords, w) {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == limit {
			break
		}
	}
	return keywords
}

// splitKeywords uses the first keyword as the title and joins the rest.
func splitKeywords(keywords []string) (title, rest string) {
	if len(keywords) == 0 {
		return "", ""
	}
	return keywords[0], strings.Join(keywords[1:], ", ")
}
