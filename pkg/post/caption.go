package post

import (
	"regexp"
	"strings"
)

var (
	// Hashtags allow unicode letters; usernames are ASCII letters,
	// digits, periods and underscores.
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9._]+)`)
)

// Hashtags extracts hashtags from a caption, lowercased, in order of
// appearance. Returns an empty slice when there are none.
func Hashtags(caption string) []string {
	return extract(hashtagPattern, caption)
}

// Mentions extracts @-mentions from a caption, lowercased, in order of
// appearance. Returns an empty slice when there are none.
func Mentions(caption string) []string {
	return extract(mentionPattern, caption)
}

func extract(pattern *regexp.Regexp, caption string) []string {
	result := []string{}
	if caption == "" {
		return result
	}

	for _, match := range pattern.FindAllStringSubmatch(caption, -1) {
		result = append(result, strings.ToLower(match[1]))
	}

	return result
}
