package llm

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrEmptyMessage is returned when a model produced no usable message.
var ErrEmptyMessage = errors.New("empty commit message")

var (
	fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n(.*?)\\s*```$")
	tagRe   = regexp.MustCompile(`(?s)<commit_message>(.*?)</commit_message>`)
)

// ExtractCommitMessage pulls the commit message out of model output. It
// accepts a JSON object with a commit_message field (optionally inside a
// code fence or surrounded by prose), a <commit_message> tag, or plain
// text. The result is trimmed.
func ExtractCommitMessage(output string) (string, error) {
	text := strings.TrimSpace(output)

	candidate := text
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	if msg, ok := jsonMessage(candidate); ok {
		return nonEmpty(msg)
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if msg, ok := jsonMessage(text[start : end+1]); ok {
			return nonEmpty(msg)
		}
	}
	if m := tagRe.FindStringSubmatch(text); m != nil {
		return nonEmpty(m[1])
	}
	return nonEmpty(candidate)
}

func jsonMessage(s string) (string, bool) {
	if !gjson.Valid(s) {
		return "", false
	}
	r := gjson.Get(s, "commit_message")
	if r.Type != gjson.String {
		return "", false
	}
	return r.String(), true
}

func nonEmpty(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyMessage
	}
	return s, nil
}
