package core

import (
	"strings"
)

// parseCommitMessage cleans a model reply: surrounding whitespace, a markdown
// code fence and one pair of matching quotes are removed.
func parseCommitMessage(reply string) (string, error) {
	msg := strings.TrimSpace(reply)

	if strings.HasPrefix(msg, "```") {
		msg = strings.TrimPrefix(msg, "```")
		// Drop the info string, e.g. ```text
		if nl := strings.IndexByte(msg, '\n'); nl >= 0 {
			msg = msg[nl+1:]
		} else {
			msg = ""
		}
		msg = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(msg), "```"))
	}

	if len(msg) >= 2 {
		first, last := msg[0], msg[len(msg)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			msg = strings.TrimSpace(msg[1 : len(msg)-1])
		}
	}

	if msg == "" {
		return "", ErrEmptyResponse
	}
	return msg, nil
}
