package drafter

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when model output cannot be read as a draft,
// either directly or from inside a markdown code fence.
var ErrParseFailed = errors.New("failed to parse draft response")

var fenceRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

type draftResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// parseDraft reads {"subject","body"} from model output. Models routinely
// wrap JSON in a code fence despite instructions not to, so a fenced block
// is accepted on a second pass. Both fields must be non-empty.
func parseDraft(content string) (draftResponse, error) {
	content = strings.TrimSpace(content)

	if resp, ok := decodeDraft(content); ok {
		return resp, nil
	}

	if matches := fenceRegex.FindStringSubmatch(content); len(matches) >= 2 {
		if resp, ok := decodeDraft(strings.TrimSpace(matches[1])); ok {
			return resp, nil
		}
	}

	return draftResponse{}, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

func decodeDraft(content string) (draftResponse, bool) {
	var resp draftResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return draftResponse{}, false
	}
	if strings.TrimSpace(resp.Subject) == "" || strings.TrimSpace(resp.Body) == "" {
		return draftResponse{}, false
	}
	return resp, true
}
