package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/user/tddguard/internal/hook"
)

var (
	jsonBlockRe    = regexp.MustCompile("(?s)```json\\s*\\n(.*?)```")
	genericBlockRe = regexp.MustCompile("(?s)```\\s*\\n(.*?)```")
	plainObjectRe  = regexp.MustCompile(`\{[^{}]*"decision"[^{}]*"reason"[^{}]*\}`)
)

type modelResponse struct {
	Decision *string `json:"decision"`
	Reason   string  `json:"reason"`
}

// ExtractJSON locates the verdict document in a model response. It prefers
// the last ```json block, then the first plain fenced block holding valid
// JSON, then the last bare object naming decision and reason. Otherwise
// the whole trimmed text is returned.
func ExtractJSON(text string) string {
	if m := jsonBlockRe.FindAllStringSubmatch(text, -1); len(m) > 0 {
		return strings.TrimSpace(m[len(m)-1][1])
	}
	if m := genericBlockRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	if m := plainObjectRe.FindAllString(text, -1); len(m) > 0 {
		return m[len(m)-1]
	}
	return strings.TrimSpace(text)
}

// ParseResponse converts a model response into a verdict. A null decision
// becomes the undefined decision.
func ParseResponse(text string) (hook.Verdict, error) {
	var resp modelResponse
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &resp); err != nil {
		return hook.Verdict{}, fmt.Errorf("parse model response: %w", err)
	}
	return hook.Verdict{
		Decision: hook.NormalizeDecision(resp.Decision),
		Reason:   resp.Reason,
	}, nil
}
