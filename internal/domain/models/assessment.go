package models

import (
	"fmt"
	"strings"
)

// RolePurple is the participant role of the agent under assessment.
const RolePurple = "purple"

// AssessmentRequest is the evaluation request sent by the host platform.
// Participants maps role -> agent URL; Config carries the question parameters.
// Immutable once validated.
type AssessmentRequest struct {
	Participants map[string]string      `json:"participants" validate:"required"`
	Config       map[string]interface{} `json:"config" validate:"required"`
}

// PurpleURL returns the endpoint of the purple participant, if present.
func (r AssessmentRequest) PurpleURL() string {
	return strings.TrimSpace(r.Participants[RolePurple])
}

// ConfigString returns the first non-empty config value among the given
// key aliases, rendered as a trimmed string.
func (r AssessmentRequest) ConfigString(keys ...string) string {
	for _, key := range keys {
		v, ok := r.Config[key]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if s != "" {
			return s
		}
	}
	return ""
}

// ConfigValue returns the first present, non-nil config value among the
// given key aliases.
func (r AssessmentRequest) ConfigValue(keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := r.Config[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
