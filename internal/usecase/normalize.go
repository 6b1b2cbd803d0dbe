package usecase

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrEmptyResponse marks a blank purple reply.
var ErrEmptyResponse = errors.New("empty response from purple agent")

// containerKeys are the wrapper keys a response may nest its record list
// under, probed in order.
var containerKeys = []string{"data", "rows", "results", "result", "items"}

// ParseResponse parses possibly-dirty JSON text. Strict parse first; on
// failure the substring between the first "{" and last "}" (then first "["
// and last "]") is retried, tolerating leading/trailing prose. If every
// attempt fails the original parse error is returned.
func ParseResponse(raw string) (interface{}, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil, ErrEmptyResponse
	}

	var v interface{}
	strictErr := json.Unmarshal([]byte(candidate), &v)
	if strictErr == nil {
		return v, nil
	}

	if start, end := strings.Index(candidate, "{"), strings.LastIndex(candidate, "}"); start != -1 && end > start {
		if err := json.Unmarshal([]byte(candidate[start:end+1]), &v); err == nil {
			return v, nil
		}
	}
	if start, end := strings.Index(candidate, "["), strings.LastIndex(candidate, "]"); start != -1 && end > start {
		if err := json.Unmarshal([]byte(candidate[start:end+1]), &v); err == nil {
			return v, nil
		}
	}
	return nil, strictErr
}

// NormalizeRecords flattens heterogeneous container shapes into a list of
// flat records. A bare list keeps its mapping-typed elements; a mapping is
// probed for the first container key holding a list. Anything else yields
// nil, which is not an error condition here.
func NormalizeRecords(payload interface{}) []map[string]interface{} {
	switch v := payload.(type) {
	case []interface{}:
		return mapElements(v)
	case map[string]interface{}:
		for _, key := range containerKeys {
			if list, ok := v[key].([]interface{}); ok {
				return mapElements(list)
			}
		}
	}
	return nil
}

// PromoteTreasuryWrapper promotes a nested treasury_daily_aggregate object
// to be the effective response, carrying forward the outer dataset_name and
// dataset_group when the inner object lacks them.
func PromoteTreasuryWrapper(payload interface{}) interface{} {
	outer, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}
	inner, ok := outer["treasury_daily_aggregate"].(map[string]interface{})
	if !ok {
		return payload
	}
	promoted := make(map[string]interface{}, len(inner)+2)
	for k, v := range inner {
		promoted[k] = v
	}
	for _, key := range []string{"dataset_name", "dataset_group"} {
		if _, present := promoted[key]; !present {
			if v, ok := outer[key]; ok {
				promoted[key] = v
			}
		}
	}
	return promoted
}

func mapElements(list []interface{}) []map[string]interface{} {
	records := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]interface{}); ok {
			records = append(records, rec)
		}
	}
	return records
}
