package metrics

import (
	"time"

	"github.com/tidwall/gjson"
)

// KeyApprovedAt is the feedback field holding the approval instant.
const KeyApprovedAt = "approved_at"

// ApprovedAt reads the approval instant from a feedback payload. Missing,
// malformed or unparsable payloads report false instead of failing.
func ApprovedAt(feedback string) (time.Time, bool) {
	if feedback == "" || !gjson.Valid(feedback) {
		return time.Time{}, false
	}

	res := gjson.Get(feedback, KeyApprovedAt)
	switch res.Type {
	case gjson.String:
		ts, err := time.Parse(time.RFC3339, res.Str)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	case gjson.Number:
		return time.Unix(res.Int(), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}
