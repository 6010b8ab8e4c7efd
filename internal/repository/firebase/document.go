package firebase

import (
	"encoding/json"
	"fmt"
)

// Documents written by the web app store timestamps as ISO-8601 strings and the interview
// owner under "userid". Both shapes decode into the same model.
var interviewAliases = map[string]string{"userid": "userId"}

// decodeDocument maps raw Firestore data onto out through its json tags. Timestamps arrive as
// time.Time or RFC 3339 strings and both unmarshal into time.Time fields.
func decodeDocument(data map[string]any, aliases map[string]string, out any) error {
	for legacy, field := range aliases {
		if _, ok := data[field]; ok {
			continue
		}
		if v, ok := data[legacy]; ok {
			data[field] = v
		}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
