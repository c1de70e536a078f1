package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Export serializes an assessment as pretty-printed JSON suitable for
// clipboard copy or file download. The output parses back losslessly.
func Export(a Assessment) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse reads an assessment back from JSON.
func Parse(data []byte) (Assessment, error) {
	var a Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return Assessment{}, fmt.Errorf("parse assessment: %w", err)
	}
	return a, nil
}
