package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/johns/time-spectrum/internal/engine"
)

// WriteJSON writes r as indented JSON for machine consumers.
func WriteJSON(w io.Writer, r engine.ComputedResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
