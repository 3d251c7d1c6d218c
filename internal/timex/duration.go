// Package timex contains time helpers shared by the configuration loaders.
package timex

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so configuration files can specify intervals
// either as strings ("3s", "15m") or as integer nanoseconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts a quoted duration string or a JSON number.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

// MarshalJSON renders the duration in its string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case int:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	case nil:
		d.Duration = 0
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}
