package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ParseOverrides turns "name=value" pairs from the command line into an
// override map keyed by parameter name.
func ParseOverrides(pairs []string) (map[string]any, error) {
	overrides := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed override %q (want name=value)", pair)
		}
		overrides[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return overrides, nil
}

// ApplyOverrides decodes an override map onto the physical parameters,
// converting string values to floats. Unknown names are rejected so typos
// fail loudly instead of silently simulating the defaults.
func (c *Config) ApplyOverrides(overrides map[string]any) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c.Params,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(overrides); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	if len(md.Unused) > 0 {
		return fmt.Errorf("unknown parameter(s): %s", strings.Join(md.Unused, ", "))
	}
	return c.Params.Validate()
}
