package profile

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Decode converts a loose attribute mapping into a Profile. Every recognized
// attribute must be present with a value of its declared type; unknown keys,
// nil values and out-of-domain values are rejected with ErrInvalidProfile.
func Decode(raw map[string]any) (Profile, error) {
	var unknown []string
	for key := range raw {
		if !Attribute(key).Recognized() {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return Profile{}, fmt.Errorf("%w: unrecognized attribute(s) %s", ErrInvalidProfile, strings.Join(unknown, ", "))
	}

	var missing []string
	for _, attr := range Attributes() {
		if v, ok := raw[string(attr)]; !ok || v == nil {
			missing = append(missing, string(attr))
		}
	}
	if len(missing) > 0 {
		return Profile{}, fmt.Errorf("%w: missing attribute(s) %s", ErrInvalidProfile, strings.Join(missing, ", "))
	}

	var p Profile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &p,
		ErrorUnused: true,
		ErrorUnset:  true,
	})
	if err != nil {
		return Profile{}, fmt.Errorf("creating profile decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Parse decodes a YAML or JSON profile document.
func Parse(data []byte) (Profile, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Profile{}, fmt.Errorf("%w: parsing document: %v", ErrInvalidProfile, err)
	}
	if raw == nil {
		return Profile{}, fmt.Errorf("%w: empty document", ErrInvalidProfile)
	}
	return Decode(raw)
}

// LoadFile reads and decodes a profile file.
func LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Map returns the profile as a plain attribute mapping in canonical form.
func (p Profile) Map() map[string]any {
	out := make(map[string]any, len(Attributes()))
	for _, attr := range Attributes() {
		out[string(attr)] = p.Value(attr).Interface()
	}
	return out
}
