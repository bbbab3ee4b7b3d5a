package configuration

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLProvider reads flat YAML documents of scalar values. Later files
// override keys of earlier ones.
type YAMLProvider struct{}

// Read reads YAML configuration files into a map (map[key]value).
func (*YAMLProvider) Read(filenames ...string) (map[string]string, error) {
	data := make(map[string]string)

	for _, filename := range filenames {
		raw, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("(config-yaml) %w", err)
		}

		doc := make(map[string]any)
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("(config-yaml) %s: %w", filename, err)
		}

		for key, value := range doc {
			switch value.(type) {
			case map[string]any, []any:
				return nil, fmt.Errorf("(config-yaml) %s: %w: %s is not a scalar", filename, ErrInvalidValue, key)
			case nil:
				data[key] = ""
			default:
				data[key] = fmt.Sprint(value)
			}
		}
	}

	return data, nil
}
