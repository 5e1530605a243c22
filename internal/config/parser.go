package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	keysyncerrors "github.com/certfleet/keysync/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseManifest loads a manifest file from disk, validates it, and returns
// the resulting model.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, keysyncerrors.NewConfigurationError(path, "cannot read manifest", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		field := path
		if line := extractLine(err); line > 0 {
			field = fmt.Sprintf("%s:%d", path, line)
		}
		return nil, keysyncerrors.NewConfigurationError(field, "cannot parse manifest", err)
	}

	if err := ValidateManifest(&manifest); err != nil {
		return nil, err
	}

	return &manifest, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
