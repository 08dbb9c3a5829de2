package settings

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akam1o/ifbridge/pkg/errors"
	"github.com/akam1o/ifbridge/pkg/logger"
)

// Load reads a YAML settings file on top of Default() and validates the result
func Load(path string, log *logger.Logger) (*Settings, error) {
	if log != nil {
		log.Debug("Loading settings", slog.String("path", path))
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(
			errors.ErrCodeConfigNotFound,
			fmt.Sprintf("Settings file not found: %s", path),
			"The specified settings file does not exist",
			"Create the file or drop the -settings flag",
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(
			err,
			errors.ErrCodeConfigPermission,
			fmt.Sprintf("Failed to read settings: %s", path),
			"Permission denied or file is not readable",
			"Check file permissions with 'ls -l' and ensure the file is readable",
		)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(
			err,
			errors.ErrCodeConfigParseError,
			fmt.Sprintf("Failed to parse settings: %s", path),
			"Invalid YAML syntax, structure, or unknown fields (check for typos)",
			"Verify YAML syntax and compare the keys against the documented settings",
		)
	}

	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(
			err,
			errors.ErrCodeConfigValidation,
			"Settings validation failed",
			"Settings contain invalid values",
			"Review the error details and fix the settings file",
		)
	}

	if log != nil {
		log.Info("Settings loaded",
			slog.String("filename", s.Filename),
			slog.String("bridge_name", s.BridgeName),
		)
	}
	return s, nil
}

// Decode parses YAML settings over the defaults, rejecting unknown keys.
// An empty document yields the defaults.
func Decode(data []byte) (*Settings, error) {
	s := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return s, nil
}
