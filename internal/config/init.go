package config

import (
	"os"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Init writes a configuration file populated with the documented defaults.
// The encoding follows the file extension.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			UserAction().
			WithContext("path", configPath).
			Build()
	}

	data, err := Marshal(Default(), FormatFor(configPath))
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
