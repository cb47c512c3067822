package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Format is a configuration file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from the file extension; YAML unless ".toml".
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads, expands, decodes, defaults and validates a configuration file.
// A .env or .env.local file next to it is loaded first, then ${VAR}
// references in the file are expanded from the environment.
func Load(path string) (*Config, error) {
	if envFile, err := loadEnvFile(filepath.Dir(path)); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load env file").
			WithContext("path", envFile).
			Build()
	} else if envFile != "" {
		slog.Debug("Loaded environment variables", "path", envFile)
	}

	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "configuration file not found").
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))), FormatFor(path))
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte, format Format) (*Config, error) {
	cfg, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to decode TOML config").Build()
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			var fields ValidationErrors
			for _, key := range undecoded {
				fields = append(fields, FieldError{Field: key.String(), Message: "unknown field"})
			}
			sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
			return nil, fields.classified()
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to decode YAML config").Build()
		}
	}
	return &cfg, nil
}

// Marshal encodes cfg in the given format.
func Marshal(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, errors.InternalError("encode TOML config").WithCause(err).Build()
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, errors.InternalError("encode YAML config").WithCause(err).Build()
		}
		if err := enc.Close(); err != nil {
			return nil, errors.InternalError("encode YAML config").WithCause(err).Build()
		}
		return buf.Bytes(), nil
	}
}
