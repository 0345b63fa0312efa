package runtimeconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override file settings.
const EnvPrefix = "BLOG_"

// listKeys are split on commas when supplied through the environment.
var listKeys = map[string]struct{}{
	"server.cors_origins": {},
	"auth.allowed_emails": {},
	"markdown.extensions": {},
}

// Load builds a Config from DefaultConfig, the YAML file at path (skipped
// when path is empty) and BLOG_ environment variables, in that order, and
// validates the result.
//
//	BLOG_AUTH_JWT_SECRET      -> auth.jwt_secret
//	BLOG_SERVER_CORS_ORIGINS  -> server.cors_origins (comma separated)
func Load(path string) (Config, error) {
	var data []byte
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		data = raw
	}
	return LoadBytes(data)
}

// LoadBytes is Load with the YAML content supplied directly.
func LoadBytes(data []byte) (Config, error) {
	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps BLOG_SECTION_FIELD_NAME to section.field_name.
func envKey(key, value string) (string, any) {
	lower := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower, value
	}
	path := section + "." + field
	if _, list := listKeys[path]; list {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		return path, items
	}
	return path, value
}
