package yamlLoader

import (
	"fmt"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"os"
	"strings"
)

const maxConfigFileSize = 1 << 20

// YAMLLoader flattens a YAML file into UPPER_SNAKE keys
// (core_api.base_url -> CORE_API_BASE_URL) and overlays the environment.
type YAMLLoader struct {
	Path string
}

func (l YAMLLoader) Load() (map[string]string, error) {
	const op = "yamlLoader.Load"
	envs := make(map[string]string)

	if l.Path != "" {
		content, err := os.ReadFile(l.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read %s: %w", op, l.Path, err)
		}
		if len(content) > maxConfigFileSize {
			return nil, fmt.Errorf("%s: %s exceeds %d bytes", op, l.Path, maxConfigFileSize)
		}
		k := koanf.New(".")
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: failed to parse %s: %w", op, l.Path, err)
		}
		for key, value := range k.All() {
			envs[envKey(key)] = fmt.Sprint(value)
		}
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("%s: failed to load environment: %w", op, err)
	}
	for key, value := range k.All() {
		envs[key] = fmt.Sprint(value)
	}
	return envs, nil
}

func envKey(path string) string {
	return strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}
