package dotEnvLoader

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"io/fs"
	"maps"
	"os"
	"strings"
)

// DotEnvLoader reads .env files and lets the process environment override them.
type DotEnvLoader struct {
	Files []string
}

func (l DotEnvLoader) Load() (map[string]string, error) {
	const op = "dotEnvLoader.Load"
	files := l.Files
	if len(files) == 0 {
		files = []string{".env"}
	}

	envs := make(map[string]string)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%s: failed to read %s: %w", op, file, err)
		}
		maps.Copy(envs, values)
	}

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok {
			envs[key] = value
		}
	}
	return envs, nil
}
