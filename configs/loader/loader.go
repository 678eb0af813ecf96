package loader

// ConfigLoader returns configuration as flat UPPER_SNAKE keys.
type ConfigLoader interface {
	Load() (map[string]string, error)
}
