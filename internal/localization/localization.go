package localization

import (
	_ "embed"
	"fmt"
	"gopkg.in/yaml.v3"
	"strings"
)

//go:embed strings.yaml
var catalogYAML []byte

// Catalog holds user-facing strings per language. Lookups fall back to the
// default language and then to a visible <key_NOT_FOUND> marker.
type Catalog struct {
	strings     map[string]map[string]string
	defaultLang string
}

func New(defaultLang string) (*Catalog, error) {
	const op = "localization.New"
	var strs map[string]map[string]string
	if err := yaml.Unmarshal(catalogYAML, &strs); err != nil {
		return nil, fmt.Errorf("%s: failed to parse catalog: %w", op, err)
	}
	if _, ok := strs[defaultLang]; !ok {
		return nil, fmt.Errorf("%s: default language %q is not in the catalog", op, defaultLang)
	}
	return &Catalog{strings: strs, defaultLang: defaultLang}, nil
}

func (c *Catalog) DefaultLanguage() string {
	return c.defaultLang
}

func (c *Catalog) Supports(lang string) bool {
	_, ok := c.strings[lang]
	return ok
}

// Get formats key for lang. args are name/value pairs filling {name}
// placeholders.
func (c *Catalog) Get(lang, key string, args ...string) string {
	template, ok := c.strings[lang][key]
	if !ok {
		template, ok = c.strings[c.defaultLang][key]
	}
	if !ok {
		return "<" + key + "_NOT_FOUND>"
	}
	if len(args) == 0 {
		return template
	}

	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
