package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type LocalizedText struct {
	Locale string
	Text   string
}

// I18nText is an ordered locale -> text mapping. On the wire it is a JSON
// object keyed by locale; a bare string is accepted and kept under the empty
// locale.
type I18nText []LocalizedText

func NewI18nText(locale, text string) I18nText {
	return I18nText{{Locale: locale, Text: text}}
}

func (t I18nText) Get(locale string) (string, bool) {
	for _, lt := range t {
		if lt.Locale == locale && lt.Text != "" {
			return lt.Text, true
		}
	}
	return "", false
}

func (t *I18nText) Set(locale, text string) {
	for i := range *t {
		if (*t)[i].Locale == locale {
			(*t)[i].Text = text
			return
		}
	}
	*t = append(*t, LocalizedText{Locale: locale, Text: text})
}

// Resolve picks the requested locale, then the fallback locale, then the
// first non-empty entry.
func (t I18nText) Resolve(requested, fallback string) string {
	if s, ok := t.Get(requested); ok {
		return s
	}
	if s, ok := t.Get(fallback); ok {
		return s
	}
	for _, lt := range t {
		if lt.Text != "" {
			return lt.Text
		}
	}
	return ""
}

func (t I18nText) Empty() bool {
	for _, lt := range t {
		if lt.Text != "" {
			return false
		}
	}
	return true
}

func (t I18nText) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lt := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(lt.Locale)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(lt.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *I18nText) UnmarshalJSON(data []byte) error {
	const op = "I18nText.UnmarshalJSON"
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = nil
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		*t = NewI18nText("", s)
		return nil
	case data[0] != '{':
		return fmt.Errorf("%s: unexpected value %.32s", op, data)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	out := make(I18nText, 0, 2)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		key, _ := keyTok.(string)
		var val any
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if s, ok := val.(string); ok {
			out = append(out, LocalizedText{Locale: key, Text: s})
		}
	}
	*t = out
	return nil
}
