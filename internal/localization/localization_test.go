package localization

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCatalog_Get(t *testing.T) {
	c, err := New("en")
	require.NoError(t, err)

	t.Run("placeholders", func(t *testing.T) {
		assert.Equal(t,
			"Your draft post has been created successfully! Post ID: p-1",
			c.Get("en", "post_draft_created_success", "post_id", "p-1"))
	})

	t.Run("unknown language falls back to default", func(t *testing.T) {
		assert.Equal(t, c.Get("en", "post_creation_cancelled"), c.Get("de", "post_creation_cancelled"))
	})

	t.Run("farsi", func(t *testing.T) {
		assert.NotEqual(t, c.Get("en", "not_logged_in"), c.Get("fa", "not_logged_in"))
	})

	t.Run("missing key is visible", func(t *testing.T) {
		assert.Equal(t, "<no_such_key_NOT_FOUND>", c.Get("en", "no_such_key"))
	})

	t.Run("odd argument is ignored", func(t *testing.T) {
		assert.Equal(t,
			"Failed to create draft: {error}",
			c.Get("en", "post_draft_created_fail", "error"))
	})
}

func TestCatalog_LanguagesHaveSameKeys(t *testing.T) {
	c, err := New("en")
	require.NoError(t, err)
	require.True(t, c.Supports("fa"))
	assert.False(t, c.Supports("de"))

	for key := range c.strings["en"] {
		_, ok := c.strings["fa"][key]
		assert.True(t, ok, "fa is missing %q", key)
	}
	for key := range c.strings["fa"] {
		_, ok := c.strings["en"][key]
		assert.True(t, ok, "en is missing %q", key)
	}
}

func TestNew_UnknownDefault(t *testing.T) {
	_, err := New("de")
	assert.Error(t, err)

	c, err := New("fa")
	require.NoError(t, err)
	assert.Equal(t, "fa", c.DefaultLanguage())
}
