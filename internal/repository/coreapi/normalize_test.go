package coreapi

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"testing"
)

func TestDetectListShape(t *testing.T) {
	tests := []struct {
		body string
		want listShape
	}{
		{`[]`, shapeBare},
		{`{"data":[]}`, shapeData},
		{`{"content":[{"postId":"1"}]}`, shapeContent},
		{`{"data":{"items":[]}}`, shapeUnknown},
		{`{}`, shapeUnknown},
		{`"text"`, shapeUnknown},
		{`42`, shapeUnknown},
	}
	for _, tt := range tests {
		got, _ := detectListShape(gjson.Parse(tt.body))
		assert.Equal(t, tt.want, got, tt.body)
	}
}

func TestNormalizePostList(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		posts, err := normalizePostList([]byte(`{"data":[]}`))
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("non object item", func(t *testing.T) {
		_, err := normalizePostList([]byte(`[{"postId":"1"}, "2"]`))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := normalizePostList([]byte(`[{"postId":`))
		assert.Error(t, err)
	})

	t.Run("unknown shape", func(t *testing.T) {
		_, err := normalizePostList([]byte(`{"items":[]}`))
		assert.ErrorIs(t, err, errUnknownListShape)
	})

	t.Run("missing fields stay empty", func(t *testing.T) {
		posts, err := normalizePostList([]byte(`[{"postId":"p-1"}]`))
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "p-1", posts[0].PostID)
		assert.True(t, posts[0].Title.Empty())
	})
}
