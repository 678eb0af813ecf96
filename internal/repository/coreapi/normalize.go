package coreapi

import (
	"HamqadamBot/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/tidwall/gjson"
)

type listShape int

const (
	shapeUnknown listShape = iota
	shapeBare
	shapeData
	shapeContent
)

var errUnknownListShape = errors.New("unrecognized list shape")

// detectListShape accepts a bare array, {"data": [...]} or the paged
// {"content": [...]} form and returns the array itself.
func detectListShape(res gjson.Result) (listShape, gjson.Result) {
	switch {
	case res.IsArray():
		return shapeBare, res
	case !res.IsObject():
		return shapeUnknown, gjson.Result{}
	case res.Get("data").IsArray():
		return shapeData, res.Get("data")
	case res.Get("content").IsArray():
		return shapeContent, res.Get("content")
	}
	return shapeUnknown, gjson.Result{}
}

func normalizePostList(body []byte) ([]domain.PostSummary, error) {
	const op = "coreapi.normalizePostList"
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: invalid json", op)
	}
	shape, list := detectListShape(gjson.ParseBytes(body))
	if shape == shapeUnknown {
		return nil, fmt.Errorf("%s: %w", op, errUnknownListShape)
	}

	items := list.Array()
	posts := make([]domain.PostSummary, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%s: item %d is not an object", op, i)
		}
		posts = append(posts, decodePostSummary(item))
	}
	return posts, nil
}

func decodePostSummary(item gjson.Result) domain.PostSummary {
	post := domain.PostSummary{
		PostID: item.Get("postId").String(),
		Status: item.Get("status").String(),
		Type:   domain.PostType(item.Get("postType").String()),
	}
	if title := item.Get("title"); title.Exists() {
		_ = json.Unmarshal([]byte(title.Raw), &post.Title)
	}
	return post
}
