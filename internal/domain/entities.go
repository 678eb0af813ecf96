package domain

import "strings"

type PostType string

const (
	PostTypeIdea     PostType = "IDEA"
	PostTypeArticle  PostType = "ARTICLE"
	PostTypeProposal PostType = "PROPOSAL"
	PostTypeQuestion PostType = "QUESTION"

	postTypeTokenPrefix = "post_type_"
)

// PostTypes returns the closed set of selectable post types in display order.
func PostTypes() []PostType {
	return []PostType{PostTypeIdea, PostTypeArticle, PostTypeProposal, PostTypeQuestion}
}

// Key is the lowercase name used in choice tokens and catalog keys.
func (t PostType) Key() string {
	return strings.ToLower(string(t))
}

func (t PostType) Token() string {
	return postTypeTokenPrefix + t.Key()
}

// ParsePostTypeToken maps a button token back to a post type. Anything outside
// the closed set is rejected.
func ParsePostTypeToken(token string) (PostType, bool) {
	key, ok := strings.CutPrefix(token, postTypeTokenPrefix)
	if !ok {
		return "", false
	}
	for _, t := range PostTypes() {
		if t.Key() == key {
			return t, true
		}
	}
	return "", false
}

const (
	AuthorTypeUser  = "USER"
	BodyFormatText  = "PLAIN_TEXT"
	PostStatusDraft = "DRAFT"
)

type Profile struct {
	UserID           string
	FullName         I18nText
	TelegramUsername string
	AccountStatus    string
}

type Credentials struct {
	Token   string
	Profile Profile
}

type AuthorInfo struct {
	AuthorID   string `json:"authorId"`
	AuthorType string `json:"authorType"`
}

// Draft accumulates a post under construction: type, then title, then body.
type Draft struct {
	Type   PostType
	Title  I18nText
	Body   I18nText
	Author *AuthorInfo
}

// Complete reports whether the draft can be submitted.
func (d *Draft) Complete() bool {
	return d != nil && d.Type != "" && !d.Title.Empty() && !d.Body.Empty() &&
		d.Author != nil && d.Author.AuthorID != ""
}

type CreatedPost struct {
	PostID string
}

type PostSummary struct {
	PostID string
	Title  I18nText
	Status string
	Type   PostType
}
