package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"realestate-backend/internal/shared/utils"
)

const maxTags = 10

// PostRequest is the body of create and update. An empty slug is generated
// from the title.
type PostRequest struct {
	Title   string   `json:"title"`
	Slug    string   `json:"slug"`
	Excerpt string   `json:"excerpt"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (r PostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title is required"), validation.Length(1, 200)),
		validation.Field(&r.Slug, validation.Length(0, 200)),
		validation.Field(&r.Excerpt, validation.Length(0, 500)),
		validation.Field(&r.Content, validation.Required.Error("content is required")),
		validation.Field(&r.Tags, validation.Length(0, maxTags), validation.Each(validation.Length(1, 40))),
	)
}

// NormalizeTags lower-cases, trims and de-duplicates tags, keeping order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

type ListPostsRequest struct {
	Search  string `form:"search"`
	Status  string `form:"status"`
	Tag     string `form:"tag"`
	Deleted string `form:"deleted"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

func (r ListPostsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.In(Statuses...)),
		validation.Field(&r.Deleted, validation.In(string(utils.ScopeActive), string(utils.ScopeDeleted), string(utils.ScopeAll))),
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(utils.MaxPageLimit)),
	)
}

type ListPublishedRequest struct {
	Tag   string `form:"tag"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

func (r ListPublishedRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Tag, validation.Length(0, 40)),
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(utils.MaxPageLimit)),
	)
}

var errNoSlugChars = errors.New("must contain letters or digits")

// SlugFrom normalises an explicit slug, or derives one from title.
func SlugFrom(slug, title string) (string, error) {
	src := slug
	if strings.TrimSpace(src) == "" {
		src = title
	}
	s := utils.GenerateSlug(src)
	if s == "" {
		return "", validation.Errors{"slug": errNoSlugChars}
	}
	return s, nil
}
