package model

import (
	"time"

	"github.com/google/uuid"

	"realestate-backend/internal/shared/utils"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

var Statuses = []interface{}{StatusDraft, StatusPublished}

// Post mirrors the blog_posts table.
type Post struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Excerpt       *string           `json:"excerpt"`
	Content       string            `json:"content"`
	CoverImageKey *string           `json:"cover_image_key"`
	CoverImageURL *string           `json:"cover_image_url"`
	CoverVariants map[string]string `json:"cover_variants"`
	Tags          []string          `json:"tags"`
	Status        string            `json:"status"`
	PublishedAt   *time.Time        `json:"published_at"`
	AuthorID      *uuid.UUID        `json:"author_id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     *time.Time        `json:"deleted_at"`
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished && p.DeletedAt == nil
}

// CoverPrefix is the storage prefix holding every image of a post.
func CoverPrefix(id uuid.UUID) string {
	return "blog/" + id.String() + "/"
}

func OriginalCoverKey(id uuid.UUID) string {
	return CoverPrefix(id) + "original.jpg"
}

func VariantCoverKey(id uuid.UUID, variant string) string {
	return CoverPrefix(id) + variant + ".jpg"
}

// PostView is the back-office representation.
type PostView struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Slug           string            `json:"slug"`
	Excerpt        *string           `json:"excerpt"`
	Content        string            `json:"content"`
	CoverImageURL  *string           `json:"coverImageUrl"`
	CoverVariants  map[string]string `json:"coverVariants"`
	Tags           []string          `json:"tags"`
	Status         string            `json:"status"`
	AuthorID       *string           `json:"authorId"`
	PublishedAt    string            `json:"publishedAt"`
	PublishedAtIso *string           `json:"publishedAtIso"`
	CreatedAt      string            `json:"createdAt"`
	CreatedAtIso   string            `json:"createdAtIso"`
	UpdatedAt      string            `json:"updatedAt"`
	UpdatedAtIso   string            `json:"updatedAtIso"`
	DeletedAt      string            `json:"deletedAt"`
	DeletedAtIso   *string           `json:"deletedAtIso"`
}

func (p *Post) ToView(locale string) PostView {
	v := PostView{
		ID:             p.ID.String(),
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		Content:        p.Content,
		CoverImageURL:  p.CoverImageURL,
		CoverVariants:  p.CoverVariants,
		Tags:           nonNilTags(p.Tags),
		Status:         p.Status,
		PublishedAt:    utils.FormatTimePtr(p.PublishedAt, locale),
		PublishedAtIso: utils.ISOPtr(p.PublishedAt),
		CreatedAt:      utils.FormatTime(p.CreatedAt, locale),
		CreatedAtIso:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      utils.FormatTime(p.UpdatedAt, locale),
		UpdatedAtIso:   p.UpdatedAt.UTC().Format(time.RFC3339),
		DeletedAt:      utils.FormatTimePtr(p.DeletedAt, locale),
		DeletedAtIso:   utils.ISOPtr(p.DeletedAt),
	}
	if p.AuthorID != nil {
		s := p.AuthorID.String()
		v.AuthorID = &s
	}
	return v
}

func ToViews(posts []Post, locale string) []PostView {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, posts[i].ToView(locale))
	}
	return views
}

// PublicPostView is what the marketing site renders. Content is omitted in
// listings.
type PublicPostView struct {
	Title          string            `json:"title"`
	Slug           string            `json:"slug"`
	Excerpt        *string           `json:"excerpt"`
	Content        string            `json:"content,omitempty"`
	CoverImageURL  *string           `json:"coverImageUrl"`
	CoverVariants  map[string]string `json:"coverVariants"`
	Tags           []string          `json:"tags"`
	PublishedAt    string            `json:"publishedAt"`
	PublishedAtIso *string           `json:"publishedAtIso"`
}

func (p *Post) ToPublicView(locale string, withContent bool) PublicPostView {
	v := PublicPostView{
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		CoverImageURL:  p.CoverImageURL,
		CoverVariants:  p.CoverVariants,
		Tags:           nonNilTags(p.Tags),
		PublishedAt:    utils.FormatTimePtr(p.PublishedAt, locale),
		PublishedAtIso: utils.ISOPtr(p.PublishedAt),
	}
	if withContent {
		v.Content = p.Content
	}
	return v
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

type PostFilter struct {
	Search  string
	Status  string
	Tag     string
	Deleted utils.DeletedScope
	Limit   int
	Offset  int
}

// PublicPage is one cached page of the public blog listing.
type PublicPage struct {
	Posts []PublicPostView `json:"posts"`
	Total int64            `json:"total"`
}
