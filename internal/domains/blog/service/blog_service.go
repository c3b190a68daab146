package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"realestate-backend/internal/domains/blog/model"
	"realestate-backend/internal/domains/blog/repository"
	"realestate-backend/internal/infrastructure/queue"
	"realestate-backend/internal/infrastructure/storage"
	"realestate-backend/internal/shared"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/cache"
)

const (
	publicCacheTTL     = 10 * time.Minute
	publicCachePattern = "blog:public:*"
	maxSlugSuffix      = 100
	createAttempts     = 3
)

type BlogService struct {
	repo     repository.Repository
	cache    cache.Cache
	storage  storage.ObjectStorage
	images   ImageProcessor
	enqueuer queue.Enqueuer
}

func NewBlogService(
	repo repository.Repository,
	cache cache.Cache,
	store storage.ObjectStorage,
	images ImageProcessor,
	enqueuer queue.Enqueuer,
) *BlogService {
	return &BlogService{
		repo:     repo,
		cache:    cache,
		storage:  store,
		images:   images,
		enqueuer: enqueuer,
	}
}

var _ Service = (*BlogService)(nil)

func (s *BlogService) List(ctx context.Context, req model.ListPostsRequest) ([]model.Post, int64, utils.Pagination, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, utils.Pagination{}, err
	}

	p := utils.NewPagination(req.Page, req.Limit)
	posts, total, err := s.repo.List(ctx, model.PostFilter{
		Search:  req.Search,
		Status:  req.Status,
		Tag:     strings.ToLower(strings.TrimSpace(req.Tag)),
		Deleted: utils.DeletedScope(req.Deleted),
		Limit:   p.Limit,
		Offset:  p.Offset(),
	})
	if err != nil {
		return nil, 0, p, err
	}
	return posts, total, p, nil
}

func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return s.repo.FindByID(ctx, id, true)
}

func (s *BlogService) Create(ctx context.Context, authorID uuid.UUID, req model.PostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	base, err := model.SlugFrom(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	p := &model.Post{
		Title:    strings.TrimSpace(req.Title),
		Excerpt:  utils.NullIfEmpty(req.Excerpt),
		Content:  req.Content,
		Tags:     model.NormalizeTags(req.Tags),
		Status:   model.StatusDraft,
		AuthorID: &authorID,
	}

	// a concurrent insert can take the slug between the check and the insert
	for attempt := 0; attempt < createAttempts; attempt++ {
		p.Slug, err = s.uniqueSlug(ctx, base, uuid.Nil)
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, p)
		if !errors.Is(err, model.ErrSlugTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("post_id", p.ID.String()).Str("slug", p.Slug).Msg("blog post created")
	return p, nil
}

func (s *BlogService) Update(ctx context.Context, id uuid.UUID, req model.PostRequest) (*model.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	slug := current.Slug
	if req.Slug != "" || !strings.EqualFold(strings.TrimSpace(req.Title), current.Title) {
		base, err := model.SlugFrom(req.Slug, req.Title)
		if err != nil {
			return nil, err
		}
		if base != current.Slug {
			if slug, err = s.uniqueSlug(ctx, base, id); err != nil {
				return nil, err
			}
		}
	}

	current.Title = strings.TrimSpace(req.Title)
	current.Slug = slug
	current.Excerpt = utils.NullIfEmpty(req.Excerpt)
	current.Content = req.Content
	current.Tags = model.NormalizeTags(req.Tags)

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	s.invalidatePublic(ctx)
	return s.repo.FindByID(ctx, id, false)
}

// uniqueSlug returns base, or base-2, base-3, ... whichever is free.
func (s *BlogService) uniqueSlug(ctx context.Context, base string, exclude uuid.UUID) (string, error) {
	for n := 1; n <= maxSlugSuffix; n++ {
		candidate := utils.SlugWithSuffix(base, n)
		taken, err := s.repo.SlugExists(ctx, candidate, exclude)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", model.ErrSlugTaken
}

func (s *BlogService) Publish(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return s.setStatus(ctx, id, model.StatusPublished)
}

func (s *BlogService) Unpublish(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return s.setStatus(ctx, id, model.StatusDraft)
}

func (s *BlogService) setStatus(ctx context.Context, id uuid.UUID, status string) (*model.Post, error) {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.invalidatePublic(ctx)
	log.Info().Str("post_id", id.String()).Str("status", status).Msg("blog post status changed")
	return s.repo.FindByID(ctx, id, false)
}

func (s *BlogService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidatePublic(ctx)
	return nil
}

func (s *BlogService) Restore(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	s.invalidatePublic(ctx)
	return s.repo.FindByID(ctx, id, false)
}

// ========================================
// COVER IMAGES
// ========================================

// UploadCover stores the image as blog/<id>/original.jpg and queues the
// resize job.
func (s *BlogService) UploadCover(ctx context.Context, id uuid.UUID, data []byte) (*model.Post, error) {
	if _, err := s.repo.FindByID(ctx, id, false); err != nil {
		return nil, err
	}

	if err := s.images.ValidateImage(data); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}
	jpeg, err := s.images.ToJPEG(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	key := model.OriginalCoverKey(id)
	url, err := s.storage.Upload(ctx, key, jpeg, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("upload cover: %w", err)
	}
	if err := s.repo.SetCover(ctx, id, key, url); err != nil {
		return nil, err
	}

	payload := shared.ProcessBlogCoverPayload{PostID: id.String(), OriginalKey: key}
	if err := s.enqueuer.Enqueue(ctx, shared.TypeProcessBlogCover, payload); err != nil {
		log.Error().Err(err).Str("post_id", id.String()).Msg("failed to enqueue cover processing")
	}

	s.invalidatePublic(ctx)
	return s.repo.FindByID(ctx, id, false)
}

func (s *BlogService) ProcessCover(ctx context.Context, id uuid.UUID, originalKey string) error {
	original, err := s.storage.Download(ctx, originalKey)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}

	variants, err := s.images.ProcessImage(original)
	if err != nil {
		return fmt.Errorf("resize cover: %w", err)
	}

	urls := make(map[string]string, len(variants))
	for name, data := range variants {
		url, err := s.storage.Upload(ctx, model.VariantCoverKey(id, name), data, "image/jpeg")
		if err != nil {
			return fmt.Errorf("upload %s variant: %w", name, err)
		}
		urls[name] = url
	}

	if err := s.repo.SetCoverVariants(ctx, id, urls); err != nil {
		return err
	}
	s.invalidatePublic(ctx)
	return nil
}

// ========================================
// PUBLIC BLOG (cached)
// ========================================

func (s *BlogService) ListPublished(ctx context.Context, req model.ListPublishedRequest, locale string) (*model.PublicPage, utils.Pagination, error) {
	if err := req.Validate(); err != nil {
		return nil, utils.Pagination{}, err
	}

	p := utils.NewPagination(req.Page, req.Limit)
	tag := strings.ToLower(strings.TrimSpace(req.Tag))
	key := fmt.Sprintf("blog:public:list:%s:%s:%d:%d", locale, tag, p.Page, p.Limit)

	var page model.PublicPage
	if found, err := s.cache.Get(ctx, key, &page); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("blog cache read failed")
	} else if found {
		return &page, p, nil
	}

	posts, total, err := s.repo.ListPublished(ctx, tag, p.Limit, p.Offset())
	if err != nil {
		return nil, p, err
	}

	page = model.PublicPage{Posts: make([]model.PublicPostView, 0, len(posts)), Total: total}
	for i := range posts {
		page.Posts = append(page.Posts, posts[i].ToPublicView(locale, false))
	}

	if err := s.cache.Set(ctx, key, page, publicCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("blog cache write failed")
	}
	return &page, p, nil
}

func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug, locale string) (*model.PublicPostView, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	key := fmt.Sprintf("blog:public:post:%s:%s", locale, slug)

	var view model.PublicPostView
	if found, err := s.cache.Get(ctx, key, &view); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("blog cache read failed")
	} else if found {
		return &view, nil
	}

	post, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	view = post.ToPublicView(locale, true)
	if err := s.cache.Set(ctx, key, view, publicCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("blog cache write failed")
	}
	return &view, nil
}

func (s *BlogService) invalidatePublic(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, publicCachePattern); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate public blog cache")
	}
}

// PurgeDeletedBefore removes old soft deleted posts and their images.
func (s *BlogService) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ids, err := s.repo.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := s.storage.DeleteByPrefix(ctx, model.CoverPrefix(id)); err != nil {
			log.Warn().Err(err).Str("post_id", id.String()).Msg("failed to delete cover images")
		}
	}
	return int64(len(ids)), nil
}
