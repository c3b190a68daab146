package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"realestate-backend/internal/domains/blog/model"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/database"
)

const postColumns = `id, title, slug, excerpt, content, cover_image_key, cover_image_url,
	cover_variants, tags, status, published_at, author_id, created_at, updated_at, deleted_at`

const slugConstraint = "blog_posts_slug_key"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Content,
		&p.CoverImageKey,
		&p.CoverImageURL,
		&p.CoverVariants,
		&p.Tags,
		&p.Status,
		&p.PublishedAt,
		&p.AuthorID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) queryPosts(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *postgresRepository) List(ctx context.Context, f model.PostFilter) ([]model.Post, int64, error) {
	wb := utils.NewWhereBuilder().AddDeletedScope(f.Deleted, "deleted_at")
	wb.AddSearch(f.Search, "title", "excerpt")
	if f.Status != "" {
		wb.Add("status = ?", f.Status)
	}
	if f.Tag != "" {
		wb.Add("? = ANY(tags)", f.Tag)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts `+wb.SQL(), wb.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM blog_posts %s ORDER BY updated_at DESC, id LIMIT %s OFFSET %s`,
		postColumns, wb.SQL(), wb.Arg(f.Limit), wb.Arg(f.Offset))
	posts, err := r.queryPosts(ctx, query, wb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

// SlugExists checks every row, deleted ones included, since the unique
// index covers them too.
func (r *postgresRepository) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1 AND id <> $2)`, slug, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO blog_posts (title, slug, excerpt, content, tags, status, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Tags, p.Status, p.AuthorID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) && database.ConstraintName(err) == slugConstraint {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Post) error {
	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, excerpt = $4, content = $5, tags = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.Tags)
	if err != nil {
		if database.IsUniqueViolation(err) && database.ConstraintName(err) == slugConstraint {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// SetStatus keeps the first published_at when a post is republished.
func (r *postgresRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE blog_posts
		SET status = $2,
		    published_at = CASE WHEN $2 = 'published' THEN COALESCE(published_at, NOW()) ELSE published_at END,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.exec(ctx, "set post status", query, id, status)
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "soft delete post",
		`UPDATE blog_posts SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *postgresRepository) Restore(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE blog_posts SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("restore post: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blog_posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check post: %w", err)
	}
	if exists {
		return model.ErrPostNotDeleted
	}
	return model.ErrPostNotFound
}

// SetCover stores a new original and clears variants of the previous one.
func (r *postgresRepository) SetCover(ctx context.Context, id uuid.UUID, key, url string) error {
	return r.exec(ctx, "set post cover", `
		UPDATE blog_posts
		SET cover_image_key = $2, cover_image_url = $3, cover_variants = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id, key, url)
}

func (r *postgresRepository) SetCoverVariants(ctx context.Context, id uuid.UUID, variants map[string]string) error {
	return r.exec(ctx, "set cover variants",
		`UPDATE blog_posts SET cover_variants = $2, updated_at = NOW() WHERE id = $1`, id, variants)
}

func (r *postgresRepository) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// ========================================
// PUBLIC
// ========================================

func (r *postgresRepository) ListPublished(ctx context.Context, tag string, limit, offset int) ([]model.Post, int64, error) {
	wb := utils.NewWhereBuilder().
		Add("deleted_at IS NULL").
		Add("status = ?", model.StatusPublished)
	if tag != "" {
		wb.Add("? = ANY(tags)", tag)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts `+wb.SQL(), wb.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM blog_posts %s ORDER BY published_at DESC, id LIMIT %s OFFSET %s`,
		postColumns, wb.SQL(), wb.Arg(limit), wb.Arg(offset))
	posts, err := r.queryPosts(ctx, query, wb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}
	return posts, total, nil
}

func (r *postgresRepository) FindPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM blog_posts WHERE slug = $1 AND status = $2 AND deleted_at IS NULL`,
		slug, model.StatusPublished))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`DELETE FROM blog_posts WHERE deleted_at IS NOT NULL AND deleted_at < $1 RETURNING id`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("purge deleted posts: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect purged posts: %w", err)
	}
	return ids, nil
}
