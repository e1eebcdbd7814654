package features

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"nunchakuclub/internal/markdown"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/pagination"
	"nunchakuclub/internal/related"
	"nunchakuclub/internal/result"
	"nunchakuclub/internal/slug"
	"nunchakuclub/internal/store"
)

// metaDescriptionLength caps a meta description derived from the body.
const metaDescriptionLength = 160

// PostRepository is the post storage the post handlers need.
type PostRepository interface {
	related.Source

	Count(ctx context.Context, f store.PostFilter) (int, error)
	List(ctx context.Context, f store.PostFilter, offset, limit int) ([]models.PostSummary, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindDetail(ctx context.Context, id *uuid.UUID, slug string) (*models.PostDetail, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, p *models.Post) (uuid.UUID, error)
	Update(ctx context.Context, p *models.Post) error
	Publish(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, id uuid.UUID) (int, bool, error)
	IncrementComments(ctx context.Context, id uuid.UUID) error

	FindTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	CreateTag(ctx context.Context, name, slug string) (*models.Tag, error)
	ReplaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	TagNames(ctx context.Context, postID uuid.UUID) ([]string, error)
	ReplaceImages(ctx context.Context, postID uuid.UUID, urls []string) error
	Images(ctx context.Context, postID uuid.UUID) ([]models.PostImage, error)
}

// CategoryFinder looks up a category by ID. It returns nil, nil when the
// category does not exist.
type CategoryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// ListPostsQuery selects one page of posts. Nil filters match everything.
type ListPostsQuery struct {
	Page       int
	Size       int
	Search     string
	CategoryID *uuid.UUID
	Status     *models.PostStatus
	Featured   *bool
}

// PostRequest is the payload for creating or updating a post. On update a
// nil Tags or ImageURLs leaves the stored tags or images untouched.
type PostRequest struct {
	Title            string     `json:"title" validate:"notblank,max=500"`
	Content          string     `json:"content" validate:"notblank"`
	Excerpt          *string    `json:"excerpt" validate:"omitempty,max=1000"`
	FeaturedImageURL *string    `json:"featured_image_url" validate:"omitempty,max=1000"`
	MetaTitle        *string    `json:"meta_title" validate:"omitempty,max=255"`
	MetaDescription  *string    `json:"meta_description" validate:"omitempty,max=500"`
	MetaKeywords     *string    `json:"meta_keywords" validate:"omitempty,max=500"`
	CategoryID       *uuid.UUID `json:"category_id"`
	IsFeatured       bool       `json:"is_featured"`
	PublishNow       bool       `json:"publish_now"`
	Tags             []string   `json:"tags" validate:"omitempty,max=20,dive,notblank,max=100"`
	ImageURLs        []string   `json:"image_urls" validate:"omitempty,max=50,dive,notblank,max=1000"`
}

// Posts handles blog post commands and queries.
type Posts struct {
	posts      PostRepository
	categories CategoryFinder
	suffix     slug.SuffixFunc
	now        func() time.Time
}

// NewPosts returns a Posts handler.
func NewPosts(posts PostRepository, categories CategoryFinder) *Posts {
	return &Posts{
		posts:      posts,
		categories: categories,
		suffix:     slug.RandomSuffix,
		now:        time.Now,
	}
}

// ListPosts returns one page of post summaries, newest first.
func (h *Posts) ListPosts(ctx context.Context, q ListPostsQuery) result.Result[pagination.Page[models.PostSummary]] {
	f := store.PostFilter{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		Status:     q.Status,
		Featured:   q.Featured,
	}
	page, err := pagination.Query[models.PostSummary](ctx, q.Page, q.Size,
		func(ctx context.Context) (int, error) { return h.posts.Count(ctx, f) },
		func(ctx context.Context, offset, limit int) ([]models.PostSummary, error) {
			return h.posts.List(ctx, f, offset, limit)
		},
	)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		return result.Unexpected[pagination.Page[models.PostSummary]]("failed to load posts")
	}
	return result.Ok(page)
}

// GetPostByID returns the full post. It does not count as a view.
func (h *Posts) GetPostByID(ctx context.Context, id uuid.UUID) result.Result[*models.PostDetail] {
	d, err := h.posts.FindDetail(ctx, &id, "")
	if err != nil {
		slog.Error("get post failed", "post_id", id, "error", err)
		return result.Unexpected[*models.PostDetail]("failed to load post")
	}
	if d == nil {
		return result.NotFound[*models.PostDetail]("post not found")
	}
	return h.complete(ctx, d)
}

// GetPostBySlug returns the full post and records a view.
func (h *Posts) GetPostBySlug(ctx context.Context, s string) result.Result[*models.PostDetail] {
	d, err := h.posts.FindDetail(ctx, nil, s)
	if err != nil {
		slog.Error("get post by slug failed", "slug", s, "error", err)
		return result.Unexpected[*models.PostDetail]("failed to load post")
	}
	if d == nil {
		return result.NotFound[*models.PostDetail]("post not found")
	}
	if err := h.posts.IncrementViews(ctx, d.ID); err != nil {
		slog.Warn("increment post views failed", "post_id", d.ID, "error", err)
	}
	return h.complete(ctx, d)
}

// complete loads images and tags and renders the body.
func (h *Posts) complete(ctx context.Context, d *models.PostDetail) result.Result[*models.PostDetail] {
	images, err := h.posts.Images(ctx, d.ID)
	if err != nil {
		slog.Error("load post images failed", "post_id", d.ID, "error", err)
		return result.Unexpected[*models.PostDetail]("failed to load post")
	}
	tags, err := h.posts.TagNames(ctx, d.ID)
	if err != nil {
		slog.Error("load post tags failed", "post_id", d.ID, "error", err)
		return result.Unexpected[*models.PostDetail]("failed to load post")
	}
	html, err := markdown.ToHTML(d.Content)
	if err != nil {
		slog.Error("render post content failed", "post_id", d.ID, "error", err)
		return result.Unexpected[*models.PostDetail]("failed to render post")
	}

	if images == nil {
		images = []models.PostImage{}
	}
	if tags == nil {
		tags = []string{}
	}
	d.Images = images
	d.Tags = tags
	d.ContentHTML = html
	return result.Ok(d)
}

// CreatePost creates a post authored by authorID and returns its ID.
func (h *Posts) CreatePost(ctx context.Context, req PostRequest, authorID uuid.UUID) result.Result[uuid.UUID] {
	if msg := check(req); msg != "" {
		return result.Validation[uuid.UUID](msg)
	}
	if r := h.checkCategory(ctx, req.CategoryID); !r.IsSuccess() {
		return result.Propagate[uuid.UUID](r)
	}

	title := strings.TrimSpace(req.Title)
	s, err := slug.Unique(ctx, slug.Generate(title), h.posts.SlugExists, h.suffix)
	if err != nil {
		slog.Error("generate post slug failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to create post")
	}

	p := &models.Post{
		Title:            title,
		Slug:             s,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		FeaturedImageURL: req.FeaturedImageURL,
		MetaTitle:        req.MetaTitle,
		MetaDescription:  req.MetaDescription,
		MetaKeywords:     req.MetaKeywords,
		Status:           models.PostStatusDraft,
		IsFeatured:       req.IsFeatured,
		AuthorID:         authorID,
		CategoryID:       req.CategoryID,
	}
	fillMeta(p)
	if req.PublishNow {
		now := h.now()
		p.Status = models.PostStatusPublished
		p.PublishedAt = &now
	}

	id, err := h.posts.Create(ctx, p)
	if err != nil {
		slog.Error("create post failed", "slug", s, "error", err)
		return result.Unexpected[uuid.UUID]("failed to create post")
	}

	if r := h.attach(ctx, id, req); !r.IsSuccess() {
		return result.Propagate[uuid.UUID](r)
	}

	slog.Info("post created", "post_id", id, "slug", s)
	return result.Ok(id)
}

// UpdatePost rewrites a post's editable fields. The slug never changes.
func (h *Posts) UpdatePost(ctx context.Context, id uuid.UUID, req PostRequest) result.Result[result.Empty] {
	if msg := check(req); msg != "" {
		return result.Validation[result.Empty](msg)
	}

	p, err := h.posts.FindByID(ctx, id)
	if err != nil {
		slog.Error("find post failed", "post_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to update post")
	}
	if p == nil {
		return result.NotFound[result.Empty]("post not found")
	}
	if r := h.checkCategory(ctx, req.CategoryID); !r.IsSuccess() {
		return result.Propagate[result.Empty](r)
	}

	p.Title = strings.TrimSpace(req.Title)
	p.Content = req.Content
	p.Excerpt = req.Excerpt
	p.FeaturedImageURL = req.FeaturedImageURL
	p.MetaTitle = req.MetaTitle
	p.MetaDescription = req.MetaDescription
	p.MetaKeywords = req.MetaKeywords
	p.CategoryID = req.CategoryID
	p.IsFeatured = req.IsFeatured
	fillMeta(p)

	if err := h.posts.Update(ctx, p); err != nil {
		slog.Error("update post failed", "post_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to update post")
	}
	if r := h.attach(ctx, id, req); !r.IsSuccess() {
		return r
	}
	if req.PublishNow && !p.IsPublished() {
		if err := h.posts.Publish(ctx, id, h.now()); err != nil {
			slog.Error("publish post failed", "post_id", id, "error", err)
			return result.Unexpected[result.Empty]("failed to publish post")
		}
	}
	return result.Done()
}

// attach replaces the post's tags and images with those in req. A nil
// list is skipped.
func (h *Posts) attach(ctx context.Context, postID uuid.UUID, req PostRequest) result.Result[result.Empty] {
	if req.Tags != nil {
		ids, err := h.resolveTags(ctx, req.Tags)
		if err != nil {
			slog.Error("resolve tags failed", "post_id", postID, "error", err)
			return result.Unexpected[result.Empty]("failed to save tags")
		}
		if err := h.posts.ReplaceTags(ctx, postID, ids); err != nil {
			slog.Error("replace post tags failed", "post_id", postID, "error", err)
			return result.Unexpected[result.Empty]("failed to save tags")
		}
	}
	if req.ImageURLs != nil {
		if err := h.posts.ReplaceImages(ctx, postID, req.ImageURLs); err != nil {
			slog.Error("replace post images failed", "post_id", postID, "error", err)
			return result.Unexpected[result.Empty]("failed to save images")
		}
	}
	return result.Done()
}

// resolveTags maps tag names to IDs, creating tags that do not exist yet.
// Names that fold to the same slug count once.
func (h *Posts) resolveTags(ctx context.Context, names []string) ([]uuid.UUID, error) {
	seen := make(map[string]bool, len(names))
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		s := slug.Generate(name)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true

		tag, err := h.posts.FindTagBySlug(ctx, s)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			tag, err = h.posts.CreateTag(ctx, name, s)
			if err != nil {
				return nil, err
			}
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func (h *Posts) checkCategory(ctx context.Context, id *uuid.UUID) result.Result[result.Empty] {
	if id == nil {
		return result.Done()
	}
	c, err := h.categories.FindByID(ctx, *id)
	if err != nil {
		slog.Error("find category failed", "category_id", *id, "error", err)
		return result.Unexpected[result.Empty]("failed to load category")
	}
	if c == nil {
		return result.Validation[result.Empty]("category does not exist")
	}
	return result.Done()
}

// PublishPost marks a post published now.
func (h *Posts) PublishPost(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	exists, err := h.posts.Exists(ctx, id)
	if err != nil {
		slog.Error("check post failed", "post_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to publish post")
	}
	if !exists {
		return result.NotFound[result.Empty]("post not found")
	}
	if err := h.posts.Publish(ctx, id, h.now()); err != nil {
		slog.Error("publish post failed", "post_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to publish post")
	}
	slog.Info("post published", "post_id", id)
	return result.Done()
}

// DeletePost removes a post with its tags, images and comments.
func (h *Posts) DeletePost(ctx context.Context, id uuid.UUID) result.Result[result.Empty] {
	deleted, err := h.posts.Delete(ctx, id)
	if err != nil {
		slog.Error("delete post failed", "post_id", id, "error", err)
		return result.Unexpected[result.Empty]("failed to delete post")
	}
	if !deleted {
		return result.NotFound[result.Empty]("post not found")
	}
	slog.Info("post deleted", "post_id", id)
	return result.Done()
}

// LikePost adds a like and returns the new like count.
func (h *Posts) LikePost(ctx context.Context, id uuid.UUID) result.Result[int] {
	count, found, err := h.posts.Like(ctx, id)
	if err != nil {
		slog.Error("like post failed", "post_id", id, "error", err)
		return result.Unexpected[int]("failed to like post")
	}
	if !found {
		return result.NotFound[int]("post not found")
	}
	return result.Ok(count)
}

// GetRelatedPosts returns up to limit published posts related to the post
// with the slug.
func (h *Posts) GetRelatedPosts(ctx context.Context, s string, limit int) result.Result[[]models.RelatedPost] {
	return related.Find(ctx, h.posts, s, limit)
}

// fillMeta defaults a missing meta title to the title and a missing meta
// description to metaDescription.
func fillMeta(p *models.Post) {
	if p.MetaTitle == nil {
		title := p.Title
		p.MetaTitle = &title
	}
	if p.MetaDescription == nil {
		p.MetaDescription = metaDescription(p.Excerpt, p.Content)
	}
}

// metaDescription prefers the excerpt and falls back to the start of the
// body as plain text.
func metaDescription(excerpt *string, content string) *string {
	if excerpt != nil && strings.TrimSpace(*excerpt) != "" {
		return excerpt
	}
	d := markdown.Excerpt(content, metaDescriptionLength)
	if d == "" {
		return nil
	}
	return &d
}
