package features

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/related"
	"nunchakuclub/internal/store"
)

var errStore = errors.New("store unavailable")

// memUsers is an in-memory UserRepository.
type memUsers struct {
	byID     map[uuid.UUID]*models.User
	logins   map[uuid.UUID]string
	loginAt  map[uuid.UUID]time.Time
	failFind bool
}

func newMemUsers() *memUsers {
	return &memUsers{
		byID:    map[uuid.UUID]*models.User{},
		logins:  map[uuid.UUID]string{},
		loginAt: map[uuid.UUID]time.Time{},
	}
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if m.failFind {
		return nil, errStore
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.FindByEmail(ctx, email)
	return u != nil, err
}

func (m *memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range m.byID {
		if u.Username != "" && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	cp := *u
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	m.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) RecordLogin(_ context.Context, id uuid.UUID, token string, _, at time.Time) error {
	m.logins[id] = token
	m.loginAt[id] = at
	return nil
}

// memPosts is an in-memory PostRepository.
type memPosts struct {
	posts    map[uuid.UUID]*models.Post
	tags     map[string]*models.Tag
	postTags map[uuid.UUID][]uuid.UUID
	images   map[uuid.UUID][]string
}

func newMemPosts() *memPosts {
	return &memPosts{
		posts:    map[uuid.UUID]*models.Post{},
		tags:     map[string]*models.Tag{},
		postTags: map[uuid.UUID][]uuid.UUID{},
		images:   map[uuid.UUID][]string{},
	}
}

func (m *memPosts) matching(f store.PostFilter) []*models.Post {
	var out []*models.Post
	for _, p := range m.posts {
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.Featured != nil && p.IsFeatured != *f.Featured {
			continue
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memPosts) Count(_ context.Context, f store.PostFilter) (int, error) {
	return len(m.matching(f)), nil
}

func (m *memPosts) List(_ context.Context, f store.PostFilter, offset, limit int) ([]models.PostSummary, error) {
	all := m.matching(f)
	var out []models.PostSummary
	for i := offset; i < len(all) && i < offset+limit; i++ {
		p := all[i]
		out = append(out, models.PostSummary{ID: p.ID, Title: p.Title, Slug: p.Slug, Status: p.Status})
	}
	return out, nil
}

func (m *memPosts) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) FindDetail(_ context.Context, id *uuid.UUID, slug string) (*models.PostDetail, error) {
	for _, p := range m.posts {
		if (id != nil && p.ID == *id) || (id == nil && p.Slug == slug) {
			d := &models.PostDetail{
				PostSummary: models.PostSummary{
					ID: p.ID, Title: p.Title, Slug: p.Slug, Excerpt: p.Excerpt, Status: p.Status,
					ViewCount: p.ViewCount, LikeCount: p.LikeCount, CommentCount: p.CommentCount,
				},
				Content:         p.Content,
				MetaTitle:       p.MetaTitle,
				MetaDescription: p.MetaDescription,
				CategoryID:      p.CategoryID,
			}
			return d, nil
		}
	}
	return nil, nil
}

func (m *memPosts) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPosts) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.posts[id]
	return ok, nil
}

func (m *memPosts) Create(_ context.Context, p *models.Post) (uuid.UUID, error) {
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	m.posts[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memPosts) Update(_ context.Context, p *models.Post) error {
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memPosts) Publish(_ context.Context, id uuid.UUID, at time.Time) error {
	p := m.posts[id]
	p.Status = models.PostStatusPublished
	p.PublishedAt = &at
	return nil
}

func (m *memPosts) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

func (m *memPosts) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.posts[id].ViewCount++
	return nil
}

func (m *memPosts) Like(_ context.Context, id uuid.UUID) (int, bool, error) {
	p, ok := m.posts[id]
	if !ok {
		return 0, false, nil
	}
	p.LikeCount++
	return p.LikeCount, true, nil
}

func (m *memPosts) IncrementComments(_ context.Context, id uuid.UUID) error {
	m.posts[id].CommentCount++
	return nil
}

func (m *memPosts) FindTagBySlug(_ context.Context, slug string) (*models.Tag, error) {
	return m.tags[slug], nil
}

func (m *memPosts) CreateTag(_ context.Context, name, slug string) (*models.Tag, error) {
	t := &models.Tag{ID: uuid.New(), Name: name, Slug: slug}
	m.tags[slug] = t
	return t, nil
}

func (m *memPosts) ReplaceTags(_ context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	m.postTags[postID] = tagIDs
	return nil
}

func (m *memPosts) TagNames(_ context.Context, postID uuid.UUID) ([]string, error) {
	var names []string
	for _, id := range m.postTags[postID] {
		for _, t := range m.tags {
			if t.ID == id {
				names = append(names, t.Name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *memPosts) ReplaceImages(_ context.Context, postID uuid.UUID, urls []string) error {
	m.images[postID] = urls
	return nil
}

func (m *memPosts) Images(_ context.Context, postID uuid.UUID) ([]models.PostImage, error) {
	var out []models.PostImage
	for i, u := range m.images[postID] {
		out = append(out, models.PostImage{PostID: postID, ImageURL: u, DisplayOrder: i + 1})
	}
	return out, nil
}

func (m *memPosts) FindOrigin(_ context.Context, slug string) (*related.Origin, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return &related.Origin{ID: p.ID, CategoryID: p.CategoryID, TagIDs: m.postTags[p.ID]}, nil
		}
	}
	return nil, nil
}

func (m *memPosts) SameCategoryAndTags(ctx context.Context, categoryID uuid.UUID, _, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error) {
	return m.SameCategory(ctx, categoryID, exclude, limit)
}

func (m *memPosts) SameCategory(_ context.Context, categoryID uuid.UUID, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error) {
	return m.published(exclude, limit, func(p *models.Post) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID
	}), nil
}

func (m *memPosts) Latest(_ context.Context, exclude []uuid.UUID, limit int) ([]models.RelatedPost, error) {
	return m.published(exclude, limit, func(*models.Post) bool { return true }), nil
}

func (m *memPosts) published(exclude []uuid.UUID, limit int, keep func(*models.Post) bool) []models.RelatedPost {
	skip := map[uuid.UUID]bool{}
	for _, id := range exclude {
		skip[id] = true
	}
	out := []models.RelatedPost{}
	for _, p := range m.matching(store.PostFilter{}) {
		if len(out) == limit {
			break
		}
		if p.IsPublished() && !skip[p.ID] && keep(p) {
			out = append(out, models.RelatedPost{ID: p.ID, Title: p.Title, Slug: p.Slug})
		}
	}
	return out
}

// memCategories is an in-memory CategoryRepository.
type memCategories struct {
	items []models.Category
	fail  bool
}

func (m *memCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if m.fail {
		return nil, errStore
	}
	for _, c := range m.items {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCategories) ListActive(_ context.Context) ([]models.Category, error) {
	if m.fail {
		return nil, errStore
	}
	var out []models.Category
	for _, c := range m.items {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategories) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, c := range m.items {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	cp := *c
	cp.ID = uuid.New()
	m.items = append(m.items, cp)
	return &cp, nil
}

// memObjects is an in-memory ObjectStore.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failKey string
	deleted []string
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if m.failKey != "" && strings.Contains(key, m.failKey) {
		return errStore
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memObjects) FileURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (m *memObjects) ExtractKey(rawURL string) (string, bool) {
	const prefix = "https://cdn.example.com/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	return rawURL[len(prefix):], true
}

func (m *memObjects) PresignedURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://cdn.example.com/" + key + "?X-Amz-Expires=" + expires.String(), nil
}

// memMedia is an in-memory MediaRepository.
type memMedia struct {
	items    map[uuid.UUID]*models.Media
	failNext bool
}

func newMemMedia() *memMedia {
	return &memMedia{items: map[uuid.UUID]*models.Media{}}
}

func (m *memMedia) Create(_ context.Context, md *models.Media) (*models.Media, error) {
	if m.failNext {
		m.failNext = false
		return nil, errStore
	}
	cp := *md
	cp.ID = uuid.New()
	m.items[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memMedia) FindByID(_ context.Context, id uuid.UUID) (*models.Media, error) {
	md, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *md
	return &cp, nil
}

func (m *memMedia) Delete(_ context.Context, id uuid.UUID) (*models.Media, error) {
	md, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	delete(m.items, id)
	return md, nil
}

func ptr[T any](v T) *T { return &v }
