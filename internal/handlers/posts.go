// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nunchakuclub/internal/features"
	"nunchakuclub/internal/models"
	"nunchakuclub/internal/pagination"
	"nunchakuclub/internal/result"
)

// PostService is the blog feature used by the post endpoints.
type PostService interface {
	ListPosts(ctx context.Context, q features.ListPostsQuery) result.Result[pagination.Page[models.PostSummary]]
	GetPostByID(ctx context.Context, id uuid.UUID) result.Result[*models.PostDetail]
	GetPostBySlug(ctx context.Context, slug string) result.Result[*models.PostDetail]
	CreatePost(ctx context.Context, req features.PostRequest, authorID uuid.UUID) result.Result[uuid.UUID]
	UpdatePost(ctx context.Context, id uuid.UUID, req features.PostRequest) result.Result[result.Empty]
	PublishPost(ctx context.Context, id uuid.UUID) result.Result[result.Empty]
	DeletePost(ctx context.Context, id uuid.UUID) result.Result[result.Empty]
	LikePost(ctx context.Context, id uuid.UUID) result.Result[int]
	GetRelatedPosts(ctx context.Context, slug string, limit int) result.Result[[]models.RelatedPost]
}

// CommentService is the comment feature used under /posts/{id}/comments.
type CommentService interface {
	AddComment(ctx context.Context, postID uuid.UUID, req features.CommentRequest) result.Result[uuid.UUID]
	ListComments(ctx context.Context, postID uuid.UUID) result.Result[[]models.CommentThread]
}

// Posts serves blog posts and their comments.
type Posts struct {
	posts    PostService
	comments CommentService
}

// NewPosts creates the post handlers.
func NewPosts(posts PostService, comments CommentService) *Posts {
	return &Posts{posts: posts, comments: comments}
}

// List handles GET /api/posts. Filters: search, category_id, status,
// featured, plus pageNumber and pageSize.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	page, size, err := pagination.ParseQuery(r, pagination.DefaultSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := features.ListPostsQuery{
		Page:   page,
		Size:   size,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "category_id must be a UUID")
			return
		}
		q.CategoryID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st, ok := models.ParsePostStatus(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "status must be one of: draft, published, archived")
			return
		}
		q.Status = &st
	}
	if v := r.URL.Query().Get("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "featured must be true or false")
			return
		}
		q.Featured = &b
	}

	respond(w, h.posts.ListPosts(r.Context(), q), http.StatusOK)
}

// Get handles GET /api/posts/{id}.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.posts.GetPostByID(r.Context(), id), http.StatusOK)
}

// GetBySlug handles GET /api/posts/slug/{slug}. Each call counts a view.
func (h *Posts) GetBySlug(w http.ResponseWriter, r *http.Request) {
	respond(w, h.posts.GetPostBySlug(r.Context(), chi.URLParam(r, "slug")), http.StatusOK)
}

// Related handles GET /api/posts/slug/{slug}/related?limit=N.
func (h *Posts) Related(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	respond(w, h.posts.GetRelatedPosts(r.Context(), chi.URLParam(r, "slug"), limit), http.StatusOK)
}

// Create handles POST /api/posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	authorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req features.PostRequest
	if !decode(w, r, &req) {
		return
	}
	created(w, h.posts.CreatePost(r.Context(), req, authorID))
}

// Update handles PUT /api/posts/{id}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req features.PostRequest
	if !decode(w, r, &req) {
		return
	}
	noContent(w, h.posts.UpdatePost(r.Context(), id, req))
}

// Publish handles POST /api/posts/{id}/publish.
func (h *Posts) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	noContent(w, h.posts.PublishPost(r.Context(), id))
}

// Delete handles DELETE /api/posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	noContent(w, h.posts.DeletePost(r.Context(), id))
}

// Like handles POST /api/posts/{id}/like and returns the new like count.
func (h *Posts) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res := h.posts.LikePost(r.Context(), id)
	if fail(w, res) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": res.Value()})
}

// ListComments handles GET /api/posts/{id}/comments.
func (h *Posts) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	respond(w, h.comments.ListComments(r.Context(), id), http.StatusOK)
}

// AddComment handles POST /api/posts/{id}/comments. Comments start pending
// moderation.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req features.CommentRequest
	if !decode(w, r, &req) {
		return
	}
	created(w, h.comments.AddComment(r.Context(), id, req))
}
