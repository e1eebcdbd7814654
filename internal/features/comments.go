package features

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
	"nunchakuclub/internal/result"
)

// CommentRepository is the comment storage the comment handlers need.
type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) (uuid.UUID, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
}

// CommentedPosts is the part of post storage comments touch.
type CommentedPosts interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	IncrementComments(ctx context.Context, id uuid.UUID) error
}

// CommentRequest is the payload of POST /api/posts/{id}/comments.
type CommentRequest struct {
	Content     string     `json:"content" validate:"notblank,max=5000"`
	AuthorName  string     `json:"author_name" validate:"notblank,max=255"`
	AuthorEmail string     `json:"author_email" validate:"required,email,max=255"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// Comments handles reader comments.
type Comments struct {
	comments CommentRepository
	posts    CommentedPosts
	users    UserRepository
}

// NewComments returns a Comments handler.
func NewComments(comments CommentRepository, posts CommentedPosts, users UserRepository) *Comments {
	return &Comments{comments: comments, posts: posts, users: users}
}

// AddComment stores a pending comment on a post and returns its ID. An
// email with no account gets an inactive guest account that can never log
// in.
func (h *Comments) AddComment(ctx context.Context, postID uuid.UUID, req CommentRequest) result.Result[uuid.UUID] {
	req.AuthorEmail = strings.ToLower(strings.TrimSpace(req.AuthorEmail))
	if msg := check(req); msg != "" {
		return result.Validation[uuid.UUID](msg)
	}

	exists, err := h.posts.Exists(ctx, postID)
	if err != nil {
		slog.Error("check post failed", "post_id", postID, "error", err)
		return result.Unexpected[uuid.UUID]("failed to add comment")
	}
	if !exists {
		return result.NotFound[uuid.UUID]("post not found")
	}

	if req.ParentID != nil {
		parent, err := h.comments.FindByID(ctx, *req.ParentID)
		if err != nil {
			slog.Error("find parent comment failed", "comment_id", *req.ParentID, "error", err)
			return result.Unexpected[uuid.UUID]("failed to add comment")
		}
		if parent == nil || parent.PostID != postID {
			return result.Validation[uuid.UUID]("parent comment does not exist")
		}
	}

	authorName := strings.TrimSpace(req.AuthorName)
	userID, err := h.commenter(ctx, req.AuthorEmail, authorName)
	if err != nil {
		slog.Error("resolve commenter failed", "error", err)
		return result.Unexpected[uuid.UUID]("failed to add comment")
	}

	id, err := h.comments.Create(ctx, &models.Comment{
		PostID:      postID,
		UserID:      &userID,
		AuthorName:  authorName,
		AuthorEmail: req.AuthorEmail,
		Content:     strings.TrimSpace(req.Content),
		ParentID:    req.ParentID,
		Status:      models.CommentStatusPending,
	})
	if err != nil {
		slog.Error("create comment failed", "post_id", postID, "error", err)
		return result.Unexpected[uuid.UUID]("failed to add comment")
	}

	if err := h.posts.IncrementComments(ctx, postID); err != nil {
		slog.Warn("increment post comments failed", "post_id", postID, "error", err)
	}
	return result.Ok(id)
}

// commenter returns the ID of the account owning email, creating a guest
// account when there is none.
func (h *Comments) commenter(ctx context.Context, email, name string) (uuid.UUID, error) {
	u, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}
	if u != nil {
		return u.ID, nil
	}

	guest, err := h.users.Create(ctx, &models.User{
		Email:    email,
		FullName: name,
		Role:     models.RoleMember,
		Status:   models.UserStatusInactive,
	})
	if err != nil {
		return uuid.Nil, err
	}
	slog.Info("guest user created", "user_id", guest.ID)
	return guest.ID, nil
}

// ListComments returns a post's comments as threads: top-level comments
// newest first, replies under their parent oldest first.
func (h *Comments) ListComments(ctx context.Context, postID uuid.UUID) result.Result[[]models.CommentThread] {
	exists, err := h.posts.Exists(ctx, postID)
	if err != nil {
		slog.Error("check post failed", "post_id", postID, "error", err)
		return result.Unexpected[[]models.CommentThread]("failed to load comments")
	}
	if !exists {
		return result.NotFound[[]models.CommentThread]("post not found")
	}

	flat, err := h.comments.ListByPost(ctx, postID)
	if err != nil {
		slog.Error("list comments failed", "post_id", postID, "error", err)
		return result.Unexpected[[]models.CommentThread]("failed to load comments")
	}
	return result.Ok(buildThreads(flat))
}

// buildThreads nests a flat, oldest-first comment list. A reply whose
// parent is missing is promoted to the top level.
func buildThreads(flat []models.Comment) []models.CommentThread {
	present := make(map[uuid.UUID]bool, len(flat))
	children := make(map[uuid.UUID][]models.Comment)
	for _, c := range flat {
		present[c.ID] = true
	}

	var roots []models.Comment
	for _, c := range flat {
		if c.ParentID == nil || !present[*c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var nest func(c models.Comment) models.CommentThread
	nest = func(c models.Comment) models.CommentThread {
		t := models.CommentThread{
			ID:         c.ID,
			Content:    c.Content,
			AuthorName: c.AuthorName,
			CreatedAt:  c.CreatedAt,
			IsApproved: c.Status == models.CommentStatusApproved,
			ParentID:   c.ParentID,
			Replies:    []models.CommentThread{},
		}
		for _, r := range children[c.ID] {
			t.Replies = append(t.Replies, nest(r))
		}
		return t
	}

	threads := make([]models.CommentThread, 0, len(roots))
	for _, c := range slices.Backward(roots) {
		threads = append(threads, nest(c))
	}
	return threads
}
