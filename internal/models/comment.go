package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the moderation state of a comment.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusSpam     CommentStatus = "spam"
	CommentStatusTrash    CommentStatus = "trash"
)

// Comment is a reader comment on a post. ParentID points at the comment
// being replied to.
type Comment struct {
	ID          uuid.UUID     `json:"id"`
	PostID      uuid.UUID     `json:"post_id"`
	UserID      *uuid.UUID    `json:"user_id,omitempty"`
	AuthorName  string        `json:"author_name"`
	AuthorEmail string        `json:"-"`
	Content     string        `json:"content"`
	ParentID    *uuid.UUID    `json:"parent_id,omitempty"`
	Status      CommentStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CommentThread is a comment with its replies nested below it.
type CommentThread struct {
	ID           uuid.UUID       `json:"id"`
	Content      string          `json:"content"`
	AuthorName   string          `json:"author_name"`
	AuthorAvatar *string         `json:"author_avatar,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	IsApproved   bool            `json:"is_approved"`
	ParentID     *uuid.UUID      `json:"parent_id,omitempty"`
	Replies      []CommentThread `json:"replies"`
}
