package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nunchakuclub/internal/models"
)

// CommentStore manages post comments.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, user_id, author_name, author_email, content, parent_id, status, created_at`

func scanComment(s scanner) (*models.Comment, error) {
	var c models.Comment
	err := s.Scan(&c.ID, &c.PostID, &c.UserID, &c.AuthorName, &c.AuthorEmail,
		&c.Content, &c.ParentID, &c.Status, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a comment and returns its ID.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, user_id, author_name, author_email, content, parent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.PostID, c.UserID, c.AuthorName, c.AuthorEmail, c.Content, c.ParentID, c.Status).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create comment: %w", err)
	}
	return id, nil
}

// ListByPost returns every comment on a post, oldest first.
func (s *CommentStore) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE post_id = $1
		ORDER BY created_at, id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
