package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"menusales/internal/comments"
	"menusales/internal/core"
)

// Publisher announces appended comments, e.g. over AMQP.
type Publisher interface {
	PublishCommentAppended(ctx context.Context, comment string) error
}

// CommentService appends to the comment log and notifies subscribers.
type CommentService struct {
	log       comments.Log
	publisher Publisher
}

// NewCommentService wires log and an optional publisher (nil disables
// notifications).
func NewCommentService(log comments.Log, publisher Publisher) *CommentService {
	return &CommentService{log: log, publisher: publisher}
}

// Add appends comment as one entry. Notification failures are logged and do
// not fail the call; the entry is already stored.
func (s *CommentService) Add(ctx context.Context, comment string) error {
	if err := s.log.Append(ctx, comment); err != nil {
		return err
	}
	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishCommentAppended(ctx, comment); err != nil {
		slog.ErrorContext(ctx, "Failed to publish comment notification", "error", err)
	}
	return nil
}

func (s *CommentService) List(ctx context.Context) ([]core.CommentEntry, error) {
	return s.log.ReadAll(ctx)
}

// Text returns every entry joined by newlines.
func (s *CommentService) Text(ctx context.Context) (string, error) {
	entries, err := s.log.ReadAll(ctx)
	if err != nil {
		return "", err
	}
	return comments.Join(entries), nil
}

// Close releases the publisher connection, if any.
func (s *CommentService) Close() error {
	c, ok := s.publisher.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}
