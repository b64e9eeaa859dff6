package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("category not found")
	ErrUnknownItem      = errors.New("unknown item")
	ErrIO               = errors.New("comment store i/o error")
	ErrDuplicateLabel   = errors.New("duplicate label")
	ErrMultilineComment = errors.New("comment must be a single line")
	ErrNothingToRender  = errors.New("nothing to render")
)

// NotFoundError reports a category the source does not contain, or a source
// that could not be read at all.
type NotFoundError struct {
	Category Category
	Err      error // underlying cause, may be nil
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("category %q not found: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("category %q not found", e.Category)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UnknownItemError reports a selection naming an item absent from the data.
type UnknownItemError struct {
	Category Category
	Item     string
}

func (e *UnknownItemError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("unknown item %q in category %q", e.Item, e.Category)
	}
	return fmt.Sprintf("unknown item %q", e.Item)
}

func (e *UnknownItemError) Is(target error) bool { return target == ErrUnknownItem }

// IOError reports a comment store that could not be read or written.
type IOError struct {
	Op   string // "open", "read", "write" or "close"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("comment store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// DuplicateLabelError reports an item or month label that appears twice in a
// sheet. Duplicates are never merged.
type DuplicateLabelError struct {
	Category Category
	Axis     string // "item" or "month"
	Label    string
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("category %q: duplicate %s label %q", e.Category, e.Axis, e.Label)
}

func (e *DuplicateLabelError) Is(target error) bool { return target == ErrDuplicateLabel }
