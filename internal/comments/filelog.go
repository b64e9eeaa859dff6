// Package comments stores free-text remarks about sales as an append-only
// text file, one entry per line.
package comments

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"menusales/internal/core"
)

// FileName is the log file created inside the configured directory.
const FileName = "sales_kind_comment.txt"

// Log is implemented by comment stores.
type Log interface {
	Append(ctx context.Context, line string) error
	ReadAll(ctx context.Context) ([]core.CommentEntry, error)
}

// FileLog appends entries to a flat file. Appends within one process are
// serialized in call order; other processes writing the same file are not
// coordinated with.
type FileLog struct {
	mu   sync.Mutex
	path string
}

var _ Log = (*FileLog)(nil)

// NewFileLog returns a log stored at dir/sales_kind_comment.txt. Nothing is
// created until the first append.
func NewFileLog(dir string) *FileLog {
	return &FileLog{path: filepath.Join(dir, FileName)}
}

func (l *FileLog) Path() string { return l.path }

// Append writes line plus a terminator with a single write on a file opened
// for appending, then closes it. Lines containing a line break are rejected
// before the file is touched.
func (l *FileLog) Append(ctx context.Context, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return core.ErrMultilineComment
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &core.IOError{Op: "open", Path: l.path, Err: err}
	}
	if _, err := f.Write([]byte(line + "\n")); err != nil {
		f.Close()
		return &core.IOError{Op: "write", Path: l.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &core.IOError{Op: "close", Path: l.path, Err: err}
	}
	slog.DebugContext(ctx, "Comment appended", "path", l.path, "length", len(line))
	return nil
}

// ReadAll returns every entry in append order. A log that was never written
// reads as empty.
func (l *FileLog) ReadAll(ctx context.Context) ([]core.CommentEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []core.CommentEntry{}, nil
		}
		return nil, &core.IOError{Op: "read", Path: l.path, Err: err}
	}
	return splitEntries(string(b)), nil
}

// Text returns the entries joined by newlines, as shown to users.
func (l *FileLog) Text(ctx context.Context) (string, error) {
	entries, err := l.ReadAll(ctx)
	if err != nil {
		return "", err
	}
	return Join(entries), nil
}

// Join renders entries as one newline-separated blob.
func Join(entries []core.CommentEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = string(e)
	}
	return strings.Join(lines, "\n")
}

func splitEntries(content string) []core.CommentEntry {
	if content == "" {
		return []core.CommentEntry{}
	}
	content = strings.TrimSuffix(content, "\n")
	parts := strings.Split(content, "\n")
	out := make([]core.CommentEntry, len(parts))
	for i, p := range parts {
		out[i] = core.CommentEntry(strings.TrimSuffix(p, "\r"))
	}
	return out
}
