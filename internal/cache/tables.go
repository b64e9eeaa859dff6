package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"menusales/internal/core"
	applog "menusales/internal/log"
	ports "menusales/internal/sheets"
)

// StampFunc fingerprints the source behind a category. A cached table is
// served only while the fingerprint is unchanged; ok=false drops any cached
// copy and bypasses the cache for that call.
type StampFunc func(ctx context.Context, category core.Category) (stamp string, ok bool)

// FileStamp fingerprints a single file by modification time and size.
func FileStamp(path string) StampFunc {
	return func(context.Context, core.Category) (string, bool) {
		fi, err := os.Stat(path)
		if err != nil {
			return "", false
		}
		return fmt.Sprintf("%d:%d", fi.ModTime().UnixNano(), fi.Size()), true
	}
}

// TTLOnly is used for sources that expose no cheap change marker.
func TTLOnly(context.Context, core.Category) (string, bool) { return "", true }

type stampedTable struct {
	stamp string
	table core.SalesTable
}

// TableCache memoizes a TableLoader. Concurrent misses for the same category
// and stamp share one underlying load.
type TableCache struct {
	next  ports.TableLoader
	stamp StampFunc
	lru   *LRUCache[stampedTable]
	group singleflight.Group
}

var (
	_ ports.TableLoader = (*TableCache)(nil)
	_ ports.SheetLister = (*TableCache)(nil)
	_ Cleaner           = (*TableCache)(nil)
)

func NewTableCache(next ports.TableLoader, stamp StampFunc, size int, ttl time.Duration) *TableCache {
	if stamp == nil {
		stamp = TTLOnly
	}
	return &TableCache{next: next, stamp: stamp, lru: NewLRUCache[stampedTable](size, ttl)}
}

func (c *TableCache) Load(ctx context.Context, category core.Category) (core.SalesTable, error) {
	key := string(category)
	stamp, ok := c.stamp(ctx, category)
	if !ok {
		c.lru.Delete(key)
		return c.next.Load(ctx, category)
	}
	if hit, found := c.lru.Get(key); found && hit.stamp == stamp {
		slog.DebugContext(ctx, "Sales table cache hit", applog.FieldComponent, applog.ComponentCache, applog.FieldCategory, category)
		return hit.table, nil
	}

	v, err, _ := c.group.Do(key+"\x00"+stamp, func() (interface{}, error) {
		t, err := c.next.Load(ctx, category)
		if err != nil {
			return core.SalesTable{}, err
		}
		c.lru.Set(key, stampedTable{stamp: stamp, table: t})
		return t, nil
	})
	if err != nil {
		return core.SalesTable{}, err
	}
	return v.(core.SalesTable), nil
}

// Sheets delegates to the wrapped loader when it can list sheets.
func (c *TableCache) Sheets(ctx context.Context) ([]core.Category, error) {
	if l, ok := c.next.(ports.SheetLister); ok {
		return l.Sheets(ctx)
	}
	return nil, fmt.Errorf("source does not list sheets")
}

func (c *TableCache) CleanExpired() int { return c.lru.CleanExpired() }

func (c *TableCache) Size() int { return c.lru.Size() }
