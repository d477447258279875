package schema

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/karayel/tabled/pkg/logger"
)

// SchemaError reports a catalog that could not be read or a table that
// does not exist.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("schema access failed: %v", e.Err)
	}
	return fmt.Sprintf("schema access failed for table %s: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DefaultSystemPrefixes are the catalog-name prefixes excluded from table
// listings unless configuration overrides them.
var DefaultSystemPrefixes = []string{"INFORMATION_SCHEMA", "SYSTEM_"}

const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	columns []Column
	fetched time.Time
}

// Introspector reads table and column metadata through a dialect and
// caches column snapshots per table. Cached entries are replaced
// wholesale on refresh and never mutated, so concurrent readers always
// see a complete snapshot.
type Introspector struct {
	db       *sql.DB
	dialect  Dialect
	prefixes []string
	ttl      time.Duration
	log      *logger.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type Options struct {
	SystemPrefixes []string
	CacheTTL       time.Duration
}

func NewIntrospector(db *sql.DB, dialect Dialect, opts Options, log *logger.Logger) *Introspector {
	prefixes := opts.SystemPrefixes
	if prefixes == nil {
		prefixes = DefaultSystemPrefixes
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Introspector{
		db:       db,
		dialect:  dialect,
		prefixes: prefixes,
		ttl:      ttl,
		log:      log,
		cache:    make(map[string]cacheEntry),
	}
}

// Dialect exposes the dialect the introspector was built with.
func (in *Introspector) Dialect() Dialect { return in.dialect }

// Tables lists base tables minus any name carrying a configured system
// prefix. A catalog failure surfaces whole; no partial list is returned.
func (in *Introspector) Tables(ctx context.Context) ([]string, error) {
	names, err := in.dialect.Tables(ctx, in.db)
	if err != nil {
		return nil, &SchemaError{Err: err}
	}

	tables := make([]string, 0, len(names))
	for _, name := range names {
		if in.isSystemTable(name) {
			continue
		}
		tables = append(tables, name)
	}
	in.log.Debugf("listed %d tables (%d filtered)", len(tables), len(names)-len(tables))
	return tables, nil
}

// Columns returns the column metadata for a table, served from cache
// within the TTL. Primary-key membership is resolved first and attached
// to the column snapshots; the store's native column order is preserved.
func (in *Introspector) Columns(ctx context.Context, table string) ([]Column, error) {
	in.mu.RLock()
	entry, ok := in.cache[table]
	in.mu.RUnlock()
	if ok && time.Since(entry.fetched) < in.ttl {
		return slices.Clone(entry.columns), nil
	}

	columns, err := in.fetchColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	in.mu.Lock()
	in.cache[table] = cacheEntry{columns: columns, fetched: time.Now()}
	in.mu.Unlock()

	return slices.Clone(columns), nil
}

// Refresh drops the cached snapshot for a table so the next Columns call
// reads the catalog again.
func (in *Introspector) Refresh(table string) {
	in.mu.Lock()
	delete(in.cache, table)
	in.mu.Unlock()
}

// RefreshAll drops every cached snapshot.
func (in *Introspector) RefreshAll() {
	in.mu.Lock()
	in.cache = make(map[string]cacheEntry)
	in.mu.Unlock()
}

func (in *Introspector) fetchColumns(ctx context.Context, table string) ([]Column, error) {
	keys, err := in.dialect.PrimaryKeys(ctx, in.db, table)
	if err != nil {
		return nil, &SchemaError{Table: table, Err: err}
	}
	keySet := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		keySet[key] = struct{}{}
	}

	columns, err := in.dialect.Columns(ctx, in.db, table)
	if err != nil {
		return nil, &SchemaError{Table: table, Err: err}
	}

	for i := range columns {
		_, columns[i].PrimaryKey = keySet[columns[i].Name]
	}
	in.log.Debugf("introspected %s: %d columns, %d key columns", table, len(columns), len(keys))
	return columns, nil
}

func (in *Introspector) isSystemTable(name string) bool {
	for _, prefix := range in.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
