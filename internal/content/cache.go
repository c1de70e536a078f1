package content

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"
)

// Cache stores extracted source text keyed by (base_url, course, type,
// identifier) so repeated generations against the same material skip the
// download + extraction round trip. A nil *Cache is valid and caches
// nothing. Generated assessments never go through here.
type Cache struct {
	db *sql.DB
}

func NewCache(db *sql.DB) *Cache {
	if db == nil {
		return nil
	}
	return &Cache{db: db}
}

func CacheKey(baseURL string, courseID int, kind, ident string) string {
	return fmt.Sprintf("%s|%d|%s|%s", baseURL, courseID, kind, ident)
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	var body string
	err := c.db.QueryRowContext(ctx,
		`SELECT body FROM content_cache WHERE cache_key = $1`, key).Scan(&body)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("content cache read %q: %v", key, err)
		}
		return "", false
	}
	return body, true
}

// Put is best-effort: a cache write failure is logged, never surfaced.
func (c *Cache) Put(ctx context.Context, key, body string) {
	if c == nil {
		return
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO content_cache (cache_key, body, fetched_at) VALUES ($1,$2,$3)
		 ON CONFLICT (cache_key) DO UPDATE SET body = $2, fetched_at = $3`,
		key, body, time.Now().Unix())
	if err != nil {
		log.Printf("content cache write %q: %v", key, err)
	}
}
