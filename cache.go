package pubsite

import (
	"context"
	"sync"
	"time"
)

// RecordCache holds the selected listing and tag set in memory with a TTL so
// preview requests do not hit the index on every page view.
type RecordCache struct {
	mu       sync.RWMutex
	store    *Store
	pageSize int
	ttl      time.Duration

	fetched time.Time
	loaded  bool
	all     []ContentRecord
	listing Listing
	tags    []string
}

// NewRecordCache creates a RecordCache backed by the given Store.
func NewRecordCache(s *Store, pageSize int, ttl time.Duration) *RecordCache {
	return &RecordCache{store: s, pageSize: pageSize, ttl: ttl}
}

func (c *RecordCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *RecordCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.all = nil
	c.listing = Listing{}
	c.tags = nil
	c.mu.Unlock()
}

func (c *RecordCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	all, err := c.store.ListRecords(ctx)
	if err != nil {
		return err
	}
	listing, err := SelectListing(all, c.pageSize)
	if err != nil {
		return err
	}
	c.all = all
	c.listing = listing
	c.tags = CollectTags(listing.Records)
	c.fetched = time.Now()
	c.loaded = true
	return nil
}

// ensureLoaded tries a read lock first and only takes the write lock when a
// reload is needed.
func (c *RecordCache) ensureLoaded(ctx context.Context) (Listing, []ContentRecord, []string, error) {
	c.mu.RLock()
	if c.valid() {
		listing, all, tags := c.listing, c.all, c.tags
		c.mu.RUnlock()
		return listing, all, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return Listing{}, nil, nil, err
	}
	return c.listing, c.all, c.tags, nil
}

// Listing returns the public listing and its diagnostics.
func (c *RecordCache) Listing(ctx context.Context) (Listing, error) {
	listing, _, _, err := c.ensureLoaded(ctx)
	return listing, err
}

// All returns every indexed record, drafts and malformed ones included.
func (c *RecordCache) All(ctx context.Context) ([]ContentRecord, error) {
	_, all, _, err := c.ensureLoaded(ctx)
	return all, err
}

// Tags returns the tags used by published records.
func (c *RecordCache) Tags(ctx context.Context) ([]string, error) {
	_, _, tags, err := c.ensureLoaded(ctx)
	return tags, err
}

// ByPath returns the published record served at path.
func (c *RecordCache) ByPath(ctx context.Context, path string) (ContentRecord, error) {
	listing, _, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return ContentRecord{}, err
	}
	for _, r := range listing.Records {
		if r.Path == path {
			return r, nil
		}
	}
	return ContentRecord{}, ErrNotFound.WithDetails(map[string]string{"path": path})
}

// TagBySlug resolves a tag URL segment back to the tag it was made from.
func (c *RecordCache) TagBySlug(ctx context.Context, slug string) (string, bool, error) {
	_, _, tags, err := c.ensureLoaded(ctx)
	if err != nil {
		return "", false, err
	}
	for _, t := range tags {
		if Slugify(t) == slug {
			return t, true, nil
		}
	}
	return "", false, nil
}
