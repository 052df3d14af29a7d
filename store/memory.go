package store

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the default single-node store. Entries expire on their own a bit
// after the fallback window so stale credentials never need manual cleanup.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(retention time.Duration) *Memory {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Memory{c: gocache.New(retention, time.Minute)}
}

func (m *Memory) Put(email string, rec Record) error {
	m.c.SetDefault(email, rec)
	return nil
}

func (m *Memory) Get(email string) (Record, bool) {
	v, ok := m.c.Get(email)
	if !ok {
		return Record{}, false
	}
	rec, ok := v.(Record)
	return rec, ok
}

func (m *Memory) Delete(email string) { m.c.Delete(email) }
