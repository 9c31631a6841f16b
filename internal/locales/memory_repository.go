package locales

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps locale records in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Locale
	now     func() time.Time
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: map[string]*Locale{},
		now:     time.Now,
	}
}

func (r *MemoryRepository) GetByCode(_ context.Context, code string) (*Locale, error) {
	key := Canonical(code)
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[key]
	if !ok {
		return nil, &NotFoundError{Code: code}
	}
	return cloneLocale(record), nil
}

func (r *MemoryRepository) List(context.Context) ([]*Locale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Locale, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, cloneLocale(record))
	}
	slices.SortFunc(out, func(a, b *Locale) int {
		return strings.Compare(a.Code, b.Code)
	})
	return out, nil
}

// Upsert stores locale keyed by code, keeping the existing ID and creation
// time when the code is already known.
func (r *MemoryRepository) Upsert(_ context.Context, locale *Locale) (*Locale, error) {
	record, err := normalizeRecord(locale)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.records[record.Code]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now().UTC()
	}
	r.records[record.Code] = record
	return cloneLocale(record), nil
}

func cloneLocale(src *Locale) *Locale {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Fallback != nil {
		fallback := *src.Fallback
		copied.Fallback = &fallback
	}
	return &copied
}
