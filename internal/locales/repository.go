package locales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrLocaleNotFound is the sentinel behind NotFoundError.
var ErrLocaleNotFound = errors.New("locales: locale not found")

// NotFoundError reports a missing locale record.
type NotFoundError struct {
	Code string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("locales: locale %q not found", e.Code)
}

func (e *NotFoundError) Unwrap() error {
	return ErrLocaleNotFound
}

// Locale is a stored locale and its optional fallback. Codes are kept in
// canonical URL form.
type Locale struct {
	bun.BaseModel `bun:"table:graph_locales,alias:gl"`

	ID        uuid.UUID `bun:",pk,type:uuid"                                  json:"id"`
	Code      string    `bun:"code,notnull,unique"                            json:"code"`
	Fallback  *string   `bun:"fallback"                                       json:"fallback,omitempty"`
	IsActive  bool      `bun:"is_active,notnull,default:true"                 json:"is_active"`
	IsDefault bool      `bun:"is_default,notnull,default:false"               json:"is_default"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp"  json:"created_at"`
}

// BackendCode returns the code in backend form.
func (l *Locale) BackendCode() string {
	if l == nil {
		return ""
	}
	return ToBackendLocale(l.Code)
}

// Repository persists locale records.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Locale, error)
	List(ctx context.Context) ([]*Locale, error)
	Upsert(ctx context.Context, locale *Locale) (*Locale, error)
}

// LoadFallbackTable builds a table from every active stored locale. The
// default record, when present, becomes the chain root.
func LoadFallbackTable(ctx context.Context, repo Repository) (*FallbackTable, error) {
	if repo == nil {
		return nil, errors.New("locales: repository is required")
	}
	records, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("locales: list locales: %w", err)
	}

	entries := make(map[string]string, len(records))
	var root string
	for _, record := range records {
		if record == nil || !record.IsActive {
			continue
		}
		if record.IsDefault && root == "" {
			root = record.Code
		}
		if record.Fallback != nil && strings.TrimSpace(*record.Fallback) != "" {
			entries[record.Code] = *record.Fallback
		}
	}

	var opts []TableOption
	if root != "" {
		opts = append(opts, WithDefaultLocale(root))
	}
	return NewFallbackTable(entries, opts...), nil
}

// SeedFromTable upserts one record per locale mentioned in table or locales.
// Stored records outside that set keep their active flag but lose any
// fallback and default marker, so the table is the only source of both.
func SeedFromTable(ctx context.Context, repo Repository, table *FallbackTable, locales []string) error {
	codes := map[string]struct{}{}
	for _, code := range locales {
		if c := Canonical(code); c != "" {
			codes[c] = struct{}{}
		}
	}
	entries := table.Entries()
	for from, to := range entries {
		codes[from] = struct{}{}
		codes[to] = struct{}{}
	}
	if root := table.DefaultLocale(); root != "" {
		codes[root] = struct{}{}
	}

	for code := range codes {
		record := &Locale{
			Code:      code,
			IsActive:  true,
			IsDefault: code == table.DefaultLocale(),
		}
		if fallback, ok := entries[code]; ok {
			record.Fallback = &fallback
		}
		if _, err := repo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("locales: seed %q: %w", code, err)
		}
	}

	stored, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("locales: list locales: %w", err)
	}
	for _, record := range stored {
		if record == nil {
			continue
		}
		if _, ok := codes[record.Code]; ok {
			continue
		}
		if !record.IsDefault && record.Fallback == nil {
			continue
		}
		record.IsDefault = false
		record.Fallback = nil
		if _, err := repo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("locales: reset %q: %w", record.Code, err)
		}
	}
	return nil
}

func normalizeRecord(locale *Locale) (*Locale, error) {
	if locale == nil {
		return nil, ErrLocaleRequired
	}
	copied := *locale
	copied.Code = Canonical(copied.Code)
	if copied.Code == "" {
		return nil, ErrLocaleRequired
	}
	if copied.Fallback != nil {
		fallback := Canonical(*copied.Fallback)
		if fallback == "" {
			copied.Fallback = nil
		} else {
			copied.Fallback = &fallback
		}
	}
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	return &copied, nil
}
