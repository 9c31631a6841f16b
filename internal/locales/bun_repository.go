package locales

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository stores locale records through go-repository-bun.
type BunRepository struct {
	repo repository.Repository[*Locale]
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository returns an uncached repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps the repository in a read-through cache when
// both cacheService and keySerializer are provided.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	var base repository.Repository[*Locale] = newLocaleRepository(db)
	if cacheService != nil && keySerializer != nil {
		base = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunRepository{repo: base}
}

func newLocaleRepository(db *bun.DB) repository.Repository[*Locale] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Locale]{
		NewRecord: func() *Locale { return &Locale{} },
		GetID: func(l *Locale) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Locale, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "code"
		},
		GetIdentifierValue: func(l *Locale) string {
			return l.Code
		},
	})
}

// CreateSchema creates the locale table when it does not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("locales: db is required")
	}
	if _, err := db.NewCreateTable().Model((*Locale)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("locales: create table: %w", err)
	}
	return nil
}

func (r *BunRepository) GetByCode(ctx context.Context, code string) (*Locale, error) {
	record, err := r.repo.GetByIdentifier(ctx, Canonical(code))
	if err != nil {
		return nil, mapRepositoryError(err, code)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Locale, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.code ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("locales: list: %w", err)
	}
	return records, nil
}

// Upsert creates the record or updates the one stored under the same code.
func (r *BunRepository) Upsert(ctx context.Context, locale *Locale) (*Locale, error) {
	record, err := normalizeRecord(locale)
	if err != nil {
		return nil, err
	}

	existing, err := r.GetByCode(ctx, record.Code)
	var notFound *NotFoundError
	switch {
	case errors.As(err, &notFound):
		created, createErr := r.repo.Create(ctx, record)
		if createErr != nil {
			return nil, fmt.Errorf("locales: create %q: %w", record.Code, createErr)
		}
		return created, nil
	case err != nil:
		return nil, err
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("locales: update %q: %w", record.Code, err)
	}
	return updated, nil
}

func mapRepositoryError(err error, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Code: code}
	}
	return fmt.Errorf("locales: repository error: %w", err)
}
