package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"bookhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// Importer loads catalog records into Postgres. Books whose title already exists are skipped,
// so re-running an import is safe.
type Importer struct {
	db      *gorm.DB
	workers int
	dryRun  bool
	logger  *slog.Logger
}

// titleKeySQL lower-cases a stored title and collapses its whitespace, so rows written by hand
// still match.
const titleKeySQL = `lower(regexp_replace(btrim(title), '\s+', ' ', 'g'))`

type Option func(*Importer)

func WithWorkers(n int) Option {
	return func(im *Importer) { im.workers = n }
}

// WithDryRun validates and deduplicates without touching the database.
func WithDryRun() Option {
	return func(im *Importer) { im.dryRun = true }
}

func NewImporter(db *gorm.DB, logger *slog.Logger, opts ...Option) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	im := &Importer{db: db, workers: 4, logger: logger}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import writes records and reports what happened to each of them.
func (im *Importer) Import(ctx context.Context, records []Record) (Stats, error) {
	var stats Stats

	books := make([]book, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		b, err := normalize(rec)
		if err != nil {
			stats.Failed++
			im.logger.Warn("catalog_record_invalid", "index", i, "error", err.Error())
			continue
		}
		key := titleKey(b.title)
		if _, dup := seen[key]; dup {
			stats.Skipped++
			continue
		}
		seen[key] = struct{}{}
		books = append(books, b)
	}

	if im.dryRun {
		stats.Imported = int64(len(books))
		return stats, nil
	}

	// authors are resolved up front so concurrent book inserts never race on them
	authorIDs, err := im.resolveAuthors(ctx, books)
	if err != nil {
		return stats, err
	}

	var imported, skipped atomic.Int64
	pool := NewWorkerPool(ctx, im.workers, im.logger)
	pool.Start()
	for _, b := range books {
		b := b
		pool.Submit(func(ctx context.Context) error {
			created, err := im.insertBook(ctx, b, authorIDs)
			if err != nil {
				return fmt.Errorf("import %q: %w", b.title, err)
			}
			if created {
				imported.Add(1)
			} else {
				skipped.Add(1)
			}
			return nil
		})
	}
	pool.Wait()

	stats.Imported = imported.Load()
	stats.Skipped += skipped.Load()
	stats.Failed += pool.Failed()

	im.logger.Info("catalog_import_finished",
		"imported", stats.Imported,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, ctx.Err()
}

// resolveAuthors maps lower-cased author names to ids, creating missing authors.
func (im *Importer) resolveAuthors(ctx context.Context, books []book) (map[string]int64, error) {
	ids := make(map[string]int64)
	for _, b := range books {
		for _, a := range b.authors {
			key := strings.ToLower(a.Name)
			if _, ok := ids[key]; ok {
				continue
			}
			author := models.Author{}
			err := im.db.WithContext(ctx).
				Where("lower(name) = ?", key).
				Attrs(models.Author{Name: a.Name, Century: a.Century, Country: a.Country}).
				FirstOrCreate(&author).Error
			if err != nil {
				return nil, fmt.Errorf("resolve author %q: %w", a.Name, err)
			}
			ids[key] = author.ID
		}
	}
	return ids, nil
}

func (im *Importer) insertBook(ctx context.Context, b book, authorIDs map[string]int64) (bool, error) {
	created := false
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Book{}).Where(titleKeySQL+" = ?", titleKey(b.title)).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		row := models.Book{
			Title:         b.title,
			Genre:         string(b.genre),
			Description:   b.description,
			PublishedDate: b.published,
			WorldRating:   b.worldRating,
			IsApproved:    b.approved,
		}
		if err := tx.Omit("Authors").Create(&row).Error; err != nil {
			return err
		}

		if len(b.authors) > 0 {
			links := make([]models.BookAuthor, 0, len(b.authors))
			for _, a := range b.authors {
				links = append(links, models.BookAuthor{BookID: row.ID, AuthorID: authorIDs[strings.ToLower(a.Name)]})
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	return created, err
}
