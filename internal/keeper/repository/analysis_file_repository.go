package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"golang-verdict-keeper/internal/entity"
)

// AnalysisFileRepository defines the interface for analysis file data operations.
type AnalysisFileRepository interface {
	Upsert(ctx context.Context, file *entity.AnalysisFile) (entity.IngestOutcome, error)
	FindByPath(ctx context.Context, path string) (*entity.AnalysisFile, error)
	ExistsByPath(ctx context.Context, path string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// NewAnalysisFileRepository creates a new GORM-based analysis file repository.
func NewAnalysisFileRepository(db *gorm.DB) AnalysisFileRepository {
	return &analysisFileRepository{db: db}
}

type analysisFileRepository struct {
	db *gorm.DB
}

// Upsert stores the file with content-first precedence: a row holding
// identical content anywhere in the table wins as a duplicate before the
// path is considered; otherwise a row for the same path is rewritten in
// full; failing both, the file is inserted. A unique violation from a
// concurrent writer triggers exactly one retry, which resolves to
// duplicate or updated against the winner's committed row.
func (r *analysisFileRepository) Upsert(ctx context.Context, file *entity.AnalysisFile) (entity.IngestOutcome, error) {
	outcome, err := r.upsertOnce(ctx, file)
	if err != nil && IsIntegrityViolation(err) {
		return r.upsertOnce(ctx, file)
	}
	return outcome, err
}

func (r *analysisFileRepository) upsertOnce(ctx context.Context, file *entity.AnalysisFile) (entity.IngestOutcome, error) {
	var outcome entity.IngestOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.AnalysisFile
		err := tx.Where("content_hash = ?", file.ContentHash).First(&existing).Error
		if err == nil {
			// Identical content already stored; the new path is discarded.
			outcome = entity.OutcomeDuplicate
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return &StoreError{Kind: StoreErrWrite, Op: "lookup content hash", Err: err}
		}

		err = tx.Where("file_path = ?", file.FilePath).First(&existing).Error
		if err == nil {
			// Select("*") rewrites every column so fields absent from the
			// new document become NULL; ingested_at keeps its original
			// insert time.
			if err := tx.Model(&entity.AnalysisFile{}).
				Where("file_path = ?", file.FilePath).
				Select("*").
				Omit("id", "file_path", "ingested_at").
				Updates(file).Error; err != nil {
				return classifyWriteError("update analysis file", err)
			}
			outcome = entity.OutcomeUpdated
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return &StoreError{Kind: StoreErrWrite, Op: "lookup file path", Err: err}
		}

		if err := tx.Create(file).Error; err != nil {
			return classifyWriteError("insert analysis file", err)
		}
		outcome = entity.OutcomeInserted
		return nil
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

// FindByPath retrieves a stored file by its absolute path.
func (r *analysisFileRepository) FindByPath(ctx context.Context, path string) (*entity.AnalysisFile, error) {
	var file entity.AnalysisFile
	if err := r.db.WithContext(ctx).Where("file_path = ?", path).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// ExistsByPath reports whether a row exists for the given path.
func (r *analysisFileRepository) ExistsByPath(ctx context.Context, path string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.AnalysisFile{}).Where("file_path = ?", path).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of stored analysis files.
func (r *analysisFileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.AnalysisFile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
