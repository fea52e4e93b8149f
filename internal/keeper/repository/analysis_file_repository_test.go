package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"golang-verdict-keeper/internal/entity"
	"golang-verdict-keeper/internal/keeper/ingestion"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "keeper.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&entity.AnalysisFile{}))
	return db
}

func ingestTemp(t *testing.T, dir, name, content string) *entity.AnalysisFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	file, err := ingestion.IngestFile(path)
	require.NoError(t, err)
	return file
}

func TestUpsertInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewAnalysisFileRepository(db)
	ctx := context.Background()

	content := `{"ticker": "AAPL", "asset_type": "EQUITY"}`
	file := ingestTemp(t, t.TempDir(), "aapl.json", content)

	outcome, err := repo.Upsert(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeInserted, outcome)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := repo.ExistsByPath(ctx, file.FilePath)
	require.NoError(t, err)
	assert.True(t, exists)

	stored, err := repo.FindByPath(ctx, file.FilePath)
	require.NoError(t, err)
	assert.Equal(t, content, string(stored.JSONContent))
	require.NotNil(t, stored.Ticker)
	assert.Equal(t, "AAPL", *stored.Ticker)
	assert.False(t, stored.IngestedAt.IsZero())
}

func TestUpsertDuplicateNewPath(t *testing.T) {
	db := newTestDB(t)
	repo := NewAnalysisFileRepository(db)
	ctx := context.Background()
	dir := t.TempDir()

	content := `{"ticker": "AAPL", "asset_type": "EQUITY"}`
	first := ingestTemp(t, dir, "original.json", content)
	second := ingestTemp(t, dir, "copy.json", content)

	outcome, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	require.Equal(t, entity.OutcomeInserted, outcome)

	outcome, err = repo.Upsert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeDuplicate, outcome)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The duplicate's path is discarded, not recorded.
	exists, err := repo.ExistsByPath(ctx, second.FilePath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpsertUpdateSamePath(t *testing.T) {
	db := newTestDB(t)
	repo := NewAnalysisFileRepository(db)
	ctx := context.Background()
	dir := t.TempDir()

	before := `{"ticker": "NVDA", "account_size": 50000}`
	file := ingestTemp(t, dir, "verdict.json", before)
	outcome, err := repo.Upsert(ctx, file)
	require.NoError(t, err)
	require.Equal(t, entity.OutcomeInserted, outcome)

	original, err := repo.FindByPath(ctx, file.FilePath)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	after := `{"ticker": "TSLA"}`
	changed := ingestTemp(t, dir, "verdict.json", after)
	require.Equal(t, file.FilePath, changed.FilePath)

	outcome, err = repo.Upsert(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeUpdated, outcome)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := repo.FindByPath(ctx, file.FilePath)
	require.NoError(t, err)
	assert.Equal(t, after, string(stored.JSONContent))
	require.NotNil(t, stored.Ticker)
	assert.Equal(t, "TSLA", *stored.Ticker)
	// account_size was dropped from the document, so the column is NULLed.
	assert.Nil(t, stored.AccountSize)
	// ingested_at survives the rewrite; updated_at moves forward.
	assert.WithinDuration(t, original.IngestedAt, stored.IngestedAt, time.Second)
	assert.True(t, stored.UpdatedAt.After(original.UpdatedAt))
}

func TestUpsertSameContentSamePath(t *testing.T) {
	db := newTestDB(t)
	repo := NewAnalysisFileRepository(db)
	ctx := context.Background()
	dir := t.TempDir()

	content := `{"ticker": "AAPL"}`
	file := ingestTemp(t, dir, "verdict.json", content)
	_, err := repo.Upsert(ctx, file)
	require.NoError(t, err)

	// Re-ingesting unchanged content is a duplicate even at the same path.
	again := ingestTemp(t, dir, "verdict.json", content)
	outcome, err := repo.Upsert(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeDuplicate, outcome)
}

func TestUpsertIntegrityRetry(t *testing.T) {
	db := newTestDB(t)

	attempts := 0
	err := db.Callback().Create().Before("gorm:create").Register("force_duplicate_once", func(tx *gorm.DB) {
		attempts++
		if attempts == 1 {
			tx.AddError(gorm.ErrDuplicatedKey)
		}
	})
	require.NoError(t, err)

	repo := NewAnalysisFileRepository(db)
	file := ingestTemp(t, t.TempDir(), "race.json", `{"ticker": "AAPL"}`)

	outcome, upsertErr := repo.Upsert(context.Background(), file)
	require.NoError(t, upsertErr)
	assert.Equal(t, entity.OutcomeInserted, outcome)
	assert.Equal(t, 2, attempts)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertClassifiesNaturalViolation(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()

	file := ingestTemp(t, dir, "one.json", `{"ticker": "AAPL"}`)
	require.NoError(t, db.Create(file).Error)

	clash := ingestTemp(t, dir, "two.json", `{"ticker": "AAPL"}`)
	err := db.Create(clash).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	storeErr := classifyWriteError("insert analysis file", err)
	assert.True(t, IsIntegrityViolation(storeErr))
}

func TestFindByPathNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewAnalysisFileRepository(db)

	_, err := repo.FindByPath(context.Background(), "/no/such/file.json")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
