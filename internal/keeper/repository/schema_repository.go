package repository

import (
	"context"

	"gorm.io/gorm"

	"golang-verdict-keeper/internal/keeper/dto"
	"golang-verdict-keeper/internal/keeper/ingestion"
	"golang-verdict-keeper/pkg/logger"
)

const createAnalysisFilesTable = `
CREATE TABLE IF NOT EXISTS analysis_files (
    id BIGSERIAL PRIMARY KEY,
    file_path TEXT UNIQUE NOT NULL,
    content_hash VARCHAR(64) UNIQUE NOT NULL,
    json_content JSON NOT NULL,
    ticker VARCHAR(20),
    asset_type VARCHAR(50),
    status TEXT,
    error_message TEXT,
    trade_style TEXT,
    account_size DOUBLE PRECISION,
    risk_percent DOUBLE PRECISION,
    should_trade BOOLEAN,
    trade_action TEXT,
    trade_confidence_text TEXT,
    trade_confidence_pct DOUBLE PRECISION,
    no_trade_reason TEXT,
    entry_direction TEXT,
    entry_price DOUBLE PRECISION,
    entry_recommendation TEXT,
    position_quantity BIGINT,
    position_unit_type TEXT,
    position_size_recommendation TEXT,
    position_total_cost_text TEXT,
    position_max_risk_text TEXT,
    option_contract_symbol TEXT,
    option_contract_type TEXT,
    option_strike DOUBLE PRECISION,
    option_expiration TEXT,
    option_days_to_expiration BIGINT,
    option_delta DOUBLE PRECISION,
    option_mid_price DOUBLE PRECISION,
    option_volume BIGINT,
    option_open_interest BIGINT,
    market_status TEXT,
    is_tradeable_now BOOLEAN,
    in_trial BOOLEAN,
    runs_remaining BIGINT,
    daily_runs_remaining BIGINT,
    resolved_ticker TEXT,
    resolved_ticker_method TEXT,
    technical_confidence DOUBLE PRECISION,
    macro_confidence DOUBLE PRECISION,
    wild_card_risk TEXT,
    agent_agreement TEXT,
    file_created_at TIMESTAMPTZ,
    file_modified_at TIMESTAMPTZ,
    ingested_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
)`

// Statements run one at a time; the postgres driver's extended protocol
// rejects multi-statement strings.
var analysisFilesIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_analysis_files_ticker ON analysis_files (ticker)",
	"CREATE INDEX IF NOT EXISTS idx_analysis_files_asset_type ON analysis_files (asset_type)",
	"CREATE INDEX IF NOT EXISTS idx_analysis_files_ingested_at ON analysis_files (ingested_at)",
	"CREATE INDEX IF NOT EXISTS idx_analysis_files_content_hash ON analysis_files (content_hash)",
}

// SchemaRepository defines the interface for schema management operations.
type SchemaRepository interface {
	EnsureReady(ctx context.Context) (*dto.SchemaReport, error)
}

// NewSchemaRepository creates a new GORM-based schema repository.
func NewSchemaRepository(db *gorm.DB, log *logger.Logger) SchemaRepository {
	return &schemaRepository{db: db, logger: log}
}

type schemaRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// EnsureReady brings the analysis_files table to the target shape and is
// safe to run on every start. Table and index creation failures abort;
// the migration steps in between are best effort because the table may
// already be in the target shape from an earlier or concurrent run, so
// their failures only land in the report.
func (r *schemaRepository) EnsureReady(ctx context.Context) (*dto.SchemaReport, error) {
	if err := r.db.WithContext(ctx).Exec(createAnalysisFilesTable).Error; err != nil {
		return nil, &StoreError{Kind: StoreErrSchema, Op: "create table", Err: err}
	}

	report := &dto.SchemaReport{}
	r.runStep(ctx, report, "add_content_hash", r.migrateAddContentHash)
	r.runStep(ctx, report, "json_content_type", r.migrateJSONContentType)

	for _, indexSQL := range analysisFilesIndexes {
		if err := r.db.WithContext(ctx).Exec(indexSQL).Error; err != nil {
			return report, &StoreError{Kind: StoreErrSchema, Op: "create index", Err: err}
		}
	}
	return report, nil
}

// runStep records the step outcome; failures are logged and swallowed.
func (r *schemaRepository) runStep(ctx context.Context, report *dto.SchemaReport, name string, step func(context.Context) (bool, error)) {
	applied, err := step(ctx)
	switch {
	case err != nil:
		r.logger.Warn("Schema migration step failed",
			logger.StringField("step", name),
			logger.ErrorField(err),
		)
		report.Add(name, dto.MigrationFailed, err)
	case applied:
		r.logger.Info("Schema migration step applied", logger.StringField("step", name))
		report.Add(name, dto.MigrationApplied, nil)
	default:
		report.Add(name, dto.MigrationSkipped, nil)
	}
}

// migrateAddContentHash upgrades tables created before content hashing:
// add the column, backfill hashes from the stored payloads, then tighten
// to NOT NULL UNIQUE. Freshly created tables already carry the column
// and skip out on the probe.
func (r *schemaRepository) migrateAddContentHash(ctx context.Context) (bool, error) {
	dataType, err := r.columnType(ctx, "content_hash")
	if err != nil {
		return false, err
	}
	if dataType != "" {
		return false, nil
	}

	db := r.db.WithContext(ctx)
	if err := db.Exec("ALTER TABLE analysis_files ADD COLUMN content_hash VARCHAR(64)").Error; err != nil {
		return false, err
	}
	if err := db.Exec("ALTER TABLE analysis_files ADD COLUMN IF NOT EXISTS updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP").Error; err != nil {
		return false, err
	}

	var rows []struct {
		ID          uint
		JSONContent string
	}
	if err := db.Raw("SELECT id, json_content::text AS json_content FROM analysis_files WHERE content_hash IS NULL").Scan(&rows).Error; err != nil {
		return false, err
	}
	for _, row := range rows {
		hash := ingestion.HashContent([]byte(row.JSONContent))
		if err := db.Exec("UPDATE analysis_files SET content_hash = ? WHERE id = ?", hash, row.ID).Error; err != nil {
			return false, err
		}
	}

	if err := db.Exec("ALTER TABLE analysis_files ALTER COLUMN content_hash SET NOT NULL").Error; err != nil {
		return false, err
	}
	if err := db.Exec("ALTER TABLE analysis_files ADD CONSTRAINT analysis_files_content_hash_key UNIQUE (content_hash)").Error; err != nil {
		return false, err
	}
	return true, nil
}

// migrateJSONContentType converts legacy text or jsonb payload columns
// to json, the type that preserves stored text exactly.
func (r *schemaRepository) migrateJSONContentType(ctx context.Context) (bool, error) {
	dataType, err := r.columnType(ctx, "json_content")
	if err != nil {
		return false, err
	}
	switch dataType {
	case "text", "jsonb":
		alterSQL := "ALTER TABLE analysis_files ALTER COLUMN json_content TYPE JSON USING json_content::JSON"
		if err := r.db.WithContext(ctx).Exec(alterSQL).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

// columnType returns the information_schema data type of a column, or ""
// when the column does not exist.
func (r *schemaRepository) columnType(ctx context.Context, column string) (string, error) {
	var dataType string
	result := r.db.WithContext(ctx).
		Raw("SELECT data_type FROM information_schema.columns WHERE table_name = ? AND column_name = ?", "analysis_files", column).
		Scan(&dataType)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", nil
	}
	return dataType, nil
}
