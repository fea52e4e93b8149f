package entity

import (
	"time"

	"gorm.io/datatypes"
)

// IngestOutcome classifies what the store did with an ingested file.
type IngestOutcome string

const (
	// OutcomeInserted means the file produced a brand-new row.
	OutcomeInserted IngestOutcome = "inserted"
	// OutcomeUpdated means an existing row for the same path was rewritten.
	OutcomeUpdated IngestOutcome = "updated"
	// OutcomeDuplicate means identical content was already stored; nothing
	// was written.
	OutcomeDuplicate IngestOutcome = "duplicate"
)

// AnalysisFile represents one ingested analysis verdict document. The raw
// payload is kept verbatim in JSONContent; the remaining columns are a
// best-effort projection of it, nil when the source field is missing or
// has the wrong shape. The json_content column type is json rather than
// jsonb so the stored text round-trips byte for byte.
type AnalysisFile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FilePath    string         `gorm:"unique;not null" json:"file_path"`
	ContentHash string         `gorm:"type:varchar(64);unique;not null" json:"content_hash"`
	JSONContent datatypes.JSON `gorm:"column:json_content;type:json;not null" json:"json_content"`

	Ticker       *string  `gorm:"type:varchar(20)" json:"ticker,omitempty"`
	AssetType    *string  `gorm:"type:varchar(50)" json:"asset_type,omitempty"`
	Status       *string  `json:"status,omitempty"`
	ErrorMessage *string  `json:"error_message,omitempty"`
	TradeStyle   *string  `json:"trade_style,omitempty"`
	AccountSize  *float64 `json:"account_size,omitempty"`
	RiskPercent  *float64 `json:"risk_percent,omitempty"`

	ShouldTrade         *bool    `json:"should_trade,omitempty"`
	TradeAction         *string  `json:"trade_action,omitempty"`
	TradeConfidenceText *string  `json:"trade_confidence_text,omitempty"`
	TradeConfidencePct  *float64 `json:"trade_confidence_pct,omitempty"`
	NoTradeReason       *string  `json:"no_trade_reason,omitempty"`

	EntryDirection      *string  `json:"entry_direction,omitempty"`
	EntryPrice          *float64 `json:"entry_price,omitempty"`
	EntryRecommendation *string  `json:"entry_recommendation,omitempty"`

	PositionQuantity           *int64  `json:"position_quantity,omitempty"`
	PositionUnitType           *string `json:"position_unit_type,omitempty"`
	PositionSizeRecommendation *string `json:"position_size_recommendation,omitempty"`
	PositionTotalCostText      *string `json:"position_total_cost_text,omitempty"`
	PositionMaxRiskText        *string `json:"position_max_risk_text,omitempty"`

	// Contract fields are populated only for OPTIONS documents.
	OptionContractSymbol   *string  `json:"option_contract_symbol,omitempty"`
	OptionContractType     *string  `json:"option_contract_type,omitempty"`
	OptionStrike           *float64 `json:"option_strike,omitempty"`
	OptionExpiration       *string  `json:"option_expiration,omitempty"`
	OptionDaysToExpiration *int64   `json:"option_days_to_expiration,omitempty"`
	OptionDelta            *float64 `json:"option_delta,omitempty"`
	OptionMidPrice         *float64 `json:"option_mid_price,omitempty"`
	OptionVolume           *int64   `json:"option_volume,omitempty"`
	OptionOpenInterest     *int64   `json:"option_open_interest,omitempty"`

	MarketStatus   *string `json:"market_status,omitempty"`
	IsTradeableNow *bool   `json:"is_tradeable_now,omitempty"`

	InTrial            *bool  `json:"in_trial,omitempty"`
	RunsRemaining      *int64 `json:"runs_remaining,omitempty"`
	DailyRunsRemaining *int64 `json:"daily_runs_remaining,omitempty"`

	ResolvedTicker       *string `json:"resolved_ticker,omitempty"`
	ResolvedTickerMethod *string `json:"resolved_ticker_method,omitempty"`

	TechnicalConfidence *float64 `json:"technical_confidence,omitempty"`
	MacroConfidence     *float64 `json:"macro_confidence,omitempty"`
	WildCardRisk        *string  `json:"wild_card_risk,omitempty"`
	AgentAgreement      *string  `json:"agent_agreement,omitempty"`

	FileCreatedAt  *time.Time `json:"file_created_at,omitempty"`
	FileModifiedAt *time.Time `json:"file_modified_at,omitempty"`
	IngestedAt     time.Time  `gorm:"autoCreateTime" json:"ingested_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the AnalysisFile model.
func (AnalysisFile) TableName() string {
	return "analysis_files"
}
