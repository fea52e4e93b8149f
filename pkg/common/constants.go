package common

const (
	// AssetTypeOptions marks documents whose trade plan carries a
	// recommended option contract; contract fields are extracted only
	// for this asset type.
	AssetTypeOptions = "OPTIONS"

	// DefaultDatabaseName is used when the config omits database.name.
	DefaultDatabaseName = "verdict_keeper"
)
