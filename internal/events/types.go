package events

// Entity types
const (
	EntityProfile = "profile"
	EntityBatch   = "batch"
	EntityCatalog = "catalog"
)

// Event type constants
const (
	EventTransferUpdate      = "transfer_update"
	EventCatalogLoaded       = "catalog.loaded"
	EventBatchStarted        = "import.batch.started"
	EventBatchCompleted      = "import.batch.completed"
	EventProfileImported     = "profile.imported"
	EventProfileSkipped      = "profile.skipped"
	EventProfileImportFailed = "profile.import_failed"
)

// TransferUpdate carries a human readable status line for the UI.
type TransferUpdate struct {
	BaseEvent
	Message string `json:"message"`
}

// CatalogLoaded is emitted once the package catalog is ready.
type CatalogLoaded struct {
	BaseEvent
	Packages int `json:"packages"`
}

// BatchStarted is emitted when an import batch begins.
type BatchStarted struct {
	BaseEvent
	BatchID    string `json:"batch_id"`
	SourcePath string `json:"source_path"`
}

// BatchCompleted is emitted after every selected profile has been visited.
type BatchCompleted struct {
	BaseEvent
	BatchID  string `json:"batch_id"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// ProfileImported is emitted when a profile has been fully applied.
type ProfileImported struct {
	BaseEvent
	BatchID string `json:"batch_id"`
	Profile string `json:"profile"`
	Mods    int    `json:"mods"`
}

// ProfileSkipped is emitted for a selected profile with nothing to import.
type ProfileSkipped struct {
	BaseEvent
	BatchID string `json:"batch_id"`
	Profile string `json:"profile"`
	Reason  string `json:"reason"`
}

// ProfileImportFailed is emitted when preparing or applying a profile fails.
type ProfileImportFailed struct {
	BaseEvent
	BatchID    string `json:"batch_id"`
	Profile    string `json:"profile"`
	Reason     string `json:"reason"`
	RolledBack bool   `json:"rolled_back"`
}
