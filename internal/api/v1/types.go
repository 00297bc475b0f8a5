// internal/api/v1/types.go
package v1

import "time"

// profileResponse is the API representation of a profile.
type profileResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type listProfilesResponse struct {
	Items []profileResponse `json:"items"`
	Total int               `json:"total"`
}

type modResponse struct {
	FullName string `json:"full_name"`
	Version  string `json:"version"`
	Enabled  bool   `json:"enabled"`
}

type listModsResponse struct {
	Items []modResponse `json:"items"`
	Total int           `json:"total"`
}

type historyResponse struct {
	ID         int64     `json:"id"`
	BatchID    string    `json:"batch_id"`
	Profile    string    `json:"profile"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	SourcePath string    `json:"source_path"`
	CreatedAt  time.Time `json:"created_at"`
}

type listHistoryResponse struct {
	Items []historyResponse `json:"items"`
	Total int               `json:"total"`
}

// EventResponse is the API representation of a persisted event.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	Payload    string `json:"payload"`
	OccurredAt string `json:"occurred_at"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}

// importRequest is the body of POST /imports.
type importRequest struct {
	Source string   `json:"source,omitempty"` // r2modman (default) or thunderstore
	Path   string   `json:"path,omitempty"`   // overrides the located directory
	Only   []string `json:"only,omitempty"`
}

type outcomeResponse struct {
	Profile    string `json:"profile"`
	Status     string `json:"status"`
	Mods       int    `json:"mods"`
	Error      string `json:"error,omitempty"`
	RolledBack bool   `json:"rolled_back,omitempty"`
}

type importResponse struct {
	BatchID    string            `json:"batch_id"`
	SourcePath string            `json:"source_path"`
	Outcomes   []outcomeResponse `json:"outcomes"`
}
