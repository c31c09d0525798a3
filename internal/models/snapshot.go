package models

import (
	"encoding/json"
	"time"
)

// * Stored result of one insight lookup for one repository
type Snapshot struct {
	ID           int             `json:"id"`
	RepositoryID int             `json:"repository_id"`
	Metric       string          `json:"metric"`
	Data         json.RawMessage `json:"data" swaggertype:"object"`
	FetchedAt    time.Time       `json:"fetched_at"`
}
