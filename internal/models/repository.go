package models

import "time"

// * A repository whose insights are refreshed periodically
type TrackedRepository struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	CreatedAt       time.Time  `json:"created_at"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`
}

type TrackRepositoryRequest struct {
	RepoName string `json:"repo_name"`
}
