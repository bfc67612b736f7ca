package activity

import "context"

// ListActivityRequest is the request for an owner's recent activity.
type ListActivityRequest struct {
	OwnerID string `json:"owner_id"`
	Limit   int    `json:"limit,omitempty"`
}

// ListActivityResponse is the response for an owner's recent activity.
type ListActivityResponse struct {
	Entries []Entry `json:"entries"`
	Error   string  `json:"error,omitempty"`
}

// ActivityPort defines the interface for reading recorded activity.
type ActivityPort interface {
	ListActivity(ctx context.Context, ownerID string, limit int) ([]Entry, error)
}
