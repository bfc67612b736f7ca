package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// activityAdapter implements ActivityPort using the service container.
type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new adapter for the activity service.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	return &activityAdapter{container: container}
}

// ListActivity retrieves the owner's recent activity, newest first.
func (a *activityAdapter) ListActivity(ctx context.Context, ownerID string, limit int) ([]Entry, error) {
	req := ListActivityRequest{OwnerID: ownerID, Limit: limit}
	var resp ListActivityResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceListActivity,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-activity service call failed: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("list-activity: %s", resp.Error)
	}
	return resp.Entries, nil
}
