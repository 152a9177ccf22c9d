package backend

import (
	"context"

	"github.com/gabapcia/txflow/internal/bridge"
)

const bridgePath = "/api/bridge"

// Bridge implements bridge.Bridger through the backend bridge endpoint.
func (c *client) Bridge(ctx context.Context, req bridge.Request) (bridge.Result, error) {
	var res bridge.Result
	if err := c.post(ctx, bridgePath, req, &res); err != nil {
		return bridge.Result{}, err
	}

	return res, nil
}

var _ bridge.Bridger = (*client)(nil)
