package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrCellMissing = errors.New("cell is required")

func (that *Server) handleCellClick(ctx context.Context, message *Message, client *client) error {
	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if payload.Cell == nil {
		return ErrCellMissing
	}

	// rejected clicks are silently ignored; the reply is painted when it arrives
	if accepted, _ := client.controller.Click(ctx, *payload.Cell); !accepted {
		that.logger.Debug("click ignored", "cell", *payload.Cell)
	}

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, _ *Message, client *client) error {
	client.controller.Reset(ctx)

	return nil
}
