// Package dispatch delivers validated commands to the device hub over
// a websocket connection. The hub is the collaborator that actually
// drives hardware; this side only ships frames and reads acks.
package dispatch

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"time"

	"domo/internal/command"
)

// Frame is the wire form of one command sent to the hub.
type Frame struct {
	Device  string `json:"device"`
	Name    string `json:"name"`
	Command string `json:"command"`
}

// Ack is the hub's reply to a frame.
type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Hub is a client for the device-execution hub.
type Hub struct {
	ws      *conn
	timeout time.Duration
}

// Connect dials the hub. reconnEvery is the pause between redial
// attempts after the connection drops; timeout bounds each ack wait.
func Connect(url string, reconnEvery, timeout time.Duration) (*Hub, error) {
	ws, err := dial(url, reconnEvery)
	if err != nil {
		return nil, fmt.Errorf("dial hub: %w", err)
	}
	log.Info("connected to device hub", "url", url)
	return &Hub{ws: ws, timeout: timeout}, nil
}

// Close shuts down the hub connection.
func (h *Hub) Close() error {
	return h.ws.close()
}

// Execute ships one resolved command and waits for the hub's ack. A
// negative ack or a missing ack is an error; the caller reports it to
// the user and moves on.
func (h *Hub) Execute(cmd command.ResolvedCommand) error {
	frame := Frame{
		Device:  cmd.DeviceID,
		Name:    cmd.DeviceName,
		Command: string(cmd.Command),
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	if err := h.ws.write(payload); err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	log.Debug("command sent", "device", frame.Device, "command", frame.Command)

	raw, err := h.ws.read(h.timeout)
	if err != nil {
		return fmt.Errorf("await ack: %w", err)
	}

	var ack Ack
	if err := json.Unmarshal(raw, &ack); err != nil {
		return fmt.Errorf("parse ack: %w", err)
	}
	if !ack.OK {
		return fmt.Errorf("hub refused command: %s", ack.Error)
	}
	return nil
}
