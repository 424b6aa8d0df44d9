// Package ipc is the control socket between the gridresize CLI and a running
// daemon: newline-delimited JSON requests, one per connection.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandSessionStart  CommandType = "SESSION_START"
	CommandSessionStop   CommandType = "SESSION_STOP"
	CommandSessionToggle CommandType = "SESSION_TOGGLE"
	CommandTile          CommandType = "TILE"
	CommandUndo          CommandType = "UNDO"
	CommandReload        CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData is returned by GET_STATUS and the session commands.
type StatusData struct {
	SessionActive bool   `json:"session_active"`
	SessionID     string `json:"session_id,omitempty"`
	Dividers      int    `json:"dividers"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// TilePayload is the payload for TILE.
type TilePayload struct {
	Preset string `json:"preset"`
}

// TileData is returned by TILE.
type TileData struct {
	Preset string `json:"preset"`
	Placed int    `json:"placed"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
