package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the daemon listening on socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) statusRequest(cmd CommandType) (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return nil, err
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	return c.statusRequest(CommandGetStatus)
}

// StartSession asks the daemon to start a grid session.
func (c *Client) StartSession() (*StatusData, error) {
	return c.statusRequest(CommandSessionStart)
}

// StopSession asks the daemon to end its grid session.
func (c *Client) StopSession() (*StatusData, error) {
	return c.statusRequest(CommandSessionStop)
}

// ToggleSession starts a session if none is running, or ends the running one.
func (c *Client) ToggleSession() (*StatusData, error) {
	return c.statusRequest(CommandSessionToggle)
}

// Tile asks the daemon to tile the active display with preset.
func (c *Client) Tile(preset string) (*TileData, error) {
	payload, err := json.Marshal(TilePayload{Preset: preset})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tile payload: %w", err)
	}
	resp, err := c.sendRequest(&Request{Command: CommandTile, Payload: payload})
	if err != nil {
		return nil, err
	}
	var data TileData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse tile data: %w", err)
	}
	return &data, nil
}

// Undo sends an UNDO command to the daemon.
func (c *Client) Undo() error {
	_, err := c.sendRequest(&Request{Command: CommandUndo})
	return err
}

// Reload asks the daemon to reload its configuration now.
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
