package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/session"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

// SessionResponse matches the API response structure
type SessionResponse struct {
	Session  *session.State     `json:"session"`
	Settings *settings.Settings `json:"settings"`
}

// CreateSessionRequest matches the API request structure
type CreateSessionRequest struct {
	Player   string             `json:"player"`
	Settings *settings.Settings `json:"settings,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func createSession(client *http.Client, baseURL string, player string) (*SessionResponse, error) {
	// The simulator wants visible notifications, so it opts in to the
	// notify-all fallback up front.
	sets := settings.Default()
	sets.NotifyAll = settings.Notification{Enabled: true, Urgency: settings.UrgencyNormal}

	req := CreateSessionRequest{
		Player:   player,
		Settings: sets,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create session: %s", errorResp.Error)
	}

	var created SessionResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &created, nil
}

func getSession(client *http.Client, baseURL string, sessionID uuid.UUID) (*SessionResponse, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get session: %s", errorResp.Error)
	}

	var sr SessionResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &sr, nil
}

func sendEvent(client *http.Client, baseURL string, env *event.Envelope) error {
	jsonData, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/events",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("failed to send event: %s", errorResp.Error)
	}
	return nil
}

// SSEEvent represents an event from the SSE stream
type SSEEvent struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// listenToSSE connects to the SSE endpoint and streams events to a channel
func listenToSSE(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID, eventChan chan<- SSEEvent) error {
	url := fmt.Sprintf("%s/v1/notifications/sessions/%s", baseURL, sessionID.String())

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to SSE: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SSE connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)
	var currentEvent SSEEvent

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()

		if line == "" {
			// Empty line signals end of event
			if currentEvent.Type != "" {
				eventChan <- currentEvent
				currentEvent = SSEEvent{}
			}
			continue
		}

		// Parse SSE format
		if strings.HasPrefix(line, "event: ") {
			currentEvent.Type = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			dataJSON := strings.TrimPrefix(line, "data: ")
			var data map[string]interface{}
			if err := json.Unmarshal([]byte(dataJSON), &data); err == nil {
				currentEvent.Data = data
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading SSE stream: %w", err)
	}

	return nil
}
