package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/internal/services/queue"
	"github.com/gamepulse/randomwatch/internal/storage"
	"github.com/gamepulse/randomwatch/pkg/session"
)

func setupEventsHandler(t *testing.T) (*EventsHandler, *queue.EventQueue, *storage.MockStorage) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client, err := queue.NewClient(mr.Addr(), testLogger())
	if err != nil {
		t.Fatalf("Failed to create queue client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	q := queue.NewEventQueue(client)
	mockStorage := storage.NewMockStorage()
	return NewEventsHandler(q, mockStorage, testLogger()), q, mockStorage
}

func TestEventsHandler_Enqueue(t *testing.T) {
	handler, q, mockStorage := setupEventsHandler(t)

	sess := session.New("Zezima")
	if err := mockStorage.SaveSession(context.Background(), sess); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	reqBody := `{
		"session_id": "` + sess.ID.String() + `",
		"type": "interacting_changed",
		"tick": 10,
		"interacting": {
			"source": {"kind": "npc", "id": 326, "index": 42, "name": "Genie"},
			"target": {"kind": "player", "name": "Zezima"}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	depth, err := q.Depth(context.Background())
	if err != nil {
		t.Fatalf("Failed to get queue depth: %v", err)
	}
	if depth != 1 {
		t.Errorf("Expected queue depth 1, got %d", depth)
	}
}

func TestEventsHandler_UnknownSession(t *testing.T) {
	handler, q, _ := setupEventsHandler(t)

	reqBody := `{
		"session_id": "` + uuid.New().String() + `",
		"type": "npc_despawned",
		"tick": 5,
		"despawn": {"npc": {"id": 326, "index": 42}}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	depth, err := q.Depth(context.Background())
	if err != nil {
		t.Fatalf("Failed to get queue depth: %v", err)
	}
	if depth != 0 {
		t.Errorf("Expected empty queue, got depth %d", depth)
	}
}

func TestEventsHandler_Validation(t *testing.T) {
	handler, _, mockStorage := setupEventsHandler(t)

	sess := session.New("Zezima")
	if err := mockStorage.SaveSession(context.Background(), sess); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
	}{
		{
			name:           "invalid JSON",
			requestBody:    `{invalid}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing session",
			requestBody:    `{"type":"npc_despawned","despawn":{"npc":{"id":326,"index":1}}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown type",
			requestBody:    `{"session_id":"` + sess.ID.String() + `","type":"bogus"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing payload",
			requestBody:    `{"session_id":"` + sess.ID.String() + `","type":"menu_entry_added"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Response body: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestEventsHandler_MethodNotAllowed(t *testing.T) {
	handler, _, _ := setupEventsHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}
