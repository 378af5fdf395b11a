//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/menu"
	"github.com/gamepulse/randomwatch/pkg/npc"
	"github.com/gamepulse/randomwatch/pkg/session"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

// These tests run against a live API and worker. Start both first:
//
//	docker-compose up -d
//	go test -tags integration ./integration/

var apiBaseURL string

func TestMain(m *testing.M) {
	apiBaseURL = os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8080"
	}

	fmt.Printf("Running Randomwatch Integration Tests\n")
	fmt.Printf("   API Base URL: %s\n", apiBaseURL)

	os.Exit(m.Run())
}

type sessionResponse struct {
	Session  *session.State     `json:"session"`
	Settings *settings.Settings `json:"settings"`
}

func TestRandomEventFlow(t *testing.T) {
	client := &http.Client{Timeout: 10 * time.Second}

	// Health gate: skip rather than fail when the stack is down.
	resp, err := client.Get(apiBaseURL + "/health")
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Skipf("API not reachable at %s", apiBaseURL)
	}
	_ = resp.Body.Close()

	sets := settings.Default()
	sets.NotifyAll = settings.Notification{Enabled: true}
	sr := createSession(t, client, "Integration Tester", sets)
	sessionID := sr.Session.ID
	t.Logf("Session ID: %s", sessionID)

	// A random event spawns and targets the player.
	postEvent(t, client, &event.Envelope{
		SessionID: sessionID,
		Type:      event.TypeInteractingChanged,
		Tick:      200,
		Interacting: &event.InteractingChanged{
			Source: &event.Actor{Kind: event.ActorNPC, ID: npc.Genie, Index: 7, Name: "Genie"},
			Target: &event.Actor{Kind: event.ActorPlayer, Name: "Integration Tester"},
		},
	})

	waitForSession(t, client, sessionID, func(s *session.State) bool {
		return s.Watcher.Tracked != nil && s.Watcher.Tracked.Index == 7
	}, "watcher tracking the Genie")

	// A foreign random event NPC shows up in the right-click menu; the
	// watcher strips it.
	postEvent(t, client, &event.Envelope{
		SessionID: sessionID,
		Type:      event.TypeMenuEntryAdded,
		Tick:      201,
		MenuEntry: &event.MenuEntryAdded{
			Entry: menu.Entry{
				Option: "Talk-to",
				Action: menu.ActionNPCFirstOption,
				NPC:    &npc.Ref{ID: npc.DrunkenDwarf, Index: 8, Name: "Drunken dwarf"},
			},
		},
	})

	waitForSession(t, client, sessionID, func(s *session.State) bool {
		return s.Tick >= 201 && len(s.Menu) == 0
	}, "foreign menu entry stripped")

	// The Genie despawns; tracking clears.
	postEvent(t, client, &event.Envelope{
		SessionID: sessionID,
		Type:      event.TypeNpcDespawned,
		Tick:      250,
		Despawn:   &event.NpcDespawned{NPC: npc.Ref{ID: npc.Genie, Index: 7, Name: "Genie"}},
	})

	waitForSession(t, client, sessionID, func(s *session.State) bool {
		return s.Watcher.Tracked == nil
	}, "tracking cleared after despawn")

	deleteSession(t, client, sessionID)
}

func createSession(t *testing.T, client *http.Client, player string, sets *settings.Settings) *sessionResponse {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"player":   player,
		"settings": sets,
	})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	resp, err := client.Post(apiBaseURL+"/v1/sessions", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create session returned %d: %s", resp.StatusCode, string(respBody))
	}

	var sr sessionResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		t.Fatalf("Failed to parse session response: %v", err)
	}
	return &sr
}

func postEvent(t *testing.T, client *http.Client, env *event.Envelope) {
	t.Helper()

	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Failed to marshal envelope: %v", err)
	}

	resp, err := client.Post(apiBaseURL+"/v1/events", "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to post event: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Post event returned %d: %s", resp.StatusCode, string(respBody))
	}
}

// waitForSession polls the session until cond holds or the deadline hits.
// Event processing is asynchronous, so state changes lag the POST.
func waitForSession(t *testing.T, client *http.Client, id uuid.UUID, cond func(*session.State) bool, what string) {
	t.Helper()

	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s", apiBaseURL, id))
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		respBody, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var sr sessionResponse
			if err := json.Unmarshal(respBody, &sr); err != nil {
				t.Fatalf("Failed to parse session response: %v", err)
			}
			if cond(sr.Session) {
				return
			}
		}

		time.Sleep(250 * time.Millisecond)
	}

	t.Fatalf("Timed out waiting for %s", what)
}

func deleteSession(t *testing.T, client *http.Client, id uuid.UUID) {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/v1/sessions/%s", apiBaseURL, id), nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Delete session returned %d", resp.StatusCode)
	}
}
