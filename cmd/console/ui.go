package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/menu"
	"github.com/gamepulse/randomwatch/pkg/npc"
	"github.com/gamepulse/randomwatch/pkg/session"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

// ConsoleUI is the BubbleTea model that runs the simulator.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	streamClient *http.Client
	sess         *session.State
	sets         *settings.Settings
	logViewport  viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int
	err          error

	showQuitModal bool

	eventChan chan SSEEvent
	sseCtx    context.Context
	cancelSSE context.CancelFunc

	// Simulated client world
	tick      int
	nextIndex int
	active    *npc.Ref
	lines     []string
}

type sseEventMsg SSEEvent

type sseClosedMsg struct {
	err error
}

type eventSentMsg struct {
	desc string
	err  error
}

type sessionRefreshedMsg struct {
	resp *SessionResponse
	err  error
}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	notifyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Bold(true)

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	serverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")) // purple

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, resp *SessionResponse) ConsoleUI {
	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ctx, cancel := context.WithCancel(context.Background())

	return ConsoleUI{
		config: cfg,
		client: client,
		// Dedicated client without a timeout so the SSE stream stays open
		streamClient: &http.Client{},
		sess:         resp.Session,
		sets:         resp.Settings,
		logViewport:  logVp,
		metaViewport: metaVp,
		eventChan:    make(chan SSEEvent, 16),
		sseCtx:       ctx,
		cancelSSE:    cancel,
		nextIndex:    1,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	ctx := m.sseCtx
	eventChan := m.eventChan
	client := m.streamClient
	baseURL := m.config.APIBaseURL
	sessionID := m.sess.ID

	go func() {
		if err := listenToSSE(ctx, client, baseURL, sessionID, eventChan); err != nil && ctx.Err() == nil {
			eventChan <- SSEEvent{Type: "error", Data: map[string]interface{}{"message": err.Error()}}
		}
		close(eventChan)
	}()

	return m.waitForSSE()
}

// waitForSSE bridges the SSE goroutine into the BubbleTea update loop.
func (m ConsoleUI) waitForSSE() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.eventChan
		if !ok {
			return sseClosedMsg{}
		}
		return sseEventMsg(ev)
	}
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		lvCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, lvCmd = m.logViewport.Update(msg)
		return m, lvCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		}

		switch msg.String() {
		case "q":
			m.showQuitModal = true
			return m, nil
		case "s":
			return m.spawnEvent(true)
		case "f":
			return m.spawnEvent(false)
		case "d":
			return m.despawnEvent()
		case "m":
			return m.addForeignMenuEntry()
		case "t":
			// Jump past the notification cooldown
			m.tick += 151
			m.appendLine(actionStyle.Render(fmt.Sprintf("~ advanced to tick %d", m.tick)))
			m.metaViewport.SetContent(m.writeMetadata())
			return m, nil
		case "r":
			return m, m.refreshSession()
		}

	case sseEventMsg:
		m.appendSSELine(SSEEvent(msg))
		return m, m.waitForSSE()

	case sseClosedMsg:
		m.appendLine(errorStyle.Render("! notification stream closed"))
		return m, nil

	case eventSentMsg:
		if msg.err != nil {
			m.appendLine(errorStyle.Render("! " + msg.err.Error()))
		} else {
			m.appendLine(actionStyle.Render("> " + msg.desc))
		}
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case sessionRefreshedMsg:
		if msg.err != nil {
			m.appendLine(errorStyle.Render("! " + msg.err.Error()))
		} else {
			m.sess = msg.resp.Session
			m.sets = msg.resp.Settings
			m.appendLine(serverStyle.Render(fmt.Sprintf("* session refreshed (server tick %d)", m.sess.Tick)))
			m.metaViewport.SetContent(m.writeMetadata())
		}
		return m, nil
	}

	m.logViewport, lvCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(lvCmd, mvCmd)
}

// spawnEvent simulates a random event NPC spawning and targeting either
// the local player or somebody else.
func (m ConsoleUI) spawnEvent(forPlayer bool) (tea.Model, tea.Cmd) {
	ids := npc.RandomEventIDs()
	id := ids[rand.Intn(len(ids))]

	ref := &npc.Ref{ID: id, Index: m.nextIndex, Name: npc.DisplayName(id)}
	m.nextIndex++
	m.tick++

	target := &event.Actor{Kind: event.ActorPlayer, Name: m.sess.Player}
	desc := fmt.Sprintf("%s spawned targeting you (tick %d)", ref.DisplayName(), m.tick)
	if !forPlayer {
		target = &event.Actor{Kind: event.ActorPlayer, Name: "Someone else"}
		desc = fmt.Sprintf("%s spawned targeting another player (tick %d)", ref.DisplayName(), m.tick)
	} else {
		m.active = ref
	}

	env := &event.Envelope{
		SessionID: m.sess.ID,
		Type:      event.TypeInteractingChanged,
		Tick:      m.tick,
		Interacting: &event.InteractingChanged{
			Source: &event.Actor{Kind: event.ActorNPC, ID: ref.ID, Index: ref.Index, Name: ref.Name},
			Target: target,
		},
	}
	return m, m.send(env, desc)
}

func (m ConsoleUI) despawnEvent() (tea.Model, tea.Cmd) {
	if m.active == nil {
		m.appendLine(promptStyle.Render("~ nothing to despawn"))
		return m, nil
	}

	ref := *m.active
	m.active = nil
	m.tick++

	env := &event.Envelope{
		SessionID: m.sess.ID,
		Type:      event.TypeNpcDespawned,
		Tick:      m.tick,
		Despawn:   &event.NpcDespawned{NPC: ref},
	}
	return m, m.send(env, fmt.Sprintf("%s despawned (tick %d)", ref.DisplayName(), m.tick))
}

// addForeignMenuEntry simulates hovering a random event NPC that belongs
// to another player, which the watcher should strip from the menu.
func (m ConsoleUI) addForeignMenuEntry() (tea.Model, tea.Cmd) {
	ids := npc.RandomEventIDs()
	id := ids[rand.Intn(len(ids))]

	ref := &npc.Ref{ID: id, Index: m.nextIndex, Name: npc.DisplayName(id)}
	m.nextIndex++
	m.tick++

	env := &event.Envelope{
		SessionID: m.sess.ID,
		Type:      event.TypeMenuEntryAdded,
		Tick:      m.tick,
		MenuEntry: &event.MenuEntryAdded{
			Entry: menu.Entry{
				Option: "Talk-to",
				Action: menu.ActionNPCFirstOption,
				NPC:    ref,
			},
		},
	}
	return m, m.send(env, fmt.Sprintf("Talk-to %s added to menu (tick %d)", ref.DisplayName(), m.tick))
}

func (m ConsoleUI) send(env *event.Envelope, desc string) tea.Cmd {
	return func() tea.Msg {
		if err := sendEvent(m.client, m.config.APIBaseURL, env); err != nil {
			return eventSentMsg{err: err}
		}
		return eventSentMsg{desc: desc}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		resp, err := getSession(m.client, m.config.APIBaseURL, m.sess.ID)
		return sessionRefreshedMsg{resp, err}
	}
}

func (m *ConsoleUI) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.writeLogContent()
}

func (m *ConsoleUI) appendSSELine(ev SSEEvent) {
	switch ev.Type {
	case "connected":
		m.appendLine(serverStyle.Render("* connected to notification stream"))
	case "event.spawned":
		msg, _ := ev.Data["message"].(string)
		urgency, _ := ev.Data["urgency"].(string)
		m.appendLine(notifyStyle.Render(fmt.Sprintf("! %s [%s]", msg, urgency)))
	case "event.tracked":
		name, _ := ev.Data["npc"].(string)
		m.appendLine(serverStyle.Render(fmt.Sprintf("* now tracking %s", name)))
	case "event.cleared":
		name, _ := ev.Data["npc"].(string)
		m.appendLine(serverStyle.Render(fmt.Sprintf("* %s is gone", name)))
	case "menu.suppressed":
		option, _ := ev.Data["option"].(string)
		name, _ := ev.Data["npc"].(string)
		m.appendLine(serverStyle.Render(fmt.Sprintf("* stripped %q on %s (not yours)", option, name)))
	case "error":
		msg, _ := ev.Data["message"].(string)
		m.appendLine(errorStyle.Render("! " + msg))
	default:
		m.appendLine(serverStyle.Render(fmt.Sprintf("* %s %v", ev.Type, ev.Data)))
	}
}

func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6
	if logWidth < 10 {
		logWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("RANDOMWATCH SIMULATOR") + "\n\n")
	content.WriteString("Drive fake client events and watch the filter react.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth)) + "\n\n")

	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, logWidth) + "\n")
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(m.sess.ID.String()[:8] + "...\n\n")

	content.WriteString("Player:\n")
	content.WriteString(m.sess.Player + "\n\n")

	content.WriteString(fmt.Sprintf("Client tick: %d\n\n", m.tick))

	content.WriteString("Your event:\n")
	if m.active != nil {
		content.WriteString(m.active.DisplayName() + "\n\n")
	} else {
		content.WriteString("None\n\n")
	}

	if m.sets != nil {
		content.WriteString("Notify all: ")
		if m.sets.NotifyAll.Enabled {
			content.WriteString("on\n")
		} else {
			content.WriteString("off\n")
		}
		content.WriteString("Strip menus: ")
		if m.sets.RemoveMenuOptions {
			content.WriteString("on\n\n")
		} else {
			content.WriteString("off\n\n")
		}
	}

	content.WriteString("Commands:\n")
	content.WriteString("• s: Spawn for you\n")
	content.WriteString("• f: Spawn for other\n")
	content.WriteString("• d: Despawn yours\n")
	content.WriteString("• m: Foreign Talk-to\n")
	content.WriteString("• t: Skip cooldown\n")
	content.WriteString("• r: Refresh session\n")
	content.WriteString("• q: Quit\n")

	return content.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			if m.cancelSSE != nil {
				m.cancelSSE()
			}
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				if m.cancelSSE != nil {
					m.cancelSSE()
				}
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Simulator?"))
	content.WriteString("\n\n")
	content.WriteString("The session stays on the server until it expires.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 2).Render(
		m.logViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
