package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/keeper-games/last-algorithm/pkg/chat"
	"github.com/keeper-games/last-algorithm/pkg/engine"
	"github.com/keeper-games/last-algorithm/pkg/state"
)

const (
	AgentName       = "KEEPER"
	PlaceHolderText = "Speak to KEEPER..."
)

// transcriptLine is one rendered line of conversation. An empty speaker
// marks system text (the teaser, errors).
type transcriptLine struct {
	speaker string
	text    string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	sessionID    string
	gameState    state.GameState
	gameStatus   string
	transcript   []transcriptLine
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Session bootstrap state
	showBootModal bool
	bootFailed    bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type sessionCreatedMsg struct {
	session *chat.SessionResponse
	err     error
}

type turnResponseMsg struct {
	response *chat.TurnResponse
	err      error
}

type sessionStateMsg struct {
	state *chat.SessionStateResponse
	err   error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
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

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	keeperStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

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
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:        cfg,
		client:        client,
		textarea:      ta,
		chatViewport:  chatVp,
		metaViewport:  metaVp,
		ready:         false,
		showBootModal: true,
		gameStatus:    "active",
	}
}

func (m *ConsoleUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	if len(m.sessionID) > 8 {
		content.WriteString(m.sessionID[:8] + "...\n\n")
	} else {
		content.WriteString(m.sessionID + "\n\n")
	}

	content.WriteString("Stage:\n")
	content.WriteString(m.gameState.Stage + "\n\n")

	content.WriteString("Scene:\n")
	if m.gameState.CurrentScene != "" {
		content.WriteString(m.gameState.CurrentScene + "\n\n")
	} else {
		content.WriteString("(not started)\n\n")
	}

	content.WriteString("Status:\n")
	content.WriteString(m.gameStatus + "\n\n")

	if m.gameState.LastIntent != "" {
		content.WriteString("Last intent:\n")
		content.WriteString(string(m.gameState.LastIntent) + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /state: Session state\n")

	m.metaViewport.SetContent(content.String())
}

// writeChatContent rebuilds the chat panel from the transcript for the
// current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("THE LAST ALGORITHM") + "\n\n")
	content.WriteString("Speak to KEEPER by typing below.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 10))) + "\n\n")

	for _, line := range m.transcript {
		switch line.speaker {
		case AgentName:
			content.WriteString(formatKeeperResponse(line.text, chatWidth) + "\n\n")
		case "You":
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(line.text, max(chatWidth-6, 10)) + "\n\n")
		default:
			content.WriteString(promptStyle.Render(wordwrap.String(line.text, max(chatWidth, 10))) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.createSession(), textarea.Blink)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.writeMetadata()

	case sessionCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.bootFailed = true
			return m, nil
		}
		m.sessionID = msg.session.SessionID
		if msg.session.InitialNarrative != "" {
			m.transcript = append(m.transcript, transcriptLine{text: msg.session.InitialNarrative})
		}
		m.showBootModal = false
		m.loading = true
		m.progressTick = 0
		m.writeChatContent()
		m.writeMetadata()
		// The opening line is fetched with the start sentinel.
		return m, tea.Batch(m.sendTurn(engine.StartConversation), progressTick(), textarea.Blink)

	case turnResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.transcript = append(m.transcript, transcriptLine{text: errorStyle.Render("Error: " + msg.err.Error())})
		} else {
			m.gameState = msg.response.GameState
			m.gameStatus = msg.response.GameStatus
			m.transcript = append(m.transcript, transcriptLine{speaker: AgentName, text: msg.response.ResponseText})
		}
		m.writeChatContent()
		m.writeMetadata()
		return m, nil

	case sessionStateMsg:
		if msg.err != nil {
			m.transcript = append(m.transcript, transcriptLine{text: errorStyle.Render("Error: " + msg.err.Error())})
		} else {
			m.transcript = append(m.transcript, transcriptLine{text: formatSessionState(msg.state)})
		}
		m.writeChatContent()
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading || m.showBootModal {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.transcript = append(m.transcript, transcriptLine{speaker: "You", text: input})
			m.writeChatContent()

			return m, tea.Batch(m.sendTurn(input), progressTick())
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func formatKeeperResponse(response string, width int) string {
	prefix := AgentName + ": "
	wrapped := wordwrap.String(response, max(width-len(prefix), 10))
	return speakerStyle.Render(prefix) + keeperStyle.Render(wrapped)
}

func formatSessionState(s *chat.SessionStateResponse) string {
	var b strings.Builder
	b.WriteString("Session state:\n")
	b.WriteString(fmt.Sprintf("• stage: %s\n", s.GameState.Stage))
	b.WriteString(fmt.Sprintf("• scene: %s\n", s.GameState.CurrentScene))
	if len(s.GameState.SceneHistory) > 0 {
		b.WriteString(fmt.Sprintf("• visited: %s\n", strings.Join(s.GameState.SceneHistory, " → ")))
	}
	for _, rec := range s.GameState.Intents {
		b.WriteString(fmt.Sprintf("• intent @ %s: %s\n", rec.Scene, rec.Intent))
	}
	b.WriteString(fmt.Sprintf("• turns stored: %d", len(s.NarrativeHistory)))
	return b.String()
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `Commands:
• /help - Show this help
• /state - Show stored session state
• Ctrl+C - Quit

How to play:
• Type what you would say out loud and press Enter
• KEEPER answers in character and the story advances`
		m.transcript = append(m.transcript, transcriptLine{text: helpText})
		m.writeChatContent()
		return m, nil

	case "/state":
		return m, m.fetchSessionState()
	}

	return m, nil
}

func (m ConsoleUI) createSession() tea.Cmd {
	return func() tea.Msg {
		sess, err := createSession(m.client, m.config.APIBaseURL, m.config.PlayerName)
		return sessionCreatedMsg{sess, err}
	}
}

func (m ConsoleUI) sendTurn(input string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendTurn(m.client, m.config.APIBaseURL, m.sessionID, input)
		return turnResponseMsg{resp, err}
	}
}

func (m ConsoleUI) fetchSessionState() tea.Cmd {
	return func() tea.Msg {
		s, err := getSessionState(m.client, m.config.APIBaseURL, m.sessionID)
		return sessionStateMsg{s, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
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
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave KEEPER waiting?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderBootModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	if m.bootFailed {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to create session: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else {
		content.WriteString(modalTitleStyle.Render("Connecting..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Waking KEEPER up..."))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showBootModal {
		return m.renderBootModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 10))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
