package tui

import (
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"reapo/internal/agent"
	"reapo/internal/histstore"
	"reapo/internal/history"
	"reapo/internal/logger"
	"reapo/internal/settings"
	"reapo/internal/tools"
	"reapo/internal/tui/components"
	"reapo/internal/vimtextarea"
)

// Model represents the Bubble Tea model for the TUI
type Model struct {
	messages []components.Message
	textarea vimtextarea.Model
	viewport struct {
		width  int
		height int
	}
	agent             *agent.Agent
	client            anthropic.Client
	toolDefs          []tools.ToolDefinition
	ready             bool
	processing        bool
	processingText    string // Text to show during processing
	processingSpinner *components.SpinnerComponent
	tokenCount        int
	spinners          map[string]*components.SpinnerComponent // Track spinners by message ID
	helpModal         *components.HelpModal                   // Help modal
	statusModal       *components.StatusModal
	authModal         components.AuthModal
	authVerifier      string

	settings *settings.Store
	history  *history.Navigator
	histDB   *histstore.Store

	pending       *pendingActions
	lastClipboard string
}

// pendingActions is a heap-allocated scratch pad that the vimtextarea
// Capabilities closures write into. It is held behind a pointer so
// that every value-copy of Model bubbletea makes on each Update call
// still shares the same backing struct; Update reads it back out
// after forwarding a key to the textarea, since that's the only way
// to observe what the engine decided to do with a keystroke.
type pendingActions struct {
	submit    string
	hasSubmit bool

	openEditor bool

	historyText    string
	hasHistoryText bool
}

// AgentResponseMsg represents a message from the agent
type AgentResponseMsg struct {
	Content string
	IsError bool
}

// AddMessageMsg represents adding a new message to the chat
type AddMessageMsg struct {
	Message components.Message
}

// MessageUpdateMsg represents updating an existing message
type MessageUpdateMsg struct {
	MessageID string
	Content   string
	Status    components.MessageStatus
	Progress  *components.Progress
	ToolInfo  *components.ToolInfo
}

// ToolInvocationMsg represents a tool being invoked
type ToolInvocationMsg struct {
	ToolName  string
	ToolID    string
	Input     string
	MessageID string
}

// ToolResultMsg represents a tool execution result
type ToolResultMsg struct {
	ToolName  string
	ToolID    string
	Output    string
	Error     string
	Duration  string
	MessageID string
}

// AnimationTickMsg represents a tick for spinner animations
type AnimationTickMsg struct{}

// ProcessMessageSequenceMsg represents the start of message processing sequence
type ProcessMessageSequenceMsg struct {
	UserMessage    string
	UserMessageID  string
	AgentMessageID string
}

// AgentStatusMsg represents agent thinking/status updates
type AgentStatusMsg struct {
	Message   string
	Timestamp time.Time
}

// ProcessToolsMsg triggers processing of tool uses
type ProcessToolsMsg struct {
	Conversation   []anthropic.MessageParam
	Response       *anthropic.Message
	AgentMessageID string
}

// SlashCommandMsg represents a slash command to be executed
type SlashCommandMsg struct {
	Command string
}

// ShowHelpModalMsg triggers showing the help modal
type ShowHelpModalMsg struct{}

// ClearConversationMsg triggers clearing the conversation
type ClearConversationMsg struct{}

// OpenExternalEditorMsg triggers opening the external editor
type OpenExternalEditorMsg struct{}

// CompactConversationMsg triggers conversation compaction with the summary result
type CompactConversationMsg struct {
	Summary string
	Error   error
}

// systemPromptContent will be set by the runner
var systemPromptContent string

// NewModel creates a new TUI model
func NewModel(client anthropic.Client, toolDefs []tools.ToolDefinition) Model {
	settingsPath, err := settings.DefaultPath()
	var settingsStore *settings.Store
	if err != nil {
		logger.Debug("tui: resolving settings path: %v", err)
	} else if settingsStore, err = settings.Open(settingsPath); err != nil {
		logger.Debug("tui: opening settings store: %v", err)
	}

	histPath, herr := histstore.DefaultPath()
	var histDB *histstore.Store
	var nav *history.Navigator
	if herr != nil {
		logger.Debug("tui: resolving history path: %v", herr)
		nav = history.NewNavigator(nil)
	} else {
		histDB, nav = histstore.LoadNavigator(histPath, 500)
	}

	model := Model{
		messages:    []components.Message{},
		agent:       agent.NewAgent(&client, nil, toolDefs, systemPromptContent),
		client:      client,
		toolDefs:    toolDefs,
		spinners:    make(map[string]*components.SpinnerComponent),
		helpModal:   components.NewHelpModal(),
		authModal:   components.NewAuthModal(),
		statusModal: components.NewStatusModal(),
		settings:    settingsStore,
		history:     nav,
		histDB:      histDB,
		pending:     &pendingActions{},
	}

	pending := model.pending
	caps := vimtextarea.Capabilities{
		Submit: func(value string) {
			pending.submit = value
			pending.hasSubmit = true
		},
		OpenExternalEditor: func() {
			pending.openEditor = true
		},
	}
	if settingsStore != nil {
		// Assigning a nil *settings.Store directly would leave caps.Settings
		// a non-nil interface wrapping a nil pointer, defeating the
		// capability bundle's nil-means-absent convention.
		caps.Settings = settingsStore
	}

	if nav != nil {
		nav.OnChange = func(text string) {
			pending.historyText = text
			pending.hasHistoryText = true
		}
	}

	ta := vimtextarea.New(caps)
	ta.SetPlaceholder("Type a message... (Enter in Insert mode sends it)")
	ta.Focus()
	ta.SetHeight(1)
	model.textarea = ta

	return model
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return m.textarea.Init()
}

// generateMessageID creates a unique UUIDv7-based message ID
func generateMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to a timestamp-based ID if UUID generation fails
		return fmt.Sprintf("msg_fallback_%d", time.Now().UnixNano())
	}
	return id.String()
}
