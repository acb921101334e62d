// Package chat provides the question and answer view for the TUI.
//
// The transcript is always rendered from the conversation log, never from
// view-local state. A submitted question appears immediately with a
// placeholder answer and is reconciled in place when the backend replies,
// so redraws while a question is in flight stay consistent.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/components/input"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/components/status"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/keymap"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/messages"
	"github.com/letscode5108/DocuQuery/internal/adapters/driving/tui/styles"
	"github.com/letscode5108/DocuQuery/internal/core/domain"
	"github.com/letscode5108/DocuQuery/internal/core/ports/driving"
)

// refreshInterval paces transcript redraws while a question is in flight.
const refreshInterval = 120 * time.Millisecond

// View is the chat view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	input     *input.QuestionInput
	viewport  viewport.Model

	query driving.QueryService
	ctx   context.Context

	scope    domain.Scope
	document *domain.Document
	key      domain.LogKey

	inFlight bool
	err      error
	width    int
	height   int
	ready    bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, query driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ChatHelp())

	return &View{
		styles:    s,
		keymap:    km,
		statusbar: bar,
		input:     input.NewQuestionInput(s),
		viewport:  viewport.New(80, 16),
		query:     query,
		ctx:       context.Background(),
		scope:     domain.ScopeAll,
		key:       domain.GlobalLog,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetTarget points the chat at a selection. The transcript switches to the
// selection's conversation log.
func (v *View) SetTarget(selection domain.Selection) {
	v.scope = selection.Scope
	v.document = selection.Document
	v.key = selection.LogKey()
	v.err = nil

	if selection.Scope == domain.ScopeSingle && selection.Document != nil {
		v.statusbar.SetScope(selection.Document.Title)
	} else {
		v.statusbar.SetScope("all documents")
	}

	v.refreshTranscript()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.LogRefresh:
		if !v.inFlight {
			return v, nil
		}
		v.refreshTranscript()
		return v, refreshTick()

	case messages.QueryCompleted:
		v.handleQueryCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}

	case tea.KeyEnter:
		// Input stays disabled until the in-flight question resolves.
		if v.inFlight {
			return v, nil
		}
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.input.SetValue("")
		v.input.Blur()
		v.inFlight = true
		v.err = nil
		v.statusbar.SetState(status.StateAsking)
		return v, tea.Batch(v.performAsk(question), refreshTick())

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	if v.inFlight {
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// performAsk submits the question in the view's current scope.
func (v *View) performAsk(question string) tea.Cmd {
	scope := v.scope
	doc := v.document
	key := v.key
	return func() tea.Msg {
		exchange, err := v.query.Submit(v.ctx, question, scope, doc)
		return messages.QueryCompleted{Key: key, Exchange: exchange, Err: err}
	}
}

// refreshTick schedules the next transcript redraw.
func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return messages.LogRefresh{}
	})
}

// handleQueryCompleted finalises an in-flight question.
func (v *View) handleQueryCompleted(msg messages.QueryCompleted) {
	v.inFlight = false
	v.input.Focus()
	v.refreshTranscript()

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// refreshTranscript re-renders the viewport from the conversation log.
func (v *View) refreshTranscript() {
	exchanges := v.query.Log(v.key)

	if len(exchanges) == 0 {
		v.viewport.SetContent(v.styles.Muted.Render("No questions yet. Type one below."))
		return
	}

	blocks := make([]string, 0, len(exchanges))
	for _, ex := range exchanges {
		blocks = append(blocks, v.renderExchange(ex))
	}

	v.viewport.SetContent(strings.Join(blocks, "\n\n"))
	v.viewport.GotoBottom()
}

// renderExchange renders one question and answer pair.
func (v *View) renderExchange(ex domain.Exchange) string {
	lines := make([]string, 0, 4)
	lines = append(lines, v.styles.Question.Render("You: ")+v.styles.Normal.Render(ex.Question))

	if ex.Pending() {
		lines = append(lines, v.styles.Pending.Render(ex.Answer))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, v.styles.Answer.Render(ex.Answer))
	for _, src := range ex.Sources {
		label := src.DocumentTitle
		if label == "" {
			label = src.Filename
		}
		lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("  source: %s (%.2f)", label, src.RelevanceScore)))
	}
	return strings.Join(lines, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("DocuQuery"),
		"",
		v.viewport.View(),
		"",
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.input.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	// Reserve space for header, input, status bar.
	vpHeight := height - 9
	if vpHeight < 5 {
		vpHeight = 5
	}
	v.viewport.Width = width
	v.viewport.Height = vpHeight

	v.refreshTranscript()
}

// InFlight returns whether a question is awaiting its answer.
func (v *View) InFlight() bool {
	return v.inFlight
}

// Scope returns the scope questions are submitted in.
func (v *View) Scope() domain.Scope {
	return v.scope
}

// LogKey returns the conversation log the view renders.
func (v *View) LogKey() domain.LogKey {
	return v.key
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
