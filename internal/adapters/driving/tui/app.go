package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/deepscout-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/deepscout-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/deepscout-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/deepscout-cli/internal/core/domain"
)

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// The app has a single view: a query input at the bottom, an answer
// viewport above it, and a status bar. Tab switches between running the
// full research pipeline and searching only the local index.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	mode    messages.Mode
	busy    bool
	status  string
	answer  *domain.ResearchAnswer
	results []domain.RetrievalResult
	err     error

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a research query and press Enter"
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		keys:     keymap.DefaultKeyMap(),
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		status:   "Ready.",
	}, nil
}

// WithContext sets the context used for research and retrieval calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("deepscout - Research"),
		textinput.Blink,
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case messages.ResearchCompleted:
		a.busy = false
		if msg.Err != nil {
			a.err = msg.Err
			a.status = "Research failed."
			return a, nil
		}
		a.err = nil
		a.answer = msg.Answer
		a.results = msg.Answer.Results
		a.status = fmt.Sprintf("Answered from %d source(s).", len(msg.Answer.Sources))
		a.viewport.SetContent(a.renderAnswer())
		a.viewport.GotoTop()
		return a, nil

	case messages.RetrieveCompleted:
		a.busy = false
		a.err = nil
		a.answer = nil
		a.results = msg.Results
		a.status = fmt.Sprintf("%d local match(es) for %q.", len(msg.Results), msg.Query)
		a.viewport.SetContent(a.renderResults())
		a.viewport.GotoTop()
		return a, nil

	case messages.SourcesLoaded:
		a.busy = false
		if msg.Err != nil {
			a.err = msg.Err
			a.status = "Could not list sources."
			return a, nil
		}
		a.err = nil
		a.status = fmt.Sprintf("%d indexed source(s).", len(msg.Sources))
		a.viewport.SetContent(a.renderSources(msg.Sources))
		a.viewport.GotoTop()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keys.Quit):
		return a, tea.Quit

	case keymap.Matches(keyStr, a.keys.ToggleMode):
		if a.mode == messages.ModeResearch {
			a.mode = messages.ModeRetrieve
			a.input.Placeholder = "Search the local index and press Enter"
		} else {
			a.mode = messages.ModeResearch
			a.input.Placeholder = "Type a research query and press Enter"
		}
		return a, nil

	case keymap.Matches(keyStr, a.keys.Clear):
		a.input.SetValue("")
		a.answer = nil
		a.results = nil
		a.err = nil
		a.status = "Ready."
		a.viewport.SetContent("")
		return a, nil

	case keymap.Matches(keyStr, a.keys.Sources):
		if a.ports.Source == nil || a.busy {
			return a, nil
		}
		a.busy = true
		a.status = "Listing sources..."
		return a, tea.Batch(a.spinner.Tick, a.loadSourcesCmd())

	case keymap.Matches(keyStr, a.keys.Submit):
		query := strings.TrimSpace(a.input.Value())
		if query == "" || a.busy {
			return a, nil
		}
		a.busy = true
		a.err = nil
		if a.mode == messages.ModeRetrieve {
			a.status = fmt.Sprintf("Searching local index for %q...", query)
			return a, tea.Batch(a.spinner.Tick, a.retrieveCmd(query))
		}
		a.status = fmt.Sprintf("Researching %q...", query)
		return a, tea.Batch(a.spinner.Tick, a.researchCmd(query))

	case keymap.Matches(keyStr, a.keys.Up), keymap.Matches(keyStr, a.keys.Down):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	title := a.styles.Title.Render("deepscout") +
		a.styles.Muted.Render("  automated research")

	body := a.styles.Answer.Render(a.viewport.View())
	input := a.styles.InputField.Render(a.input.View())

	status := a.statusLine()
	help := a.styles.Help.Render(a.helpLine())

	return title + "\n" + body + "\n" + input + "\n" + status + "\n" + help
}

func (a *App) statusLine() string {
	mode := a.styles.Subtitle.Render("[" + a.mode.String() + "]")
	if a.err != nil {
		return mode + " " + a.styles.Error.Render("Error: "+a.err.Error())
	}
	if a.busy {
		return mode + " " + a.spinner.View() + a.styles.Muted.Render(a.status)
	}
	return mode + " " + a.styles.StatusBar.Render(a.status)
}

func (a *App) helpLine() string {
	var parts []string
	for _, b := range a.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ·  ")
}

func (a *App) resize() {
	a.input.Width = max(20, a.width-8)
	a.viewport.Width = max(20, a.width-4)

	// title + input box + status + help, plus the two box frames
	reserved := 3 + 1 + 1 + 1 + 4
	a.viewport.Height = max(3, a.height-reserved)
}

func (a *App) researchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.ports.Research.Research(a.ctx, query, domain.ResearchOptions{})
		return messages.ResearchCompleted{Answer: answer, Err: err}
	}
}

func (a *App) retrieveCmd(query string) tea.Cmd {
	return func() tea.Msg {
		results := a.ports.Research.Retrieve(a.ctx, query, 0)
		return messages.RetrieveCompleted{Query: query, Results: results}
	}
}

func (a *App) loadSourcesCmd() tea.Cmd {
	return func() tea.Msg {
		sources, err := a.ports.Source.IndexedSources(a.ctx)
		return messages.SourcesLoaded{Sources: sources, Err: err}
	}
}

func (a *App) renderAnswer() string {
	if a.answer == nil {
		return ""
	}

	var b strings.Builder
	header := a.answer.Query
	if a.answer.Analysis.Type != "" {
		header += a.styles.Muted.Render(fmt.Sprintf("  (%s, %.0f%%)",
			a.answer.Analysis.Type, a.answer.Analysis.Confidence*100))
	}
	b.WriteString(a.styles.Subtitle.Render(header))
	b.WriteString("\n\n")

	if a.answer.Answer == "" {
		b.WriteString(a.styles.Muted.Render("No answer could be synthesized."))
		b.WriteString("\n")
	} else {
		b.WriteString(a.answer.Answer)
		b.WriteString("\n")
	}

	if len(a.answer.Results) > 0 {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("Top passages"))
		b.WriteString("\n")
		b.WriteString(a.renderResults())
	}
	return b.String()
}

func (a *App) renderResults() string {
	if len(a.results) == 0 {
		return a.styles.Muted.Render("No matches in the local index.")
	}

	var b strings.Builder
	for i, result := range a.results {
		score := a.styles.Success.Render(fmt.Sprintf("%.3f", result.Score))
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, score, snippet(result.Chunk.Content, 200))
		if result.Chunk.SourceURL != "" {
			b.WriteString(a.styles.Muted.Render("   " + result.Chunk.SourceURL))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (a *App) renderSources(sources []string) string {
	if len(sources) == 0 {
		return a.styles.Muted.Render("No sources indexed yet.")
	}
	var b strings.Builder
	b.WriteString(a.styles.Subtitle.Render("Indexed sources"))
	b.WriteString("\n")
	for _, source := range sources {
		b.WriteString("  " + source + "\n")
	}
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Mode returns the active query mode.
func (a *App) Mode() messages.Mode {
	return a.mode
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Busy reports whether a query is in flight.
func (a *App) Busy() bool {
	return a.busy
}

func snippet(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
