package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

const nameCharLimit = 24

// Options configures a Model beyond the engine itself.
type Options struct {
	Config core.RuntimeConfig
	// Scores backs the scoreboard screen; nil disables it.
	Scores ScoreSource
	// Slot is the player's save slot, used to filter the scoreboard.
	Slot    string
	Palette Palette
	// ScreenshotDir defaults to ~/.arcade/screenshots.
	ScreenshotDir string
}

// Model is the Bubble Tea model that drives one engine.
type Model struct {
	engine     *t2048.Engine
	inbox      *t2048.Recorder
	screen     *core.Screen
	opts       Options
	keys       *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState

	prompt    textinput.Model
	prompting bool

	scoreboard *ScoreboardModel

	quitting bool
}

// NewModel wraps an engine that has already been booted.
func NewModel(engine *t2048.Engine, opts Options) Model {
	if opts.Config.TickRate <= 0 {
		opts.Config.TickRate = 60
	}
	if opts.Palette == nil {
		opts.Palette = DefaultPalette()
	}

	ti := textinput.New()
	ti.Prompt = "Name: "
	ti.CharLimit = nameCharLimit

	m := Model{
		engine:     engine,
		inbox:      &t2048.Recorder{},
		screen:     core.NewScreen(opts.Config.ScreenW, opts.Config.ScreenH),
		opts:       opts,
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		gameState:  engine.State(),
		prompt:     ti,
	}
	engine.Subscribe(m.inbox)
	engine.SetScreenSize(opts.Config.ScreenW, opts.Config.ScreenH)

	// A restored game can already be waiting for a name.
	if engine.AwaitingName() {
		m.openPrompt(engine.Snapshot().BestName)
	}
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.opts.Config.TickRate), textinput.Blink)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.scoreboard != nil {
			return m.updateScoreboard(msg)
		}
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "tab":
		if m.opts.Scores != nil {
			sb := NewScoreboardModel(m.opts.Scores, m.opts.Slot, m.opts.Config.ScreenW, m.opts.Config.ScreenH)
			m.scoreboard = &sb
		}
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		return m.quit()
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEnter:
		return m.submitName(m.prompt.Value())
	case tea.KeyEsc:
		return m.submitName("")
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) submitName(name string) (tea.Model, tea.Cmd) {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.Reset()
	// Only fails when no name is pending, which the prompt state rules out.
	_ = m.engine.SubmitName(name)
	return m, nil
}

func (m Model) updateScoreboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	sb, ok := next.(ScoreboardModel)
	if !ok {
		return m, cmd
	}
	switch {
	case sb.IsQuitting():
		return m.quit()
	case sb.IsGoingBack():
		m.scoreboard = nil
	default:
		m.scoreboard = &sb
	}
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	// Finish a committed move so the saved game includes its spawn.
	m.engine.Flush()
	m.quitting = true
	return m, tea.Quit
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Config.ScreenW = msg.Width
	m.opts.Config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.engine.SetScreenSize(msg.Width, msg.Height)
	m.prompt.Width = max(msg.Width-len(m.prompt.Prompt)-2, 1)

	if m.scoreboard != nil {
		next, _ := m.scoreboard.Update(msg)
		if sb, ok := next.(ScoreboardModel); ok {
			m.scoreboard = &sb
		}
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.engine.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()
	m.drainEvents()
	return m, tickCmd(m.opts.Config.TickRate)
}

// drainEvents reacts to engine notifications collected since the last tick.
func (m *Model) drainEvents() {
	for _, ev := range m.inbox.Events {
		if nr, ok := ev.(t2048.NameRequired); ok {
			m.openPrompt(nr.DefaultName)
		}
	}
	m.inbox.Reset()
}

func (m *Model) openPrompt(defaultName string) {
	m.prompting = true
	m.prompt.Reset()
	m.prompt.Placeholder = defaultName
	if defaultName == "" {
		m.prompt.Placeholder = "your name"
	}
	m.prompt.SetValue(defaultName)
	m.prompt.CursorEnd()
	m.prompt.Focus()
}

// Prompting reports whether the name prompt is open.
func (m Model) Prompting() bool {
	return m.prompting
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.engine.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("2048_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scoreboard != nil {
		return m.scoreboard.View()
	}

	m.engine.Render(m.screen)
	out := RenderScreen(m.screen, m.opts.Palette)
	if !m.prompting {
		return out
	}

	// The prompt takes over the last screen line.
	lines := strings.Split(out, "\n")
	lines[len(lines)-1] = m.prompt.View()
	return strings.Join(lines, "\n")
}

// Run starts the Bubble Tea program for engine.
func Run(engine *t2048.Engine, opts Options) error {
	p := tea.NewProgram(
		NewModel(engine, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
