// Package tui provides a Bubble Tea terminal user interface for music-usher.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/handiism/music-usher/internal/config"
	"github.com/handiism/music-usher/internal/organize"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateExporting
	StateComplete
	StateError
)

// focus is the input element receiving keys in StateInput.
type focus int

const (
	focusSource focus = iota
	focusTarget
	focusOptions
	focusCount
)

const (
	maxLogs      = 10
	maxAlbums    = 8
	eventBacklog = 256
)

var errCancelled = errors.New("cancelled by user")

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   organize.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	focus    focus
	source   textinput.Model
	target   textinput.Model
	spinner  spinner.Model
	progress progress.Model
	settings config.Settings
	logger   *zap.Logger
	logs     []LogEntry
	albums   []string
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	manager *organize.Manager
	events  chan organize.ProgressEvent

	// Export progress
	totalFiles    int32
	exportedFiles int32
	totalBytes    int64
	exportedBytes int64
	renamed       int32

	width  int
	height int
}

// NewModel creates a new TUI model. source and target prefill the path
// inputs; when both are set the option toggles have focus.
func NewModel(source, target string, settings *config.Settings, logger *zap.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	src := newPathInput("/path/to/unsorted/music", source)
	dst := newPathInput("/path/to/library", target)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:    StateInput,
		source:   src,
		target:   dst,
		spinner:  sp,
		progress: prog,
		settings: *settings,
		logger:   logger,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan organize.ProgressEvent, eventBacklog),
	}

	switch {
	case source == "":
		m.setFocus(focusSource)
	case target == "":
		m.setFocus(focusTarget)
	default:
		m.setFocus(focusOptions)
	}
	return m
}

func newPathInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(value)
	return ti
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.source.Blur()
	m.target.Blur()
	switch f {
	case focusSource:
		m.source.Focus()
	case focusTarget:
		m.target.Focus()
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg carries a manager progress event.
	ProgressMsg struct {
		Event organize.ProgressEvent
	}

	// ScanDoneMsg is sent when the source scan completes.
	ScanDoneMsg struct {
		Albums  []string
		Manager *organize.Manager
		Err     error
	}

	// ExportDoneMsg is sent when the export completes.
	ExportDoneMsg struct {
		Exported int64
		Total    int64
		Files    int32
		TotalF   int32
		Renamed  int32
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateExporting || m.state == StateScanning {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}
			return m, nil

		case "tab", "down":
			if m.state == StateInput {
				m.setFocus((m.focus + 1) % focusCount)
				return m, nil
			}

		case "shift+tab", "up":
			if m.state == StateInput {
				m.setFocus((m.focus + focusCount - 1) % focusCount)
				return m, nil
			}

		case "enter":
			if m.state == StateInput {
				if m.sourcePath() == "" || m.targetPath() == "" {
					m.err = errors.New("source and target are required")
					return m, nil
				}
				m.err = nil
				m.state = StateScanning
				return m, tea.Batch(m.startScan(), m.waitForEvent(), m.spinner.Tick)
			}
		}

		if m.state == StateInput && m.focus == focusOptions {
			switch msg.String() {
			case "s":
				m.settings.Simulate = !m.settings.Simulate
			case "m":
				m.settings.Move = !m.settings.Move
			case "p":
				m.settings.CreatePlaylist = !m.settings.CreatePlaylist
			case "v":
				m.settings.Verbose = !m.settings.Verbose
			case "c":
				m.settings.CopyCoverArt = !m.settings.CopyCoverArt
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}

		if m.state == StateComplete || m.state == StateError {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "r":
				return m, tea.Batch(m.reset(), textinput.Blink)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m.appendLog(msg.Event)
		if m.state == StateScanning || m.state == StateExporting {
			cmds = append(cmds, m.waitForEvent())
		}

	case ScanDoneMsg:
		if m.state != StateScanning {
			return m, nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.albums = msg.Albums
		m.manager = msg.Manager
		_, m.totalBytes, _, m.totalFiles = m.manager.GetProgress()
		m.state = StateExporting
		cmds = append(cmds, m.startExport(), m.tickProgress())

	case ExportDoneMsg:
		m.exportedBytes = msg.Exported
		m.totalBytes = msg.Total
		m.exportedFiles = msg.Files
		m.totalFiles = msg.TotalF
		m.renamed = msg.Renamed
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}
		cmds = append(cmds, m.progress.SetPercent(1))

	case TickMsg:
		if m.manager != nil && m.state == StateExporting {
			exported, total, files, totalFiles := m.manager.GetProgress()
			m.exportedBytes = exported
			m.totalBytes = total
			m.exportedFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		switch m.focus {
		case focusSource:
			m.source, cmd = m.source.Update(msg)
		case focusTarget:
			m.target, cmd = m.target.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) appendLog(event organize.ProgressEvent) {
	if event.Level == organize.LevelVerbose && !m.settings.Verbose && !m.settings.Simulate {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// reset returns the model to the input screen and starts the progress bar
// animating back to zero.
func (m *Model) reset() tea.Cmd {
	m.cancel()
	m.state = StateInput
	m.logs = nil
	m.albums = nil
	m.err = nil
	m.exportedFiles = 0
	m.totalFiles = 0
	m.exportedBytes = 0
	m.totalBytes = 0
	m.renamed = 0
	m.manager = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.events = make(chan organize.ProgressEvent, eventBacklog)
	m.setFocus(focusOptions)
	return m.progress.SetPercent(0)
}

func (m Model) sourcePath() string {
	return strings.TrimSpace(m.source.Value())
}

func (m Model) targetPath() string {
	return strings.TrimSpace(m.target.Value())
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next manager event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case event := <-events:
			return ProgressMsg{Event: event}
		case <-ctx.Done():
			return nil
		}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎵 Music Usher"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Sort audio files into Artist/Album folders"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateExporting:
		b.WriteString(m.viewExporting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Source directory:"))
	b.WriteString("\n")
	b.WriteString(m.source.View())
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Target directory:"))
	b.WriteString("\n")
	b.WriteString(m.target.View())
	b.WriteString("\n\n")

	header := infoStyle.Render("Options:")
	if m.focus == focusOptions {
		header = albumStyle.Render("› Options:")
	}
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Simulate, change nothing (s)\n", checkbox(m.settings.Simulate)))
	b.WriteString(fmt.Sprintf("  %s Move instead of copy (m)\n", checkbox(m.settings.Move)))
	b.WriteString(fmt.Sprintf("  %s Create playlist (p)\n", checkbox(m.settings.CreatePlaylist)))
	b.WriteString(fmt.Sprintf("  %s Copy cover art (c)\n", checkbox(m.settings.CopyCoverArt)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", checkbox(m.settings.Verbose)))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Reading tags in %s...", m.sourcePath())))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewExporting() string {
	var b strings.Builder

	if len(m.albums) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d album(s):", len(m.albums))))
		b.WriteString("\n")
		for i, album := range m.albums {
			if i == maxAlbums {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  … and %d more", len(m.albums)-maxAlbums)))
				b.WriteString("\n")
				break
			}
			b.WriteString(albumStyle.Render(fmt.Sprintf("  ♪ %s", album)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.exportedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | %s of %s",
		m.exportedFiles,
		m.totalFiles,
		humanize.Bytes(uint64(m.exportedBytes)),
		humanize.Bytes(uint64(m.totalBytes)),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	title := "✨ Library organized!"
	if m.settings.Simulate {
		title = "✨ Simulation complete, nothing was changed"
	}

	return boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Albums: %d\n"+
			"Files: %d/%d\n"+
			"Renamed: %d\n"+
			"Size: %s\n"+
			"Target: %s",
		title,
		len(m.albums),
		m.exportedFiles,
		m.totalFiles,
		m.renamed,
		humanize.Bytes(uint64(m.exportedBytes)),
		m.targetPath(),
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case organize.LevelError:
			style = errorStyle
			prefix = "✗"
		case organize.LevelWarning:
			style = warningStyle
			prefix = "!"
		case organize.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case organize.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		if m.focus == focusOptions {
			return "enter: start • s: simulate • m: move • p: playlist • c: cover art • v: verbose • tab: edit paths • q/esc: quit"
		}
		return "enter: start • tab: next field • esc: quit"
	case StateScanning, StateExporting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// startScan creates the manager and scans the source directory.
func (m Model) startScan() tea.Cmd {
	settings := m.settings
	source := m.sourcePath()
	ctx := m.ctx
	events := m.events
	logger := m.logger

	return func() tea.Msg {
		manager := organize.NewManager(&settings, nil, logger, func(event organize.ProgressEvent) {
			select {
			case events <- event:
			default:
				// dropped when the UI falls behind
			}
		})

		if err := manager.Initialize(ctx, source); err != nil {
			return ScanDoneMsg{Err: err}
		}

		return ScanDoneMsg{
			Albums:  manager.GetAlbumNames(),
			Manager: manager,
		}
	}
}

// startExport runs the export in the background.
func (m Model) startExport() tea.Cmd {
	manager := m.manager
	target := m.targetPath()
	ctx := m.ctx

	return func() tea.Msg {
		if manager == nil {
			return ExportDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := manager.StartExport(ctx, target)
		exported, total, files, totalFiles := manager.GetProgress()

		return ExportDoneMsg{
			Exported: exported,
			Total:    total,
			Files:    files,
			TotalF:   totalFiles,
			Renamed:  manager.Renamed(),
			Err:      err,
		}
	}
}

// Run starts the TUI application.
func Run(source, target string, settings *config.Settings, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(source, target, settings, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
