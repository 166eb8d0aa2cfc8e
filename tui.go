package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hushtype/pipeline"
)

type StateMsg struct{ Change pipeline.StateChange }
type AudioLevelMsg struct{ Level float64 }
type TranscriptMsg struct{ Text string }
type DeviceLineMsg struct{ Text string }
type HotkeyLineMsg struct{ Text string }
type SilenceMsg struct{ Warned bool }
type LogMsg struct{ Text string }
type tickMsg time.Time

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleRec     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	styleBusy    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleErr     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	styleText    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleMeter   = lipgloss.NewStyle().Foreground(lipgloss.Color("47"))
)

type tuiModel struct {
	state      pipeline.State
	detail     string
	level      float64
	started    time.Time
	lastText   string
	lastLog    string
	deviceLine string
	hotkeyLine string
	silence    bool
	width      int
}

func NewTUIProgram() *tea.Program {
	return tea.NewProgram(tuiModel{state: pipeline.StateIdle}, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tickMsg:
		return m, tuiTick()

	case StateMsg:
		m.state = msg.Change.To
		m.detail = msg.Change.Detail
		if m.state == pipeline.StateRecording {
			m.started = time.Now()
			m.level = 0
			m.silence = false
		}

	case AudioLevelMsg:
		if m.state == pipeline.StateRecording {
			m.level = m.level*0.6 + msg.Level*0.4
		}

	case TranscriptMsg:
		m.lastText = msg.Text

	case DeviceLineMsg:
		m.deviceLine = msg.Text

	case HotkeyLineMsg:
		m.hotkeyLine = msg.Text

	case SilenceMsg:
		m.silence = msg.Warned

	case LogMsg:
		m.lastLog = msg.Text
	}
	return m, nil
}

func (m tuiModel) stateLine() string {
	switch m.state {
	case pipeline.StateRecording:
		dur := time.Since(m.started).Seconds()
		return styleRec.Render(fmt.Sprintf("● recording  %.1fs", dur))
	case pipeline.StateTranscribing:
		return styleBusy.Render("… transcribing")
	case pipeline.StateRouting:
		return styleBusy.Render("… routing")
	case pipeline.StateInjecting:
		return styleBusy.Render("… injecting")
	case pipeline.StateError:
		return styleErr.Render("✗ " + m.detail)
	default:
		return styleIdle.Render("○ idle")
	}
}

func (m tuiModel) meter() string {
	width := 30
	filled := int(m.level * float64(width) * 4)
	if filled > width {
		filled = width
	}
	return styleMeter.Render(strings.Repeat("█", filled)) +
		styleDim.Render(strings.Repeat("░", width-filled))
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("HushType") + "\n\n")
	b.WriteString(m.stateLine() + "\n")

	if m.state == pipeline.StateRecording {
		b.WriteString(m.meter() + "\n")
		if m.silence {
			b.WriteString(styleWarning.Render("no speech detected, still listening") + "\n")
		}
	}

	if m.lastText != "" {
		b.WriteString("\n" + styleText.Render(m.lastText) + "\n")
	}
	if m.lastLog != "" {
		b.WriteString("\n" + styleDim.Render(m.lastLog) + "\n")
	}

	b.WriteString("\n")
	if m.deviceLine != "" {
		b.WriteString(styleDim.Render(m.deviceLine) + "\n")
	}
	if m.hotkeyLine != "" {
		b.WriteString(styleDim.Render(m.hotkeyLine) + "\n")
	}
	b.WriteString(styleDim.Render("q to quit") + "\n")

	return b.String()
}

func logToTUI(format string, args ...interface{}) {
	tuiSend(LogMsg{Text: fmt.Sprintf(format, args...)})
}
