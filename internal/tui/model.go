// Package tui is the interactive terminal front end: record button, playback,
// transcript area and the model config editor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"voxdesk/internal/audio"
	"voxdesk/internal/controller"
	"voxdesk/internal/editor"
	"voxdesk/internal/history"
	"voxdesk/internal/models"
	"voxdesk/internal/notify"
)

const (
	msgConfigError   = "Error fetching model config."
	msgChangeOK      = "Model config changed successfully!"
	msgChangeFailed  = "Error changing model config."
	msgModelsFailed  = "Could not load model names."
	msgTranscribing  = "Transcribing..."
	msgNoMicrophone  = "Microphone unavailable or permission denied."
	msgNothingToPlay = "Nothing recorded yet."
)

// ModelService is the subset of models.Client the UI needs.
type ModelService interface {
	ListModels(ctx context.Context) ([]string, error)
	CurrentModel(ctx context.Context) (string, error)
	GetConfig(ctx context.Context, model string) (models.Config, error)
	SetConfig(ctx context.Context, model string, cfg models.Config) error
}

// Toggler is the subset of controller.Controller the UI drives.
type Toggler interface {
	Toggle(ctx context.Context) error
	Play(ctx context.Context) error
}

// Deps are the collaborators of the UI.
type Deps struct {
	Controller Toggler
	Models     ModelService
	Notify     *notify.Service
	History    *history.Log
	Selection  *Selection
	Logger     *logrus.Logger
	// Backend is shown in the header.
	Backend     string
	HistoryTail int
}

type focusArea int

const (
	focusControls focusArea = iota
	focusModels
	focusEditor
)

// Model is the bubbletea model of the main screen.
type Model struct {
	ctx  context.Context
	deps Deps

	width   int
	spinner spinner.Model
	focus   focusArea

	recState     controller.State
	playEnabled  bool
	transcribing bool
	transcript   string

	modelNames   []string
	modelIndex   int
	currentModel string

	latest        *models.Latest
	loadingConfig bool
	configModel   string
	configErr     string
	editor        *editor.View
	changing      bool

	status    string
	statusErr bool

	permReply chan notify.Permission
}

// New returns the main screen model.
func New(ctx context.Context, deps Deps) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	if deps.Selection == nil {
		deps.Selection = &Selection{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return Model{
		ctx:     ctx,
		deps:    deps,
		spinner: sp,
		latest:  &models.Latest{},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadModels,
		m.loadCurrentModel,
	)
}

func (m Model) busy() bool {
	return m.transcribing || m.loadingConfig || m.changing
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case recStateMsg:
		m.recState = msg.state

	case playEnabledMsg:
		m.playEnabled = msg.enabled

	case transcribingMsg:
		m.transcribing = true
		m.transcript = msgTranscribing
		return m, m.spinner.Tick

	case transcriptMsg:
		m.transcribing = false
		m.transcript = msg.text

	case toggleDoneMsg:
		if msg.err != nil {
			m.deps.Logger.Errorf("record: %v", msg.err)
			if errors.Is(msg.err, audio.ErrPermission) {
				m.setStatus(msgNoMicrophone, true)
			} else {
				m.setStatus("Recording failed: "+msg.err.Error(), true)
			}
		}

	case playDoneMsg:
		if msg.err != nil {
			m.deps.Logger.Warnf("play: %v", msg.err)
			if errors.Is(msg.err, controller.ErrNothingToPlay) {
				m.setStatus(msgNothingToPlay, true)
			} else {
				m.setStatus("Playback failed: "+msg.err.Error(), true)
			}
		}

	case modelsLoadedMsg:
		if msg.err != nil {
			m.deps.Logger.Errorf("Error fetching model names: %v", msg.err)
			m.setStatus(msgModelsFailed, true)
			break
		}
		m.modelNames = msg.names
		m.modelIndex = 0
		for i, n := range m.modelNames {
			if n == m.currentModel {
				m.modelIndex = i
			}
		}
		m.syncSelection()

	case currentModelMsg:
		if msg.err != nil {
			m.deps.Logger.Debugf("current model: %v", msg.err)
			break
		}
		m.currentModel = msg.name
		for i, n := range m.modelNames {
			if n == msg.name {
				m.modelIndex = i
			}
		}
		m.syncSelection()

	case configLoadedMsg:
		msg.ticket.Done()
		if !msg.ticket.Current() {
			m.deps.Logger.Debugf("discarding stale config for %s", msg.model)
			break
		}
		m.loadingConfig = false
		m.configModel = msg.model
		if msg.err != nil {
			m.deps.Logger.Errorf("Error fetching model config: %v", msg.err)
			m.configErr = msgConfigError
			m.editor = nil
			if m.focus == focusEditor {
				m.focus = focusModels
			}
			break
		}
		m.configErr = ""
		v := editor.NewView(editor.NewForm(msg.model, msg.cfg))
		m.editor = &v
		m.focus = focusEditor

	case editor.SubmitMsg:
		m.changing = true
		return m, tea.Batch(m.spinner.Tick, m.changeConfig(msg.Model, msg.Config))

	case editor.CloseMsg:
		m.focus = focusModels

	case configChangedMsg:
		m.changing = false
		if msg.err != nil {
			m.deps.Logger.Errorf("Error changing model config: %v", msg.err)
			m.setStatus(msgChangeFailed, true)
			m.notify(msgChangeFailed, notify.KindError)
		} else {
			m.currentModel = msg.model
			m.setStatus(msgChangeOK, false)
			m.notify(msgChangeOK, notify.KindSuccess)
		}

	case permissionAskMsg:
		if m.permReply != nil {
			msg.reply <- notify.Default
			break
		}
		m.permReply = msg.reply
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.permReply != nil {
		switch key {
		case "y", "Y":
			m.permReply <- notify.Granted
			m.permReply = nil
		case "n", "N", "esc":
			m.permReply <- notify.Denied
			m.permReply = nil
		}
		return m, nil
	}
	if m.focus == focusEditor && m.editor != nil {
		v, cmd := m.editor.Update(msg)
		m.editor = &v
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "r", " ":
		return m, m.toggle
	case "p":
		if !m.playEnabled {
			return m, nil
		}
		return m, m.play
	case "tab":
		if m.focus == focusControls {
			m.focus = focusModels
		} else {
			m.focus = focusControls
		}
	case "e":
		if m.editor != nil {
			m.focus = focusEditor
		}
	case "up", "k":
		if m.focus == focusModels && m.modelIndex > 0 {
			m.modelIndex--
			m.syncSelection()
		}
	case "down", "j":
		if m.focus == focusModels && m.modelIndex < len(m.modelNames)-1 {
			m.modelIndex++
			m.syncSelection()
		}
	case "g", "enter":
		if m.focus != focusModels || len(m.modelNames) == 0 {
			return m, nil
		}
		m.loadingConfig = true
		ticket := m.latest.Begin(m.ctx)
		return m, tea.Batch(m.spinner.Tick, m.fetchConfig(ticket, m.modelNames[m.modelIndex]))
	}
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) syncSelection() {
	if m.modelIndex < len(m.modelNames) {
		m.deps.Selection.Set(m.modelNames[m.modelIndex])
	}
}

func (m Model) notify(message string, kind notify.Kind) {
	if m.deps.Notify != nil {
		m.deps.Notify.Notify(m.ctx, message, kind)
	}
}

func (m Model) toggle() tea.Msg {
	return toggleDoneMsg{err: m.deps.Controller.Toggle(m.ctx)}
}

func (m Model) play() tea.Msg {
	return playDoneMsg{err: m.deps.Controller.Play(m.ctx)}
}

func (m Model) loadModels() tea.Msg {
	names, err := m.deps.Models.ListModels(m.ctx)
	return modelsLoadedMsg{names: names, err: err}
}

func (m Model) loadCurrentModel() tea.Msg {
	name, err := m.deps.Models.CurrentModel(m.ctx)
	return currentModelMsg{name: name, err: err}
}

func (m Model) fetchConfig(ticket *models.Ticket, model string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := m.deps.Models.GetConfig(ticket.Ctx, model)
		return configLoadedMsg{ticket: ticket, model: model, cfg: cfg, err: err}
	}
}

func (m Model) changeConfig(model string, cfg models.Config) tea.Cmd {
	return func() tea.Msg {
		return configChangedMsg{model: model, err: m.deps.Models.SetConfig(m.ctx, model, cfg)}
	}
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(logoStyle.Render("voxdesk"))
	if m.deps.Backend != "" {
		b.WriteString(mutedStyle.Render("  " + m.deps.Backend))
	}
	b.WriteString("\n")

	b.WriteString(m.renderControls())
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Transcript"))
	b.WriteString("\n")
	text := m.transcript
	if m.transcribing {
		text = m.spinner.View() + " " + text
	}
	b.WriteString(transcriptStyle.Render(text))
	b.WriteString("\n")

	b.WriteString(m.renderModels())
	b.WriteString(m.renderConfig())
	b.WriteString(m.renderHistory())

	if m.permReply != nil {
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("Allow desktop notifications? [y/n]"))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("r record/stop • p play • tab models • g get config • e edit • q quit"))
	return b.String()
}

func (m Model) renderControls() string {
	rec := buttonStyle
	if m.recState == controller.Recording {
		rec = recordingButtonStyle
	}
	play := buttonStyle
	if !m.playEnabled {
		play = disabledButtonStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		rec.Render(m.recState.Label()),
		" ",
		play.Render("Play"),
	)
}

func (m Model) renderModels() string {
	var b strings.Builder
	title := "Models"
	if m.currentModel != "" {
		title += mutedStyle.Render(" (server: " + m.currentModel + ")")
	}
	b.WriteString(sectionStyle.Render(title))
	b.WriteString("\n")
	if len(m.modelNames) == 0 {
		b.WriteString(mutedStyle.Render("  no models"))
		b.WriteString("\n")
		return b.String()
	}
	for i, name := range m.modelNames {
		if i == m.modelIndex {
			marker := "  "
			if m.focus == focusModels {
				marker = "▶ "
			}
			b.WriteString(selectedModelItemStyle.Render(marker + name))
		} else {
			b.WriteString(modelItemStyle.Render("  " + name))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderConfig() string {
	switch {
	case m.loadingConfig:
		return m.spinner.View() + " loading config\n"
	case m.configErr != "":
		return statusErrorStyle.Render(m.configErr) + "\n"
	case m.editor != nil:
		out := "\n" + m.editor.View() + "\n"
		if m.changing {
			out += m.spinner.View() + " applying\n"
		}
		return out
	}
	return ""
}

func (m Model) renderHistory() string {
	if m.deps.History == nil {
		return ""
	}
	recent := m.deps.History.Recent()
	if len(recent) == 0 {
		return ""
	}
	tail := m.deps.HistoryTail
	if tail <= 0 || tail > len(recent) {
		tail = len(recent)
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Recent"))
	b.WriteString("\n")
	for _, t := range recent[len(recent)-tail:] {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  ", t.Timestamp.Format("15:04:05"))))
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	return b.String()
}
