package editor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"voxdesk/internal/models"
)

// SubmitMsg is emitted when the user activates the change button.
type SubmitMsg struct {
	Model  string
	Config models.Config
}

// CloseMsg is emitted when the user leaves the editor.
type CloseMsg struct{}

// View is the bubbletea component for a Form. The cursor ranges over the
// rows plus the change button at the end.
type View struct {
	form   *Form
	cursor int
}

// NewView wraps form.
func NewView(form *Form) View {
	return View{form: form}
}

// Form returns the edited form.
func (v View) Form() *Form { return v.form }

func (v View) Init() tea.Cmd { return nil }

// Update handles navigation keys.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || v.form == nil {
		return v, nil
	}
	button := v.form.Len()
	switch key.String() {
	case "up", "k", "shift+tab":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j", "tab":
		if v.cursor < button {
			v.cursor++
		}
	case "left", "h":
		v.form.Cycle(v.cursor, -1)
	case "right", "l", " ":
		v.form.Cycle(v.cursor, 1)
	case "enter":
		if v.cursor == button {
			submit := SubmitMsg{Model: v.form.Model, Config: v.form.Payload()}
			return v, func() tea.Msg { return submit }
		}
		v.form.Cycle(v.cursor, 1)
	case "esc":
		return v, func() tea.Msg { return CloseMsg{} }
	}
	return v, nil
}

// View renders the dropdowns and the change button.
func (v View) View() string {
	if v.form == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Config for " + v.form.Model))
	b.WriteString("\n\n")
	if v.form.Len() == 0 {
		b.WriteString(hintStyle.Render("  this model has no configurable options"))
		b.WriteString("\n\n")
	}
	for _, r := range v.form.Rows() {
		style := optionStyle
		if r.Index == v.cursor {
			style = focusedOptionStyle
		}
		value := r.Value()
		if value == "" {
			value = "-"
		}
		pos := ""
		if n := len(r.Item.Options); n > 1 {
			pos = hintStyle.Render(fmt.Sprintf(" %d/%d", r.Selected+1, n))
		}
		line := lipgloss.JoinHorizontal(lipgloss.Center,
			labelStyle.Render(r.Item.Label()),
			style.Render("◀ "+value+" ▶"),
			pos,
		)
		b.WriteString(line)
		b.WriteString("\n")
	}
	btn := buttonStyle
	if v.cursor == v.form.Len() {
		btn = focusedButtonStyle
	}
	b.WriteString(btn.Render("Change Config"))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ move • ←/→ change • enter apply • esc close"))
	return b.String()
}
