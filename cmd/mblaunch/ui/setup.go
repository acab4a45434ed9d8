package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mblaunch/internal/config"
)

// field describes one credential prompt.
type field struct {
	key      string
	label    string
	help     string
	secret   bool
	validate func(string) error
}

func setupFields() []field {
	return []field{
		{
			key:      "MANAGEBAC_URL",
			label:    "ManageBac URL",
			help:     "e.g. https://myschool.managebac.cn",
			validate: ValidateURL,
		},
		{
			key:      "MANAGEBAC_EMAIL",
			label:    "Login email",
			help:     "the address you use to sign in to ManageBac",
			validate: ValidateEmail,
		},
		{
			key:      "MANAGEBAC_PASSWORD",
			label:    "Password",
			help:     "stored locally in the .env file only",
			secret:   true,
			validate: ValidatePassword,
		},
	}
}

// ValidateURL rejects empty, placeholder and non-ManageBac values.
func ValidateURL(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("the URL is required")
	}
	if config.IsPlaceholder(value) {
		return fmt.Errorf("replace the example URL with your school's address")
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return fmt.Errorf("the URL must start with https://")
	}
	if !strings.Contains(value, "managebac.") {
		return fmt.Errorf("expected a managebac.cn or managebac.com address")
	}
	return nil
}

// ValidateEmail is a shape check only; the checker finds out for real at
// login time.
func ValidateEmail(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("the email is required")
	}
	if config.IsPlaceholder(value) {
		return fmt.Errorf("replace the example email with your own")
	}
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return fmt.Errorf("that does not look like an email address")
	}
	return nil
}

// ValidatePassword rejects empty and placeholder values.
func ValidatePassword(value string) error {
	if value == "" {
		return fmt.Errorf("the password is required")
	}
	if config.IsPlaceholder(value) {
		return fmt.Errorf("replace the example password with your own")
	}
	return nil
}

// SetupModel is the bubbletea model for the credential wizard.
type SetupModel struct {
	fields []field
	inputs []textinput.Model
	styles Styles

	focus   int
	errMsg  string
	done    bool
	aborted bool
}

// NewSetup builds the wizard, optionally pre-filling from an existing
// (possibly partial) document.
func NewSetup(existing map[string]string) SetupModel {
	fields := setupFields()
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.help
		ti.CharLimit = 256
		ti.Width = 48
		if f.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		if value, ok := existing[f.key]; ok && !config.IsPlaceholder(value) {
			ti.SetValue(value)
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	return SetupModel{
		fields: fields,
		inputs: inputs,
		styles: DefaultStyles(),
	}
}

func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit

		case tea.KeyEnter:
			if err := m.fields[m.focus].validate(m.inputs[m.focus].Value()); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.errMsg = ""
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			return m.setFocus(m.focus + 1)

		case tea.KeyTab, tea.KeyDown:
			return m.setFocus((m.focus + 1) % len(m.inputs))

		case tea.KeyShiftTab, tea.KeyUp:
			return m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m SetupModel) setFocus(i int) (SetupModel, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.errMsg = ""
	return m, m.inputs[i].Focus()
}

func (m SetupModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("ManageBac checker setup"))
	b.WriteString("\n")

	for i, f := range m.fields {
		b.WriteString(m.styles.Label.Render(f.label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("enter: next  tab/↑↓: move  esc: cancel"))
	b.WriteString("\n")

	return m.styles.Box.Render(b.String())
}

// Aborted reports whether the user cancelled the wizard.
func (m SetupModel) Aborted() bool { return m.aborted }

// Done reports whether every field passed validation.
func (m SetupModel) Done() bool { return m.done }

// Values returns the entered credentials keyed for the .env file.
func (m SetupModel) Values() map[string]string {
	values := make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		value := m.inputs[i].Value()
		if !f.secret {
			value = strings.TrimSpace(value)
		}
		values[f.key] = value
	}
	return values
}

// RunSetup runs the wizard on the user's terminal and returns the
// entered values. ok=false means the user cancelled.
func RunSetup(existing map[string]string) (values map[string]string, ok bool, err error) {
	program := tea.NewProgram(NewSetup(existing))
	final, err := program.Run()
	if err != nil {
		return nil, false, fmt.Errorf("setup wizard: %w", err)
	}
	model := final.(SetupModel)
	if model.Aborted() || !model.Done() {
		return nil, false, nil
	}
	return model.Values(), true, nil
}
