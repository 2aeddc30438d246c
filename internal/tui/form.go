package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// FormField indexes into the add form inputs
const (
	FormFieldName = iota
	FormFieldBaseURL
	FormFieldAuthToken
	FormFieldModel
	FormFieldCount
)

// FormData is the data collected from the add form
type FormData struct {
	Name      string
	BaseURL   string
	AuthToken string
	Model     string
}

var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	formFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

func formInputs() []textinput.Model {
	inputs := make([]textinput.Model, FormFieldCount)

	inputs[FormFieldName] = textinput.New()
	inputs[FormFieldName].Placeholder = "configuration name"
	inputs[FormFieldName].CharLimit = 50
	inputs[FormFieldName].Width = 40
	inputs[FormFieldName].Prompt = ""

	inputs[FormFieldBaseURL] = textinput.New()
	inputs[FormFieldBaseURL].Placeholder = "https://api.example.com"
	inputs[FormFieldBaseURL].CharLimit = 256
	inputs[FormFieldBaseURL].Width = 40
	inputs[FormFieldBaseURL].Prompt = ""

	inputs[FormFieldAuthToken] = textinput.New()
	inputs[FormFieldAuthToken].Placeholder = "auth token"
	inputs[FormFieldAuthToken].CharLimit = 256
	inputs[FormFieldAuthToken].Width = 40
	inputs[FormFieldAuthToken].EchoMode = textinput.EchoPassword
	inputs[FormFieldAuthToken].EchoCharacter = '•'
	inputs[FormFieldAuthToken].Prompt = ""

	inputs[FormFieldModel] = textinput.New()
	inputs[FormFieldModel].Placeholder = "model name (optional)"
	inputs[FormFieldModel].CharLimit = 128
	inputs[FormFieldModel].Width = 40
	inputs[FormFieldModel].Prompt = ""

	inputs[FormFieldName].Focus()
	return inputs
}

var formLabels = []string{"Name:", "Base URL:", "Auth Token:", "Model:"}

var formHints = []string{
	"unique name for this configuration",
	"API base URL",
	"authentication token",
	"optional model name",
}

// AddForm is the interactive creation wizard. The validate function runs
// on submit; a non-nil error keeps the form open with the message shown.
type AddForm struct {
	inputs    []textinput.Model
	focus     int
	errMsg    string
	validate  func(FormData) error
	submitted bool
	aborted   bool
}

// NewAddForm creates the add form with the given submit validator.
func NewAddForm(validate func(FormData) error) AddForm {
	return AddForm{
		inputs:   formInputs(),
		validate: validate,
	}
}

// Data extracts the current form values
func (f AddForm) Data() FormData {
	return FormData{
		Name:      strings.TrimSpace(f.inputs[FormFieldName].Value()),
		BaseURL:   strings.TrimSpace(f.inputs[FormFieldBaseURL].Value()),
		AuthToken: strings.TrimSpace(f.inputs[FormFieldAuthToken].Value()),
		Model:     strings.TrimSpace(f.inputs[FormFieldModel].Value()),
	}
}

// Init implements tea.Model
func (f AddForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (f AddForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			f.aborted = true
			return f, tea.Quit

		case "tab", "down":
			f.moveFocus(1)
			return f, nil

		case "shift+tab", "up":
			f.moveFocus(-1)
			return f, nil

		case "enter":
			if f.focus < FormFieldCount-1 {
				f.moveFocus(1)
				return f, nil
			}
			data := f.Data()
			if err := f.validate(data); err != nil {
				f.errMsg = err.Error()
				return f, nil
			}
			f.submitted = true
			return f, tea.Quit
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *AddForm) moveFocus(delta int) {
	f.errMsg = ""
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + FormFieldCount) % FormFieldCount
	f.inputs[f.focus].Focus()
}

// View implements tea.Model
func (f AddForm) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Add configuration"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n\n")

	for i, input := range f.inputs {
		label := formLabels[i]
		if i == f.focus {
			b.WriteString(formFocusedStyle.Render(label))
		} else {
			b.WriteString(formLabelStyle.Render(label))
		}
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n")

		if i == f.focus {
			b.WriteString(formLabelStyle.Render(""))
			b.WriteString(" ")
			b.WriteString(formHintStyle.Render(formHints[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if f.errMsg != "" {
		b.WriteString(errorStyle.Render("✗ " + f.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Tab/↓: next │ Shift+Tab/↑: previous │ Enter: confirm │ Esc: cancel"))
	return b.String()
}

// RunAddForm runs the wizard and returns the collected data. ok is false
// when the user canceled.
func RunAddForm(validate func(FormData) error) (FormData, bool, error) {
	program := tea.NewProgram(NewAddForm(validate))
	final, err := program.Run()
	if err != nil {
		return FormData{}, false, err
	}
	form, isForm := final.(AddForm)
	if !isForm || !form.submitted {
		return FormData{}, false, nil
	}
	return form.Data(), true, nil
}
