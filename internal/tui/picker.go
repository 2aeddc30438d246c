package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// PickerItem is one selectable row.
type PickerItem struct {
	Name   string
	Detail string
	Active bool
}

// Picker is a list selection model. The cursor moves with j/k or arrows;
// typing digits builds a 1-based ordinal that Enter resolves, matching the
// numeric-entry fallback of the non-interactive path.
type Picker struct {
	title   string
	items   []PickerItem
	cursor  int
	numeric string
	errMsg  string
	choice  int
	aborted bool
}

// NewPicker creates a picker over items, cursor on the active item if any.
func NewPicker(title string, items []PickerItem) Picker {
	cursor := 0
	for i, item := range items {
		if item.Active {
			cursor = i
			break
		}
	}
	return Picker{
		title:  title,
		items:  items,
		cursor: cursor,
		choice: -1,
	}
}

// Init implements tea.Model
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		p.aborted = true
		return p, tea.Quit

	case "up", "k":
		p.errMsg = ""
		if p.cursor > 0 {
			p.cursor--
		}

	case "down", "j":
		p.errMsg = ""
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}

	case "backspace":
		if len(p.numeric) > 0 {
			p.numeric = p.numeric[:len(p.numeric)-1]
		}

	case "enter":
		if p.numeric != "" {
			ordinal, err := strconv.Atoi(p.numeric)
			if err != nil || ordinal < 1 || ordinal > len(p.items) {
				p.errMsg = fmt.Sprintf("'%s' is out of range, valid range is 1-%d", p.numeric, len(p.items))
				p.numeric = ""
				return p, nil
			}
			p.choice = ordinal - 1
			return p, tea.Quit
		}
		p.choice = p.cursor
		return p, tea.Quit

	default:
		if len(keyMsg.String()) == 1 && keyMsg.String() >= "0" && keyMsg.String() <= "9" {
			p.errMsg = ""
			p.numeric += keyMsg.String()
		}
	}
	return p, nil
}

// View implements tea.Model
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.title))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", 50)))
	b.WriteString("\n\n")

	for i, item := range p.items {
		cursor := "  "
		if i == p.cursor {
			cursor = "> "
		}
		activeMarker := "  "
		if item.Active {
			activeMarker = "* "
		}

		line := fmt.Sprintf("%s%s%d. %s", cursor, activeMarker, i+1, item.Name)
		if item.Detail != "" {
			line += "  " + dimStyle.Render(item.Detail)
		}

		switch {
		case i == p.cursor:
			b.WriteString(selectedStyle.Render(line))
		case item.Active:
			b.WriteString(activeStyle.Render(line))
		default:
			b.WriteString(normalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if p.numeric != "" {
		b.WriteString("\n")
		b.WriteString(normalStyle.Render("Select: " + p.numeric))
		b.WriteString("\n")
	}
	if p.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + p.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/↓: down │ k/↑: up │ 1-9: pick by number │ Enter: select │ q: quit"))
	return b.String()
}

// Choice returns the selected index, or -1 when the picker was aborted.
func (p Picker) Choice() int {
	if p.aborted {
		return -1
	}
	return p.choice
}

// RunPicker runs the picker and returns the selected index, or -1 when
// the user quit without selecting.
func RunPicker(title string, items []PickerItem) (int, error) {
	program := tea.NewProgram(NewPicker(title, items))
	final, err := program.Run()
	if err != nil {
		return -1, err
	}
	picker, ok := final.(Picker)
	if !ok {
		return -1, fmt.Errorf("unexpected picker model type")
	}
	return picker.Choice(), nil
}
