package tui

import (
	"errors"
	"fmt"

	"autocommiter/internal/models"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrNoSelection = errors.New("no model selected")

type modelItem struct {
	info    models.ModelInfo
	current bool
}

func (i modelItem) Title() string {
	if i.current {
		return "→ " + i.info.DisplayName()
	}
	return i.info.DisplayName()
}

func (i modelItem) Description() string {
	if i.info.Summary == "" {
		return i.info.ID
	}
	return fmt.Sprintf("%s · %s", i.info.ID, i.info.Summary)
}

func (i modelItem) FilterValue() string { return i.info.ID + " " + i.info.DisplayName() }

type pickerModel struct {
	list     list.Model
	selected string
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if i, ok := m.list.SelectedItem().(modelItem); ok {
				m.selected = i.info.ID
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View()
}

func newPickerModel(available []models.ModelInfo, current string) pickerModel {
	items := make([]list.Item, len(available))
	cursor := 0
	for idx, info := range available {
		items[idx] = modelItem{info: info, current: info.ID == current}
		if info.ID == current {
			cursor = idx
		}
	}

	l := list.New(items, list.NewDefaultDelegate(), 60, 20)
	l.Title = "Select a model"
	l.Styles.Title = titleStyle
	l.Select(cursor)

	return pickerModel{list: l}
}

// PickModel lets the user choose one of available and returns its id.
func PickModel(available []models.ModelInfo, current string) (string, error) {
	p := tea.NewProgram(newPickerModel(available, current), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run model picker: %w", err)
	}
	if m, ok := final.(pickerModel); ok && m.selected != "" {
		return m.selected, nil
	}
	return "", ErrNoSelection
}
