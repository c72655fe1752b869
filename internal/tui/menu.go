package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const listHeight = 14

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

// Action is the user's answer to a generated message.
type Action int

const (
	ActionCancel Action = iota
	ActionCommit
	ActionCopy
	ActionRegenerate
)

func (a Action) String() string {
	switch a {
	case ActionCommit:
		return "commit"
	case ActionCopy:
		return "copy"
	case ActionRegenerate:
		return "regenerate"
	default:
		return "cancel"
	}
}

type actionItem struct {
	title  string
	action Action
}

func (i actionItem) FilterValue() string { return i.title }

func menuItems(push bool) []list.Item {
	commit := "✅ Commit this"
	if push {
		commit = "✅ Commit and push"
	}
	return []list.Item{
		actionItem{title: commit, action: ActionCommit},
		actionItem{title: "📋 Copy to clipboard and exit", action: ActionCopy},
		actionItem{title: "🔄 Regenerate", action: ActionRegenerate},
		actionItem{title: "❌ Cancel", action: ActionCancel},
	}
}

type actionDelegate struct{}

func (d actionDelegate) Height() int                             { return 1 }
func (d actionDelegate) Spacing() int                            { return 0 }
func (d actionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d actionDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(actionItem)
	if !ok {
		return
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(i.title))
}

type menuModel struct {
	list    list.Model
	message string
	choice  Action
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.choice = ActionCancel
			return m, tea.Quit

		case "enter":
			if i, ok := m.list.SelectedItem().(actionItem); ok {
				m.choice = i.action
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m menuModel) View() string {
	return fmt.Sprintf("%s\n\n%s", messageStyle.Render(m.message), m.list.View())
}

func newMenuModel(message string, push bool) menuModel {
	const defaultWidth = 40

	l := list.New(menuItems(push), actionDelegate{}, defaultWidth, listHeight)
	l.Title = "What do you want to do with this message?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return menuModel{list: l, message: message, choice: ActionCancel}
}

// Confirm shows message with the action menu and returns the chosen action.
// Quitting the menu counts as cancel.
func Confirm(message string, push bool) (Action, error) {
	p := tea.NewProgram(newMenuModel(message, push), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return ActionCancel, fmt.Errorf("failed to run confirmation menu: %w", err)
	}
	if m, ok := final.(menuModel); ok {
		return m.choice, nil
	}
	return ActionCancel, nil
}
