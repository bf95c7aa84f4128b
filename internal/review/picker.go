package review

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobsift/internal/store"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

const (
	noChoice = -1
	quit     = -2
)

type pickerModel struct {
	runs   []store.RunInfo
	cursor int
	chosen int
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.chosen = quit
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.runs)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.runs) > 0 {
				m.chosen = m.cursor
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func runLabel(r store.RunInfo) string {
	return fmt.Sprintf("%s  %3d postings  %s", r.At.Local().Format("Mon Jan 02 15:04"), r.Count, r.ID[:min(8, len(r.ID))])
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Results sheet: select a run")
	s += "\n"

	if len(m.runs) == 0 {
		s += pickerItemStyle.Render("(no runs recorded yet)") + "\n"
	}
	for i, r := range m.runs {
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+runLabel(r)) + "\n"
		} else {
			s += pickerItemStyle.Render(runLabel(r)) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunPicker shows an interactive run selector.
// Returns the index of the chosen run, or -1 if the user quit.
func RunPicker(runs []store.RunInfo) (int, error) {
	p := tea.NewProgram(pickerModel{runs: runs, chosen: noChoice})
	result, err := p.Run()
	if err != nil {
		return -1, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return -1, nil
	}
	return final.chosen, nil
}
