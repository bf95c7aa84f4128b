// Package review is an interactive terminal browser over ranked postings.
package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobsift/internal/model"
)

// Lines per posting in the list view (title + subtitle + blank separator).
const postingItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	highScoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	lowScoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type reviewModel struct {
	heading       string
	postings      []model.PostingRecord
	highRelevance int // scores above this are highlighted
	cursor        int
	width         int
	height        int
	ready         bool

	list   viewport.Model
	detail viewport.Model
	view   viewState

	wantQuit bool
	openURL  func(string)
}

func newReviewModel(heading string, postings []model.PostingRecord, highRelevance int) reviewModel {
	return reviewModel{
		heading:       heading,
		postings:      postings,
		highRelevance: highRelevance,
		openURL:       openURL,
	}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m reviewModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "o":
		if len(m.postings) > 0 {
			m.openURL(m.postings[m.cursor].URL)
		}
		return m, nil
	case "enter":
		if len(m.postings) == 0 {
			return m, nil
		}
		m.view = viewDetail
		m.detail = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
		m.detail.SetContent(m.renderDetail())
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m reviewModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		m.openURL(m.postings[m.cursor].URL)
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *reviewModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.postings)-1, 0))
	m.list.SetContent(m.renderList())

	top := m.cursor * postingItemHeight
	bottom := top + postingItemHeight - 1
	if top < m.list.YOffset {
		m.list.SetYOffset(top)
	} else if bottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(bottom - m.list.Height + 1)
	}
}

func (m *reviewModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	w, h := max(m.width-2, 20), max(m.height-4, 5)
	if !m.ready {
		m.list = viewport.New(w, h)
		m.ready = true
	} else {
		m.list.Width, m.list.Height = w, h
	}
	m.list.SetContent(m.renderList())

	if m.view == viewDetail {
		m.detail.Width, m.detail.Height = max(m.width-4, 20), h
		m.detail.SetContent(m.renderDetail())
	}
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		title := detailTitleStyle.Render("Posting")
		status := statusBarStyle.Width(m.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")
		return title + "\n" + borderStyle.Width(m.width-2).Render(m.detail.View()) + "\n" + status
	}

	header := headerStyle.Render(fmt.Sprintf("%s (%d)", m.heading, len(m.postings)))
	pane := borderStyle.Width(m.list.Width).Render(m.list.View())
	status := statusBarStyle.Width(m.width).Render(fmt.Sprintf(
		" %d ranked | %d above %d    ↑/↓ cursor  Enter detail  o open  Esc back  q quit",
		len(m.postings), m.countHigh(), m.highRelevance))
	return header + "\n" + pane + "\n" + status
}

func (m reviewModel) countHigh() int {
	n := 0
	for _, p := range m.postings {
		if p.ScoreValue() > m.highRelevance {
			n++
		}
	}
	return n
}

func (m reviewModel) scoreBadge(p model.PostingRecord) string {
	s := fmt.Sprintf("[%+d]", p.ScoreValue())
	if p.ScoreValue() > m.highRelevance {
		return highScoreStyle.Render(s)
	}
	return lowScoreStyle.Render(s)
}

func (m reviewModel) renderList() string {
	if len(m.postings) == 0 {
		return "  (no postings)"
	}

	var b strings.Builder
	for i, p := range m.postings {
		titleSt, subtitleSt, prefix := titleStyle, subtitleStyle, "  "
		if i == m.cursor {
			titleSt, subtitleSt, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}

		b.WriteString(prefix)
		b.WriteString(m.scoreBadge(p) + " " + titleSt.Render(p.Title))
		b.WriteByte('\n')

		sub := p.Company
		if loc := location(p); loc != "" {
			sub += " · " + loc
		}
		if p.CompensationText != model.NoCompensation {
			sub += " · " + p.CompensationText
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(sub))
		b.WriteByte('\n')

		if i < len(m.postings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m reviewModel) renderDetail() string {
	p := m.postings[m.cursor]
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Rank", strconv.Itoa(m.cursor+1))
	addField("Score", m.scoreBadge(p))
	addField("Title", p.Title)
	addField("Company", p.Company)
	addField("Location", location(p))
	if p.CompensationText != model.NoCompensation {
		addField("Pay", p.CompensationText)
	}
	if !p.CaptureDate.IsZero() {
		addField("Captured", p.CaptureDate.Format("2006-01-02"))
	}
	addField("URL", p.URL)

	if p.Summary != "" {
		wrapWidth := max(m.width-8, 20)
		b.WriteByte('\n')
		b.WriteString(dividerStyle.Render("── Summary "+strings.Repeat("─", max(wrapWidth-11, 3))) + "\n\n")
		b.WriteString(wordWrap(p.Summary, wrapWidth) + "\n")
	}
	return b.String()
}

func location(p model.PostingRecord) string {
	if p.City == model.NoLocation || p.City == "" {
		return ""
	}
	return p.City + ", " + p.State
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunReviewTUI browses ranked postings full-screen. Postings scoring above
// highRelevance are highlighted. Returns wantQuit=true if the user pressed
// q/ctrl+c, false if they pressed esc to go back.
func RunReviewTUI(heading string, postings []model.PostingRecord, highRelevance int) (bool, error) {
	p := tea.NewProgram(newReviewModel(heading, postings, highRelevance), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	return result.(reviewModel).wantQuit, nil
}
