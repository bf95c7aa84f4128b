package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/amishk599/jobsift/internal/model"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// maxCell keeps long titles from blowing out the terminal width.
const maxCell = 48

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// renderTable prints ranked postings as a bordered table.
func renderTable(postings []model.PostingRecord) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("#", "Score", "Title", "Company", "Location", "Pay").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	for i, p := range postings {
		loc := ""
		if p.City != model.NoLocation {
			loc = p.City + ", " + p.State
		}
		pay := p.CompensationText
		if pay == model.NoCompensation {
			pay = ""
		}
		t.Row(
			strconv.Itoa(i+1),
			strconv.Itoa(p.ScoreValue()),
			truncate(p.Title, maxCell),
			truncate(p.Company, maxCell),
			loc,
			pay,
		)
	}
	return t.String()
}
