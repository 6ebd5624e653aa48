package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rogersnm/doctag/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

const maxCommentWidth = 40

func RenderDocumentTable(docs []model.Document) string {
	if len(docs) == 0 {
		return "No documents found."
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{fmt.Sprintf("%d", d.ID), d.FileName, model.JoinTags(d.Tags), summarize(d.Comment)}
	}
	return renderTable([]string{"ID", "Name", "Tags", "Comment"}, rows)
}

// RenderPendingTable lists staged documents by their position in the batch.
func RenderPendingTable(docs []model.Document) string {
	if len(docs) == 0 {
		return "No documents staged."
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		rows[i] = []string{fmt.Sprintf("%d", i+1), d.FileName, model.JoinTags(d.Tags), summarize(d.Comment), d.FilePath}
	}
	return renderTable([]string{"#", "Name", "Tags", "Comment", "Source"}, rows)
}

func RenderTagTable(cfg model.TagConfig) string {
	tags := cfg.SortedTags()
	if len(tags) == 0 {
		return "No tags defined."
	}
	rows := make([][]string, len(tags))
	for i, t := range tags {
		rows[i] = []string{tagStyle.Render(t)}
	}
	return renderTable([]string{"Tag"}, rows)
}

func RenderTemplateTable(cfg model.TagConfig) string {
	names := cfg.TemplateNames()
	if len(names) == 0 {
		return "No templates defined."
	}
	rows := make([][]string, len(names))
	for i, n := range names {
		rows[i] = []string{templateStyle.Render(n), model.JoinTags(cfg.Templates[n])}
	}
	return renderTable([]string{"Template", "Tags"}, rows)
}

// summarize returns the first line of s, cut to maxCommentWidth runes.
func summarize(s string) string {
	line, _, more := strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(line)
	if len(r) > maxCommentWidth {
		return string(r[:maxCommentWidth-1]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
