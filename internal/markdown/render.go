package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rogersnm/doctag/internal/model"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	templateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

// RenderTags joins tags with the query delimiter, each one highlighted.
func RenderTags(tags []string) string {
	if len(tags) == 0 {
		return labelStyle.Render("(none)")
	}
	styled := make([]string, len(tags))
	for i, t := range tags {
		styled[i] = tagStyle.Render(t)
	}
	return strings.Join(styled, model.Delimiter)
}

func RenderEntityHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}

// RenderDocumentHeader is the summary block printed above a document's comment.
func RenderDocumentHeader(d model.Document) string {
	docID := "pending"
	if d.Committed() {
		docID = fmt.Sprintf("%d", d.ID)
	}
	return RenderEntityHeader(d.FileName, []string{
		RenderField("ID", docID),
		RenderField("Tags", RenderTags(d.Tags)),
		RenderField("File", d.FilePath),
	})
}

// DocumentMarkdown renders the comment of d as a markdown section, ready
// for RenderMarkdown.
func DocumentMarkdown(d model.Document) string {
	if strings.TrimSpace(d.Comment) == "" {
		return "_No comment._\n"
	}
	return "## Comment\n\n" + d.Comment + "\n"
}

// RenderWarning styles a message for stderr.
func RenderWarning(msg string) string {
	return warnStyle.Render(msg)
}
