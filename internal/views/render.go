package views

import (
	"html"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
)

type AppData struct {
	Header       string
	Accent       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
)

func accentColor(accent string) lipgloss.Color {
	if accent == "" {
		return lipgloss.Color("12")
	}
	return lipgloss.Color(accent)
}

func RenderApp(data AppData) string {
	accent := accentColor(data.Accent)
	left := panelStyle.BorderForeground(accent).Width(58).Render(data.LeftPane)
	panes := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := panelStyle.Width(48).Render(data.RightPane)
		panes = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := statusStyle.Render(data.StatusLine)
	if data.StatusError {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render(data.Header),
		panes,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

var stripHTML = bluemonday.StrictPolicy()

// Sanitize removes any HTML from user text so it renders as plain markdown.
func Sanitize(text string) string {
	return html.UnescapeString(stripHTML.Sanitize(text))
}

// RenderMarkdown renders user markdown for the terminal in the given theme
// ("dark" or "light"). Rendering errors fall back to the sanitized source.
func RenderMarkdown(md, theme string) string {
	clean := strings.TrimSpace(Sanitize(md))
	if clean == "" {
		return ""
	}
	if theme != "light" {
		theme = "dark"
	}
	out, err := glamour.Render(clean, theme)
	if err != nil {
		return clean
	}
	return strings.TrimSpace(out)
}
