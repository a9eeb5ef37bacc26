package ui

import "github.com/charmbracelet/lipgloss"

// Lipgloss styles shared across screens
var (
	DocStyle      = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	PromptStyle   = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	NoticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	SystemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	DepartedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	CanvasDotStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	CanvasCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
)

// HostIcon 房主标识
const HostIcon = "👑"

// markerStyle builds a style from a player's server-assigned color.
// 服务端下发十六进制颜色，空值退化为默认前景色。
func markerStyle(color string) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle().Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// TruncateName truncates a player name to the specified maximum length.
func TruncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) > maxLen {
		return string(runes[:maxLen-1]) + "…"
	}
	return name
}
