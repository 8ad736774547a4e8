package cmd

import "github.com/charmbracelet/lipgloss"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A7C080"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E67E80"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DBBC7F"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBBB3"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#384B55"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2EFDF"))
)
