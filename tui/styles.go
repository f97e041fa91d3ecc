package tui

import "github.com/charmbracelet/lipgloss"

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Foreground  = lipgloss.Color("#f8f8f2")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Green       = lipgloss.Color("#50fa7b")
	Orange      = lipgloss.Color("#ffb86c")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
	Yellow      = lipgloss.Color("#f1fa8c")
)

var (
	titleStyle       = lipgloss.NewStyle().Foreground(Purple).Bold(true).Padding(0, 1)
	activeTabStyle   = lipgloss.NewStyle().Background(CurrentLine).Foreground(Pink).Bold(true).Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(Comment).Padding(0, 2)
	labelStyle       = lipgloss.NewStyle().Foreground(Comment).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(Comment)
	errorStyle       = lipgloss.NewStyle().Foreground(Red)
	loadingStyle     = lipgloss.NewStyle().Foreground(Yellow)
	sectionStyle     = lipgloss.NewStyle().Background(Background).Foreground(Foreground).Padding(1).MarginTop(1)
	summaryStyle     = sectionStyle.Foreground(Cyan)
	keywordStyle     = lipgloss.NewStyle().Foreground(Green)
	linkStyle        = lipgloss.NewStyle().Foreground(Orange).Underline(true)
	selectedStyle    = lipgloss.NewStyle().Foreground(Pink).Bold(true)
	cardStyle        = lipgloss.NewStyle().PaddingLeft(2)
)
