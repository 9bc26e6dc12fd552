package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	statsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7C3AED"))
	inactiveTab   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#9CA3AF"))
	metaStyle     = lipgloss.NewStyle().Faint(true)
	emptyStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	counterStyles = map[counterLevel]lipgloss.Style{
		counterNeutral: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		counterWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		counterDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")),
	}
)
