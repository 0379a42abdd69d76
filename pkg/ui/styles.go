package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/botprobe/botprobe/pkg/scoring"
)

// Color palette
var (
	// Brand colors
	Primary   = lipgloss.Color("#7D56F4") // Purple
	Secondary = lipgloss.Color("#00D4AA") // Teal

	// Risk level colors
	High   = lipgloss.Color("#FF3838") // Red
	Medium = lipgloss.Color("#FFD93D") // Yellow
	Low    = lipgloss.Color("#6BCB77") // Green

	// Status colors
	Success = lipgloss.Color("#00D26A")
	Warning = lipgloss.Color("#FFB800")
	Error   = lipgloss.Color("#FF3838")
	Muted   = lipgloss.Color("#6B7280")
)

// Pre-configured styles
var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	VersionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true).
			MarginTop(1)

	ConfigLabelStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Width(15)

	ConfigValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	FailStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(Muted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	URLStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Underline(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Primary)
)

// RiskStyle returns the badge style for a risk level
func RiskStyle(level scoring.Level) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch level {
	case scoring.LevelHigh:
		return base.Foreground(lipgloss.Color("#FFFFFF")).Background(High)
	case scoring.LevelMedium:
		return base.Foreground(lipgloss.Color("#000000")).Background(Medium)
	case scoring.LevelLow:
		return base.Foreground(lipgloss.Color("#000000")).Background(Low)
	default:
		return base.Foreground(Muted)
	}
}

// RiskBadge renders the level label, e.g. " HIGH ".
func RiskBadge(level scoring.Level) string {
	return RiskStyle(level).Render(level.Label())
}

// ScoreStyle colors a numeric score by the level it maps to
func ScoreStyle(score int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch scoring.LevelFor(score) {
	case scoring.LevelHigh:
		return base.Foreground(High)
	case scoring.LevelMedium:
		return base.Foreground(Medium)
	default:
		return base.Foreground(Low)
	}
}
