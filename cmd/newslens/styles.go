package main

import "github.com/charmbracelet/lipgloss"

// Colors used in terminal output.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorDanger    = lipgloss.Color("203") // Red
)

// titleStyle renders section headings.
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1)

// labelStyle renders metric labels.
var labelStyle = lipgloss.NewStyle().
	Foreground(colorSecondary)

// valueStyle renders metric values.
var valueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

// goodStyle renders healthy or positive values.
var goodStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorSuccess)

// warnStyle renders values needing attention.
var warnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWarning)

// badStyle renders unhealthy values and warnings.
var badStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorDanger)

// itemStyle renders list items such as recommendations and insights.
var itemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// scoreStyle picks a style for a [0, 1] score.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 0.6:
		return goodStyle
	case score >= 0.4:
		return warnStyle
	default:
		return badStyle
	}
}
