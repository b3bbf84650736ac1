package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	value    lipgloss.Style
	event    lipgloss.Style
	release  lipgloss.Style
	selected lipgloss.Style
	failure  lipgloss.Style
	help     lipgloss.Style
}

// newStyles returns plain styles unless color output is wanted.
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{
			title:    plain,
			value:    plain,
			event:    plain,
			release:  plain,
			selected: plain,
			failure:  plain,
			help:     plain,
		}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")),
		event: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")),
		release: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")),
		failure: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}
