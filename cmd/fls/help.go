package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 2)
)

// drawBanner renders the logo shown above the usage text.
func drawBanner() string {
	logo := `
 ░█▀▀░█░░░█▀▀
 ░█▀▀░█░░░▀▀█
 ░▀░░░▀▀▀░▀▀▀`

	return bannerStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		logoStyle.Render(logo),
		taglineStyle.Render("natural-order directory listings "+version),
	))
}
