package ui

import "strings"

// Theme is a named palette. Colors are ANSI-256 codes so both palettes work
// on ordinary terminals.
type Theme struct {
	Name    string
	Title   string
	Muted   string
	Accent  string
	Success string
	Error   string
	Pending string
	Border  string
}

var dark = Theme{
	Name:    "dark",
	Title:   "15",
	Muted:   "245",
	Accent:  "12",
	Success: "42",
	Error:   "9",
	Pending: "214",
	Border:  "8",
}

var light = Theme{
	Name:    "light",
	Title:   "0",
	Muted:   "243",
	Accent:  "27",
	Success: "28",
	Error:   "124",
	Pending: "130",
	Border:  "250",
}

// ForTheme resolves a theme name to its style set. Unknown names get dark.
func ForTheme(name string) Styles {
	return buildStyles(themeByName(name))
}

// ToggleTheme returns the other theme's name.
func ToggleTheme(name string) string {
	if themeByName(name).Name == "dark" {
		return "light"
	}
	return "dark"
}

func themeByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), "light") {
		return light
	}
	return dark
}
