package ui

import "testing"

func TestToggleTheme(t *testing.T) {
	if ToggleTheme("dark") != "light" || ToggleTheme("light") != "dark" {
		t.Fatal("toggle should flip between dark and light")
	}
	if ToggleTheme("") != "light" {
		t.Fatal("unknown names resolve to dark, so toggling yields light")
	}
}

func TestForThemeFallsBackToDark(t *testing.T) {
	// unknown names must still produce a usable style set
	s := ForTheme("neon")
	if s.Title.GetBold() != true {
		t.Fatal("title style should be bold")
	}
}
