package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dracula" || names[1] != "Nord" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Nord]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Nord" {
		t.Fatalf("NextTheme(Dracula) = %q, want Nord", got)
	}
	if got := NextTheme("Nord"); got != "Dracula" {
		t.Fatalf("NextTheme(Nord) = %q, want Dracula", got)
	}
	if got := NextTheme("Unknown"); got != "Dracula" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dracula", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Nord").Name; got != "Nord" {
		t.Fatalf("GetTheme(Nord).Name = %q, want Nord", got)
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}

func TestCategoryStyleIsStable(t *testing.T) {
	styles := GetTheme("Dracula").Styles()

	a := styles.CategoryStyle("Humor").GetBackground()
	b := styles.CategoryStyle("Humor").GetBackground()
	if a != b {
		t.Fatalf("CategoryStyle(Humor) changed color between calls: %v vs %v", a, b)
	}

	empty := styles.CategoryStyle("").GetBackground()
	if empty == nil {
		t.Fatalf("CategoryStyle(\"\") has no background")
	}
}
