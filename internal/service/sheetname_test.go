package service

import (
	"strings"
	"testing"
)

func TestWorksheetName(t *testing.T) {
	t.Run("Strips Forbidden Characters", func(t *testing.T) {
		got := worksheetName("My:Mix/2024", map[string]struct{}{})
		if got != "MyMix2024" {
			t.Errorf("expected MyMix2024, got %q", got)
		}
	})

	t.Run("Strips Whitespace Control Characters", func(t *testing.T) {
		got := worksheetName("a\tb\nc\rd", map[string]struct{}{})
		if got != "abcd" {
			t.Errorf("expected abcd, got %q", got)
		}
	})

	t.Run("Truncates To 31 Characters", func(t *testing.T) {
		got := worksheetName(strings.Repeat("a", 40), map[string]struct{}{})
		if got != strings.Repeat("a", 31) {
			t.Errorf("expected 31 a's, got %q (len %d)", got, len(got))
		}
	})

	t.Run("Truncates Before Stripping", func(t *testing.T) {
		// Strip runs on the truncated prefix, so the result may be shorter
		// than 31 characters.
		in := strings.Repeat("a:", 20)
		got := worksheetName(in, map[string]struct{}{})
		if got != strings.Repeat("a", 16) {
			t.Errorf("expected 16 a's, got %q", got)
		}
	})

	t.Run("Empty Result Uses Counter", func(t *testing.T) {
		got := worksheetName("???", map[string]struct{}{})
		if got != "0" {
			t.Errorf("expected 0, got %q", got)
		}
	})

	t.Run("Collision Uses Counter Not Suffix", func(t *testing.T) {
		used := map[string]struct{}{"Favorites": {}}
		got := worksheetName("Favorites", used)
		if got != "0" {
			t.Errorf("expected 0, got %q", got)
		}
	})

	t.Run("Counter Values Are Rechecked", func(t *testing.T) {
		used := map[string]struct{}{"Favorites": {}, "0": {}, "1": {}}
		got := worksheetName("Favorites", used)
		if got != "2" {
			t.Errorf("expected 2, got %q", got)
		}
	})

	t.Run("Empty Then Collision Keeps Incrementing", func(t *testing.T) {
		used := map[string]struct{}{"0": {}}
		got := worksheetName("[]", used)
		if got != "1" {
			t.Errorf("expected 1, got %q", got)
		}
	})

	t.Run("Multibyte Names Truncate By Rune", func(t *testing.T) {
		in := strings.Repeat("ä", 40)
		got := worksheetName(in, map[string]struct{}{})
		if got != strings.Repeat("ä", 31) {
			t.Errorf("expected 31 runes, got %q", got)
		}
	})
}
