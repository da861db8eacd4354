package utils

import "testing"

var locales = []string{"en", "he"}

func TestDetermineLocale_QueryParamWins(t *testing.T) {
	got := DetermineLocale("he-IL", "en-US,en;q=0.9,he;q=0.8", locales, "en")
	if got != "he" {
		t.Fatalf("want he, got %s", got)
	}
}

func TestDetermineLocale_UnsupportedQueryFallsThrough(t *testing.T) {
	got := DetermineLocale("fr", "he", locales, "en")
	if got != "he" {
		t.Fatalf("want he, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguageOrder(t *testing.T) {
	got := DetermineLocale("", "en-US,en;q=0.9,he;q=0.8", locales, "en")
	if got != "en" {
		t.Fatalf("want en, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguagePrefersHigherQ(t *testing.T) {
	got := DetermineLocale("", "en;q=0.8,he;q=0.9", locales, "en")
	if got != "he" {
		t.Fatalf("want he, got %s", got)
	}
}

func TestDetermineLocale_LegacyHebrewCode(t *testing.T) {
	got := DetermineLocale("", "iw", locales, "en")
	if got != "he" {
		t.Fatalf("want he, got %s", got)
	}
}

func TestDetermineLocale_DefaultFallback(t *testing.T) {
	got := DetermineLocale("", "fr-FR,es;q=0.9", locales, "en")
	if got != "en" {
		t.Fatalf("want en fallback, got %s", got)
	}
	got = DetermineLocale("", "garbage;;q=x", locales, "he")
	if got != "he" {
		t.Fatalf("want he fallback, got %s", got)
	}
}
