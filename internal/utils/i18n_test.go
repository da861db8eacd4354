package utils

import "testing"

func TestT_Fallback(t *testing.T) {
	if got := T("fr", MsgSurveyNotFound); got != "Survey not found" {
		t.Fatalf("fallback to en failed: %s", got)
	}
	if got := T("he", "no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown key should echo, got %s", got)
	}
}

func TestT_EveryKeyTranslated(t *testing.T) {
	for key := range translations["en"] {
		if _, ok := translations["he"][key]; !ok {
			t.Errorf("missing he translation for %s", key)
		}
	}
}
