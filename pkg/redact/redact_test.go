package redact

import (
	"strings"
	"testing"
)

func TestTextDisabled(t *testing.T) {
	SetEnabled(false)
	in := "my email is jane.doe@example.com and my number is +1 555 123 4567"
	if got := Text(in); got != in {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestTextMasksContactDetails(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	got := Text("reach me at jane.doe@example.com or +1 555 123 4567")
	if strings.Contains(got, "example.com") || strings.Contains(got, "4567") {
		t.Fatalf("details leaked: %q", got)
	}
	if !strings.Contains(got, "[email]") || !strings.Contains(got, "[phone]") {
		t.Fatalf("expected placeholders, got %q", got)
	}
}

func TestTextMasksCardNumbers(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	got := Text("the card on file is 4111 1111 1111 1111")
	if strings.Contains(got, "4111") {
		t.Fatalf("card leaked: %q", got)
	}
	if !strings.Contains(got, "[card]") {
		t.Fatalf("expected card placeholder, got %q", got)
	}
}
