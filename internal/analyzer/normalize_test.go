package analyzer

import (
	"testing"

	"github.com/contenttrust/verifier/internal/models"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		item     models.ContentItem
		expected string
	}{
		{
			"content only",
			models.ContentItem{Content: "hello world"},
			"hello world",
		},
		{
			"joins fields in priority order",
			models.ContentItem{Title: "the title", Content: "the content", Summary: "the summary"},
			"the content the title the summary",
		},
		{
			"skips empty fields",
			models.ContentItem{Text: "  body text  ", Description: ""},
			"body text",
		},
		{
			"all fields empty",
			models.ContentItem{Source: "feed"},
			"",
		},
		{
			"whitespace only fields",
			models.ContentItem{Content: "   ", Title: "\t\n"},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.item)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestInsufficient(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"short", "hi", true},
		{"four runes", "olá!", true},
		{"five runes", "ótimo", false},
		{"five ascii", "hello", false},
		{"long", "plenty of text here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Insufficient(tt.text); got != tt.want {
				t.Errorf("Insufficient(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple text", "Hello world", []string{"hello", "world"}},
		{"punctuation stripped", "Hello, world!", []string{"hello", "world"}},
		{"accents preserved", "Qualidade incrível, ótima!", []string{"qualidade", "incrível", "ótima"}},
		{"numbers kept", "version 2 released", []string{"version", "2", "released"}},
		{"empty string", "", nil},
		{"punctuation only", "!?.,;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractWords(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d words %v, got %d %v", len(tt.expected), tt.expected, len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("word %d: expected %q, got %q", i, tt.expected[i], got[i])
				}
			}
		})
	}
}
