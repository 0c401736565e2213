package formatting_test

import (
	"errors"
	"testing"

	"github.com/reclaimhq/reclaim/pkg/formatting"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"bytes", 512, 0, "512 B"},
		{"kilobytes", 2048, 1, "2.0 KB"},
		{"megabytes", 20971520, 0, "20 MB"},
		{"gigabytes", 1610612736, 2, "1.50 GB"},
		{"negative precision clamped", 2048, -1, "2 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare number", "1024", 1024, false},
		{"megabytes", "20MB", 20971520, false},
		{"with space", "5 KB", 5120, false},
		{"lowercase unit", "2gb", 2147483648, false},
		{"fractional", "1.5KB", 1536, false},
		{"empty", "", 0, true},
		{"unknown unit", "5QB", 0, true},
		{"garbage", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseBytes(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

type details struct {
	ItemType string `json:"item_type"`
	Color    string `json:"color"`
}

func TestParseDirectJSON(t *testing.T) {
	got, err := formatting.Parse[details](`{"item_type": "wallet", "color": "brown"}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.ItemType != "wallet" || got.Color != "brown" {
		t.Errorf("got %+v", got)
	}
}

func TestParseFencedJSON(t *testing.T) {
	content := "```json\n{\"item_type\": \"headphones\", \"color\": \"black\"}\n```"
	got, err := formatting.Parse[details](content)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.ItemType != "headphones" {
		t.Errorf("got %+v", got)
	}
}

func TestParseFencedNoLanguage(t *testing.T) {
	content := "```\n{\"item_type\": \"keys\"}\n```"
	got, err := formatting.Parse[details](content)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.ItemType != "keys" {
		t.Errorf("got %+v", got)
	}
}

func TestParseSurroundingProse(t *testing.T) {
	content := "Here is the result:\n```json\n{\"item_type\": \"umbrella\"}\n```\nLet me know if you need more."
	got, err := formatting.Parse[details](content)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.ItemType != "umbrella" {
		t.Errorf("got %+v", got)
	}
}

func TestParseFailure(t *testing.T) {
	_, err := formatting.Parse[details]("the item appears to be a brown leather wallet")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Errorf("expected ErrParseFailed, got %v", err)
	}
}
