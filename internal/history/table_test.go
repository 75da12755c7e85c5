package history

import (
	"strings"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Day", "Words", "Mood"}
	rows := [][]string{
		{"2024-03-01", "812", "joyful"},
		{"2024-03-02", "90", "-"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if want := "Day" + strings.Repeat(" ", 9) + "Words  Mood"; lines[0] != want {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "2024-03-01    812  joyful" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "2024-03-02     90  -" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Mood", "N"}, [][]string{{"日本", "1"}, {"a", "22"}}, map[int]bool{1: true})
	if lines[1] != "日本   1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "a     22" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
