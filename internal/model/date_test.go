package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2024-05-01" {
		t.Errorf("expected '2024-05-01', got %q", d.String())
	}

	if _, err := ParseDate("05/01/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if _, err := ParseDate("2024-05-01T10:00:00Z"); err == nil {
		t.Error("expected error for timestamp with time of day")
	}
}

func TestDateComparison(t *testing.T) {
	a, _ := ParseDate("2024-05-01")
	b, _ := ParseDate("2024-05-10")

	if !a.Before(b) {
		t.Error("expected 2024-05-01 < 2024-05-10")
	}
	if !b.After(a) {
		t.Error("expected 2024-05-10 > 2024-05-01")
	}
	if a.After(b) || b.Before(a) {
		t.Error("comparison is not antisymmetric")
	}
}

func TestDateOfStripsTimeOfDay(t *testing.T) {
	late := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)
	early := time.Date(2024, 5, 1, 0, 0, 1, 0, time.UTC)

	if !DateOf(late).Equal(DateOf(early)) {
		t.Error("expected same calendar day regardless of time of day")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2024-05-10")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"2024-05-10"` {
		t.Errorf("expected quoted ISO date, got %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip changed date: %v != %v", back, d)
	}

	var unset Date
	if err := json.Unmarshal([]byte(`""`), &unset); err != nil {
		t.Fatalf("Unmarshal empty: %v", err)
	}
	if !unset.IsZero() {
		t.Error("expected empty string to decode as unset date")
	}
}

func TestParseCategory(t *testing.T) {
	if c, ok := ParseCategory("keys"); !ok || c != CategoryKeys {
		t.Errorf("expected keys to parse, got %q ok=%v", c, ok)
	}
	if _, ok := ParseCategory("vehicles"); ok {
		t.Error("expected unknown category to be rejected")
	}
}

func TestCategoryInfoExhaustive(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Categories {
		info := c.Info()
		if info.Icon == "" || info.Label == "" {
			t.Errorf("category %q has incomplete display metadata", c)
		}
		if seen[info.Label] {
			t.Errorf("duplicate label %q", info.Label)
		}
		seen[info.Label] = true
	}

	// Anything outside the enumeration renders as "other", never errors.
	if Category("??").Info() != CategoryOther.Info() {
		t.Error("expected unknown category to fall back to other")
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus("found"); !ok || s != StatusFound {
		t.Errorf("expected found to parse, got %q ok=%v", s, ok)
	}
	if _, ok := ParseStatus("stolen"); ok {
		t.Error("expected unknown status to be rejected")
	}
}
