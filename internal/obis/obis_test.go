package obis

import "testing"

func TestParse(t *testing.T) {
	id, next, err := Parse("1-0:1.8.1(000123.456*kWh)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id != New(1, 0, 1, 8, 1) {
		t.Fatalf("unexpected id %v", id)
	}
	if next != 9 {
		t.Fatalf("expected cursor 9, got %d", next)
	}
}

func TestParseSixComponents(t *testing.T) {
	id, _, err := Parse("0-0:96.50.68.1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id != New(0, 0, 96, 50, 68, 1) {
		t.Fatalf("unexpected id %v", id)
	}
}

func TestParseIncomplete(t *testing.T) {
	for _, in := range []string{"", "1-0", "1-0:1.8", "1-0:1.8.", "abc", "1:0-1.8.1"} {
		if _, _, err := Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseComponentOverflow(t *testing.T) {
	if _, _, err := Parse("1-0:256.8.1"); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestNewFillsUnspecified(t *testing.T) {
	id := New(1, 0, 1, 8, 1)
	if id[5] != Unspecified {
		t.Fatalf("sixth component should be unspecified, got %d", id[5])
	}
	if id.String() != "1-0:1.8.1" {
		t.Fatalf("unexpected string %q", id.String())
	}
}

func TestEquality(t *testing.T) {
	a, _, _ := Parse("0-1:24.2.1")
	if a != New(0, 1, 24, 2, 1) {
		t.Fatal("parsed id should equal constructed id")
	}
	if a == New(0, 2, 24, 2, 1) {
		t.Fatal("different channel must not compare equal")
	}
}
