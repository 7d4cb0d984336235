package telegram

import (
	"errors"
	"testing"

	"github.com/zuidwijk/dsmr/internal/obis"
)

var raw = []byte("/ABC5 Smart Meter\r\n" +
	"\r\n" +
	"1-0:1.8.1(000123.456*kWh)\r\n" +
	"0-1:24.2.1(150117180000W)(00473.789*m3)\r\n" +
	"!A1B2\r\n")

func TestSplit(t *testing.T) {
	tg, err := Split(raw)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if tg.Identification != "ABC5 Smart Meter" {
		t.Fatalf("identification = %q", tg.Identification)
	}
	if len(tg.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(tg.Lines))
	}
	if tg.Lines[0].ID != obis.New(1, 0, 1, 8, 1) {
		t.Fatalf("line 0 id = %v", tg.Lines[0].ID)
	}
	if tg.Lines[0].Values != "(000123.456*kWh)" {
		t.Fatalf("line 0 values = %q", tg.Lines[0].Values)
	}
	if tg.Lines[1].Values != "(150117180000W)(00473.789*m3)" {
		t.Fatalf("line 1 values = %q", tg.Lines[1].Values)
	}
}

func TestSplitMissingStartMarker(t *testing.T) {
	if _, err := Split([]byte("1-0:1.8.1(1*kWh)\r\n!0000\r\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestSplitLineWithoutGroup(t *testing.T) {
	bad := []byte("/ABC5\r\n\r\n1-0:1.8.1\r\n!A1B2\r\n")
	_, err := Split(bad)
	var lerr *LineError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LineError, got %v", err)
	}
}

func TestSplitUnterminatedGroup(t *testing.T) {
	bad := []byte("/ABC5\r\n\r\n1-0:1.8.1(000123.456*kWh\r\n!A1B2\r\n")
	if _, err := Split(bad); err == nil {
		t.Fatal("expected error")
	}
}

func TestSplitGarbageBetweenGroups(t *testing.T) {
	bad := []byte("/ABC5\r\n\r\n0-1:24.2.1(150117180000W)x(00473.789*m3)\r\n!A1B2\r\n")
	if _, err := Split(bad); err == nil {
		t.Fatal("expected error")
	}
}

func TestSplitBadObisPrefix(t *testing.T) {
	bad := []byte("/ABC5\r\n\r\nnot-an-obis(1)\r\n!A1B2\r\n")
	if _, err := Split(bad); err == nil {
		t.Fatal("expected error")
	}
}

func TestSplitMissingTerminator(t *testing.T) {
	if _, err := Split([]byte("/ABC5\r\n\r\n1-0:1.8.1(1.000*kWh)\r\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestSplitErrorPosition(t *testing.T) {
	bad := []byte("/ABC5\r\n\r\n1-0:1.8.1\r\n!A1B2\r\n")
	_, err := Split(bad)
	var lerr *LineError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LineError, got %v", err)
	}
	// Offset of the missing '(' right after the OBIS reference.
	if want := len("/ABC5\r\n\r\n") + len("1-0:1.8.1"); lerr.Pos != want {
		t.Fatalf("pos = %d, want %d", lerr.Pos, want)
	}
}
