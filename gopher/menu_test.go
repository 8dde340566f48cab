package gopher

import (
	"strings"
	"testing"

	"github.com/jackfish212/gopherengine/types"
)

func TestParseMenuWellFormed(t *testing.T) {
	input := "1About\t/about\thost\t70\r\niInfo line\t\t\t0\r\n.\r\n"
	items := ParseMenu(input)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	want0 := types.MenuItem{Type: types.Menu, Display: "About", Selector: "/about", Host: "host", Port: 70}
	if items[0] != want0 {
		t.Errorf("items[0] = %+v, want %+v", items[0], want0)
	}

	want1 := types.MenuItem{Type: types.Info, Display: "Info line"}
	if items[1] != want1 {
		t.Errorf("items[1] = %+v, want %+v", items[1], want1)
	}
}

func TestParseMenuMalformedLinesBecomeInfo(t *testing.T) {
	input := "this is not a menu line at all\n1OK\t/ok\thost\t70\n.\n"
	items := ParseMenu(input)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Type != types.Info || items[0].Display != "this is not a menu line at all" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Selector != "/ok" {
		t.Errorf("items[1] = %+v", items[1])
	}
}

func TestParseMenuNeverCrashes(t *testing.T) {
	inputs := []string{
		"",
		"\x00\x01\x02",
		".",
		"1\t\t\t\t\t\t\t",
		"i",
		strings.Repeat("a", 10000),
	}
	for _, in := range inputs {
		items := ParseMenu(in)
		_ = items // must not panic
	}
}

func TestParseMenuBlankLinesSkipped(t *testing.T) {
	items := ParseMenu("1A\t/a\thost\t70\n\n\n1B\t/b\thost\t70\n.\n")
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}
