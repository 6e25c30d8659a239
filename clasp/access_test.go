package clasp

import "testing"

func TestBuildAccessTableDefaultsPrivate(t *testing.T) {
	table := buildAccessTable([]declEntry{
		{name: "a"},
		{name: "b"},
	})

	if table["a"] != VisPrivate || table["b"] != VisPrivate {
		t.Fatalf("expected private defaults, got %v", table)
	}
}

func TestBuildAccessTableNearestPrecedingDirective(t *testing.T) {
	table := buildAccessTable([]declEntry{
		{name: "hidden"},
		{directive: true, level: VisPublic},
		{name: "open"},
		{directive: true, level: VisProtected},
		{name: "guarded"},
		{name: "alsoGuarded"},
		{directive: true, level: VisPrivate},
		{name: "secret"},
	})

	want := map[string]Visibility{
		"hidden":      VisPrivate,
		"open":        VisPublic,
		"guarded":     VisProtected,
		"alsoGuarded": VisProtected,
		"secret":      VisPrivate,
	}
	for name, vis := range want {
		if table[name] != vis {
			t.Fatalf("%s: expected %s, got %s", name, vis, table[name])
		}
	}
}

func TestBuildAccessTableTrailingDirective(t *testing.T) {
	// A directive followed by nothing stamps nothing.
	table := buildAccessTable([]declEntry{
		{name: "a"},
		{directive: true, level: VisPublic},
	})

	if table["a"] != VisPrivate {
		t.Fatalf("trailing directive must not stamp earlier declarations, got %s", table["a"])
	}
}

func TestParseVisibility(t *testing.T) {
	cases := []struct {
		in   string
		want Visibility
		ok   bool
	}{
		{"public", VisPublic, true},
		{"protected", VisProtected, true},
		{"private", VisPrivate, true},
		{"", VisPrivate, true},
		{"internal", VisPrivate, false},
	}
	for _, tc := range cases {
		got, ok := ParseVisibility(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseVisibility(%q) = %s,%v; want %s,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAccessGate(t *testing.T) {
	base := NewClass("Base").Build()
	derived := NewClass("Derived").Extends(base).Build()
	other := NewClass("Other").Build()

	baseInst := newInstance(base, 1)
	derivedInst := newInstance(derived, 2)
	otherInst := newInstance(other, 3)

	callerOn := func(inst *Instance) *callerRecord {
		return &callerRecord{function: "m", instance: inst}
	}
	freeCaller := &callerRecord{function: "f"}

	cases := []struct {
		name   string
		caller *callerRecord
		target *Instance
		vis    Visibility
		want   bool
	}{
		{"no context is trusted", nil, baseInst, VisPrivate, true},
		{"public always", freeCaller, baseInst, VisPublic, true},
		{"public from unrelated instance", callerOn(otherInst), baseInst, VisPublic, true},
		{"private same class", callerOn(baseInst), baseInst, VisPrivate, true},
		{"private from free function", freeCaller, baseInst, VisPrivate, false},
		{"private from descendant", callerOn(derivedInst), baseInst, VisPrivate, false},
		{"private from unrelated", callerOn(otherInst), baseInst, VisPrivate, false},
		{"protected same class", callerOn(baseInst), baseInst, VisProtected, true},
		{"protected from descendant", callerOn(derivedInst), baseInst, VisProtected, true},
		{"protected from ancestor", callerOn(baseInst), derivedInst, VisProtected, false},
		{"protected from unrelated", callerOn(otherInst), baseInst, VisProtected, false},
		{"protected from free function", freeCaller, baseInst, VisProtected, false},
	}
	for _, tc := range cases {
		if got := accessAllowed(tc.caller, tc.target, tc.vis); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
