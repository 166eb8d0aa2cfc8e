package hotkey

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		in      string
		key     string
		mods    Modifier
		wantErr bool
	}{
		{"ctrl+shift+space", "space", ModCtrl | ModShift, false},
		{"CTRL+Shift+Space", "space", ModCtrl | ModShift, false},
		{"option+f5", "f5", ModAlt, false},
		{"alt+f5", "f5", ModAlt, false},
		{"cmd+shift+d", "d", ModCmd | ModShift, false},
		{"fn", "fn", 0, false},
		{"rightcmd", "rightcmd", 0, false},
		{"space", "", 0, true},           // bare non-solo key
		{"bogus+space", "", 0, true},     // unknown modifier
		{"ctrl+shift", "", 0, true},      // modifier in key position
		{"", "", 0, true},                // empty
		{"ctrl+", "", 0, true},           // missing key
	}
	for _, tt := range tests {
		b, err := ParseBinding(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBinding(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBinding(%q): %v", tt.in, err)
			continue
		}
		if b.Key != tt.key || b.Mods != tt.mods {
			t.Errorf("ParseBinding(%q) = key %q mods %04b, want key %q mods %04b",
				tt.in, b.Key, b.Mods, tt.key, tt.mods)
		}
		if !b.Enabled {
			t.Errorf("ParseBinding(%q): expected enabled binding", tt.in)
		}
	}
}

func TestBindingRoundTrip(t *testing.T) {
	keys := []string{"space", "a", "z", "5", "f1", "f12", "enter"}
	for mods := Modifier(1); mods <= recognizedMods; mods++ {
		for _, key := range keys {
			b := Binding{Key: key, Mods: mods, Enabled: true}
			b.ID = b.String()
			parsed, err := ParseBinding(b.String())
			if err != nil {
				t.Fatalf("round-trip %q: %v", b.String(), err)
			}
			if parsed != b {
				t.Fatalf("round-trip %q: got %+v want %+v", b.String(), parsed, b)
			}
		}
	}
	for _, key := range []string{"fn", "rightctrl", "rightcmd", "capslock"} {
		b := Binding{Key: key, Enabled: true}
		b.ID = b.String()
		parsed, err := ParseBinding(b.String())
		if err != nil {
			t.Fatalf("solo round-trip %q: %v", key, err)
		}
		if parsed != b {
			t.Fatalf("solo round-trip %q: got %+v want %+v", key, parsed, b)
		}
	}
}

func TestMatchingExactModifiers(t *testing.T) {
	b := Binding{Key: "space", Mods: ModCtrl | ModShift, Enabled: true}

	if !b.Matches(Event{Key: "space", Mods: ModCtrl | ModShift}) {
		t.Error("exact modifiers should match")
	}
	if b.Matches(Event{Key: "space", Mods: ModCtrl}) {
		t.Error("missing modifier should not match")
	}
	if b.Matches(Event{Key: "space", Mods: ModCtrl | ModShift | ModAlt}) {
		t.Error("extra modifier should not match")
	}
	if b.Matches(Event{Key: "enter", Mods: ModCtrl | ModShift}) {
		t.Error("different key should not match")
	}
	disabled := b
	disabled.Enabled = false
	if disabled.Matches(Event{Key: "space", Mods: ModCtrl | ModShift}) {
		t.Error("disabled binding should not match")
	}
}

func TestMaxBindings(t *testing.T) {
	var s bindingSet
	for i := 0; i < MaxBindings; i++ {
		b := Binding{ID: fmt.Sprintf("b%d", i), Key: "space", Mods: ModCtrl, Enabled: true}
		if err := s.register(b); err != nil {
			t.Fatalf("binding %d: %v", i, err)
		}
	}
	err := s.register(Binding{ID: "overflow", Key: "enter", Mods: ModCtrl, Enabled: true})
	if !errors.Is(err, ErrMaxBindings) {
		t.Fatalf("expected ErrMaxBindings, got %v", err)
	}
}

func TestReplaceAllIsAtomic(t *testing.T) {
	var s bindingSet
	for i := 0; i < MaxBindings; i++ {
		s.register(Binding{ID: fmt.Sprintf("b%d", i), Key: "space", Mods: ModCtrl, Enabled: true})
	}
	s.replaceAll([]Binding{{ID: "new", Key: "f5", Mods: ModAlt, Enabled: true}})
	all := s.all()
	if len(all) != 1 || all[0].ID != "new" {
		t.Fatalf("expected single replacement binding, got %v", all)
	}
	// Replacement frees up registration slots.
	if err := s.register(Binding{ID: "extra", Key: "f6", Mods: ModAlt, Enabled: true}); err != nil {
		t.Fatalf("register after replace: %v", err)
	}
}

func TestConflictWarnings(t *testing.T) {
	b, _ := ParseBinding("cmd+space")
	if len(ConflictWarnings(b)) == 0 {
		t.Error("expected advisory warning for cmd+space")
	}
	ok, _ := ParseBinding("ctrl+shift+f9")
	if len(ConflictWarnings(ok)) != 0 {
		t.Error("expected no warning for ctrl+shift+f9")
	}
}

func TestFakeMonitorMatchPath(t *testing.T) {
	f := NewFake()
	if err := f.ReplaceFromString("ctrl+shift+space"); err != nil {
		t.Fatal(err)
	}
	if err := f.Start(); err != nil {
		t.Fatal(err)
	}
	if err := f.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	f.SimEvent(Event{Key: "space", Mods: ModCtrl | ModShift}, true)
	select {
	case b := <-f.Down():
		if b.Key != "space" {
			t.Fatalf("unexpected binding: %+v", b)
		}
	default:
		t.Fatal("expected binding-down event")
	}

	// Extra modifier must not trigger.
	f.SimEvent(Event{Key: "space", Mods: ModCtrl | ModShift | ModCmd}, true)
	select {
	case b := <-f.Down():
		t.Fatalf("unexpected match with extra modifier: %+v", b)
	default:
	}

	f.Stop()
	if err := f.Start(); err != nil {
		t.Fatalf("restart after stop: %v", err)
	}
}
