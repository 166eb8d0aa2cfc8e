package inject

import (
	"strings"
	"testing"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", MethodAuto, false},
		{"auto", MethodAuto, false},
		{"keystroke", MethodKeystroke, false},
		{"type", MethodKeystroke, false},
		{"clipboard", MethodClipboard, false},
		{"paste", MethodClipboard, false},
		{"teleport", MethodAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveExplicitMethods(t *testing.T) {
	long := strings.Repeat("a", keystrokeMaxLen+1)
	if got := resolve(MethodKeystroke, long); got != MethodKeystroke {
		t.Errorf("explicit keystroke resolved to %v", got)
	}
	if got := resolve(MethodClipboard, "hi"); got != MethodClipboard {
		t.Errorf("explicit clipboard resolved to %v", got)
	}
}

func TestResolveAutoByLength(t *testing.T) {
	short := "hello world"
	long := strings.Repeat("word ", keystrokeMaxLen)

	if got := resolve(MethodAuto, short); got != MethodKeystroke {
		t.Errorf("short text resolved to %v, want keystroke", got)
	}
	if got := resolve(MethodAuto, long); got != MethodClipboard {
		t.Errorf("long text resolved to %v, want clipboard", got)
	}
}

func TestInjectEmptyTextIsNoop(t *testing.T) {
	in := New()
	if err := in.Inject("", MethodKeystroke); err != nil {
		t.Errorf("empty inject returned error: %v", err)
	}
}

func TestMethodString(t *testing.T) {
	for m, want := range map[Method]string{
		MethodAuto:      "auto",
		MethodKeystroke: "keystroke",
		MethodClipboard: "clipboard",
	} {
		if got := m.String(); got != want {
			t.Errorf("Method(%d).String() = %q, want %q", m, got, want)
		}
	}
}
