//go:build linux

package inject

import "testing"

func TestCharToKeyCoverage(t *testing.T) {
	printable := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" +
		" .,/;'[]-=\\`!@#$%^&*()_+{}|:\"<>?~\n\t"
	for i := 0; i < len(printable); i++ {
		if _, _, ok := charToKey(printable[i]); !ok {
			t.Errorf("no key mapping for %q", printable[i])
		}
	}
}

func TestCharToKeyShift(t *testing.T) {
	lower, lshift, _ := charToKey('a')
	upper, ushift, _ := charToKey('A')
	if lower != upper {
		t.Errorf("a and A should share a key code")
	}
	if lshift || !ushift {
		t.Errorf("shift flags wrong: a=%v A=%v", lshift, ushift)
	}
}

func TestTypeableRejectsUnicode(t *testing.T) {
	if typeable("héllo") {
		t.Error("non-ASCII text must not be typeable")
	}
	if !typeable("plain ascii, ok!") {
		t.Error("plain ASCII must be typeable")
	}
}
