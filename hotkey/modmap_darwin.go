//go:build darwin

package hotkey

import xhk "golang.design/x/hotkey"

func xMods(m Modifier) []xhk.Modifier {
	var out []xhk.Modifier
	if m&ModCtrl != 0 {
		out = append(out, xhk.ModCtrl)
	}
	if m&ModAlt != 0 {
		out = append(out, xhk.ModOption)
	}
	if m&ModShift != 0 {
		out = append(out, xhk.ModShift)
	}
	if m&ModCmd != 0 {
		out = append(out, xhk.ModCmd)
	}
	return out
}
