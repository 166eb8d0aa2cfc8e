//go:build !linux && !darwin

package command

import "fmt"

// SystemActions is a stub on platforms without a wired dispatcher.
type SystemActions struct {
	typeText func(text string) error
}

func NewSystemActions(typeText func(text string) error) *SystemActions {
	return &SystemActions{typeText: typeText}
}

func (a *SystemActions) Run(cmd ParsedCommand) (string, error) {
	if cmd.Intent == IntentTypeText && a.typeText != nil {
		text := cmd.Entities["text"]
		if err := a.typeText(text); err != nil {
			return "", err
		}
		return fmt.Sprintf("typed %q", text), nil
	}
	return "", fmt.Errorf("%s is not supported on this platform", cmd.DisplayName)
}
