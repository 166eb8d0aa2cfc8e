package command

// FakeActions records dispatched commands and fails on demand. Used in
// tests instead of the real system dispatcher.
type FakeActions struct {
	Ran     []ParsedCommand
	FailOn  Intent
	FailErr error
}

func (f *FakeActions) Run(cmd ParsedCommand) (string, error) {
	f.Ran = append(f.Ran, cmd)
	if f.FailErr != nil && cmd.Intent == f.FailOn {
		return "", f.FailErr
	}
	return "ok", nil
}

// FakeRegistry enables everything except the listed intents and resolves
// custom phrases from a fixed map.
type FakeRegistry struct {
	Disabled map[Intent]bool
	Custom   map[string]ParsedCommand
}

func (f *FakeRegistry) IsEnabled(intent Intent) bool {
	return !f.Disabled[intent]
}

func (f *FakeRegistry) ResolveCustomCommand(text string) (ParsedCommand, bool) {
	cmd, ok := f.Custom[text]
	return cmd, ok
}

// FakePermissions reports a fixed automation grant.
type FakePermissions struct {
	Automation bool
}

func (f *FakePermissions) AutomationGranted() bool {
	return f.Automation
}
