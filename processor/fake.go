package processor

import "context"

// FakeProcessor returns a canned rewrite for tests.
type FakeProcessor struct {
	Out   string
	Err   error
	Calls int
}

func (f *FakeProcessor) Name() string { return "fake" }

func (f *FakeProcessor) Process(_ context.Context, text string, mode Mode, _ string) (string, error) {
	f.Calls++
	if mode == ModeNone {
		return text, nil
	}
	if f.Err != nil {
		return "", f.Err
	}
	if f.Out == "" {
		return text, nil
	}
	return f.Out, nil
}
