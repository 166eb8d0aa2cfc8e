package inject

// FakeInjector records injected text for tests.
type FakeInjector struct {
	Texts   []string
	Methods []Method
	Err     error
}

func (f *FakeInjector) Inject(text string, method Method) error {
	if f.Err != nil {
		return f.Err
	}
	f.Texts = append(f.Texts, text)
	f.Methods = append(f.Methods, method)
	return nil
}
