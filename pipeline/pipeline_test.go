package pipeline

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"hushtype/command"
	"hushtype/history"
	"hushtype/inject"
	"hushtype/processor"
	"hushtype/transcriber"
	"hushtype/vocab"
)

type fakeEngine struct {
	samples   []float32
	startErr  error
	starts    int
	stops     int
	capturing bool
}

func (f *fakeEngine) StartCapture() error {
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.capturing = true
	return nil
}

func (f *fakeEngine) StopCapture() []float32 {
	f.stops++
	f.capturing = false
	return f.samples
}

func (f *fakeEngine) Capturing() bool    { return f.capturing }
func (f *fakeEngine) DeviceName() string { return "fake mic" }

func voiced(seconds float64) []float32 {
	n := int(seconds * 16000)
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.4 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	return out
}

type testRig struct {
	engine   *fakeEngine
	trans    *transcriber.FakeTranscriber
	injector *inject.FakeInjector
	store    *history.MemStore
	actions  *command.FakeActions
	ctrl     *Controller
}

func newRig(t *testing.T, text string, opts func(*Config)) *testRig {
	t.Helper()
	rig := &testRig{
		engine:   &fakeEngine{samples: voiced(1)},
		trans:    transcriber.NewFake(text, nil),
		injector: &inject.FakeInjector{},
		store:    &history.MemStore{},
		actions:  &command.FakeActions{},
	}
	cfg := Config{
		Engine:      rig.engine,
		Transcriber: rig.trans,
		Injector:    rig.injector,
		History:     rig.store,
		Parser:      command.NewParser(),
		Executor:    command.NewExecutor(&command.FakeRegistry{}, &command.FakePermissions{Automation: true}, rig.actions),
		WakePhrase:  "Hey Type",
		Method:      inject.MethodClipboard,
		Mode:        processor.ModeNone,
		ErrorPause:  -1,
	}
	if opts != nil {
		opts(&cfg)
	}
	rig.ctrl = NewController(cfg)
	return rig
}

func TestStartRecordingFromIdle(t *testing.T) {
	rig := newRig(t, "hello", nil)
	if err := rig.ctrl.StartRecording(); err != nil {
		t.Fatal(err)
	}
	if got := rig.ctrl.State(); got != StateRecording {
		t.Errorf("state = %v, want recording", got)
	}
	if rig.engine.starts != 1 {
		t.Errorf("starts = %d", rig.engine.starts)
	}
}

func TestStartRecordingReentrantIsNoop(t *testing.T) {
	rig := newRig(t, "hello", nil)
	rig.ctrl.StartRecording()
	if err := rig.ctrl.StartRecording(); err != nil {
		t.Fatal(err)
	}
	if rig.engine.starts != 1 {
		t.Errorf("second start reached the engine: starts = %d", rig.engine.starts)
	}
	if got := rig.ctrl.State(); got != StateRecording {
		t.Errorf("state = %v", got)
	}
}

func TestStopWhileIdleIsNoop(t *testing.T) {
	rig := newRig(t, "hello", nil)
	rig.ctrl.StopAndProcess(context.Background())
	if rig.engine.stops != 0 {
		t.Error("stop while idle touched the engine")
	}
	if rig.trans.Calls != 0 {
		t.Error("stop while idle reached the transcriber")
	}
}

func TestFullDictation(t *testing.T) {
	rig := newRig(t, "hello world", nil)
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if got := rig.ctrl.State(); got != StateIdle {
		t.Errorf("final state = %v", got)
	}
	if len(rig.injector.Texts) != 1 || rig.injector.Texts[0] != "hello world" {
		t.Errorf("injected = %v", rig.injector.Texts)
	}
	if rig.ctrl.Count() != 1 {
		t.Errorf("count = %d", rig.ctrl.Count())
	}
	if len(rig.store.Entries) != 1 {
		t.Fatalf("history entries = %d", len(rig.store.Entries))
	}
	if rig.store.Entries[0].RawText != "hello world" {
		t.Errorf("history raw = %q", rig.store.Entries[0].RawText)
	}
}

func TestSessionSnapshotImmutable(t *testing.T) {
	rig := newRig(t, "hello", nil)
	rig.ctrl.StartRecording()

	// changing the default mid-recording must not affect this dictation
	rig.ctrl.SetMethod(inject.MethodKeystroke)
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.injector.Methods) != 1 || rig.injector.Methods[0] != inject.MethodClipboard {
		t.Errorf("methods = %v, want the snapshotted clipboard method", rig.injector.Methods)
	}

	// the next recording picks up the new default
	rig.ctrl.StartRecording()
	if got := rig.ctrl.Session().InjectionMethod; got != inject.MethodKeystroke {
		t.Errorf("new session method = %v", got)
	}
}

func TestWakePhraseRoutesToCommands(t *testing.T) {
	rig := newRig(t, "Hey Type, volume up", nil)
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.actions.Ran) != 1 || rig.actions.Ran[0].Intent != command.IntentVolumeUp {
		t.Errorf("commands ran = %+v", rig.actions.Ran)
	}
	if len(rig.injector.Texts) != 0 {
		t.Errorf("command transcript must not be injected: %v", rig.injector.Texts)
	}
	if got := rig.ctrl.State(); got != StateIdle {
		t.Errorf("final state = %v", got)
	}
}

func TestWakePhraseMidSentenceIsDictation(t *testing.T) {
	rig := newRig(t, "I told him hey type something", nil)
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.actions.Ran) != 0 {
		t.Errorf("commands ran = %+v", rig.actions.Ran)
	}
	if len(rig.injector.Texts) != 1 {
		t.Errorf("injected = %v", rig.injector.Texts)
	}
}

func TestSilentRecordingSkipsTranscription(t *testing.T) {
	rig := newRig(t, "should not appear", nil)
	rig.engine.samples = make([]float32, 16000)

	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if rig.trans.Calls != 0 {
		t.Error("silent audio reached the transcriber")
	}
	if got := rig.ctrl.State(); got != StateIdle {
		t.Errorf("final state = %v", got)
	}
}

func TestTranscriptionErrorRecovers(t *testing.T) {
	rig := newRig(t, "", nil)
	rig.trans.Err = errors.New("server down")

	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.injector.Texts) != 0 {
		t.Errorf("injected after error: %v", rig.injector.Texts)
	}
	if got := rig.ctrl.State(); got != StateIdle {
		t.Errorf("final state = %v, want idle after error recovery", got)
	}
}

func TestProcessorFailureFallsBackToRaw(t *testing.T) {
	fp := &processor.FakeProcessor{Err: errors.New("model missing")}
	rig := newRig(t, "raw transcript", func(cfg *Config) {
		cfg.Processor = fp
		cfg.Mode = processor.ModeCleanup
	})
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.injector.Texts) != 1 || rig.injector.Texts[0] != "raw transcript" {
		t.Errorf("injected = %v, want raw fallback", rig.injector.Texts)
	}
}

func TestProcessorRewriteIsInjected(t *testing.T) {
	fp := &processor.FakeProcessor{Out: "Polished transcript."}
	rig := newRig(t, "raw transcript", func(cfg *Config) {
		cfg.Processor = fp
		cfg.Mode = processor.ModeCleanup
	})
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.injector.Texts) != 1 || rig.injector.Texts[0] != "Polished transcript." {
		t.Errorf("injected = %v", rig.injector.Texts)
	}
	if len(rig.store.Entries) != 1 || rig.store.Entries[0].ProcessedText != "Polished transcript." {
		t.Errorf("history = %+v", rig.store.Entries)
	}
}

func TestVocabularyApplied(t *testing.T) {
	set, err := vocab.Compile([]vocab.Entry{{Spoken: "get hub", Replacement: "GitHub"}})
	if err != nil {
		t.Fatal(err)
	}
	rig := newRig(t, "push to get hub now", func(cfg *Config) {
		cfg.Vocabulary = set
	})
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.injector.Texts) != 1 || rig.injector.Texts[0] != "push to GitHub now" {
		t.Errorf("injected = %v", rig.injector.Texts)
	}
}

func TestConfirmRejectionDiscards(t *testing.T) {
	rig := newRig(t, "unwanted text", func(cfg *Config) {
		cfg.Confirm = func(string) <-chan bool {
			ch := make(chan bool, 1)
			ch <- false
			return ch
		}
	})
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.injector.Texts) != 0 {
		t.Errorf("rejected text was injected: %v", rig.injector.Texts)
	}
	if rig.ctrl.Count() != 0 {
		t.Errorf("count = %d", rig.ctrl.Count())
	}
}

func TestConfirmTimeoutAutoAccepts(t *testing.T) {
	rig := newRig(t, "slow user text", func(cfg *Config) {
		cfg.ConfirmTimeout = 20 * time.Millisecond
		cfg.Confirm = func(string) <-chan bool {
			return make(chan bool) // never answered
		}
	})
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.injector.Texts) != 1 {
		t.Errorf("auto-confirm did not inject: %v", rig.injector.Texts)
	}
}

func TestCancelDiscardsRecording(t *testing.T) {
	rig := newRig(t, "hello", nil)
	rig.ctrl.StartRecording()
	rig.ctrl.Cancel()

	if got := rig.ctrl.State(); got != StateIdle {
		t.Errorf("state = %v", got)
	}
	if rig.trans.Calls != 0 {
		t.Error("cancel reached the transcriber")
	}

	// cancel while idle is harmless
	rig.ctrl.Cancel()
}

func TestStateChangesPublished(t *testing.T) {
	rig := newRig(t, "hello", nil)
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	seen := make(map[State]bool)
	for {
		select {
		case ch := <-rig.ctrl.Changes():
			seen[ch.To] = true
		default:
			for _, want := range []State{StateRecording, StateTranscribing, StateRouting, StateInjecting, StateIdle} {
				if !seen[want] {
					t.Errorf("missing transition to %v", want)
				}
			}
			return
		}
	}
}

func TestConcurrentStartsSingleRecording(t *testing.T) {
	rig := newRig(t, "hello", nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rig.ctrl.StartRecording()
		}()
	}
	wg.Wait()

	if rig.engine.starts != 1 {
		t.Errorf("engine started %d times, want 1", rig.engine.starts)
	}
	if got := rig.ctrl.State(); got != StateRecording {
		t.Errorf("state = %v, want recording", got)
	}

	// the surviving recording is still stoppable
	rig.ctrl.StopAndProcess(context.Background())
	if rig.ctrl.Count() != 1 {
		t.Errorf("count = %d", rig.ctrl.Count())
	}
}

func TestInjectionFailureStillSavesHistory(t *testing.T) {
	rig := newRig(t, "hello world", nil)
	rig.injector.Err = errors.New("paste failed")

	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.store.Entries) != 1 {
		t.Fatalf("history entries = %d, want 1 despite the failed injection", len(rig.store.Entries))
	}
	if rig.store.Entries[0].ProcessedText != "hello world" {
		t.Errorf("history text = %q", rig.store.Entries[0].ProcessedText)
	}
	if rig.ctrl.Count() != 0 {
		t.Errorf("count = %d, failed injection must not count", rig.ctrl.Count())
	}
	if got := rig.ctrl.State(); got != StateIdle {
		t.Errorf("final state = %v", got)
	}
}

func TestCustomCommandResolvedBeforeParsing(t *testing.T) {
	actions := &command.FakeActions{}
	reg := &command.FakeRegistry{Custom: map[string]command.ParsedCommand{
		"seal the gates": {Intent: command.IntentLockScreen, Raw: "seal the gates", DisplayName: "Lock Screen"},
	}}
	rig := newRig(t, "Hey Type, seal the gates", func(cfg *Config) {
		cfg.Registry = reg
		cfg.Executor = command.NewExecutor(reg, &command.FakePermissions{Automation: true}, actions)
	})
	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	// "seal the gates" matches no built-in pattern; only the custom
	// phrase can route it
	if len(actions.Ran) != 1 || actions.Ran[0].Intent != command.IntentLockScreen {
		t.Errorf("commands ran = %+v", actions.Ran)
	}
	if len(rig.injector.Texts) != 0 {
		t.Errorf("custom command transcript was injected: %v", rig.injector.Texts)
	}
}

func TestHistoryFailureDoesNotBlock(t *testing.T) {
	rig := newRig(t, "hello", nil)
	rig.store.Err = errors.New("disk full")

	rig.ctrl.StartRecording()
	rig.ctrl.StopAndProcess(context.Background())

	if len(rig.injector.Texts) != 1 {
		t.Errorf("injection should succeed even when history fails: %v", rig.injector.Texts)
	}
	if got := rig.ctrl.State(); got != StateIdle {
		t.Errorf("final state = %v", got)
	}
}
