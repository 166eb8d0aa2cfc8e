// Package pipeline drives one dictation from hotkey press to injected
// text through an explicit state machine.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hushtype/audio"
	"hushtype/beep"
	"hushtype/command"
	"hushtype/history"
	"hushtype/inject"
	"hushtype/log"
	"hushtype/notify"
	"hushtype/processor"
	"hushtype/transcriber"
	"hushtype/vocab"
)

// State is the pipeline's current phase. Transitions are strictly ordered;
// a phase never skips backward except to Idle.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
	StateRouting
	StateInjecting
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	case StateRouting:
		return "routing"
	case StateInjecting:
		return "injecting"
	case StateError:
		return "error"
	}
	return "unknown"
}

// StateChange is published on every transition.
type StateChange struct {
	From   State
	To     State
	Detail string
}

// Session is the immutable snapshot of settings taken when a recording
// starts, so mid-recording configuration changes never affect dictations
// already in flight.
type Session struct {
	ID              string
	StartedAt       time.Time
	InjectionMethod inject.Method
	TargetAppID     string
	TargetAppName   string
	Mode            processor.Mode
}

// CaptureEngine is what the controller needs from the audio layer.
type CaptureEngine interface {
	StartCapture() error
	StopCapture() []float32
	Capturing() bool
	DeviceName() string
}

// FocusedAppFunc reports the frontmost application at recording start.
type FocusedAppFunc func() (id, name string)

// ConfirmFunc asks the user whether processed text should be injected.
// The returned channel delivers the decision; the controller auto-confirms
// if no answer arrives in time.
type ConfirmFunc func(text string) <-chan bool

type Config struct {
	Engine      CaptureEngine
	Transcriber transcriber.Transcriber
	Processor   processor.Processor
	Injector    inject.Injector
	History     history.Store
	Vocabulary  *vocab.Set
	Parser      *command.Parser
	Registry    command.Registry
	Executor    *command.Executor
	Notifier    *notify.Notifier

	WakePhrase  string
	Language    string
	Mode        processor.Mode
	Template    string
	Sensitivity float64
	Method      inject.Method
	FocusedApp  FocusedAppFunc
	Confirm     ConfirmFunc

	// OnText is called with the final text after a successful injection.
	OnText func(text string)

	ConfirmTimeout time.Duration
	ErrorPause     time.Duration
	Beeps          bool
}

// Controller owns the pipeline state machine. All public methods are safe
// for concurrent use.
type Controller struct {
	mu      sync.Mutex
	cfg     Config
	state   State
	session Session
	count   int

	changes chan StateChange
}

func NewController(cfg Config) *Controller {
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 60 * time.Second
	}
	// a short hold on the error state keeps the failure visible before
	// the pipeline re-arms; negative disables it
	if cfg.ErrorPause == 0 {
		cfg.ErrorPause = 2 * time.Second
	} else if cfg.ErrorPause < 0 {
		cfg.ErrorPause = 0
	}
	return &Controller{
		cfg:     cfg,
		state:   StateIdle,
		changes: make(chan StateChange, 16),
	}
}

// Changes delivers state transitions to the UI. Slow consumers lose
// events rather than stalling the pipeline.
func (c *Controller) Changes() <-chan StateChange {
	return c.changes
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the snapshot for the recording in flight.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Count reports how many dictations completed since startup.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// SetMethod changes the default injection method for future recordings.
func (c *Controller) SetMethod(m inject.Method) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Method = m
}

// SetMode changes the default processing mode for future recordings.
func (c *Controller) SetMode(m processor.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Mode = m
}

func (c *Controller) setState(to State, detail string) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()
	c.publish(from, to, detail)
}

func (c *Controller) publish(from, to State, detail string) {
	log.StateChange(from.String(), to.String(), detail)
	select {
	case c.changes <- StateChange{From: from, To: to, Detail: detail}:
	default:
	}
}

// StartRecording snapshots the session and opens the microphone. Calling
// it while not idle is a no-op.
func (c *Controller) StartRecording() error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	var appID, appName string
	if c.cfg.FocusedApp != nil {
		appID, appName = c.cfg.FocusedApp()
	}
	c.session = Session{
		ID:              uuid.NewString(),
		StartedAt:       time.Now(),
		InjectionMethod: c.cfg.Method,
		TargetAppID:     appID,
		TargetAppName:   appName,
		Mode:            c.cfg.Mode,
	}
	beeps := c.cfg.Beeps

	// The engine starts and the state flips inside the same critical
	// section as the Idle check, so a concurrent start can never slip
	// past the guard and tear down a live recording.
	if err := c.cfg.Engine.StartCapture(); err != nil {
		c.mu.Unlock()
		c.fail(fmt.Sprintf("capture: %v", err))
		return err
	}
	c.state = StateRecording
	c.mu.Unlock()

	c.publish(StateIdle, StateRecording, "")
	if beeps {
		beep.Start()
	}
	return nil
}

// Cancel discards an in-flight recording without transcribing.
func (c *Controller) Cancel() {
	c.mu.Lock()
	recording := c.state == StateRecording
	c.mu.Unlock()
	if !recording {
		return
	}
	c.cfg.Engine.StopCapture()
	c.setState(StateIdle, "cancelled")
}

// StopAndProcess closes the microphone and runs the captured audio through
// transcription, routing and injection. Calling it while not recording is
// a no-op. It blocks until the dictation finishes; callers wanting
// concurrency run it on its own goroutine.
func (c *Controller) StopAndProcess(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return
	}
	sess := c.session
	beeps := c.cfg.Beeps
	c.mu.Unlock()

	c.setState(StateTranscribing, "")
	if beeps {
		beep.Stop()
	}

	samples := c.cfg.Engine.StopCapture()
	audioDur := time.Duration(float64(len(samples)) / audio.SampleRate * float64(time.Second))

	trimmed := audio.TrimSilence(samples, c.cfg.Sensitivity)
	if len(trimmed) == 0 {
		c.setState(StateIdle, "no speech")
		return
	}

	start := time.Now()
	res, err := c.cfg.Transcriber.Transcribe(ctx, trimmed, c.cfg.Language)
	if err != nil {
		c.fail(fmt.Sprintf("transcription: %v", err))
		return
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		c.setState(StateIdle, "empty transcript")
		return
	}

	c.setState(StateRouting, "")

	if body, ok := command.DetectWake(text, c.cfg.WakePhrase); ok {
		c.runCommands(sess, text, body)
		return
	}

	out := c.cfg.Vocabulary.Apply(text, sess.TargetAppID)
	if c.cfg.Processor != nil && sess.Mode != processor.ModeNone {
		processed, perr := c.cfg.Processor.Process(ctx, out, sess.Mode, c.cfg.Template)
		if perr != nil {
			// the raw transcript is still useful; degrade instead of failing
			log.Warnf("processing failed, injecting raw transcript: %v", perr)
		} else {
			out = processed
		}
	}

	if !c.confirm(out) {
		c.setState(StateIdle, "discarded")
		return
	}

	c.setState(StateInjecting, "")
	injectErr := c.cfg.Injector.Inject(out, sess.InjectionMethod)

	// the produced text is kept even when delivery fails
	c.saveHistory(sess, text, out, res, audioDur)
	if injectErr != nil {
		c.fail(fmt.Sprintf("injection: %v", injectErr))
		return
	}
	log.Recording(audioDur.Seconds(),
		float64(len(trimmed))/audio.SampleRate,
		float64(time.Since(start).Milliseconds()),
		res.DetectedLanguage, sess.TargetAppName, countWords(out))
	log.DictationText(out)
	c.cfg.Notifier.Injected(out)
	if c.cfg.OnText != nil {
		c.cfg.OnText(out)
	}

	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	c.setState(StateIdle, "done")
}

func (c *Controller) runCommands(sess Session, text, body string) {
	// user-defined phrases win over the built-in patterns
	var cmds []command.ParsedCommand
	if c.cfg.Registry != nil {
		if cmd, ok := c.cfg.Registry.ResolveCustomCommand(body); ok {
			cmds = []command.ParsedCommand{cmd}
		}
	}
	if len(cmds) == 0 {
		cmds = c.cfg.Parser.ParseChain(body)
	}
	if len(cmds) == 0 {
		c.cfg.Notifier.CommandRan("no command recognized: " + body)
		c.setState(StateIdle, "unrecognized command")
		return
	}

	results := c.cfg.Executor.ExecuteChain(cmds)
	last := results[len(results)-1]
	if last.OK {
		c.cfg.Notifier.CommandRan(fmt.Sprintf("%d command(s) executed", len(results)))
	} else {
		c.cfg.Notifier.CommandRan(fmt.Sprintf("stopped at %s: %s", last.Intent, last.Message))
	}

	if c.cfg.History != nil {
		entry := history.NewEntry(text, "")
		entry.Mode = "command"
		entry.TargetApp = sess.TargetAppName
		if err := c.cfg.History.Save(entry); err != nil {
			log.Warnf("history save failed: %v", err)
		}
	}
	c.setState(StateIdle, "commands done")
}

// confirm applies the optional user confirmation with auto-accept on
// timeout, so an unattended machine never holds text hostage.
func (c *Controller) confirm(text string) bool {
	c.mu.Lock()
	fn := c.cfg.Confirm
	timeout := c.cfg.ConfirmTimeout
	c.mu.Unlock()

	if fn == nil {
		return true
	}
	select {
	case ok := <-fn(text):
		return ok
	case <-time.After(timeout):
		log.Info("confirmation timed out, auto-confirming")
		return true
	}
}

func (c *Controller) saveHistory(sess Session, raw, out string, res *transcriber.Result, audioDur time.Duration) {
	if c.cfg.History == nil {
		return
	}
	entry := history.NewEntry(raw, out)
	entry.Mode = string(sess.Mode)
	entry.Language = res.DetectedLanguage
	entry.TargetApp = sess.TargetAppName
	entry.AudioDuration = audioDur
	if err := c.cfg.History.Save(entry); err != nil {
		log.Warnf("history save failed: %v", err)
	}
}

func (c *Controller) fail(detail string) {
	c.setState(StateError, detail)
	log.Error(detail)
	c.cfg.Notifier.Error(detail)
	c.mu.Lock()
	beeps := c.cfg.Beeps
	pause := c.cfg.ErrorPause
	c.mu.Unlock()
	if beeps {
		beep.Error()
	}
	if pause > 0 {
		time.Sleep(pause)
	}
	c.setState(StateIdle, "")
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
