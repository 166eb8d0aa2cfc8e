package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"hushtype/audio"
	"hushtype/command"
	"hushtype/config"
	"hushtype/history"
	"hushtype/hotkey"
	"hushtype/inject"
	"hushtype/log"
	"hushtype/notify"
	"hushtype/pipeline"
	"hushtype/processor"
	"hushtype/transcriber"
	"hushtype/vocab"
)

var version = "dev"

var shutdownOnce sync.Once

type staticPermissions struct {
	automation bool
}

func (p staticPermissions) AutomationGranted() bool { return p.automation }

func run() {
	configFlag := flag.String("config", "", "Config directory (default: OS user config dir)")
	deviceFlag := flag.String("device", "", "Use named microphone device")
	devicesFlag := flag.Bool("devices", false, "List microphone devices and exit")
	langFlag := flag.String("lang", "", "Language code for transcription (overrides config)")
	methodFlag := flag.String("method", "", "Injection method: auto, keystroke, clipboard")
	modeFlag := flag.String("mode", "", "Processing mode: none, cleanup, formal, custom")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	flag.Parse()

	if *versionFlag {
		fmt.Println("hushtype " + version)
		return
	}

	logDir, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not resolve log directory: %v\n", err)
	} else {
		log.SetDir(logDir)
		if err := log.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
		}
	}

	cfgDir := *configFlag
	if cfgDir == "" {
		if cfgDir, err = config.Dir(); err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving config directory: %v\n", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(cfgDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *langFlag != "" {
		cfg.Language = *langFlag
	}
	if *methodFlag != "" {
		cfg.Injection.Method = *methodFlag
	}
	if *modeFlag != "" {
		cfg.Processing.Mode = *modeFlag
	}

	ctx, err := audio.NewContext()
	if err != nil {
		log.Errorf("audio context init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing audio context: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	if *devicesFlag {
		devices, err := ctx.Devices()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing devices: %v\n", err)
			os.Exit(1)
		}
		for _, d := range devices {
			suffix := ""
			if audio.IsBluetooth(d.Name) {
				suffix = " (bluetooth)"
			}
			fmt.Println(d.Name + suffix)
		}
		return
	}

	deviceName := *deviceFlag
	if deviceName == "" {
		deviceName = cfg.Audio.Device
	}
	var selectedDevice *audio.DeviceInfo
	if deviceName != "" {
		devices, err := ctx.Devices()
		if err == nil {
			for i := range devices {
				if devices[i].Name == deviceName {
					selectedDevice = &devices[i]
					break
				}
			}
		}
		if selectedDevice == nil {
			log.Warnf("device not found, using default: %s", deviceName)
			fmt.Fprintf(os.Stderr, "Warning: device %q not found, using system default\n", deviceName)
		}
	}
	if selectedDevice != nil && audio.IsBluetooth(selectedDevice.Name) {
		log.Warn("bluetooth microphone selected, expect degraded audio quality")
		fmt.Fprintln(os.Stderr, "Warning: bluetooth microphones often capture at phone-call quality")
	}

	captureDevice, err := ctx.NewCapture(selectedDevice, audio.CaptureConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	})
	if err != nil {
		log.Errorf("capture device init error: %v", err)
		fmt.Fprintf(os.Stderr, "Error initializing capture device: %v\n", err)
		os.Exit(1)
	}
	defer captureDevice.Close()

	engine, err := audio.NewEngine(captureDevice, cfg.Audio.BufferSeconds, func(rms float64) {
		tuiSend(AudioLevelMsg{Level: rms})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing capture engine: %v\n", err)
		os.Exit(1)
	}

	vadProc, err := newVADProcessor()
	if err != nil {
		log.Warnf("voice activity detection unavailable: %v", err)
	} else {
		engine.SetRawTap(vadProc.Process)
	}

	injector := inject.New()
	if err := inject.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: injection init failed: %v\n", err)
	}

	vocabSet, err := vocab.Compile(cfg.Vocabulary)
	if err != nil {
		log.Errorf("vocabulary compile error: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: vocabulary disabled: %v\n", err)
		vocabSet = nil
	}

	var store history.Store
	if cfg.History.Enabled {
		s, err := history.NewJSONLStore(cfg.History.Dir)
		if err != nil {
			log.Warnf("history disabled: %v", err)
		} else {
			store = s
			defer s.Close()
		}
	}

	var proc processor.Processor
	if cfg.Processing.Mode != string(processor.ModeNone) {
		proc = processor.NewOllama(processor.OllamaConfig{
			URL:   cfg.Processing.URL,
			Model: cfg.Processing.Model,
		})
	}

	method, err := inject.ParseMethod(cfg.Injection.Method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	wakePhrase := cfg.WakePhrase
	if !cfg.Commands.Enabled {
		wakePhrase = ""
	}
	registry := command.NewEnableRegistry(cfg.Commands.Disabled)
	for phrase, intent := range cfg.Commands.Custom {
		registry.AddCustom(phrase, command.ParsedCommand{
			Intent:      command.Intent(intent),
			Raw:         phrase,
			DisplayName: phrase,
		})
	}
	actions := command.NewSystemActions(func(text string) error {
		return injector.Inject(text, inject.MethodKeystroke)
	})
	executor := command.NewExecutor(registry,
		staticPermissions{automation: cfg.Commands.AutomationGranted}, actions)

	notifier := notify.New(cfg.Notify)

	ctrl := pipeline.NewController(pipeline.Config{
		Engine:      engine,
		Transcriber: transcriber.NewWhisper(transcriber.WhisperConfig{
			URL:    cfg.Whisper.URL,
			APIKey: cfg.Whisper.APIKey,
			Model:  cfg.Whisper.Model,
			Format: cfg.Whisper.Format,
		}),
		Processor:   proc,
		Injector:    injector,
		History:     store,
		Vocabulary:  vocabSet,
		Parser:      command.NewParser(),
		Registry:    registry,
		Executor:    executor,
		Notifier:    notifier,
		WakePhrase:  wakePhrase,
		Language:    cfg.Language,
		Mode:        processor.Mode(cfg.Processing.Mode),
		Template:    cfg.Processing.Template,
		Sensitivity: cfg.Sensitivity,
		Method:      method,
		FocusedApp:  focusedApp,
		OnText: func(text string) {
			tuiSend(TranscriptMsg{Text: text})
		},
		Beeps: cfg.Beeps,
	})

	mon := hotkey.NewMonitor()
	registerBinding := func(spec, mode string) {
		if spec == "" {
			return
		}
		b, err := hotkey.ParseBinding(spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		b.ID = mode
		b.Mode = mode
		for _, w := range hotkey.ConflictWarnings(b) {
			log.Warn(w)
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		if err := mon.Register(b); err != nil {
			fmt.Fprintf(os.Stderr, "Error registering hotkey: %v\n", err)
			os.Exit(1)
		}
	}
	registerBinding(cfg.Hotkeys.PushToTalk, "ptt")
	registerBinding(cfg.Hotkeys.Toggle, "toggle")

	if err := mon.Start(); err != nil {
		log.Errorf("hotkey monitor error: %v", err)
		fmt.Fprintf(os.Stderr, "Error starting hotkey monitor: %v\n", err)
		if err == hotkey.ErrPermission {
			fmt.Fprintln(os.Stderr, "Grant input monitoring permission (or add your user to the input group) and retry")
		}
		os.Exit(1)
	}
	defer mon.Stop()

	if *tuiFlag {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram()
		tuiMu.Unlock()
		go func() {
			if _, err := tuiProgram.Run(); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			gracefulShutdown(ctrl, store)
		}()
	}

	log.SessionStart("whisper", cfg.Hotkeys.PushToTalk, cfg.Processing.Mode)
	tuiSend(DeviceLineMsg{Text: "mic: " + engine.DeviceName()})
	tuiSend(HotkeyLineMsg{Text: "hold " + cfg.Hotkeys.PushToTalk + " to dictate"})

	// forward pipeline transitions to the display
	go func() {
		for ch := range ctrl.Changes() {
			tuiSend(StateMsg{Change: ch})
		}
	}()

	var toggleActive atomic.Bool
	if vadProc != nil {
		go watchSilence(ctrl, vadProc, &toggleActive)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	stop := func() {
		toggleActive.Store(false)
		go ctrl.StopAndProcess(context.Background())
	}

	for {
		select {
		case b := <-mon.Down():
			if b.Mode == "toggle" {
				if ctrl.State() == pipeline.StateRecording {
					stop()
				} else if err := ctrl.StartRecording(); err == nil {
					toggleActive.Store(true)
					if vadProc != nil {
						vadProc.Reset()
					}
				}
			} else {
				if err := ctrl.StartRecording(); err == nil && vadProc != nil {
					vadProc.Reset()
				}
			}

		case b := <-mon.Up():
			if b.Mode == "ptt" && ctrl.State() == pipeline.StateRecording && !toggleActive.Load() {
				stop()
			}

		case <-sigChan:
			gracefulShutdown(ctrl, store)
		}
	}
}

// watchSilence drives the silence monitor at a fixed cadence while a
// recording is open, warning on dead air and auto-closing toggle-mode
// recordings nobody is speaking into.
func watchSilence(ctrl *pipeline.Controller, vadProc *vadProcessor, toggleActive *atomic.Bool) {
	var mon *silenceMonitor
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for range ticker.C {
		if ctrl.State() != pipeline.StateRecording {
			mon = nil
			continue
		}
		if mon == nil {
			mon = newSilenceMonitor(toggleActive.Load)
		}
		switch mon.Tick(vadProc.HasSpeechTick()) {
		case SilenceWarn:
			log.Info("silence_warn")
			tuiSend(SilenceMsg{Warned: true})
		case SilenceWarnClear:
			tuiSend(SilenceMsg{Warned: false})
		case SilenceRepeat:
			log.Info("silence_repeat")
		case SilenceAutoClose:
			log.Info("silence_autoclose")
			toggleActive.Store(false)
			go ctrl.StopAndProcess(context.Background())
		}
	}
}

func gracefulShutdown(ctrl *pipeline.Controller, store history.Store) {
	shutdownOnce.Do(func() {
		if n := ctrl.Count(); n > 0 {
			log.SessionEnd(n)
		}
		if store != nil {
			store.Close()
		}
		log.Close()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
		os.Exit(0)
	})
}
