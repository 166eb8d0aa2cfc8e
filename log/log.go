// Package log provides file-backed diagnostic logging plus a plain-text
// dictation history log, both rooted in a per-OS directory.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog     zerolog.Logger
	diagFile    *os.File
	historyFile *os.File
	logMu       sync.Mutex
	logReady    bool
	pid         int
	dir         string
)

// ResolveDir picks the log directory: explicit flag path, then the
// HUSHTYPE_LOG_PATH environment variable, then the OS default.
func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return absolutize(flagPath)
	}
	if envPath := os.Getenv("HUSHTYPE_LOG_PATH"); envPath != "" {
		return absolutize(envPath)
	}
	return getDefaultDir()
}

func absolutize(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	historyPath := filepath.Join(dir, "dictation_log.txt")
	historyFile, err = os.OpenFile(historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if historyFile != nil {
		historyFile.Close()
		historyFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// StateChange records one pipeline state transition.
func StateChange(from, to, detail string) {
	if !logReady {
		return
	}
	ev := diagLog.Info().Str("from", from).Str("to", to)
	if detail != "" {
		ev = ev.Str("detail", detail)
	}
	ev.Msg("state_change")
}

// Recording records per-recording pipeline metrics.
func Recording(audioS, trimmedS, transcribeMs float64, lang, targetApp string, words int) {
	if !logReady {
		return
	}
	ev := diagLog.Info().
		Float64("audio_s", audioS).
		Float64("trimmed_s", trimmedS).
		Float64("transcribe_ms", transcribeMs).
		Int("words", words)
	if lang != "" {
		ev = ev.Str("lang", lang)
	}
	if targetApp != "" {
		ev = ev.Str("target_app", targetApp)
	}
	ev.Msg("recording")
}

// CommandChain records the outcome of an executed command chain.
func CommandChain(total, executed, succeeded int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("total", total).
		Int("executed", executed).
		Int("succeeded", succeeded).
		Msg("command_chain")
}

// DictationText appends the final injected text to the history log.
func DictationText(text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	historyFile.WriteString(line)
}

func SessionStart(transcriber, hotkey, mode string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("transcriber", transcriber).
		Str("hotkey", hotkey).
		Str("mode", mode).
		Msg("session_start")
}

func SessionEnd(count int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("count", count).
		Msg("session_end")
}
