package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

const logBufferSize = 256

type taskDoneMsg struct{ err error }

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return Error(m.message+" failed") + "\n"
		}
		return Success(m.message) + "\n"
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.message)
}

// SpinnerEnabled reports whether a spinner should be drawn on f.
func SpinnerEnabled(disabled bool, f *os.File) bool {
	return !disabled && IsTerminal(f)
}

// Spin runs task while a spinner labelled message is drawn on out. Log lines
// written to stderr during the task are held back and flushed afterwards.
// With enabled false the task just runs.
func Spin(ctx context.Context, out io.Writer, enabled bool, message string, task func(context.Context) error) error {
	if !enabled {
		return task(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	restore := holdStderrLogs()
	defer restore()

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))

	result := make(chan error, 1)
	go func() {
		err := task(ctx)
		result <- err
		p.Send(taskDoneMsg{err: err})
	}()

	_, runErr := p.Run()
	if runErr != nil {
		cancel()
	}
	err := <-result
	if err == nil && errors.Is(runErr, tea.ErrInterrupted) {
		return runErr
	}
	return err
}

// holdStderrLogs routes the standard logger into memory when it writes to
// stderr. The returned func restores the logger and prints the held lines.
func holdStderrLogs() func() {
	logger := log.StandardLogger()
	prevOut := logger.Out
	if prevOut != io.Writer(os.Stderr) {
		return func() {}
	}

	hook := newHeldLogs(logger.Formatter, logBufferSize)
	hooks := make(log.LevelHooks, len(logger.Hooks))
	for level, hs := range logger.Hooks {
		hooks[level] = append([]log.Hook(nil), hs...)
	}
	hooks.Add(hook)
	prevHooks := logger.ReplaceHooks(hooks)
	logger.SetOutput(io.Discard)

	return func() {
		logger.SetOutput(prevOut)
		logger.ReplaceHooks(prevHooks)
		for _, line := range hook.take() {
			_, _ = fmt.Fprintln(prevOut, line)
		}
	}
}
