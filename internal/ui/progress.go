package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Progress creates progress indicators.
type Progress interface {
	Start(title string, total int) ProgressBar
	Spinner(title string) Spinner
}

// ProgressBar tracks a known amount of work. Increment is safe for
// concurrent use.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	Done()
}

// Spinner marks work of unknown length.
type Spinner interface {
	SetTitle(title string)
	Stop()
}

// progressImpl implements the Progress interface.
type progressImpl struct {
	theme       *Theme
	writer      io.Writer
	interactive bool
}

// NewProgress creates a Progress writing to w, normally os.Stderr so that
// reports on stdout stay clean. Animated output is used only when w is a
// terminal, color is enabled and hm does not force headless mode.
func NewProgress(theme *Theme, hm *HeadlessManager, w io.Writer) Progress {
	interactive := IsTerminal(w) && !theme.NoColor
	if hm != nil && hm.forced != nil {
		interactive = interactive && !*hm.forced
	}
	return &progressImpl{theme: theme, writer: w, interactive: interactive}
}

// Start creates a determinate progress bar with the given total.
// In headless mode it returns a log-based progress bar.
func (p *progressImpl) Start(title string, total int) ProgressBar {
	if !p.interactive {
		return newHeadlessProgressBar(title, total, p.writer)
	}
	return newInteractiveProgressBar(p.theme, title, total, p.writer)
}

// Spinner creates an indeterminate spinner.
// In headless mode it prints the title as a log line.
func (p *progressImpl) Spinner(title string) Spinner {
	if !p.interactive {
		return newHeadlessSpinner(title, p.writer)
	}
	return newInteractiveSpinner(p.theme, title, p.writer)
}

func newProgram(m tea.Model, w io.Writer) *tea.Program {
	return tea.NewProgram(m, tea.WithOutput(w), tea.WithInput(nil))
}

// --- interactiveSpinner ---

// spinnerTitleMsg is sent to update the spinner title.
type spinnerTitleMsg string

// spinnerStopMsg is sent to stop the spinner.
type spinnerStopMsg struct{}

// spinnerModel is the bubbletea Model for the animated spinner.
type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func newSpinnerModel(theme *Theme, title string) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	if !theme.NoColor {
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Colors.Primary))
	}
	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTitleMsg:
		m.title = string(msg)
		return m, nil
	case spinnerStopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// interactiveSpinner implements Spinner with an animated bubbles spinner.
type interactiveSpinner struct {
	program *tea.Program
	once    sync.Once
}

// @MX:WARN: the program goroutine lives until Stop; callers must always call Stop.
func newInteractiveSpinner(theme *Theme, title string, w io.Writer) *interactiveSpinner {
	p := newProgram(newSpinnerModel(theme, title), w)
	s := &interactiveSpinner{program: p}
	go func() {
		_, _ = p.Run()
	}()
	return s
}

// SetTitle updates the spinner title.
func (s *interactiveSpinner) SetTitle(title string) {
	s.program.Send(spinnerTitleMsg(title))
}

// Stop halts the spinner.
func (s *interactiveSpinner) Stop() {
	s.once.Do(func() {
		s.program.Send(spinnerStopMsg{})
		s.program.Wait()
	})
}

// --- interactiveProgressBar ---

// progressIncrMsg is sent to increment the progress bar.
type progressIncrMsg int

// progressTitleMsg is sent to update the progress bar title.
type progressTitleMsg string

// progressDoneMsg is sent to complete the progress bar.
type progressDoneMsg struct{}

// progressModel is the bubbletea Model for the animated progress bar.
type progressModel struct {
	bar     progress.Model
	title   string
	current int
	total   int
	done    bool
}

func newProgressModel(theme *Theme, title string, total int) progressModel {
	bar := progress.New(
		progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
		progress.WithWidth(40),
	)
	return progressModel{bar: bar, title: title, total: total}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressIncrMsg:
		m.current = min(m.current+int(msg), m.total)
		return m, nil
	case progressTitleMsg:
		m.title = string(msg)
		return m, nil
	case progressDoneMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return m.bar.ViewAs(pct) + " " + fmt.Sprintf("[%d/%d] %s\n", m.current, m.total, m.title)
}

// interactiveProgressBar implements ProgressBar with an animated bubbles progress bar.
type interactiveProgressBar struct {
	program *tea.Program
	once    sync.Once
}

// @MX:WARN: the program goroutine lives until Done; callers must always call Done.
func newInteractiveProgressBar(theme *Theme, title string, total int, w io.Writer) *interactiveProgressBar {
	p := newProgram(newProgressModel(theme, title, total), w)
	pb := &interactiveProgressBar{program: p}
	go func() {
		_, _ = p.Run()
	}()
	return pb
}

// Increment advances the progress by n.
func (b *interactiveProgressBar) Increment(n int) {
	b.program.Send(progressIncrMsg(n))
}

// SetTitle updates the progress bar title.
func (b *interactiveProgressBar) SetTitle(title string) {
	b.program.Send(progressTitleMsg(title))
}

// Done completes the progress bar at 100%.
func (b *interactiveProgressBar) Done() {
	b.once.Do(func() {
		b.program.Send(progressDoneMsg{})
		b.program.Wait()
	})
}

// --- headlessProgressBar ---

// headlessSteps bounds how many lines a headless progress bar prints.
const headlessSteps = 10

// headlessProgressBar implements ProgressBar with plain text log output.
type headlessProgressBar struct {
	mu      sync.Mutex
	title   string
	total   int
	current int
	step    int
	next    int
	writer  io.Writer
}

// newHeadlessProgressBar creates a headless progress bar that writes a log
// line roughly every tenth of the total.
func newHeadlessProgressBar(title string, total int, w io.Writer) *headlessProgressBar {
	step := max(total/headlessSteps, 1)
	return &headlessProgressBar{
		title:  title,
		total:  total,
		step:   step,
		next:   step,
		writer: w,
	}
}

// Increment advances the progress by n.
func (b *headlessProgressBar) Increment(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = min(b.current+n, b.total)
	if b.current >= b.next && b.current < b.total {
		for b.next <= b.current {
			b.next += b.step
		}
		b.printLocked()
	}
}

// SetTitle updates the progress bar title.
func (b *headlessProgressBar) SetTitle(title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.title = title
}

// Done completes the progress bar at 100%.
func (b *headlessProgressBar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.total
	b.printLocked()
}

func (b *headlessProgressBar) printLocked() {
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, b.title)
}

// --- headlessSpinner ---

// headlessSpinner implements Spinner with plain text log output.
type headlessSpinner struct {
	title  string
	writer io.Writer
}

// newHeadlessSpinner creates a headless spinner that prints the title.
func newHeadlessSpinner(title string, w io.Writer) *headlessSpinner {
	_, _ = fmt.Fprintf(w, "%s\n", title)
	return &headlessSpinner{title: title, writer: w}
}

// SetTitle updates the spinner title and prints a log line.
func (s *headlessSpinner) SetTitle(title string) {
	s.title = title
	_, _ = fmt.Fprintf(s.writer, "%s\n", title)
}

// Stop halts the spinner.
func (s *headlessSpinner) Stop() {}
