package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xterm "golang.org/x/term"

	"github.com/go-drift/viewtree/cmd/viewtree/internal/config"
	"github.com/go-drift/viewtree/cmd/viewtree/internal/scene"
	"github.com/go-drift/viewtree/pkg/animation"
	"github.com/go-drift/viewtree/pkg/errors"
	"github.com/go-drift/viewtree/pkg/renderer/memory"
	"github.com/go-drift/viewtree/pkg/renderer/term"
	"github.com/go-drift/viewtree/pkg/view"
)

func init() {
	RegisterCommand(&Command{
		Name:  "demo",
		Short: "Drive a scene interactively",
		Long: `Mount a scene in the terminal and drive its nodes by hand.

Keys:
  up/down, k/j   Select a node
  r              Render
  a              Attach
  d              Detach (runs exit transitions)
  D              Detach immediately
  s / h          Show / hide
  x              Destroy the layer
  q              Quit`,
		Usage: "viewtree demo [scene.yaml]",
		Run:   runDemo,
	})
}

var demoKeys = map[string]string{
	"r": "render",
	"a": "attach",
	"d": "detach",
	"D": "detach-now",
	"s": "show",
	"h": "hide",
	"x": "destroy",
}

const listWidth = 44

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	surfaceStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
)

func runDemo(args []string) error {
	var path string
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			return fmt.Errorf("unknown flag %s", arg)
		}
		path = arg
	}
	if !xterm.IsTerminal(int(os.Stdin.Fd())) || !xterm.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("demo needs an interactive terminal")
	}
	res, err := loadScene(path)
	if err != nil {
		return err
	}

	m, err := newDemoModel(res)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.send = p.Send
	prev := errors.SetHandler(m)
	defer errors.SetHandler(prev)
	m.sc.Mount()

	_, err = p.Run()
	return err
}

type frameMsg time.Time

type timerMsg struct{ fn func() }

// demoModel owns the tree; every tree call happens inside Update.
type demoModel struct {
	res    *config.Resolved
	tree   *view.Tree
	sc     *scene.Scene
	sched  *animation.Scheduler
	comp   *term.Compositor
	send   func(tea.Msg)
	cursor int
	status string
}

func newDemoModel(res *config.Resolved) (*demoModel, error) {
	m := &demoModel{res: res, sched: animation.NewScheduler(nil)}
	r := memory.New()
	opts := []view.TreeOption{view.WithScheduler(m.sched)}
	if res.Watchdog > 0 {
		opts = append(opts, view.WithWatchdog(res.Watchdog, m))
	}
	m.tree = view.NewTree(r, opts...)
	sc, err := scene.Build(m.tree, res, slog.New(slog.DiscardHandler))
	if err != nil {
		return nil, err
	}
	m.sc = sc
	m.comp = term.New(r, append(termStyles(res), term.WithSize(res.Width, res.Height))...)
	return m, nil
}

// AfterFunc delivers timer callbacks to Update.
func (m *demoModel) AfterFunc(d time.Duration, fn func()) (stop func()) {
	t := time.AfterFunc(d, func() { m.send(timerMsg{fn}) })
	return func() { t.Stop() }
}

// Diagnostics are reported from inside Update, so they go to the status
// line directly.
func (m *demoModel) HandleError(err *errors.ViewError)  { m.status = err.Error() }
func (m *demoModel) HandlePanic(err *errors.PanicError) { m.status = err.Error() }
func (m *demoModel) HandleDiagnostic(d *errors.Diagnostic) {
	if d.Severity == errors.SeverityWarn || errors.DebugMode() {
		m.status = d.String()
	}
}

func (m *demoModel) frame() tea.Cmd {
	return tea.Tick(m.res.FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *demoModel) Init() tea.Cmd {
	return m.frame()
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.comp.Resize(max(msg.Width-listWidth-2, 1), max(msg.Height-5, 1))
	case frameMsg:
		if m.sched.Active() {
			m.sched.Step()
		}
		return m, m.frame()
	case timerMsg:
		msg.fn()
	case tea.KeyMsg:
		names := m.sc.Names()
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, len(names)-1)
		default:
			action, ok := demoKeys[key]
			if !ok || len(names) == 0 {
				break
			}
			name := names[m.cursor]
			m.status = ""
			handled, err := m.sc.Apply(config.Step{Action: action, Node: name})
			if err != nil {
				errors.Report(&errors.ViewError{Op: "scene." + action, Kind: errors.KindConfig, Node: name, Err: err})
			} else if m.status == "" {
				m.status = fmt.Sprintf("%s %s: handled=%t", action, name, handled)
			}
		}
	}
	return m, nil
}

func (m *demoModel) View() string {
	var list strings.Builder
	for i, name := range m.sc.Names() {
		id, _ := m.sc.ID(name)
		line := fmt.Sprintf("%-12s %s", name, m.tree.State(id))
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		list.WriteString(line + "\n")
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		surfaceStyle.Render(m.comp.Frame()),
		lipgloss.NewStyle().Width(listWidth).PaddingLeft(1).Render(list.String()),
	)
	help := dimStyle.Render("r render  a attach  d detach  D now  s show  h hide  x destroy  q quit")
	return body + "\n" + m.status + "\n" + help
}
