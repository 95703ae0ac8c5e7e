// Package tui provides the BubbleTea-based interactive placement preview.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/anchorpop/internal/config"
	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/eventloop"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
	"github.com/jmylchreest/anchorpop/internal/popup"
	"github.com/jmylchreest/anchorpop/internal/style"
	"github.com/jmylchreest/anchorpop/internal/surface/term"
	"github.com/jmylchreest/anchorpop/internal/theme"
)

const (
	anchorStep  = 20
	contentStep = 20
	chromeLines = 4 // header, status, help and a spacer
)

// sizedContent is preview content whose size is set from the keyboard.
type sizedContent struct {
	size geom.Size
}

func (c *sizedContent) Measure(_, _ placement.MeasureSpec) geom.Size {
	return c.size
}

// Model is the preview model.
type Model struct {
	cfg      *config.Config
	settings popup.Settings
	themes   *theme.Loader
	logger   *slog.Logger

	loop    *eventloop.Loop
	surface *term.Surface
	popup   *popup.Popup
	content *sizedContent

	frame  geom.Rect
	anchor geom.Rect
	delay  time.Duration

	keys   KeyMap
	help   help.Model
	styles term.Styles

	width  int
	height int
	ready  bool

	statusMsg string
	statusErr bool
	layoutGen int
}

// Options configures the preview.
type Options struct {
	Config      *config.Config
	Themes      *theme.Loader // optional
	Logger      *slog.Logger
	ContentSize geom.Size
}

// New creates the preview model and shows the popup once.
func New(opts Options) (Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := opts.ContentSize
	if size.Width <= 0 || size.Height <= 0 {
		size = geom.Size{Width: 240, Height: 120}
	}

	frame := cfg.Preview.Frame.Rect()
	anchorW, anchorH := 120, 32
	anchor := geom.XYWH(frame.CenterX()-anchorW/2, frame.Top+frame.Height()/2-anchorH/2, anchorW, anchorH)

	m := Model{
		cfg:      cfg,
		settings: popup.SettingsFromConfig(cfg),
		themes:   opts.Themes,
		logger:   logger,
		loop:     eventloop.New(logger),
		surface:  term.NewSurface(64, logger),
		content:  &sizedContent{size: size},
		frame:    frame,
		anchor:   anchor,
		delay:    cfg.Preview.RelayoutDelay.Duration(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		styles:   term.DefaultStyles(),
	}

	var th popup.Theme
	if opts.Themes != nil {
		th = opts.Themes
	}
	p, err := popup.New(popup.Config{
		Settings:  m.settings,
		Surface:   m.surface,
		Scheduler: m.loop,
		Theme:     th,
		Logger:    logger,
	})
	if err != nil {
		return Model{}, err
	}
	p.SetContent(m.content)
	m.popup = p

	if err := m.show(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Init initializes the preview.
func (m Model) Init() tea.Cmd {
	return nil
}

type layoutMsg struct {
	gen int
}

type clearStatusMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case layoutMsg:
		if msg.gen != m.layoutGen {
			return m, nil
		}
		if m.popup.Layout() {
			m.loop.RunPending()
			return m.status("re-layout applied", false)
		}
		return m, nil

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Left):
		return m.moveAnchor(-anchorStep, 0)
	case key.Matches(msg, m.keys.Right):
		return m.moveAnchor(anchorStep, 0)
	case key.Matches(msg, m.keys.Up):
		return m.moveAnchor(0, -anchorStep)
	case key.Matches(msg, m.keys.Down):
		return m.moveAnchor(0, anchorStep)

	case key.Matches(msg, m.keys.Wider):
		return m.resizeContent(contentStep, 0)
	case key.Matches(msg, m.keys.Narrower):
		return m.resizeContent(-contentStep, 0)
	case key.Matches(msg, m.keys.Taller):
		return m.resizeContent(0, contentStep)
	case key.Matches(msg, m.keys.Shorter):
		return m.resizeContent(0, -contentStep)

	case key.Matches(msg, m.keys.Direction):
		m.settings.Options.Preferred = nextDirection(m.settings.Options.Preferred)
		return m.reshow("preferred direction: " + m.settings.Options.Preferred.String())
	case key.Matches(msg, m.keys.Shadow):
		m.settings.ShowShadow = !m.settings.ShowShadow
		return m.reshow(fmt.Sprintf("shadow: %t", m.settings.ShowShadow))
	case key.Matches(msg, m.keys.Arrow):
		m.settings.ShowArrow = !m.settings.ShowArrow
		return m.reshow(fmt.Sprintf("arrow: %t", m.settings.ShowArrow))
	case key.Matches(msg, m.keys.Animation):
		m.settings.AnimationMode = nextMode(m.settings.AnimationMode, m.settings.CustomStyle != "")
		return m.reshow("animation: " + m.settings.AnimationMode.String())

	case key.Matches(msg, m.keys.Theme):
		return m.cycleTheme()

	case key.Matches(msg, m.keys.Dismiss):
		if m.popup.Shown() {
			if err := m.popup.Dismiss(); err != nil {
				return m.status(err.Error(), true)
			}
			return m.status("dismissed", false)
		}
		return m.reshow("shown")
	}

	return m, nil
}

func (m Model) moveAnchor(dx, dy int) (tea.Model, tea.Cmd) {
	a := m.anchor.Offset(geom.Point{X: dx, Y: dy})
	// Allow the anchor to leave the frame by one step so the fallback is visible.
	limit := m.frame.Outset(geom.Uniform(anchorStep))
	if a.Left < limit.Left || a.Right > limit.Right || a.Top < limit.Top || a.Bottom > limit.Bottom {
		return m, nil
	}
	m.anchor = a
	return m.reshow("")
}

// resizeContent changes the content without re-solving; the popup catches up
// after the configured delay, the way a late layout pass would.
func (m Model) resizeContent(dw, dh int) (tea.Model, tea.Cmd) {
	m.content.size = geom.Size{
		Width:  max(contentStep, m.content.size.Width+dw),
		Height: max(contentStep, m.content.size.Height+dh),
	}
	m.layoutGen++
	gen := m.layoutGen
	m.statusMsg = fmt.Sprintf("content %s, re-layout in %s", m.content.size, m.delay)
	m.statusErr = false
	return m, tea.Tick(m.delay, func(time.Time) tea.Msg { return layoutMsg{gen: gen} })
}

func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	if m.themes == nil {
		return m.status("no theme loader", true)
	}
	names := m.themes.ListThemes()
	if len(names) == 0 {
		return m, nil
	}
	current := m.themes.CurrentTheme()
	next := names[0]
	for i, n := range names {
		if n == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := m.themes.LoadTheme(next); err != nil {
		return m.status(err.Error(), true)
	}
	if m.popup.Shown() {
		if err := m.popup.Refresh(); err != nil {
			return m.status(err.Error(), true)
		}
	}
	return m.status("theme: "+m.themes.CurrentTheme(), false)
}

func (m Model) reshow(status string) (tea.Model, tea.Cmd) {
	if err := m.show(); err != nil {
		return m.status(err.Error(), true)
	}
	if status == "" {
		return m, nil
	}
	return m.status(status, false)
}

func (m *Model) show() error {
	m.popup.SetSettings(m.settings)
	return m.popup.Show(placement.AnchorRect(m.anchor, geom.Point{}), m.frame)
}

func (m Model) status(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusErr = isErr
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func nextDirection(d placement.Direction) placement.Direction {
	switch d {
	case placement.DirectionTop:
		return placement.DirectionBottom
	case placement.DirectionBottom:
		return placement.DirectionCenterInScreen
	default:
		return placement.DirectionTop
	}
}

func nextMode(m style.Mode, hasCustom bool) style.Mode {
	switch m {
	case style.ModeAuto:
		return style.ModeFromLeft
	case style.ModeFromLeft:
		return style.ModeFromCenter
	case style.ModeFromCenter:
		return style.ModeFromRight
	case style.ModeFromRight:
		if hasCustom {
			return style.ModeCustom
		}
		return style.ModeAuto
	default:
		return style.ModeAuto
	}
}

// View renders the preview.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(term.Render(m.scene(), max(1, m.width-2), max(1, m.height-chromeLines-2-m.helpHeight()), m.styles))
	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) helpHeight() int {
	return lipgloss.Height(m.help.View(m.keys)) - 1
}

func (m Model) scene() term.Scene {
	pl, ok := m.popup.Placement()
	if !ok || !m.popup.Shown() {
		return term.Scene{Frame: m.frame, Anchor: m.anchor}
	}
	var arrow *decoration.ArrowSpec
	if a, ok := m.popup.Arrow(); ok {
		arrow = &a
	}
	return term.SceneFor(pl, arrow)
}

func (m Model) viewHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	themeName := "built-in"
	if m.themes != nil {
		themeName = m.themes.CurrentTheme()
	}
	info := fmt.Sprintf("frame %s  anchor %s  theme %s", m.frame, m.anchor, themeName)
	return titleStyle.Render("anchorpop preview") + "  " + dimStyle.Render(info)
}

func (m Model) viewStatus() string {
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		return statusStyle.Render(m.statusMsg)
	}

	pl, ok := m.popup.Placement()
	if !ok || !m.popup.Shown() {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("popup hidden")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Render(fmt.Sprintf(
		"%s  window %s  content %s  %s  %s",
		pl.Direction,
		geom.XYWH(pl.WindowX(), pl.WindowY(), pl.WindowWidth(), pl.WindowHeight()),
		pl.Size(),
		m.popup.Transition(),
		m.popup.RelayoutState(),
	))
}

// Run starts the preview with the given options.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}

	if opts.Themes != nil && opts.Config != nil && opts.Config.Theme.HotReload {
		if err := opts.Themes.StartHotReload(); err != nil {
			m.logger.Warn("failed to start theme hot-reload", "error", err)
		}
		defer opts.Themes.StopHotReload()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
