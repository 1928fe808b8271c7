package viz

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flowgrid/internal/config"
	"github.com/san-kum/flowgrid/internal/experiment"
	"github.com/san-kum/flowgrid/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	minWidth        = 20
	minHeight       = 6
	statsWidth      = 46
	historyCapacity = 600
	fieldStride     = 6
	fieldArrowGain  = 4.0
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Width, Height int
	Theme         string
	GIFPath       string
}

// pipeline is shared by every copy of the Model so the running worker can be
// replaced on reset and stopped once the program exits.
type pipeline struct {
	exp  *experiment.Experiment
	stop func() error
}

// Model drives a scene at the configured FPS and renders it as braille dots
// coloured by the camera.
type Model struct {
	ctx           context.Context
	cfg           *config.Config
	reg           *experiment.Registry
	pipe          *pipeline
	opts          Options
	width, height int
	canvas        *Canvas
	theme         int
	style         styles
	running       bool
	showField     bool
	showHelp      bool
	ratioHistory  []float64
	energyHistory []float64
	paramKeys     []string
	selected      int
	recording     bool
	recorder      *Recorder
	message       string
}

// NewModel builds the experiment for a copy of cfg and starts its flow
// worker. Parameter tuning edits the copy.
func NewModel(ctx context.Context, cfg *config.Config, reg *experiment.Registry, opts Options) (Model, error) {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "flowgrid.gif"
	}

	c := *cfg
	m := Model{
		ctx:           ctx,
		cfg:           &c,
		reg:           reg,
		pipe:          &pipeline{},
		opts:          opts,
		width:         opts.Width,
		height:        opts.Height,
		canvas:        NewCanvas(opts.Width, opts.Height),
		running:       true,
		ratioHistory:  make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}
	for i, t := range Themes {
		if t.Name == opts.Theme {
			m.theme = i
		}
	}
	m.style = newStyles(Themes[m.theme])

	for k := range c.GetParams() {
		m.paramKeys = append(m.paramKeys, k)
	}
	sort.Strings(m.paramKeys)

	if err := m.rebuild(); err != nil {
		return Model{}, err
	}
	sw, sh := m.canvas.SubSize()
	m.recorder = NewRecorder(sw*4, sh*4, m.fps())
	return m, nil
}

// Close stops the flow worker.
func (m Model) Close() error {
	if m.pipe.stop == nil {
		return nil
	}
	err := m.pipe.stop()
	m.pipe.stop = nil
	return err
}

func (m Model) Scene() *sim.Scene { return m.pipe.exp.Scene() }

func (m Model) fps() int {
	if m.cfg.FPS > 0 {
		return m.cfg.FPS
	}
	return 60
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps()), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - statsWidth - 6
		h := msg.Height - 4
		if w < minWidth {
			w = minWidth
		}
		if h < minHeight {
			h = minHeight
		}
		m.width, m.height = w, h
		m.canvas = NewCanvas(w, h)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.finishRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "f":
			m.showField = !m.showField
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.style = newStyles(Themes[m.theme])
		case "g":
			if m.recording {
				m.finishRecording()
			} else {
				m.recorder.Reset()
				m.recording = true
				m.message = "recording"
			}
		case "tab":
			if len(m.paramKeys) > 0 {
				m.selected = (m.selected + 1) % len(m.paramKeys)
			}
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	stats := m.Scene().Step()
	m.ratioHistory = appendCapped(m.ratioHistory, stats.Ratio)
	m.energyHistory = appendCapped(m.energyHistory, stats.KineticEnergy/float64(max(stats.Total, 1)))
	if m.recording {
		m.recorder.Capture(m.Scene())
	}
}

func appendCapped(s []float64, v float64) []float64 {
	if len(s) == historyCapacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

// rebuild replaces the running experiment with a fresh one built from cfg.
// The old one keeps running when cfg cannot be built.
func (m *Model) rebuild() error {
	exp, err := experiment.New(m.cfg, m.reg)
	if err != nil {
		return err
	}
	if err := m.Close(); err != nil {
		slog.Warn("live: stopping worker", "err", err)
	}
	m.pipe.exp = exp
	m.pipe.stop = exp.Start(m.ctx)
	return nil
}

func (m *Model) reset() {
	if err := m.rebuild(); err != nil {
		m.message = err.Error()
		return
	}
	m.ratioHistory = m.ratioHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	m.message = ""
}

// adjustParam scales the selected parameter and restarts the scene with it.
// Values the config rejects are rolled back.
func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	old := m.cfg.GetParams()[key]
	val := old * factor
	if val == 0 {
		val = 0.01 * factor
	}
	m.cfg.SetParam(key, val)
	if err := m.cfg.Validate(); err != nil {
		m.cfg.SetParam(key, old)
		m.message = err.Error()
		return
	}
	m.reset()
}

func (m *Model) finishRecording() {
	m.recording = false
	if m.recorder.Len() == 0 {
		m.message = ""
		return
	}
	if err := m.recorder.Save(m.opts.GIFPath); err != nil {
		m.message = err.Error()
		return
	}
	m.message = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.opts.GIFPath)
}

// project maps world coordinates to canvas dots.
func (m *Model) project(x, y float64) (int, int) {
	world := m.Scene().Config().World
	cw, ch := m.canvas.SubSize()
	return int(x * float64(cw) / world.Width), int(y * float64(ch) / world.Height)
}

func (m *Model) draw() {
	m.canvas.Clear()
	scene := m.Scene()
	if m.showField && scene.HaveField() {
		m.drawField()
	}
	particles := scene.Particles()
	for i := range particles {
		x, y := m.project(particles[i].Position.X, particles[i].Position.Y)
		m.canvas.SetColor(x, y, scene.Color(i))
	}
}

// drawField overlays the flow field as short line segments on a coarse lattice.
func (m *Model) drawField() {
	field := m.Scene().Field()
	cw, ch := m.canvas.SubSize()
	kx := fieldArrowGain * float64(cw) / float64(field.Width)
	ky := fieldArrowGain * float64(ch) / float64(field.Height)
	for y := fieldStride / 2; y < ch; y += fieldStride {
		for x := fieldStride / 2; x < cw; x += fieldStride {
			v := field.Sample(float64(x)*float64(field.Width)/float64(cw), float64(y)*float64(field.Height)/float64(ch))
			dx, dy := int(v.X*kx), int(v.Y*ky)
			if dx == 0 && dy == 0 {
				continue
			}
			m.canvas.DrawLine(x, y, x+dx, y+dy)
		}
	}
}

func (m Model) status() string {
	switch {
	case m.recording:
		return m.style.alert.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	case !m.running:
		return m.style.alert.Render("PAUSED")
	default:
		return m.style.status.Render("RUNNING")
	}
}

func (m Model) row(label, value string) string {
	return m.style.label.Render(label) + m.style.value.Render(value) + "\n"
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	theme := Themes[m.theme]
	scene := m.Scene()
	stats := scene.Last()
	worker := m.pipe.exp.Worker().Stats()

	var s strings.Builder
	s.WriteString(m.style.header.Render(GradientText("FLOWGRID", theme.Primary, theme.Accent)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.ratioHistory) > 1 {
		chart := asciigraph.Plot(m.ratioHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Detached"))
		s.WriteString(m.style.graph.Render(chart) + "\n\n")
	}

	s.WriteString(m.row("Tick", fmt.Sprintf("%d", stats.Tick)))
	s.WriteString(m.row("Detached", fmt.Sprintf("%d / %d", stats.Detached, stats.Total)))
	mark := 0.0
	if stats.Total > 0 {
		mark = stats.Threshold / float64(stats.Total)
	}
	s.WriteString(m.row("", RatioBar(stats.Ratio, mark, 24, theme)))
	s.WriteString(m.row("Threshold", fmt.Sprintf("%.0f", stats.Threshold)))
	reset := "off"
	if stats.Reset {
		reset = m.style.alert.Render("ON")
	}
	s.WriteString(m.row("Reset", fmt.Sprintf("%s (%d cycles)", reset, scene.Resets().Cycles())))
	s.WriteString(m.row("Energy", SparklineChart(m.energyHistory, 24, theme)))
	field := "waiting"
	if stats.HaveField {
		field = fmt.Sprintf("v%d", stats.FieldVersion)
	}
	s.WriteString(m.row("Field", field))
	s.WriteString(m.row("Frames", fmt.Sprintf("%d drop %d pub %d", worker.Frames, worker.Dropped, worker.Published)))
	s.WriteString(m.row("Source", fmt.Sprintf("%s / %s", m.cfg.Camera.Source, m.cfg.Flow.Algorithm)))

	s.WriteString("\nPARAMETERS\n")
	params := m.cfg.GetParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-16s %.4g", k, params[k])
		if i == m.selected {
			s.WriteString(m.style.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.style.value.Render(line) + "\n")
		}
	}
	if m.message != "" {
		s.WriteString("\n" + m.style.alert.Render(m.message) + "\n")
	}
	s.WriteString(m.style.help.Render("SP:Pause R:Reset Q:Quit\nF:Field T:Theme G:Record ?:Help"))

	canvasView := m.style.canvas.Render(m.canvas.Render())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.style.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single tick while paused ║
║  R        - Rebuild the scene        ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  F        - Toggle flow overlay      ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run opens the live view full screen and blocks until the user quits.
func Run(ctx context.Context, cfg *config.Config, reg *experiment.Registry, opts Options) error {
	m, err := NewModel(ctx, cfg, reg, opts)
	if err != nil {
		return err
	}
	defer m.Close()
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
