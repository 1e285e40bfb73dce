package viz

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

const (
	defaultWidth  = 60
	defaultHeight = 30
	trailLength   = 100
)

// Options configure replay of a finished run.
type Options struct {
	FPS        int
	ViewLim    float64
	Autoscroll bool
	Title      string
	// GIFPath is where the g key writes a recording.
	GIFPath string
	Logger  *slog.Logger
}

func (o *Options) setDefaults() {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.ViewLim <= 0 {
		o.ViewLim = 20
	}
	if o.Title == "" {
		o.Title = "N-Body Dynamics"
	}
	if o.GIFPath == "" {
		o.GIFPath = "nbody.gif"
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

type TickMsg time.Time

// Model replays a Result frame by frame: positions projected through a
// rotatable camera, a fading trail per body and the energy history so far.
type Model struct {
	result  *dynamo.Result
	radii   []int
	opts    Options
	canvas  *Canvas
	camera  *Camera
	frame   int
	running bool
	bound   float64

	recording bool
	frames    []*image.Paletted
	status    string
}

func NewModel(result *dynamo.Result, masses []float64, opts Options) Model {
	opts.setDefaults()
	if len(masses) != result.Bodies() {
		masses = make([]float64, result.Bodies())
		for i := range masses {
			masses[i] = 1
		}
	}
	areas := NormalizeMass(masses)
	radii := make([]int, len(areas))
	for i, a := range areas {
		radii[i] = MarkerRadius(a)
	}
	return Model{
		result:  result,
		radii:   radii,
		opts:    opts,
		canvas:  NewCanvas(defaultWidth, defaultHeight),
		camera:  NewCamera(),
		running: true,
		bound:   EnergyBounds(result.Kinetic, result.Potential),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Frame returns the record currently shown.
func (m Model) Frame() int { return m.frame }

func (m Model) Running() bool { return m.running }

func (m Model) last() int { return len(m.result.States) - 1 }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running && m.frame >= m.last() {
				m.frame = 0
			}
		case "r":
			m.frame = 0
			m.camera.Reset()
		case "[":
			m.seek(-1)
		case "]":
			m.seek(1)
		case "{":
			m.seek(-m.opts.FPS)
		case "}":
			m.seek(m.opts.FPS)
		case "a":
			m.opts.Autoscroll = !m.opts.Autoscroll
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = nil
				m.status = "recording"
			}
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
		return m, nil

	case TickMsg:
		if m.running {
			if m.frame < m.last() {
				m.frame++
			} else {
				m.running = false
			}
			if m.recording {
				m.draw()
				m.frames = append(m.frames, CanvasImage(m.canvas))
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) seek(delta int) {
	m.running = false
	m.frame = max(0, min(m.last(), m.frame+delta))
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := SaveGIF(m.opts.GIFPath, m.frames, 100/m.opts.FPS); err != nil {
		m.opts.Logger.Error("save recording", "path", m.opts.GIFPath, "error", err)
		m.status = "recording failed"
	} else {
		m.opts.Logger.Info("recording saved", "path", m.opts.GIFPath, "frames", len(m.frames))
		m.status = "saved " + m.opts.GIFPath
	}
	m.frames = nil
}

func (m Model) positions(k int) []Vec3 {
	n := m.result.Bodies()
	pts := make([]Vec3, n)
	for i := range pts {
		p := m.result.Position(k, i)
		pts[i] = Vec3{p[0], p[1], p[2]}
	}
	return pts
}

func (m Model) viewport(pts []Vec3) Viewport {
	lo, hi := -m.opts.ViewLim, m.opts.ViewLim
	if m.opts.Autoscroll {
		lo, hi = ViewBounds(pts, m.opts.ViewLim)
	}
	return Viewport{Lo: lo, Hi: hi, Width: m.canvas.PixelWidth(), Height: m.canvas.PixelHeight()}
}

// draw renders the current frame onto the canvas. Trails cover the last
// trailLength records; before that the missing history is padded with the
// initial position.
func (m *Model) draw() {
	m.canvas.Clear()
	pts := m.positions(m.frame)
	vp := m.viewport(pts)

	for k := m.frame - trailLength; k < m.frame; k++ {
		for _, p := range m.positions(max(k, 0)) {
			if x, y, ok := m.camera.Project(p, vp); ok {
				m.canvas.Set(x, y)
			}
		}
	}
	for i, p := range pts {
		if x, y, ok := m.camera.Project(p, vp); ok {
			m.canvas.DrawDisc(x, y, m.radii[i])
		}
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	k := m.frame
	r := m.result
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.opts.Title)) + "\n")

	switch {
	case m.recording:
		s.WriteString(statusRec.Render("● REC") + "\n")
	case m.running:
		s.WriteString(statusRunning.Render("PLAYING") + "\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n")
	}
	s.WriteString(ProgressBar(float64(k)/float64(max(1, m.last())), 30) + "\n\n")

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f", r.Time(k))) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d / %d", k, m.last())) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", r.Bodies())) + "\n")
	s.WriteString(labelStyle.Render("KE") + valueStyle.Render(fmt.Sprintf("%.4g", r.Kinetic[k])) + "\n")
	s.WriteString(labelStyle.Render("PE") + valueStyle.Render(fmt.Sprintf("%.4g", r.Potential[k])) + "\n")
	s.WriteString(labelStyle.Render("E") + valueStyle.Render(fmt.Sprintf("%.6g", r.Energy(k))) + "\n")
	if e0 := r.Energy(0); e0 != 0 {
		drift := (r.Energy(k) - e0) / e0
		s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%+.2e", drift)) + "\n")
	}

	if k > 0 {
		plot := EnergyPlot(r.Kinetic[:k+1], r.Potential[:k+1], 36, 8, m.bound)
		s.WriteString(graphStyle.Render(plot) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Play/Pause R:Restart Q:Quit\n[ ]:Step { }:Skip A:Autoscroll\nXYZ:Rotate +/-:Zoom G:Record"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Animate replays result in the terminal until the user quits.
func Animate(result *dynamo.Result, masses []float64, opts Options) error {
	if result == nil || len(result.States) == 0 {
		return fmt.Errorf("%w: nothing to animate", dynamo.ErrEmptyState)
	}
	_, err := tea.NewProgram(NewModel(result, masses, opts), tea.WithAltScreen()).Run()
	return err
}

// Snapshot renders record k of result onto a fresh canvas using the
// animator's projection, trails and marker sizes.
func Snapshot(result *dynamo.Result, masses []float64, k int, opts Options) *Canvas {
	m := NewModel(result, masses, opts)
	m.frame = max(0, min(m.last(), k))
	m.draw()
	return m.canvas
}
