package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/dataset"
	"github.com/matzehuels/tilewall/pkg/render"
	"github.com/matzehuels/tilewall/pkg/scene"
)

const (
	orbitStep = 0.08
	zoomStep  = 0.9

	// headerLines and footerLines are the rows View spends outside the
	// tile area.
	headerLines = 2
	footerLines = 2
)

var (
	playActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	playKeyStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	playDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// arrangementKeys maps keys to arrangements in display order.
var arrangementKeys = []struct {
	key string
	a   arrange.Arrangement
}{
	{"t", arrange.Table},
	{"s", arrange.Sphere},
	{"h", arrange.Helix},
	{"g", arrange.Grid},
}

// =============================================================================
// PlayModel - Interactive terminal animation
// =============================================================================

type tickMsg time.Time

// PlayModel is the bubbletea model for the play command. The scene is only
// touched from Update and View, which bubbletea runs on one goroutine.
type PlayModel struct {
	Scene    *scene.Scene
	Records  []dataset.Record
	Camera   render.Camera
	Interval time.Duration
	Width    int
	Height   int
}

// NewPlayModel creates a play model ticking every interval.
func NewPlayModel(sc *scene.Scene, records []dataset.Record, interval time.Duration) PlayModel {
	return PlayModel{
		Scene:    sc,
		Records:  records,
		Camera:   render.NewCamera(0, 0),
		Interval: interval,
		Width:    80,
		Height:   24,
	}
}

func (m PlayModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m PlayModel) Init() tea.Cmd {
	return m.tick()
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.Scene.Tick(time.Time(msg))
		return m, m.tick()
	case tea.KeyMsg:
		key := msg.String()
		for _, k := range arrangementKeys {
			if key == k.key {
				m.Scene.Arrange(k.a)
				return m, nil
			}
		}
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left":
			m.Camera = m.Camera.Orbit(-orbitStep, 0)
		case "right":
			m.Camera = m.Camera.Orbit(orbitStep, 0)
		case "up":
			m.Camera = m.Camera.Orbit(0, orbitStep)
		case "down":
			m.Camera = m.Camera.Orbit(0, -orbitStep)
		case "+", "=":
			m.Camera = m.Camera.Zoom(zoomStep)
		case "-":
			m.Camera = m.Camera.Zoom(1 / zoomStep)
		case "r":
			m.Camera = render.NewCamera(0, 0)
		}
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}
	return m, nil
}

func (m PlayModel) View() string {
	var b strings.Builder
	snap := m.Scene.Snapshot()

	b.WriteString(StyleTitle.Render("tilewall"))
	b.WriteString(playDimStyle.Render(fmt.Sprintf("  %d tiles  ·  frame %d", len(snap.Poses), snap.Frame)))
	if snap.Busy {
		b.WriteString(playDimStyle.Render("  ·  moving"))
	}
	b.WriteString("\n\n")

	rows := max(m.Height-headerLines-footerLines, 1)
	grid := render.RenderASCII(snap, m.Width, rows,
		render.WithCamera(m.Camera),
		render.WithRecords(m.Records))
	for y, row := range grid.Cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if style, ok := bandStyles[c.Band]; ok && c.Tile >= 0 {
				b.WriteString(style.Render(string(c.Rune)))
			} else {
				b.WriteRune(c.Rune)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.footer(snap.Arrangement))
	return b.String()
}

// footer lists the arrangement keys with the current one highlighted.
func (m PlayModel) footer(current arrange.Arrangement) string {
	parts := make([]string, 0, len(arrangementKeys))
	for _, k := range arrangementKeys {
		label := k.key + " " + k.a.String()
		if k.a == current {
			parts = append(parts, playActiveStyle.Render(label))
		} else {
			parts = append(parts, playKeyStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ") + playDimStyle.Render("   ←↑↓→ orbit  +/- zoom  r reset  q quit")
}
