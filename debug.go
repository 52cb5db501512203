package arbor

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// debugEnabled gates all diagnostic output. Set from Options.Debug when the
// engine is constructed.
var debugEnabled bool

// debugf prints a diagnostic line to stderr.
func debugf(format string, args ...any) {
	if !debugEnabled {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[arbor] "+format+"\n", args...)
}

// debugStats tracks per-second frame metrics. Only populated when
// Options.Debug is true.
type debugStats struct {
	frames int
	last   time.Time
	fps    float64
}

// frame accumulates one frame and logs a summary line once per second.
func (d *debugStats) frame(e *Engine) {
	if !e.opts.Debug {
		return
	}
	d.frames++
	now := time.Now()
	if d.last.IsZero() {
		d.last = now
		return
	}
	elapsed := now.Sub(d.last)
	if elapsed < time.Second {
		return
	}
	d.fps = float64(d.frames) / elapsed.Seconds()
	debugf("fps: %.1f | phase: %s | nodes: %d | edges: %d | clusters: %d | scale: %.3f",
		d.fps, e.machine.phase, len(e.nodes), len(e.edges), len(e.clusters), e.view.Active().Scale)
	d.frames = 0
	d.last = now
}

// debugFrame prints the on-screen stats line.
func (e *Engine) debugFrame(screen *ebiten.Image) {
	msg := fmt.Sprintf("%.1f fps | %s | %d nodes | %d verts",
		e.dbg.fps, e.machine.phase, len(e.nodes), len(e.renderer.verts))
	ebitenutil.DebugPrintAt(screen, msg, 8, screen.Bounds().Dy()-16)
}
