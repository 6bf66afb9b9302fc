package main

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/wallclimb/collision"
	"github.com/milk9111/wallclimb/common"
	"github.com/milk9111/wallclimb/planar"
	"github.com/milk9111/wallclimb/prefabs"
	"github.com/milk9111/wallclimb/script"
	"github.com/milk9111/wallclimb/sim"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

type Game struct {
	prefab string
	kind   sim.WorldKind
	log    *zap.Logger

	spec     *prefabs.CharacterSpec
	session  *sim.Session
	outline  *planar.World
	keyboard *keyboard

	autopilot *script.Runtime
	watcher   *prefabs.Watcher

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
	status  string
	debug   bool
}

func NewGame(prefab string, kind sim.WorldKind, debug bool, log *zap.Logger) (*Game, error) {
	g := &Game{prefab: prefab, kind: kind, debug: debug, log: log}
	if err := g.reload(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)

	w, err := prefabs.NewWatcher(prefabs.DiskDir, prefabs.DiskDir+"/scripts")
	if err != nil {
		log.Warn("hot reload disabled", zap.Error(err))
	} else {
		g.watcher = w
	}
	return g, nil
}

// reload rebuilds the session from the prefab on disk. The running session
// is kept when the prefab is broken.
func (g *Game) reload() error {
	spec, err := prefabs.LoadCharacterSpecFile(g.prefab)
	if err != nil {
		return err
	}
	kb, err := newKeyboard(spec.Bindings)
	if err != nil {
		return err
	}
	session, err := sim.New(spec, g.kind, g.log)
	if err != nil {
		return err
	}

	g.spec = spec
	g.session = session
	g.keyboard = kb
	g.autopilot = nil
	g.outline = session.Planar
	if g.outline == nil {
		g.outline = planar.NewWorld(session.Level, g.log.Named("outline"))
	}
	g.status = fmt.Sprintf("loaded %s in %s", spec.Name, spec.Level)
	return nil
}

func (g *Game) toggleAutopilot() {
	if g.autopilot != nil {
		g.autopilot = nil
		g.status = "autopilot off"
		return
	}
	rt, err := script.Load(g.spec.Script, g.log.Named("script"))
	if err != nil {
		g.status = err.Error()
		return
	}
	g.autopilot = rt
	g.status = "autopilot: " + rt.Name()
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Info("prefab changed", zap.String("path", c.Path))
			if c.Kind == prefabs.ScriptChanged && g.autopilot == nil {
				continue
			}
			if err := g.reload(); err != nil {
				g.status = "reload failed: " + err.Error()
				g.log.Warn("reload failed", zap.Error(err))
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("watch", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	if g.quit {
		if g.watcher != nil {
			_ = g.watcher.Close()
		}
		return ebiten.Termination
	}
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.toggleAutopilot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}

	in := g.keyboard.poll()
	if g.autopilot != nil {
		g.autopilot.Observe(g.session.Status())
		next, err := g.autopilot.Next(g.session.Frame(), g.session.Elapsed())
		switch {
		case errors.Is(err, script.ErrNoInput):
			g.autopilot = nil
			g.status = "autopilot done: " + g.session.Summary().String()
		case err != nil:
			g.autopilot = nil
			g.status = err.Error()
		default:
			in = next
		}
	}
	g.session.Step(common.DefaultDelta, in)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	body := g.session.Body
	loc := body.Location()
	v := view{camX: loc.X(), camZ: loc.Z(), zoom: 0.75}

	drawSpace(g.outline.Space(), screen, v)
	if scene, ok := g.session.World.(*collision.Scene); ok {
		v.panels(screen, scene, colornames.Orange)
	}
	if g.debug {
		v.debugLines(screen, g.session.Debug)
	}

	r, hh := body.Capsule()
	v.capsule(screen, loc, r, hh, colornames.Crimson)
	rot := body.Rotation()
	v.line(screen, loc, loc.Add(rot.Forward().Mul(r*1.5)), colornames.Yellow)
	v.line(screen, loc, loc.Add(rot.Up().Mul(r*1.5)), colornames.Lime)

	cam := g.session.Controller.CameraLocation()
	cx, cy := v.toScreen(cam.X(), cam.Z())
	vector.DrawFilledRect(screen, cx-3, cy-3, 6, 6, color.White, false)

	ebitenutil.DebugPrintAt(screen, g.hud(), 10, 10)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) hud() string {
	s := g.session
	flags := s.Controller.Climber().Flags()
	frame := s.Controller.LastFrame()
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  frame %d\n", ebiten.ActualFPS(), s.Frame())
	fmt.Fprintf(&b, "Mode: %s  climbing=%v  check_for_apex=%v\n", frame.Mode, flags.Climbing, flags.CheckForApex)
	fmt.Fprintf(&b, "Step: forward=%s right=%s\n", frame.Forward, frame.Right)
	fmt.Fprintf(&b, "Rotation: %s  control %s\n", s.Body.Rotation(), s.Controller.ControlRotation())
	loc := s.Body.Location()
	fmt.Fprintf(&b, "Location: %.1f %.1f %.1f  world=%s\n", loc.X(), loc.Y(), loc.Z(), s.Kind)
	if t := s.Controller.Climber().Transition(); t != nil {
		fmt.Fprintf(&b, "Transition: %s %.2f/%.2f\n", t.Name, t.Elapsed(), t.Duration())
	}
	b.WriteString("\n")
	for _, line := range g.spec.Bindings.Describe() {
		b.WriteString(line + "\n")
	}
	b.WriteString("P: autopilot  F1: probes  Esc: pause\n")
	if g.status != "" {
		b.WriteString("\n" + g.status + "\n")
	}
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
