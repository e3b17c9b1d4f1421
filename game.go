package grove

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// ErrQuit can be returned from a Game's QuitWhen hook to stop the loop
// without reporting an error.
var ErrQuit = errors.New("grove: quit")

// Game adapts a Scene to ebiten.Game. Each tick runs one scene frame with
// a fixed step of 1/TPS seconds; each draw renders the registered cameras.
type Game struct {
	scene *Scene
	cfg   Config

	renderer renderer
	fps      fpsOverlay

	screenshotDir   string
	screenshotQueue []string

	// QuitWhen, if set, is checked after every frame. Returning true ends
	// the loop.
	QuitWhen func(s *Scene) bool
}

// NewGame wraps s for the ebiten loop. A scripted input source gets its
// screenshot steps routed to the game.
func NewGame(s *Scene, cfg *Config) *Game {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	g := &Game{
		scene:         s,
		cfg:           *cfg,
		screenshotDir: cfg.ScreenshotDir,
	}
	if g.cfg.Window.TPS <= 0 {
		g.cfg.Window.TPS = ebiten.DefaultTPS
	}
	if in, ok := s.input.(*ScriptedInput); ok && in.OnScreenshot == nil {
		in.OnScreenshot = g.Screenshot
	}
	return g
}

// Scene returns the scene driven by the game.
func (g *Game) Scene() *Scene {
	return g.scene
}

// Update runs one scene frame.
func (g *Game) Update() error {
	dt := 1 / float32(g.cfg.Window.TPS)
	g.scene.Frame(dt)
	if g.cfg.Window.ShowFPS {
		g.fps.update(dt)
	}
	if g.QuitWhen != nil && g.QuitWhen(g.scene) {
		return ErrQuit
	}
	return nil
}

// Draw renders every camera in ascending depth order, then the FPS overlay
// and any queued screenshots.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.scene
	var start time.Time
	if s.debug {
		start = time.Now()
	}

	g.renderer.drawScene(screen, s)

	if s.debug {
		s.stats.drawTime = time.Since(start)
		s.stats.cameraCount = s.cameras.Len()
		s.stats.meshCount = s.meshes.Len()
		s.stats.triangles = countTriangles(s.meshes.Active())
		s.debugLog(s.stats)
	}

	g.flushScreenshots(screen)
	if g.cfg.Window.ShowFPS {
		g.fps.draw(screen)
	}
}

// Layout records the window size in the scene so cameras can compute their
// viewports, and uses it as the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.SetWindowSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run starts s and drives it with ebiten until the window closes.
func Run(s *Scene, cfg *Config) error {
	return RunGame(NewGame(s, cfg))
}

// RunGame opens the window described by the game's config, starts the
// scene and runs the ebiten loop.
func RunGame(g *Game) error {
	cfg := g.cfg
	s := g.scene

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	s.SetWindowSize(cfg.Window.Width, cfg.Window.Height)

	if err := s.Start(); err != nil {
		s.log.Warn("scene started with initialize errors", zap.Error(err))
	}
	s.log.Info("running scene",
		zap.String("title", cfg.Window.Title),
		zap.Int("objects", countObjects(s.root)),
		zap.Int("cameras", s.cameras.Len()),
		zap.Int("meshes", s.meshes.Len()))

	err := ebiten.RunGame(g)
	s.SetRunning(false)
	if err != nil && !errors.Is(err, ErrQuit) {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

// countObjects returns the number of objects in the subtree rooted at g.
func countObjects(g *GameObject) int {
	n := 1
	for _, c := range g.children {
		n += countObjects(c)
	}
	return n
}
