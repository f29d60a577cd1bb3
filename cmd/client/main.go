package main

import (
	"fmt"
	"image/color"
	_ "image/png"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/7mk4a/college-map/internal/async"
	"github.com/7mk4a/college-map/internal/client"
	"github.com/7mk4a/college-map/internal/nav"
	"github.com/7mk4a/college-map/internal/scan"
	"github.com/7mk4a/college-map/internal/search"
	"github.com/7mk4a/college-map/internal/ui"
	"github.com/7mk4a/college-map/pkg/types"
)

const (
	floorCount = 3

	panelWidth  = 320
	inputHeight = 26

	// Route draw-in speed, floor-image pixels per tick at 60 TPS.
	drawInSpeed = 12.0
)

type Game struct {
	width, height int

	queue    *async.Queue
	viewport *nav.Viewport
	session  *nav.Session
	searcher *search.Session
	scanner  *scan.Session

	floorImages map[int]*ebiten.Image

	startInput  *ui.TextInput
	destInput   *ui.TextInput
	searchInput *ui.TextInput

	// Draw-in animation state for the current route.
	animRoute    *types.Route
	animProgress float64
}

func NewGame(screenWidth, screenHeight int) *Game {
	game := &Game{
		width:    screenWidth,
		height:   screenHeight,
		queue:    async.NewQueue(),
		viewport: nav.NewViewport(),
	}

	api := client.New(viper.GetString("api_url"))
	game.session = nav.NewSession(api, game.queue)
	game.session.LoadDirectory()

	game.searcher = search.NewSession(api, game.queue)
	game.searcher.OnPick = func(room string) {
		game.session.SetEnd(room)
		game.destInput.SetText(room)
	}

	camera := &scan.DirCamera{Dir: viper.GetString("frames_dir")}
	game.scanner = scan.NewSession(camera, scan.NewQRDecoder(), scan.CaptureConfig{
		FPS:     viper.GetInt("scan_fps"),
		BoxSize: viper.GetInt("scan_box"),
	}, game.queue)
	game.scanner.CloseDelay = viper.GetDuration("scan_close_delay")
	game.scanner.OnResult = func(text string) {
		game.session.SetStart(text)
		game.startInput.SetText(text)
	}

	game.floorImages = loadFloorImages(viper.GetString("assets_dir"))

	x := screenWidth - panelWidth + 10
	w := panelWidth - 20
	game.startInput = ui.NewTextInput(x, 30, w, inputHeight, func(text string) {
		game.session.SetStart(text)
	})
	game.destInput = ui.NewTextInput(x, 80, w, inputHeight, func(text string) {
		game.session.SetEnd(text)
	})
	game.searchInput = ui.NewTextInput(x, 130, w, inputHeight, func(text string) {
		if len(game.searcher.Results) > 0 {
			game.searcher.Select(game.searcher.Results[0])
		}
	})
	game.searchInput.OnChange = func(text string) {
		game.searcher.OnQueryChange(text)
	}

	return game
}

func (g *Game) Update() error {
	g.queue.Drain()

	g.handleInput()
	g.startInput.Update()
	g.destInput.Update()
	g.searchInput.Update()

	g.advanceAnimation()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{18, 18, 24, 255})

	g.drawFloor(screen)
	g.drawNodes(screen)
	g.drawRoute(screen)
	g.drawPanel(screen)
	g.drawScanner(screen)

	ebitenutil.DebugPrint(screen, "FPS: "+strconv.FormatFloat(ebiten.ActualFPS(), 'f', 2, 64))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

func (g *Game) handleInput() {
	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if g.handleClick(mx, my) {
			return
		}
		if mx < g.width-panelWidth {
			g.viewport.BeginDrag(float64(mx), float64(my))
		}
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.viewport.Drag(float64(mx), float64(my))
	} else {
		g.viewport.EndDrag()
	}

	_, wy := ebiten.Wheel()
	if wy != 0 && mx < g.width-panelWidth {
		// Wheel up zooms in. The transform is anchored at the image origin.
		g.viewport.Zoom(-wy * 100)
	}

	if g.anyInputActive() {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.startInput.IsActive = false
			g.destInput.IsActive = false
			g.searchInput.IsActive = false
		}
		return
	}

	for i := 0; i < floorCount; i++ {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit0 + ebiten.Key(i)) {
			g.session.SetFloor(i)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.session.SetMode(nextMode(g.session.Mode))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.session.Go()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Reset()
		g.startInput.SetText("")
		g.destInput.SetText("")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.viewport.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if g.scanner.Phase == scan.PhaseIdle {
			g.scanner.Start()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		switch g.scanner.Phase {
		case scan.PhaseScanning:
			g.scanner.Stop()
		case scan.PhaseCaptured, scan.PhaseError:
			g.scanner.Close()
		}
	}
}

// handleClick resolves a left click against the UI. Returns true when the
// click was consumed by a widget.
func (g *Game) handleClick(mx, my int) bool {
	for _, ti := range []*ui.TextInput{g.startInput, g.destInput, g.searchInput} {
		if ti.IsClicked(mx, my, ti.X, ti.Y, ti.Width, ti.Height) {
			g.startInput.IsActive = ti == g.startInput
			g.destInput.IsActive = ti == g.destInput
			g.searchInput.IsActive = ti == g.searchInput
			return true
		}
	}
	g.startInput.IsActive = false
	g.destInput.IsActive = false
	g.searchInput.IsActive = false

	if g.searcher.Visible {
		if i, ok := g.hitSearchResult(mx, my); ok {
			g.searcher.Select(g.searcher.Results[i])
			g.searchInput.SetText(g.searcher.Query)
			return true
		}
	}
	return mx >= g.width-panelWidth
}

func (g *Game) anyInputActive() bool {
	return g.startInput.IsActive || g.destInput.IsActive || g.searchInput.IsActive
}

func nextMode(mode types.Mode) types.Mode {
	switch mode {
	case types.ModeNormal:
		return types.ModeStairs
	case types.ModeStairs:
		return types.ModeWheelchair
	default:
		return types.ModeNormal
	}
}

// advanceAnimation tracks route changes and advances the draw-in progress.
func (g *Game) advanceAnimation() {
	if g.session.Route != g.animRoute {
		g.animRoute = g.session.Route
		g.animProgress = 0
	}
	if g.animRoute != nil {
		g.animProgress += drawInSpeed
	}
}

func (g *Game) drawFloor(screen *ebiten.Image) {
	img, ok := g.floorImages[g.session.Floor]
	if !ok {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(g.viewport.Scale, g.viewport.Scale)
	op.GeoM.Translate(g.viewport.OffsetX, g.viewport.OffsetY)
	screen.DrawImage(img, op)
}

func (g *Game) drawNodes(screen *ebiten.Image) {
	for _, n := range g.session.Nodes {
		if n.Floor != g.session.Floor {
			continue
		}
		sx, sy := g.viewport.ToScreen(n.Position())
		c := color.RGBA{120, 160, 220, 255}
		if n.Type == types.NodeStairs || n.Type == types.NodeElevator {
			c = color.RGBA{220, 180, 80, 255}
		}
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(3*g.viewport.Scale), c, false)
		if n.Type != types.NodeCorridor {
			ebitenutil.DebugPrintAt(screen, n.Name, int(sx)+5, int(sy)+5)
		}
	}
}

func (g *Game) drawRoute(screen *ebiten.Image) {
	route := g.session.Route
	if route == nil {
		return
	}

	budget := g.animProgress
	for _, seg := range nav.SegmentsForFloor(route.Waypoints, g.session.Floor) {
		if seg.Drawable() {
			budget = g.drawSegment(screen, seg, budget)
		}
	}

	// Start and end markers, only when they lie on the displayed floor.
	if len(route.Waypoints) > 0 {
		first := route.Waypoints[0]
		last := route.Waypoints[len(route.Waypoints)-1]
		if first.Floor == g.session.Floor {
			sx, sy := g.viewport.ToScreen(first.Position())
			vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(6*g.viewport.Scale), color.RGBA{60, 200, 90, 255}, false)
		}
		if last.Floor == g.session.Floor {
			sx, sy := g.viewport.ToScreen(last.Position())
			vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(6*g.viewport.Scale), color.RGBA{220, 60, 60, 255}, false)
		}
	}
}

// drawSegment draws the segment polyline up to the remaining animation
// budget and returns what is left of it.
func (g *Game) drawSegment(screen *ebiten.Image, seg nav.Segment, budget float64) float64 {
	routeColor := color.RGBA{80, 140, 255, 255}
	for i := 1; i < len(seg); i++ {
		if budget <= 0 {
			return 0
		}
		a, b := seg[i-1].Position(), seg[i].Position()
		edge := a.DistanceTo(b)
		if edge > budget {
			t := budget / edge
			b = types.Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
		}
		ax, ay := g.viewport.ToScreen(a)
		bx, by := g.viewport.ToScreen(b)
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), float32(3*g.viewport.Scale), routeColor, false)
		budget -= edge
	}
	return budget
}

func (g *Game) drawPanel(screen *ebiten.Image) {
	px := g.width - panelWidth
	vector.DrawFilledRect(screen, float32(px), 0, panelWidth, float32(g.height), color.RGBA{30, 30, 38, 240}, false)

	ebitenutil.DebugPrintAt(screen, "From (or C to scan a room code):", px+10, 12)
	g.startInput.Draw(screen, g.startInput.X, g.startInput.Y, g.startInput.Width, g.startInput.Height)
	ebitenutil.DebugPrintAt(screen, "To:", px+10, 62)
	g.destInput.Draw(screen, g.destInput.X, g.destInput.Y, g.destInput.Width, g.destInput.Height)
	ebitenutil.DebugPrintAt(screen, "Search courses:", px+10, 112)
	g.searchInput.Draw(screen, g.searchInput.X, g.searchInput.Y, g.searchInput.Width, g.searchInput.Height)

	y := g.searchInput.Y + g.searchInput.Height + 4
	if g.searcher.Visible {
		y = g.drawSearchResults(screen, px, y)
	}

	status := fmt.Sprintf("Floor: %d (keys 0-%d)  Mode: %s (M)", g.session.Floor, floorCount-1, g.session.Mode)
	ebitenutil.DebugPrintAt(screen, status, px+10, y+8)
	ebitenutil.DebugPrintAt(screen, "G: go  R: reset  V: reset view", px+10, y+24)
	y += 48

	if g.session.Route != nil {
		y = g.drawRouteInfo(screen, px, y)
	}

	g.drawNotices(screen, px)
}

func (g *Game) drawSearchResults(screen *ebiten.Image, px, y int) int {
	if g.searcher.Pending {
		ebitenutil.DebugPrintAt(screen, "searching...", px+10, y+4)
		return y + 20
	}
	if len(g.searcher.Results) == 0 {
		ebitenutil.DebugPrintAt(screen, "no matches", px+10, y+4)
		return y + 20
	}
	for i, r := range g.searcher.Results {
		if i >= 6 {
			break
		}
		ry := y + i*20
		vector.DrawFilledRect(screen, float32(px+10), float32(ry), panelWidth-20, 18, color.RGBA{50, 50, 62, 255}, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  (%s)", r.Course, r.Room), px+14, ry+2)
	}
	n := len(g.searcher.Results)
	if n > 6 {
		n = 6
	}
	return y + n*20 + 4
}

// hitSearchResult maps a click to a visible search result row.
func (g *Game) hitSearchResult(mx, my int) (int, bool) {
	px := g.width - panelWidth
	top := g.searchInput.Y + g.searchInput.Height + 4
	if mx < px+10 || mx > g.width-10 {
		return 0, false
	}
	i := (my - top) / 20
	if my < top || i < 0 || i >= len(g.searcher.Results) || i >= 6 {
		return 0, false
	}
	return i, true
}

func (g *Game) drawRouteInfo(screen *ebiten.Image, px, y int) int {
	route := g.session.Route
	stats := fmt.Sprintf("Time: %s   Distance: %.0f m",
		formatDuration(route.TotalTimeSeconds), route.TotalDistanceMeters)
	ebitenutil.DebugPrintAt(screen, stats, px+10, y)
	y += 18

	if occ := g.session.Occupancy; occ != nil {
		line := "Destination: " + string(occ.Status)
		ebitenutil.DebugPrintAt(screen, line, px+10, y)
		y += 16
		if occ.Details != nil {
			detail := fmt.Sprintf("  %s, %s (%s)", occ.Details.Course, occ.Details.Instructor, occ.Details.Time)
			ebitenutil.DebugPrintAt(screen, detail, px+10, y)
			y += 16
		}
	}
	y += 6

	ebitenutil.DebugPrintAt(screen, "Directions:", px+10, y)
	y += 16
	for i, d := range route.Directions {
		if i >= 14 {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("  ... %d more", len(route.Directions)-i), px+10, y)
			y += 16
			break
		}
		ebitenutil.DebugPrintAt(screen, "  "+d, px+10, y)
		y += 16
	}
	return y
}

func (g *Game) drawNotices(screen *ebiten.Image, px int) {
	notices := g.session.Notices
	start := 0
	if len(notices) > 4 {
		start = len(notices) - 4
	}
	y := g.height - 16*(len(notices)-start) - 10
	for _, n := range notices[start:] {
		text := n.Timestamp.Format("15:04:05") + " " + n.Text
		if n.IsError {
			text = n.Timestamp.Format("15:04:05") + " ! " + n.Text
		}
		ebitenutil.DebugPrintAt(screen, text, px+10, y)
		y += 16
	}
}

func (g *Game) drawScanner(screen *ebiten.Image) {
	if g.scanner.Phase == scan.PhaseIdle {
		return
	}

	boxW, boxH := 360, 120
	x := (g.width - panelWidth - boxW) / 2
	y := (g.height - boxH) / 2
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), color.RGBA{20, 20, 28, 230}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), 2, color.White, false)

	switch g.scanner.Phase {
	case scan.PhaseScanning:
		ebitenutil.DebugPrintAt(screen, "Scanning for a room code... (Esc to cancel)", x+12, y+20)
	case scan.PhaseCaptured:
		ebitenutil.DebugPrintAt(screen, "Captured: "+g.scanner.Result, x+12, y+20)
		ebitenutil.DebugPrintAt(screen, "Start location set. (Esc to dismiss)", x+12, y+40)
	case scan.PhaseError:
		ebitenutil.DebugPrintAt(screen, "Camera error: "+g.scanner.ErrMsg, x+12, y+20)
		ebitenutil.DebugPrintAt(screen, "(Esc to dismiss)", x+12, y+40)
	}
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

// loadFloorImages loads floor_<n>.png for each floor from the assets
// directory. A missing image falls back to a flat placeholder so the client
// stays usable against a map with no artwork yet.
func loadFloorImages(dir string) map[int]*ebiten.Image {
	images := make(map[int]*ebiten.Image, floorCount)
	for i := 0; i < floorCount; i++ {
		path := filepath.Join(dir, fmt.Sprintf("floor_%d.png", i))
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			log.Warnf("floor image %s: %v, using placeholder", path, err)
			img = ebiten.NewImage(857, 600)
			img.Fill(color.RGBA{42, 44, 52, 255})
		}
		images[i] = img
	}
	return images
}

var rootCmd = &cobra.Command{
	Use:   "college-map",
	Short: "Campus navigation client",
	RunE: func(cmd *cobra.Command, args []string) error {
		width := viper.GetInt("width")
		height := viper.GetInt("height")

		ebiten.SetWindowSize(width, height)
		ebiten.SetWindowTitle("College Map")
		ebiten.SetVsyncEnabled(true)

		return ebiten.RunGame(NewGame(width, height))
	},
}

func init() {
	rootCmd.Flags().String("api-url", "http://127.0.0.1:5000", "map service base URL")
	rootCmd.Flags().String("assets", "internal/assets/images", "floor image directory")
	rootCmd.Flags().String("frames", "internal/assets/frames", "camera frame directory")
	rootCmd.Flags().Int("width", 1280, "window width")
	rootCmd.Flags().Int("height", 800, "window height")
	rootCmd.Flags().Int("scan-fps", 10, "scanner decode frame rate")
	rootCmd.Flags().Int("scan-box", 280, "scanner detection box size")
	rootCmd.Flags().Duration("scan-close-delay", scan.DefaultCloseDelay, "scanner auto-close delay")

	viper.BindPFlag("api_url", rootCmd.Flags().Lookup("api-url"))
	viper.BindPFlag("assets_dir", rootCmd.Flags().Lookup("assets"))
	viper.BindPFlag("frames_dir", rootCmd.Flags().Lookup("frames"))
	viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	viper.BindPFlag("height", rootCmd.Flags().Lookup("height"))
	viper.BindPFlag("scan_fps", rootCmd.Flags().Lookup("scan-fps"))
	viper.BindPFlag("scan_box", rootCmd.Flags().Lookup("scan-box"))
	viper.BindPFlag("scan_close_delay", rootCmd.Flags().Lookup("scan-close-delay"))

	viper.SetEnvPrefix("COLLEGEMAP")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
