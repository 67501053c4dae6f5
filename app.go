package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warpath/bot"
	"github.com/pthm-cable/warpath/camera"
	"github.com/pthm-cable/warpath/components"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/game"
	"github.com/pthm-cable/warpath/inspector"
	"github.com/pthm-cable/warpath/renderer"
	"github.com/pthm-cable/warpath/ui"
)

const controlsLegend = "WASD drive | Space fire | 1-8 Q E weapons | X self-destruct | Enter pause | . step | O overlays | C console | click inspect"
const controlsLegendSplit = "P1: WASD Space Q E X | P2: arrows RCtrl RShift RAlt | Enter pause | O overlays | C console"

// maxLocalPlayers caps splitscreen panes; one keyboard only has room for
// two full binding sets.
const maxLocalPlayers = 2

// App owns the graphical session: the driver, the cameras, and every
// panel. The simulation runs on fixed ticks inside Frame; everything else
// reads committed state between ticks. Each local player gets a camera
// and a pane; spectator sessions get a single free camera.
type App struct {
	session *game.Session
	driver  *game.Driver
	replay  *game.Replay
	acc     float64 // replay-mode tick accumulator

	cams     []*camera.Camera
	freeCam  []bool
	arenaR   *renderer.ArenaRenderer
	entR     *renderer.EntityRenderer
	botProbe *bot.Controller

	hud        *ui.HUD
	overlays   *ui.OverlayRegistry
	controls   *ui.ControlsPanel
	matchStats *ui.MatchStatsPanel
	scoreboard *ui.ScoreboardPanel
	status     *ui.VehicleStatusPanel
	perfPanel  *ui.PerfPanel
	console    *ui.Console
	inspect    *inspector.Inspector

	snapshotPath string
	scoreRows    []ui.ScoreRow
}

// NewApp wires the UI around a session and starts the driver.
func NewApp(session *game.Session, replay *game.Replay, snapshotPath string) *App {
	cfg := config.Cfg()
	sw := int32(cfg.Screen.Width)
	sh := int32(cfg.Screen.Height)

	panes := session.PlayerCount()
	if panes < 1 {
		panes = 1
	}
	if panes > maxLocalPlayers {
		panes = maxLocalPlayers
	}

	w, h := session.Grid().Bounds()
	paneW := float32(sw) / float32(panes)
	cams := make([]*camera.Camera, panes)
	for i := range cams {
		cams[i] = camera.New(paneW, float32(sh), w, h)
		cams[i].SetViewportOffset(float32(i)*paneW, 0)
	}

	a := &App{
		session:      session,
		driver:       game.NewDriver(session),
		replay:       replay,
		cams:         cams,
		freeCam:      make([]bool, panes),
		arenaR:       renderer.NewArenaRenderer(session.Grid()),
		entR:         renderer.NewEntityRenderer(),
		botProbe:     bot.NewController(session.Grid()),
		hud:          ui.NewHUD(),
		overlays:     ui.NewOverlayRegistry(),
		controls:     ui.NewControlsPanel(10, 80, 240),
		matchStats:   ui.NewMatchStatsPanel(10, sh-260, 200),
		scoreboard:   ui.NewScoreboardPanel(260),
		status:       ui.NewVehicleStatusPanel(10, 80, 240),
		perfPanel:    ui.NewPerfPanel(sw-240, sh-220),
		console:      ui.NewConsole(sw-320, 10, 300),
		inspect:      inspector.NewInspector(sw, sh),
		snapshotPath: snapshotPath,
	}
	a.driver.Start()
	return a
}

// Frame runs one render frame: input, as many fixed ticks as real time
// covers, then drawing.
func (a *App) Frame() {
	a.handleInput()

	if a.replay != nil {
		a.stepReplay(float64(rl.GetFrameTime()))
	} else {
		a.driver.Advance(float64(rl.GetFrameTime()))
	}

	a.followPlayers()

	rl.BeginDrawing()
	a.drawWorld()
	a.drawUI()
	rl.EndDrawing()
}

// stepReplay advances a replayed match, feeding journal inputs before
// every tick. The driver pauses itself at the journal's end.
func (a *App) stepReplay(frameDt float64) {
	if a.driver.State() != game.StateRunning {
		return
	}

	a.acc += frameDt
	if a.acc > 0.25 {
		a.acc = 0.25
	}

	dt := config.Cfg().Physics.DT
	for a.acc >= dt {
		if a.session.TickCount() > a.replay.LastTick() {
			a.driver.Pause()
			return
		}
		a.replay.Apply(a.session, a.session.TickCount())
		a.session.Tick()
		a.acc -= dt
	}
}

func (a *App) handleInput() {
	for key := rl.GetKeyPressed(); key > 0; key = rl.GetKeyPressed() {
		a.overlays.HandleKeyPress(key)
	}

	switch {
	case rl.IsKeyPressed(rl.KeyEnter):
		a.driver.TogglePause()
	case rl.IsKeyPressed(rl.KeyPeriod):
		a.stepOnce()
	case rl.IsKeyPressed(rl.KeyO):
		a.controls.Toggle()
	case rl.IsKeyPressed(rl.KeyC):
		a.console.Toggle()
	case rl.IsKeyPressed(rl.KeyF):
		for i := range a.freeCam {
			a.freeCam[i] = false
		}
	case rl.IsKeyPressed(rl.KeyF5) && a.snapshotPath != "":
		writeSnapshot(a.session, a.snapshotPath)
	}

	// Mouse zoom, pan and inspection act on the pane under the cursor.
	mouse := rl.GetMousePosition()
	cam, pane := a.cameraAt(mouse.X, mouse.Y)

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + 0.1*wheel)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		cam.Pan(-d.X, -d.Y)
		a.freeCam[pane] = true
	}

	a.inspect.HandleInput(a.session.Store(), cam)

	if a.replay == nil {
		for i := 0; i < len(a.cams) && i < a.session.PlayerCount(); i++ {
			a.session.SetPlayerInput(i, a.readPlayerInput(i))
		}
	}
}

// cameraAt returns the camera whose pane covers a screen position, and
// its index. Positions outside every pane fall back to pane 0.
func (a *App) cameraAt(sx, sy float32) (*camera.Camera, int) {
	for i, c := range a.cams {
		if c.Contains(sx, sy) {
			return c, i
		}
	}
	return a.cams[0], 0
}

// readPlayerInput maps the keyboard to one player's input for this frame.
// Weapon cycling resolves to a direct selection here, so a frame covering
// several ticks cannot skip past weapons. With two local players the
// arrow keys belong to player 1.
func (a *App) readPlayerInput(player int) components.Input {
	if player == 1 {
		return a.readSecondPlayerInput()
	}

	in := components.EmptyInput
	arrows := len(a.cams) < 2

	if rl.IsKeyDown(rl.KeyA) || (arrows && rl.IsKeyDown(rl.KeyLeft)) {
		in.Steer -= 1
	}
	if rl.IsKeyDown(rl.KeyD) || (arrows && rl.IsKeyDown(rl.KeyRight)) {
		in.Steer += 1
	}
	if rl.IsKeyDown(rl.KeyW) || (arrows && rl.IsKeyDown(rl.KeyUp)) {
		in.Throttle += 1
	}
	if rl.IsKeyDown(rl.KeyS) || (arrows && rl.IsKeyDown(rl.KeyDown)) {
		in.Throttle -= 1
	}
	in.Fire = rl.IsKeyDown(rl.KeySpace)
	in.SelfDestruct = rl.IsKeyPressed(rl.KeyX)

	for i := int32(0); i < int32(components.WeaponCount); i++ {
		if rl.IsKeyPressed(rl.KeyOne + i) {
			in.WeaponSelect = int8(i)
		}
	}
	if v := a.playerVehicle(0); v != nil {
		if rl.IsKeyPressed(rl.KeyQ) {
			in.WeaponSelect = int8(v.CurWeapon.Prev())
		}
		if rl.IsKeyPressed(rl.KeyE) {
			in.WeaponSelect = int8(v.CurWeapon.Next())
		}
	}

	return in
}

// readSecondPlayerInput maps the right-hand key cluster: arrows drive,
// right ctrl fires, right shift cycles weapons, right alt self-destructs.
func (a *App) readSecondPlayerInput() components.Input {
	in := components.EmptyInput

	if rl.IsKeyDown(rl.KeyLeft) {
		in.Steer -= 1
	}
	if rl.IsKeyDown(rl.KeyRight) {
		in.Steer += 1
	}
	if rl.IsKeyDown(rl.KeyUp) {
		in.Throttle += 1
	}
	if rl.IsKeyDown(rl.KeyDown) {
		in.Throttle -= 1
	}
	in.Fire = rl.IsKeyDown(rl.KeyRightControl)
	in.SelfDestruct = rl.IsKeyPressed(rl.KeyRightAlt)

	if v := a.playerVehicle(1); v != nil && rl.IsKeyPressed(rl.KeyRightShift) {
		in.WeaponSelect = int8(v.CurWeapon.Next())
	}

	return in
}

// stepOnce single-ticks a paused match, feeding replay inputs if any.
func (a *App) stepOnce() {
	if a.driver.State() != game.StatePaused {
		return
	}
	if a.replay != nil {
		if a.session.TickCount() > a.replay.LastTick() {
			return
		}
		a.replay.Apply(a.session, a.session.TickCount())
	}
	a.driver.Step()
}

// followPlayers keeps each camera on its player's hull until the user
// pans that pane away.
func (a *App) followPlayers() {
	for i, cam := range a.cams {
		if a.freeCam[i] || i >= a.session.PlayerCount() {
			continue
		}
		h := a.session.PlayerHandle(i)
		if tr := a.session.Store().Transform(h); tr != nil {
			cam.Follow(tr.Pos.X, tr.Pos.Y)
		}
	}
}

func (a *App) drawWorld() {
	a.arenaR.ShowSpawns = a.overlays.IsEnabled(ui.OverlaySpawnMarkers)
	a.entR.ShowHPBars = a.overlays.IsEnabled(ui.OverlayHPBars)
	a.entR.ShowTriggerRadii = a.overlays.IsEnabled(ui.OverlayTriggerRadii)
	a.entR.ShowHitboxes = a.overlays.IsEnabled(ui.OverlayHitboxes)

	for _, cam := range a.cams {
		a.drawPane(cam)
	}

	if len(a.cams) > 1 {
		x := int32(a.cams[1].OffsetX)
		rl.DrawRectangle(x-1, 0, 2, int32(rl.GetScreenHeight()), rl.Black)
	}
}

// drawPane renders the world through one camera, clipped to its pane.
func (a *App) drawPane(cam *camera.Camera) {
	rl.BeginScissorMode(int32(cam.OffsetX), int32(cam.OffsetY), int32(cam.ViewportW), int32(cam.ViewportH))

	a.arenaR.Draw(cam)
	a.entR.Draw(a.session.Store(), cam)

	if a.overlays.IsEnabled(ui.OverlayBotTargets) {
		a.drawBotTargets(cam)
	}
	a.inspect.DrawSelectionHighlight(a.session.Store(), cam)

	rl.EndScissorMode()
}

// drawBotTargets draws a line from each bot to the enemy it is engaging.
func (a *App) drawBotTargets(cam *camera.Camera) {
	store := a.session.Store()
	col := rl.Color{R: 255, G: 90, B: 90, A: 120}

	store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		if !v.Bot || !v.Alive() {
			return
		}
		target := a.botProbe.Target(store, h)
		if target.IsZero() {
			return
		}
		ttr := store.Transform(target)
		ax, ay := cam.WorldToScreen(tr.Pos.X, tr.Pos.Y)
		bx, by := cam.WorldToScreen(ttr.Pos.X, ttr.Pos.Y)
		rl.DrawLineEx(rl.Vector2{X: ax, Y: ay}, rl.Vector2{X: bx, Y: by}, 1, col)
	})
}

func (a *App) drawUI() {
	sw := int32(rl.GetScreenWidth())
	sh := int32(rl.GetScreenHeight())

	a.hud.Draw(a.hudData(sw, sh))
	legend := controlsLegend
	if len(a.cams) > 1 {
		legend = controlsLegendSplit
	}
	a.hud.DrawControls(sw, sh, legend)

	for i := 0; i < len(a.cams) && i < a.session.PlayerCount(); i++ {
		data := a.statusData(sw, sh, i)
		a.hud.DrawStatusBar(data, int32(a.cams[i].OffsetX)+10)
	}

	a.controls.Draw(a.overlays)
	if a.console.IsVisible() {
		a.console.Draw(config.Cfg())
	}
	if a.overlays.IsEnabled(ui.OverlayPerf) {
		a.perfPanel.Draw(a.session.Perf().Stats())
	}
	if a.overlays.IsEnabled(ui.OverlayScoreboard) {
		a.scoreboard.Draw(a.buildScoreRows(), sw, sh)
		a.matchStats.Draw(a.session.LastWindow())
	}

	a.drawSelectedVehicle()
	a.inspect.Draw(a.session.Store())
}

// drawSelectedVehicle shows the curated status readout when the inspector
// selection is a vehicle.
func (a *App) drawSelectedVehicle() {
	h, ok := a.inspect.Selected()
	if !ok {
		return
	}
	store := a.session.Store()
	v := store.Vehicle(h)
	if v == nil {
		return
	}
	tr := store.Transform(h)
	cfg := config.Cfg()
	wc := cfg.Weapons.ByKind(v.CurWeapon)
	ammo := v.Ammo[v.CurWeapon]

	view := ui.VehicleView{
		Player:  v.Player,
		Bot:     v.Bot,
		Color:   renderer.PlayerColor(v.Player),
		HP:      v.HP,
		MaxHP:   float32(cfg.Vehicle.MaxHP),
		Dead:    v.Dead,
		Weapon:  v.CurWeapon,
		Rounds:  ammo.Rounds,
		Mag:     int16(wc.Magazine),
		Reload:  ammo.Reload,
		Refire:  ammo.Refire,
		Ctrl:    v.Ctrl,
		Speed:   tr.Vel.Len(),
		InWater: v.InWater,
	}

	y := int32(80)
	if a.controls.IsVisible() {
		y = 380
	}
	a.status.SetPosition(10, y)
	a.status.Draw(view)
}

// buildScoreRows snapshots every vehicle's kills and deaths.
func (a *App) buildScoreRows() []ui.ScoreRow {
	a.scoreRows = a.scoreRows[:0]
	a.session.Store().ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		name := fmt.Sprintf("Player %d", v.Player)
		if v.Bot {
			name = fmt.Sprintf("Bot %d", v.Player)
		}
		a.scoreRows = append(a.scoreRows, ui.ScoreRow{
			Name:   name,
			Color:  renderer.PlayerColor(v.Player),
			Kills:  int(v.Kills),
			Deaths: int(v.Deaths),
			Dead:   v.Dead,
		})
	})
	return a.scoreRows
}

// hudData builds the match-wide readout in the top-left corner.
func (a *App) hudData(sw, sh int32) ui.HUDData {
	store := a.session.Store()

	vehicles, projectiles := 0, 0
	store.ForEach(func(h components.Handle, class components.Class, tr *components.Transform) {
		switch class {
		case components.ClassVehicle:
			vehicles++
		case components.ClassProjectile:
			projectiles++
		}
	})

	return ui.HUDData{
		Title:        "Warpath",
		Tick:         a.session.TickCount(),
		FPS:          rl.GetFPS(),
		State:        a.driver.State().String(),
		Vehicles:     vehicles,
		Projectiles:  projectiles,
		ScreenWidth:  sw,
		ScreenHeight: sh,
	}
}

// statusData fills one player's HP and ammo readout for their pane.
func (a *App) statusData(sw, sh int32, player int) ui.HUDData {
	cfg := config.Cfg()
	data := ui.HUDData{ScreenWidth: sw, ScreenHeight: sh}

	v := a.playerVehicle(player)
	if v == nil {
		return data
	}

	ammo := v.Ammo[v.CurWeapon]
	data.HP = v.HP
	data.MaxHP = float32(cfg.Vehicle.MaxHP)
	data.Weapon = v.CurWeapon.String()
	data.Rounds = int(ammo.Rounds)
	data.Magazine = cfg.Weapons.ByKind(v.CurWeapon).Magazine
	data.ReloadTicks = ammo.Reload
	data.Dead = v.Dead
	data.RespawnSecs = float32(v.RespawnTicks) * cfg.Derived.DT32
	return data
}

// playerVehicle returns a local player's vehicle, or nil when the slot
// does not exist.
func (a *App) playerVehicle(player int) *components.VehicleState {
	if player >= a.session.PlayerCount() {
		return nil
	}
	return a.session.Store().Vehicle(a.session.PlayerHandle(player))
}
