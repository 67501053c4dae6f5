package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warpath/arena"
	"github.com/pthm-cable/warpath/config"
	"github.com/pthm-cable/warpath/game"
	"github.com/pthm-cable/warpath/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mapPath := flag.String("map", "", "PNG arena map (empty = config, then built-in)")
	headless := flag.Bool("headless", false, "Run without graphics")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	players := flag.Int("players", 1, "Local player count")
	bots := flag.Int("bots", -1, "Bot count (-1 = use config)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	record := flag.String("record", "", "Record player inputs to a journal file")
	replay := flag.String("replay", "", "Replay a recorded input journal")
	loadSnapshot := flag.String("load-snapshot", "", "Resume from a session snapshot")
	saveSnapshot := flag.String("save-snapshot", "", "Write a session snapshot on exit (F5 saves live)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	botCount := *bots
	if botCount < 0 {
		botCount = cfg.Bots.Count
	}

	playerCount := *players
	if !*headless && *replay == "" && playerCount > maxLocalPlayers {
		slog.Warn("clamping local players to the keyboard limit", "requested", playerCount, "max", maxLocalPlayers)
		playerCount = maxLocalPlayers
	}

	grid, err := loadGrid(*mapPath, cfg)
	if err != nil {
		slog.Error("failed to load map", "error", err)
		os.Exit(1)
	}

	session, err := buildSession(grid, rngSeed, playerCount, botCount, *loadSnapshot)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		os.Exit(1)
	}

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	session.AttachOutput(om)
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if *record != "" {
		journal, err := game.NewJournal(*record)
		if err != nil {
			slog.Error("failed to create input journal", "error", err)
			os.Exit(1)
		}
		defer journal.Close()
		session.AttachJournal(journal)
	}

	var rep *game.Replay
	if *replay != "" {
		rep, err = game.LoadReplay(*replay)
		if err != nil {
			slog.Error("failed to load replay", "error", err)
			os.Exit(1)
		}
	}

	if *headless {
		runHeadless(session, rep, *maxTicks, *saveSnapshot)
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Warpath")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	app := NewApp(session, rep, *saveSnapshot)
	for !rl.WindowShouldClose() {
		app.Frame()
		if *maxTicks > 0 && session.TickCount() >= *maxTicks {
			break
		}
	}

	if *saveSnapshot != "" {
		writeSnapshot(session, *saveSnapshot)
	}
}

// loadGrid builds the arena from the map flag, the config path, or the
// built-in layout, in that order.
func loadGrid(mapPath string, cfg *config.Config) (*arena.Grid, error) {
	path := mapPath
	if path == "" {
		path = cfg.World.MapPath
	}
	tileSize := float32(cfg.World.TileSize)
	if path != "" {
		return arena.LoadFile(path, tileSize)
	}
	return arena.Build(arena.DefaultImage(), arena.DefaultColorTable(), tileSize)
}

// buildSession restores a snapshot when given one, otherwise starts fresh.
func buildSession(grid *arena.Grid, seed uint64, players, bots int, snapshotPath string) (*game.Session, error) {
	if snapshotPath == "" {
		return game.NewSession(grid, seed, players, bots)
	}

	f, err := os.Open(snapshotPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := game.Load(f, grid)
	if err != nil {
		return nil, err
	}
	slog.Info("session restored", "snapshot", snapshotPath, "tick", s.TickCount(), "seed", s.Seed())
	return s, nil
}

// runHeadless drives the simulation as fast as the CPU allows. With a
// replay the run ends at the journal's last tick; otherwise max-ticks
// bounds it.
func runHeadless(s *game.Session, rep *game.Replay, maxTicks uint64, snapshotPath string) {
	if rep != nil {
		end := rep.LastTick() + 1
		if maxTicks == 0 || end < maxTicks {
			maxTicks = end
		}
	}
	if maxTicks == 0 {
		slog.Error("headless run needs --max-ticks or --replay")
		os.Exit(1)
	}

	slog.Info("starting headless match",
		"seed", s.Seed(),
		"start_tick", s.TickCount(),
		"max_ticks", maxTicks,
		"replaying", rep != nil,
	)

	start := time.Now()
	for s.TickCount() < maxTicks {
		if rep != nil {
			rep.Apply(s, s.TickCount())
		}
		s.Tick()
	}
	elapsed := time.Since(start)

	stats := s.LastWindow()
	slog.Info("match finished",
		"ticks", s.TickCount(),
		"wall_time", elapsed.Round(time.Millisecond).String(),
		"kills", stats.Kills,
		"deaths", stats.Deaths,
		"accuracy", stats.Accuracy,
	)

	if snapshotPath != "" {
		writeSnapshot(s, snapshotPath)
	}
}

// writeSnapshot saves the session, logging instead of failing the run.
func writeSnapshot(s *game.Session, path string) {
	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create snapshot file", "error", err)
		return
	}
	defer f.Close()

	if err := s.Save(f); err != nil {
		slog.Error("failed to write snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.TickCount())
}
