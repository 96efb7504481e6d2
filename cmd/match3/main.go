package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/match3/audio"
	"github.com/lixenwraith/match3/engine"
	"github.com/lixenwraith/match3/generator"
	"github.com/lixenwraith/match3/level"
	"github.com/lixenwraith/match3/levelstore"
	"github.com/lixenwraith/match3/match"
	"github.com/lixenwraith/match3/parameter"
	"github.com/lixenwraith/match3/render"
)

var (
	levelFlag  = flag.String("level", "", "Level id to load from the store (empty generates a board)")
	widthFlag  = flag.Int("width", parameter.DefaultBoardWidth, "Generated board width")
	heightFlag = flag.Int("height", parameter.DefaultBoardHeight, "Generated board height")
	seedFlag   = flag.Int64("seed", 0, "Board seed (0 = MATCH3_SEED or random)")
	dbFlag     = flag.String("db", "", "Level store path (empty = MATCH3_DB or data/levels.db)")
	saveFlag   = flag.Bool("save", false, "Save the generated level to the store")
	boostFlag  = flag.Int("boosters", 0, "Boosters placed on random cells at level start")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/match3.log")
)

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	log, logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed := *seedFlag
	if seed == 0 {
		seed, _ = strconv.ParseInt(os.Getenv("MATCH3_SEED"), 10, 64)
	}

	// 1. Level store, required only for -level and -save
	dsn := *dbFlag
	if dsn == "" {
		dsn = getEnv("MATCH3_DB", "data/levels.db")
	}
	store, err := levelstore.Open(dsn, log)
	if err != nil {
		if *levelFlag != "" || *saveFlag {
			fatal("Failed to open level store: %v", err)
		}
		log.Warn().Err(err).Msg("level store unavailable")
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	// 2. Level
	d, err := loadLevel(ctx, store, seed, log)
	if err != nil {
		fatal("Failed to prepare level: %v", err)
	}

	eng, err := engine.New(engine.Config{Level: d, Seed: d.Seed, Log: log})
	if err != nil {
		fatal("Failed to build level %s: %v", d.ID, err)
	}
	defer eng.Close()
	if *boostFlag > 0 {
		eng.PlaceBoosters(boosterTypes(*boostFlag))
	}

	// 3. Terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		fatal("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		fatal("Failed to initialize terminal: %v", err)
	}
	screen.EnableMouse()
	defer screen.Fini()

	// Panic Recovery: restore the terminal before printing the trace
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mMATCH3 CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	// 4. Audio, optional
	player := audio.NewPlayer(audio.LoadConfig(), log)
	if err := player.Start(); err != nil {
		log.Warn().Err(err).Msg("audio start failed, continuing without audio")
	} else {
		eng.Register(audio.NewCueHandler[*engine.Engine](player))
		defer player.Close()
	}

	g := newGame(eng, render.NewBoardRenderer(screen, nil), log)
	if store != nil {
		g.save = func() (string, error) {
			snap := eng.Snapshot()
			snap.ID = ""
			return store.Save(ctx, snap)
		}
	}

	scheduler := engine.NewClockScheduler(eng, parameter.GameUpdateInterval, log)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	events := make(chan tcell.Event, 256)
	go pollEvents(ctx, screen, events)

	eng.RunSafe(func(*engine.Engine) { g.draw() })
	for {
		select {
		case ev := <-events:
			quit := false
			eng.RunSafe(func(*engine.Engine) {
				switch ev := ev.(type) {
				case *tcell.EventKey:
					quit = !g.handleKey(ev)
				case *tcell.EventMouse:
					g.handleMouse(ev)
				case *tcell.EventResize:
					screen.Sync()
				}
				g.draw()
			})
			if quit {
				logStats(log, eng)
				return
			}

		case <-scheduler.Updates():
			eng.RunSafe(func(*engine.Engine) { g.draw() })
		}
	}
}

// loadLevel reads -level from the store or generates a fresh board
func loadLevel(ctx context.Context, store *levelstore.Store, seed int64, log zerolog.Logger) (*level.Data, error) {
	if *levelFlag != "" {
		return store.Load(ctx, *levelFlag)
	}

	d, err := generator.Generate(generator.Config{
		Width:     *widthFlag,
		Height:    *heightFlag,
		GoalTypes: []int{0, 1},
		Seed:      seed,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}
	if *saveFlag {
		if _, err := store.Save(ctx, d); err != nil {
			return nil, err
		}
		log.Info().Str("id", d.ID).Msg("level saved")
	}
	return d, nil
}

// pollEvents forwards terminal events until the screen is finalized or ctx ends
func pollEvents(ctx context.Context, screen tcell.Screen, out chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			// Screen finalized
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// boosterTypes cycles through the special kinds, one booster type per slot
func boosterTypes(n int) []int {
	span := int(match.LightBall - match.Missile + 1)
	types := make([]int, n)
	for i := range types {
		types[i] = (match.Missile + match.Kind(i%span)).TokenType()
	}
	return types
}

// logStats writes the session counters to the log
func logStats(log zerolog.Logger, eng *engine.Engine) {
	ev := log.Info()
	eng.Stats().Range(func(key string, value int64) {
		ev = ev.Int64(key, value)
	})
	ev.Msg("session ended")
}
