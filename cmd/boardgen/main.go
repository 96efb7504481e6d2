package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/match3/board"
	"github.com/lixenwraith/match3/generator"
	"github.com/lixenwraith/match3/level"
	"github.com/lixenwraith/match3/levelstore"
	"github.com/lixenwraith/match3/parameter"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		log = log.Level(lvl)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	if err := run(context.Background(), os.Args[1:], os.Stdout, log); err != nil {
		fmt.Fprintf(os.Stderr, "boardgen: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and performs one generate, list, show or delete action
func run(ctx context.Context, args []string, out io.Writer, log zerolog.Logger) error {
	fs := flag.NewFlagSet("boardgen", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		db       = fs.String("db", "", "Level store path (empty = MATCH3_DB or data/levels.db)")
		count    = fs.Int("n", 1, "Number of levels to generate")
		width    = fs.Int("width", parameter.DefaultBoardWidth, "Board width")
		height   = fs.Int("height", parameter.DefaultBoardHeight, "Board height")
		types    = fs.Int("types", parameter.PieceTypeCount, "Number of piece types")
		underlay = fs.Int("underlay", 0, "Underlay obstacles per level (goal)")
		overlay  = fs.Int("overlay", 0, "Overlay obstacles per level (goal)")
		moves    = fs.Int("moves", parameter.DefaultMoveCount, "Move budget")
		seed     = fs.Int64("seed", 0, "Seed of the first level (0 = random); later levels use seed+i")
		list     = fs.Bool("list", false, "List stored levels")
		show     = fs.String("show", "", "Print a stored level")
		del      = fs.String("delete", "", "Delete a stored level")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dsn := *db
	if dsn == "" {
		dsn = os.Getenv("MATCH3_DB")
	}
	if dsn == "" {
		dsn = "data/levels.db"
	}
	store, err := levelstore.Open(dsn, log)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case *list:
		return listLevels(ctx, store, out)
	case *show != "":
		d, err := store.Load(ctx, *show)
		if err != nil {
			return err
		}
		draw(out, d)
		return nil
	case *del != "":
		if err := store.Delete(ctx, *del); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %s\n", *del)
		return nil
	}

	cfg := generator.Config{
		Width:  *width,
		Height: *height,
		Moves:  *moves,
		Log:    log,
	}
	for id := 0; id < *types; id++ {
		cfg.Types = append(cfg.Types, id)
	}
	if *underlay > 0 {
		cfg.Underlay = generator.LayerConfig{Types: []int{parameter.ObstacleTypeBase}, Count: *underlay}
		cfg.GoalTypes = append(cfg.GoalTypes, parameter.ObstacleTypeBase)
	}
	if *overlay > 0 {
		cfg.Overlay = generator.LayerConfig{Types: []int{parameter.ObstacleTypeBase + 1}, Count: *overlay}
		cfg.GoalTypes = append(cfg.GoalTypes, parameter.ObstacleTypeBase+1)
	}
	if len(cfg.GoalTypes) == 0 {
		cfg.GoalTypes = []int{0}
	}

	for i := 0; i < *count; i++ {
		if *seed != 0 {
			cfg.Seed = *seed + int64(i)
		}
		start := time.Now()
		d, err := generator.Generate(cfg)
		if err != nil {
			return err
		}
		id, err := store.Save(ctx, d)
		if err != nil {
			return err
		}
		log.Info().Str("id", id).Int64("seed", d.Seed).Dur("took", time.Since(start)).Msg("level generated")
		fmt.Fprintln(out, id)
	}
	return nil
}

func listLevels(ctx context.Context, store *levelstore.Store, out io.Writer) error {
	levels, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range levels {
		fmt.Fprintf(out, "%s  %dx%d  seed=%d  moves=%d  %s\n",
			s.ID, s.Width, s.Height, s.Seed, s.Moves, s.CreatedAt.Format(time.DateTime))
	}
	return nil
}

// draw prints the primary layer top row first, marking layered cells
// '#' blank cell, '.' empty, '_' underlay, '^' overlay
func draw(out io.Writer, d *level.Data) {
	under := level.Grid(d.Width, d.Height, d.Underlay)
	over := level.Grid(d.Width, d.Height, d.Overlay)

	fmt.Fprintf(out, "%s %dx%d seed=%d moves=%d\n", d.ID, d.Width, d.Height, d.Seed, d.Moves)
	var sb strings.Builder
	for y := d.Height - 1; y >= 0; y-- {
		sb.Reset()
		for x := 0; x < d.Width; x++ {
			i := y*d.Width + x
			if d.CellType(board.Point{X: x, Y: y}) == board.CellBlank {
				sb.WriteString(" # ")
				continue
			}

			mark := ' '
			switch {
			case over[i] != parameter.EmptyType:
				mark = '^'
			case under[i] != parameter.EmptyType:
				mark = '_'
			}
			sb.WriteRune(mark)
			if t := d.Primary[i]; t == parameter.EmptyType {
				sb.WriteByte('.')
			} else {
				sb.WriteString(fmt.Sprint(t % 10))
			}
			sb.WriteByte(' ')
		}
		fmt.Fprintln(out, strings.TrimRight(sb.String(), " "))
	}

	for _, g := range d.Goals {
		fmt.Fprintf(out, "goal %d x%d\n", g.TypeID, g.Amount)
	}
}
