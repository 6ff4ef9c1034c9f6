// Command hurdat answers climatology questions about a HURDAT2 file from the
// command line: storm and season rankings, climate eras, season standings,
// and storm, season and name lookups.
//
// Usage:
//
//	go run ./cmd/hurdat -f hurdat2.txt rank-seasons --metric ACE --quantity 10
//	go run ./cmd/hurdat -f hurdat2.txt standing 2005 --metric HUreach -o json
//	go run ./cmd/hurdat -f hurdat2.txt --landfall-caveat 1851-1899 rank-seasons --metric landfall_HU -n 5
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/couchcryptid/storm-data-climo/internal/adapter/hurdat2"
	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

type cli struct {
	File   string `short:"f" env:"HURDAT2_PATH" required:"" type:"existingfile" help:"HURDAT2 file to load."`
	Output string `short:"o" enum:"text,json" default:"text" help:"Output format (text, json)."`

	LandfallCaveat string `env:"LANDFALL_CAVEAT" placeholder:"YYYY-YYYY" help:"Seasons whose landfall data is incomplete; landfall rankings overlapping them carry a note."`

	RankStorms  rankStormsCmd  `cmd:"" help:"Rank individual storms."`
	RankSeasons rankSeasonsCmd `cmd:"" help:"Rank whole or partial seasons."`
	RankClimo   rankClimoCmd   `cmd:"" help:"Rank multi-year climate eras."`
	Standing    standingCmd    `cmd:"" help:"Place one season among the seasons of a year range."`
	Storm       stormCmd       `cmd:"" help:"Show one storm with its metrics and landfalls."`
	Season      seasonCmd      `cmd:"" help:"Show one season with its storms."`
	Search      searchCmd      `cmd:"" help:"Find storms by name."`
	Summary     summaryCmd     `cmd:"" help:"Summarize a range of seasons."`
	Metrics     metricsCmd     `cmd:"" help:"List the ranking metrics."`
}

// env is bound into every command's Run method.
type env struct {
	ranker *domain.Ranker
	out    io.Writer
	json   bool
}

func newParser(c *cli, stdout, stderr io.Writer) (*kong.Kong, error) {
	return kong.New(c,
		kong.Name("hurdat"),
		kong.Description("Tropical cyclone climatology over a HURDAT2 best-track file."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
}

// run parses args, loads the record and executes the selected command.
func run(args []string, stdout, stderr io.Writer) error {
	var c cli
	parser, err := newParser(&c, stdout, stderr)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	limits := domain.DefaultLimits()
	if c.LandfallCaveat != "" {
		span, err := domain.ParseYearSpan(c.LandfallCaveat)
		if err != nil {
			return fmt.Errorf("--landfall-caveat: %w", err)
		}
		limits.LandfallCaveat = &span
	}

	rec, err := hurdat2.LoadFile(c.File)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.File, err)
	}
	return kctx.Run(&env{
		ranker: domain.NewRanker(rec, limits),
		out:    stdout,
		json:   c.Output == "json",
	})
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "hurdat: %v\n", err)
		os.Exit(1)
	}
}
