package main

import (
	"os"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"mtstates.hcl" type:"path" help:"Path to HCL configuration file"`
	Debug  bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Generate GenerateCmd      `cmd:"" default:"withargs" help:"Generate substream states (default command)"`
	Reshape  ReshapeCmd       `cmd:"" help:"Convert a state file to a [runs, substreams, 624] .npy table"`
	Inspect  InspectCmd       `cmd:"" help:"Summarize the records in a state file"`
	Streams  StreamsCmd       `cmd:"" help:"Draw from the substreams of one run in a .npy table"`
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("mtstates"),
		kong.Description("Generate non-overlapping MT19937 substream starting states by jump-ahead"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		// Every failure, usage errors included, exits with status 1.
		kong.Exit(func(code int) {
			if code != 0 {
				code = 1
			}
			os.Exit(code)
		}),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
