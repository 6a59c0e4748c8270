package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version   kong.VersionFlag `short:"v" help:"Show version"`
	Run       RunCmd           `cmd:"" default:"withargs" help:"Run a race in the terminal"`
	Discord   DiscordCmd       `cmd:"" help:"Run a race in a Discord channel"`
	Odds      OddsCmd          `cmd:"" help:"Estimate win probabilities by simulation"`
	Standings StandingsCmd     `cmd:"" help:"Show persisted win counts"`
	Roster    RosterCmd        `cmd:"" help:"Manage the persisted roster"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("derby"),
		kong.Description("Text-mode horse race simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
