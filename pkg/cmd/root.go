package cmd

import "github.com/urfave/cli/v2"

// RootCommands collects all subcommands of the testbed CLI.
var RootCommands = cli.Commands{
	&MarkersCommand,
	&InventoryCommand,
	&VenvCommand,
	&HealthcheckCommand,
	&StatusCommand,
}

var RootFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  "v",
		Usage: "verbose output (equivalent to DEBUG log level)",
	},
	&cli.BoolFlag{
		Name:  "vv",
		Usage: "super verbose output (equivalent to DEBUG log level for now, it may accommodate TRACE in the future)",
	},
}
