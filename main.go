package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/corefs/testbed/pkg/cmd"
	"github.com/corefs/testbed/pkg/logging"
)

func main() {
	app := cli.NewApp()
	app.Name = "testbed"
	app.Usage = "provision and wire integration test environments for a corefs storage cluster"
	app.Description = "testbed manages the marker registry, the hosting inventory and the " +
		"per-suite virtual environments that the corefs integration suites run against."
	app.Commands = cmd.RootCommands
	app.Flags = cmd.RootFlags
	app.HideVersion = true
	app.Before = func(c *cli.Context) error {
		configureLogging(c)
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func configureLogging(c *cli.Context) {
	// The LOG_LEVEL environment variable takes precedence.
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		var l zapcore.Level
		if err := l.UnmarshalText([]byte(level)); err != nil {
			panic(err)
		}
		logging.SetLevel(l)
		return
	}

	// Apply verbosity flags.
	switch {
	case c.Bool("vv"):
		logging.SetLevel(zapcore.DebugLevel)
	case c.Bool("v"):
		logging.SetLevel(zapcore.DebugLevel)
	default:
		logging.SetLevel(zapcore.WarnLevel)
	}
}
