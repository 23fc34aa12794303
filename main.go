package main

import (
	"log"
	"os"

	"github.com/cwf-platform/dbops/cmd"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "dbops",
		Usage: "Operational database tooling: schema diagrams and connectivity checks",
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.DiagramCommand(),
			cmd.CheckCommand(),
			cmd.TablesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
