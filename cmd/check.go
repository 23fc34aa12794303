package cmd

import (
	"fmt"

	db "github.com/cwf-platform/dbops/database"
	utils "github.com/cwf-platform/dbops/internal/utils"

	"github.com/urfave/cli/v2"
)

func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify database connectivity using credentials from an env file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Path to the credentials env file",
				EnvVars: []string{"DBOPS_ENV_FILE"},
			},
		},
		Action: func(c *cli.Context) error {
			config := utils.LoadConfig()

			envFile := c.String("env-file")
			if envFile == "" {
				envFile = config.EnvFile
			}

			creds, err := utils.LoadCredentials(envFile)
			if err != nil {
				return fmt.Errorf("loading credentials: %v", err)
			}

			manager := &db.Manager{}
			if err := manager.ConnectWithDSN(creds.DSN()); err != nil {
				return fmt.Errorf("connecting to database: %v", err)
			}
			// Close is best-effort; a failed close does not fail the check.
			defer func() {
				if err := manager.Close(); err == nil {
					fmt.Println("Connection closed.")
				}
			}()

			if err := manager.Ping(c.Context); err != nil {
				fmt.Println("❌ Connection failed!")
				return fmt.Errorf("pinging database: %v", err)
			}
			fmt.Println("Connection successful!")

			now, err := manager.Now(c.Context)
			if err != nil {
				return fmt.Errorf("querying server time: %v", err)
			}
			fmt.Printf("Current Time: %s\n", now)

			return nil
		},
	}
}
