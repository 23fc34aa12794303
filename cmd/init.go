package cmd

import (
	"fmt"
	"os"

	utils "github.com/cwf-platform/dbops/internal/utils"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize dbops configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "function-name",
				Usage: "Lambda function that executes schema queries",
				Value: utils.DefaultFunctionName,
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region of the Lambda function",
				Value: utils.DefaultRegion,
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to the credentials env file",
				Value: utils.DefaultEnvFile,
			},
		},
		Action: func(c *cli.Context) error {
			config := utils.Config{
				FunctionName: c.String("function-name"),
				Region:       c.String("region"),
				EnvFile:      c.String("env-file"),
			}

			// Keep values from an existing config when the flags were not set
			if existingPath, err := utils.FindConfigFile(); err == nil {
				if existing, err := utils.ReadConfig(existingPath); err == nil {
					if !c.IsSet("function-name") {
						config.FunctionName = existing.FunctionName
					}
					if !c.IsSet("region") {
						config.Region = existing.Region
					}
					if !c.IsSet("env-file") {
						config.EnvFile = existing.EnvFile
					}
				}
			}

			yamlData, err := yaml.Marshal(config)
			if err != nil {
				return fmt.Errorf("creating yaml: %v", err)
			}

			if err := os.WriteFile("dbops.yaml", yamlData, 0644); err != nil {
				return fmt.Errorf("writing config file: %v", err)
			}

			fmt.Printf("Created dbops.yaml (function: %s, region: %s)\n", config.FunctionName, config.Region)
			return nil
		},
	}
}
