package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	cfg "github.com/thomas-vilte/tickmate/internal/config"
	"github.com/thomas-vilte/tickmate/internal/i18n"
	"github.com/thomas-vilte/tickmate/internal/ui"
	"github.com/urfave/cli/v3"
)

// ConfigCommandFactory is the factory for the config command.
type ConfigCommandFactory struct {
	input io.Reader
}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{input: os.Stdin}
}

// SetInput overrides the interactive input source, for tests.
func (f *ConfigCommandFactory) SetInput(r io.Reader) {
	f.input = r
}

// CreateCommand creates the config command with its subcommands.
func (f *ConfigCommandFactory) CreateCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config.command_usage", 0, nil),
		Commands: []*cli.Command{
			f.newInitCommand(t, config),
			f.newShowCommand(t, config),
			f.newSetCommand(t, config),
		},
	}
}

func (f *ConfigCommandFactory) newShowCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ui.PrintKeyValue("language", config.Language)
			ui.PrintKeyValue("default_remote", config.DefaultRemote)
			ui.PrintKeyValue("default_repository", config.DefaultRepository)
			ui.PrintKeyValue("default_branch", config.DefaultBranch)
			ui.PrintKeyValue("ticket_count", strconv.Itoa(config.TicketCount))
			ui.PrintKeyValue("templates_dir", config.TemplatesDir)
			ui.PrintKeyValue("genius", strconv.FormatBool(config.Genius))
			ui.PrintKeyValue("greptile_api_key", maskSecret(config.GreptileAPIKey))
			ui.PrintKeyValue("github_token", maskSecret(config.GitHubToken))
			if config.MockFile != "" {
				ui.PrintKeyValue("mock_file", config.MockFile)
			}
			return nil
		},
	}
}

func (f *ConfigCommandFactory) newSetCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config.set_usage", 0, nil),
		ArgsUsage: "<key> <value>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			key := cmd.Args().Get(0)
			value := cmd.Args().Get(1)
			if key == "" || value == "" {
				return cli.ShowSubcommandHelp(cmd)
			}

			if err := applySetting(config, key, value); err != nil {
				ui.HandleAppError(err)
				return err
			}

			if err := cfg.SaveConfig(config); err != nil {
				return err
			}

			ui.PrintSuccess(os.Stdout, t.GetMessage("config.updated", 0, nil))
			return nil
		},
	}
}

func applySetting(config *cfg.Config, key, value string) error {
	switch key {
	case "language":
		config.Language = value
	case "default_remote":
		config.DefaultRemote = value
	case "default_repository":
		config.DefaultRepository = value
	case "default_branch":
		config.DefaultBranch = value
	case "templates_dir":
		config.TemplatesDir = value
	case "ticket_count":
		count, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("ticket_count must be a number: %w", err)
		}
		config.TicketCount = count
	case "genius":
		genius, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("genius must be true or false: %w", err)
		}
		config.Genius = genius
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
