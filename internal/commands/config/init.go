package config

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	cfg "github.com/thomas-vilte/tickmate/internal/config"
	"github.com/thomas-vilte/tickmate/internal/i18n"
	"github.com/thomas-vilte/tickmate/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *ConfigCommandFactory) newInitCommand(t *i18n.Translations, config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  t.GetMessage("config.init_usage", 0, nil),
		Action: f.initAction(t, config),
	}
}

// initAction walks through the setup prompts. Blank answers keep the current
// value; secrets stay in the environment and are never asked for here.
func (f *ConfigCommandFactory) initAction(t *i18n.Translations, config *cfg.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		reader := bufio.NewReader(f.input)

		if value := askSetting(reader, t, "config.prompt_repository", config.DefaultRepository); value != "" {
			config.DefaultRepository = value
		}
		if value := askSetting(reader, t, "config.prompt_branch", config.DefaultBranch); value != "" {
			config.DefaultBranch = value
		}
		if value := askSetting(reader, t, "config.prompt_count", strconv.Itoa(config.TicketCount)); value != "" {
			count, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("ticket_count must be a number: %w", err)
			}
			config.TicketCount = count
		}
		if value := askSetting(reader, t, "config.prompt_language", config.Language); value != "" {
			config.Language = value
		}

		if err := cfg.SaveConfig(config); err != nil {
			return err
		}

		if config.GreptileAPIKey == "" {
			ui.PrintWarning(t.GetMessage("config.greptile_key_hint", 0, nil))
		}
		if config.GitHubToken == "" {
			ui.PrintWarning(t.GetMessage("config.github_token_hint", 0, nil))
		}

		ui.PrintSuccess(os.Stdout, t.GetMessage("config.initialized", 0, map[string]interface{}{
			"Path": config.PathFile,
		}))
		return nil
	}
}

func askSetting(reader *bufio.Reader, t *i18n.Translations, messageID, current string) string {
	fmt.Printf("%s ", t.GetMessage(messageID, 0, map[string]interface{}{
		"Current": current,
	}))

	answer, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(answer)
}
