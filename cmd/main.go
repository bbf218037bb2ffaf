package main

import (
	"context"
	"fmt"
	"log"
	"os"

	configcmd "github.com/thomas-vilte/tickmate/internal/commands/config"
	"github.com/thomas-vilte/tickmate/internal/commands/tickets"
	cfg "github.com/thomas-vilte/tickmate/internal/config"
	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
	"github.com/thomas-vilte/tickmate/internal/greptile"
	"github.com/thomas-vilte/tickmate/internal/i18n"
	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/services"
	ghclient "github.com/thomas-vilte/tickmate/internal/vcs/github"
	"github.com/thomas-vilte/tickmate/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	initLogging(os.Args)

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Error initializing the cli: %v", err)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func initializeApp() (*cli.Command, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not get the user home directory: %w", err)
	}

	cfgApp, err := cfg.LoadConfig(homeDir)
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language)
	if err != nil {
		return nil, fmt.Errorf("error loading translations: %w", err)
	}

	if cfgApp.GreptileAPIKey == "" {
		log.Printf("Warning: %s", apperrors.ErrGreptileKeyMissing.Message)
	}

	queryClient := greptile.NewClient(
		cfgApp.GreptileAPIKey,
		cfgApp.GitHubToken,
		greptile.WithPollObserver(func(attempt, maxAttempts int, status greptile.IndexStatus) {
			logger.Debug(context.Background(), "indexing poll",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"status", string(status))
		}),
	)

	listService := services.NewTicketListService(queryClient, services.WithTicketListConfig(cfgApp))
	detailService := services.NewDetailedTicketService(queryClient, services.WithDetailedConfig(cfgApp))
	templateService := services.NewTemplateService(services.WithTemplateConfig(cfgApp))

	publisherProvider := func(targetRepository string) (tickets.IssuePublisher, error) {
		if cfgApp.GitHubToken == "" {
			return nil, apperrors.ErrTokenMissing
		}
		owner, name, err := ghclient.ParseRepository(targetRepository)
		if err != nil {
			return nil, err
		}
		client := ghclient.NewGitHubClient(owner, name, cfgApp.GitHubToken)
		return services.NewPublisherService(client), nil
	}

	generateFactory := tickets.NewGenerateCommandFactory(
		listService,
		detailService,
		publisherProvider,
		templateService,
	)
	templatesFactory := tickets.NewTemplatesCommandFactory(templateService)
	configFactory := configcmd.NewConfigCommandFactory()

	commands := []*cli.Command{
		generateFactory.CreateCommand(translations, cfgApp),
		templatesFactory.CreateCommand(translations, cfgApp),
		configFactory.CreateCommand(translations, cfgApp),
		{
			Name:    "help",
			Aliases: []string{"h"},
			Usage:   translations.GetMessage("help_command_usage", 0, nil),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return cli.ShowAppHelp(cmd)
			},
		},
	}

	return &cli.Command{
		Name:        "tickmate",
		Usage:       translations.GetMessage("app_usage", 0, nil),
		Version:     version.FullVersion(),
		Description: translations.GetMessage("app_description", 0, nil),
		Commands:    commands,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose logging",
			},
		},
	}, nil
}

// initLogging reads the logging flags before the cli parses anything so the
// very first command steps already log at the requested level.
func initLogging(args []string) {
	debug, verbose := false, false
	for _, arg := range args {
		switch arg {
		case "--debug":
			debug = true
		case "--verbose":
			verbose = true
		}
	}
	logger.Initialize(debug, verbose)
}
