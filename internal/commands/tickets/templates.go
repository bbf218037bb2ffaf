package tickets

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/tickmate/internal/config"
	"github.com/thomas-vilte/tickmate/internal/i18n"
	"github.com/thomas-vilte/tickmate/internal/ui"
	"github.com/urfave/cli/v3"
)

// TemplatesCommandFactory is the factory for the templates command.
type TemplatesCommandFactory struct {
	templateService TemplateService
}

func NewTemplatesCommandFactory(templateService TemplateService) *TemplatesCommandFactory {
	return &TemplatesCommandFactory{templateService: templateService}
}

// CreateCommand creates the templates command with its subcommands.
func (f *TemplatesCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "templates",
		Aliases: []string{"tpl"},
		Usage:   t.GetMessage("templates.command_usage", 0, nil),
		Commands: []*cli.Command{
			f.newListCommand(t, cfg),
			f.newShowCommand(t),
		},
	}
}

func (f *TemplatesCommandFactory) newListCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   t.GetMessage("templates.list_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			templates, err := f.templateService.ListTemplates(ctx)
			if err != nil {
				ui.HandleAppError(err)
				return err
			}

			if len(templates) == 0 {
				ui.PrintInfo(t.GetMessage("templates.none_found", 0, map[string]interface{}{
					"Dir": cfg.TemplatesDir,
				}))
				return nil
			}

			for _, template := range templates {
				if template.About != "" {
					ui.PrintKeyValue(template.Name, template.About)
					continue
				}
				fmt.Println(template.Name)
			}
			return nil
		},
	}
}

func (f *TemplatesCommandFactory) newShowCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     t.GetMessage("templates.show_usage", 0, nil),
		ArgsUsage: "<name>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return cli.ShowSubcommandHelp(cmd)
			}

			template, err := f.templateService.GetTemplateByName(ctx, name)
			if err != nil {
				ui.PrintError(os.Stdout, t.GetMessage("templates.error_not_found", 0, map[string]interface{}{
					"Name": name,
				}))
				return err
			}

			fmt.Println(template.Content)
			return nil
		},
	}
}
