package tickets

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/thomas-vilte/tickmate/internal/config"
	"github.com/thomas-vilte/tickmate/internal/i18n"
	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/models"
	"github.com/thomas-vilte/tickmate/internal/ui"
	"github.com/urfave/cli/v3"
)

// TicketListGenerator is a minimal interface for testing purposes
type TicketListGenerator interface {
	Generate(ctx context.Context, promptContent string, ref models.RepositoryRef, requestedCount int) (*models.TicketListResult, error)
}

// TicketExpander is a minimal interface for testing purposes
type TicketExpander interface {
	Expand(ctx context.Context, stubs []models.Ticket, bodyFormat string, ref models.RepositoryRef) (*models.ExpandResult, error)
}

// IssuePublisher is a minimal interface for testing purposes
type IssuePublisher interface {
	Publish(ctx context.Context, tickets []models.Ticket) []models.PublishResult
}

// TemplateService is a minimal interface for testing purposes
type TemplateService interface {
	ListTemplates(ctx context.Context) ([]models.TemplateMetadata, error)
	GetTemplateByName(ctx context.Context, name string) (*models.TicketTemplate, error)
}

// PublisherProvider builds a publisher bound to the target repository.
type PublisherProvider func(targetRepository string) (IssuePublisher, error)

// GenerateCommandFactory is the factory for the ticket generation command.
type GenerateCommandFactory struct {
	listService       TicketListGenerator
	detailService     TicketExpander
	publisherProvider PublisherProvider
	templateService   TemplateService
	input             io.Reader
	reader            *bufio.Reader
}

// NewGenerateCommandFactory creates a new instance of the factory.
func NewGenerateCommandFactory(
	listService TicketListGenerator,
	detailService TicketExpander,
	publisherProvider PublisherProvider,
	templateService TemplateService,
) *GenerateCommandFactory {
	return &GenerateCommandFactory{
		listService:       listService,
		detailService:     detailService,
		publisherProvider: publisherProvider,
		templateService:   templateService,
		input:             os.Stdin,
	}
}

// SetInput overrides the interactive input source, for tests.
func (f *GenerateCommandFactory) SetInput(r io.Reader) {
	f.input = r
	f.reader = nil
}

// CreateCommand creates the generate command.
func (f *GenerateCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   t.GetMessage("generate.command_usage", 0, nil),
		Flags:   f.createFlags(t, cfg),
		Action:  f.createAction(t, cfg),
	}
}

func (f *GenerateCommandFactory) createFlags(t *i18n.Translations, cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "prompt",
			Aliases: []string{"p"},
			Usage:   t.GetMessage("generate.flag_prompt", 0, nil),
		},
		&cli.StringFlag{
			Name:    "prompt-file",
			Aliases: []string{"f"},
			Usage:   t.GetMessage("generate.flag_prompt_file", 0, nil),
		},
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   t.GetMessage("generate.flag_repo", 0, nil),
			Value:   cfg.DefaultRepository,
		},
		&cli.StringFlag{
			Name:  "remote",
			Usage: t.GetMessage("generate.flag_remote", 0, nil),
			Value: cfg.DefaultRemote,
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   t.GetMessage("generate.flag_branch", 0, nil),
			Value:   cfg.DefaultBranch,
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   t.GetMessage("generate.flag_count", 0, nil),
			Value:   int64(cfg.TicketCount),
		},
		&cli.StringFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   t.GetMessage("generate.flag_template", 0, nil),
			Value:   "task",
		},
		&cli.StringFlag{
			Name:  "target",
			Usage: t.GetMessage("generate.flag_target", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "genius",
			Usage: t.GetMessage("generate.flag_genius", 0, nil),
			Value: cfg.Genius,
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: t.GetMessage("generate.flag_dry_run", 0, nil),
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   t.GetMessage("generate.flag_yes", 0, nil),
		},
	}
}

func (f *GenerateCommandFactory) createAction(t *i18n.Translations, cfg *config.Config) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		log := logger.FromContext(ctx)
		start := time.Now()

		promptContent, err := f.resolvePrompt(cmd)
		if err != nil {
			ui.PrintError(os.Stdout, t.GetMessage("generate.error_no_prompt", 0, nil))
			return err
		}

		repository := cmd.String("repo")
		if repository == "" {
			msg := t.GetMessage("generate.error_no_repo", 0, nil)
			ui.PrintError(os.Stdout, msg)
			return fmt.Errorf("%s", msg)
		}

		ref := models.RepositoryRef{
			Remote:     cmd.String("remote"),
			Repository: repository,
			Branch:     cmd.String("branch"),
		}
		count := int(cmd.Int("count"))
		cfg.Genius = cmd.Bool("genius")

		log.Info("executing generate command",
			"repository", ref.String(),
			"count", count,
			"dry_run", cmd.Bool("dry-run"))

		stubs, err := f.runTicketListPhase(ctx, t, cfg, promptContent, ref, count)
		if err != nil {
			ui.HandleAppError(err)
			return err
		}

		if !cmd.Bool("yes") {
			stubs = f.selectTickets(t, stubs)
		}

		selected := models.SelectedTickets(stubs)
		if len(selected) == 0 {
			ui.PrintInfo(t.GetMessage("generate.no_tickets_selected", 0, nil))
			return nil
		}

		detailed, err := f.runDetailPhase(ctx, t, selected, cmd.String("template"), ref)
		if err != nil {
			ui.HandleAppError(err)
			return err
		}

		if cmd.Bool("dry-run") {
			f.printTickets(detailed.Tickets)
			ui.PrintInfo(t.GetMessage("generate.dry_run_done", 0, nil))
			return nil
		}

		// The expanded tickets get their own review pass: publishing acts
		// on what the user confirmed here, not on the pre-expansion set.
		toPublish := detailed.Tickets
		if !cmd.Bool("yes") {
			ui.PrintInfo(t.GetMessage("generate.review_detailed", len(toPublish), map[string]interface{}{
				"Count": len(toPublish),
			}))
			toPublish = f.selectTickets(t, toPublish)
		}

		toPublish = models.SelectedTickets(toPublish)
		if len(toPublish) == 0 {
			ui.PrintInfo(t.GetMessage("generate.nothing_to_publish", 0, nil))
			return nil
		}

		target := cmd.String("target")
		if target == "" {
			target = repository
		}

		err = f.runPublishPhase(ctx, t, toPublish, target)
		if err != nil {
			ui.HandleAppError(err)
			return err
		}

		log.Info("generate command finished",
			"duration_ms", time.Since(start).Milliseconds())
		return nil
	}
}

// resolvePrompt reads the prompt from the flag or the prompt file.
func (f *GenerateCommandFactory) resolvePrompt(cmd *cli.Command) (string, error) {
	if prompt := strings.TrimSpace(cmd.String("prompt")); prompt != "" {
		return prompt, nil
	}

	path := cmd.String("prompt-file")
	if path == "" {
		return "", fmt.Errorf("a prompt is required: pass --prompt or --prompt-file")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading prompt file: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	return string(content), nil
}

// runTicketListPhase runs the first generation pass with progress feedback.
func (f *GenerateCommandFactory) runTicketListPhase(ctx context.Context, t *i18n.Translations, cfg *config.Config, promptContent string, ref models.RepositoryRef, count int) ([]models.Ticket, error) {
	if cfg.MockFile != "" && !cfg.Production {
		ui.PrintInfo(t.GetMessage("generate.using_mock", 0, map[string]interface{}{
			"Path": cfg.MockFile,
		}))
	}

	spin := ui.NewSmartSpinner(t.GetMessage("generate.ensuring_indexed", 0, nil))
	spin.Start()

	result, err := f.listService.Generate(ctx, promptContent, ref, count)
	if err != nil {
		spin.Stop()
		return nil, err
	}

	spin.Success(t.GetMessage("generate.query_done", 0, nil))

	if result.CountMismatch {
		ui.PrintWarning(t.GetMessage("generate.count_mismatch", 0, map[string]interface{}{
			"Got":  len(result.Tickets),
			"Want": result.RequestedCount,
		}))
	}

	ui.PrintInfo(t.GetMessage("generate.extracted", len(result.Tickets), map[string]interface{}{
		"Count": len(result.Tickets),
	}))

	return result.Tickets, nil
}

// runDetailPhase expands the selected stubs using the chosen body template.
func (f *GenerateCommandFactory) runDetailPhase(ctx context.Context, t *i18n.Translations, selected []models.Ticket, templateName string, ref models.RepositoryRef) (*models.ExpandResult, error) {
	bodyFormat := ""
	if f.templateService != nil && templateName != "" {
		template, err := f.templateService.GetTemplateByName(ctx, templateName)
		if err != nil {
			logger.Warn(ctx, "template not found, expanding without body format",
				"template", templateName)
		} else {
			bodyFormat = template.Content
		}
	}

	spin := ui.NewSmartSpinner(t.GetMessage("generate.expanding", len(selected), map[string]interface{}{
		"Count": len(selected),
	}))
	spin.Start()

	result, err := f.detailService.Expand(ctx, selected, bodyFormat, ref)
	if err != nil {
		spin.Stop()
		return nil, err
	}

	spin.Stop()

	for _, failure := range result.Failures {
		ui.PrintWarning(t.GetMessage("generate.expand_item_failed", 0, map[string]interface{}{
			"Title": failure.Stub.Title,
		}))
	}

	ui.PrintSuccess(os.Stdout, t.GetMessage("generate.expanded", len(result.Tickets), map[string]interface{}{
		"Count": len(result.Tickets),
	}))

	return result, nil
}

// runPublishPhase creates the issues and reports the mixed outcome. The
// messaging distinguishes "nothing was created" from "some created, N failed".
func (f *GenerateCommandFactory) runPublishPhase(ctx context.Context, t *i18n.Translations, tickets []models.Ticket, target string) error {
	publisher, err := f.publisherProvider(target)
	if err != nil {
		return err
	}

	ui.PrintInfo(t.GetMessage("generate.publishing", len(tickets), map[string]interface{}{
		"Count": len(tickets),
	}))

	results := publisher.Publish(ctx, tickets)

	created, failed := 0, 0
	for _, r := range results {
		if r.Created() {
			created++
			ui.PrintSuccess(os.Stdout, t.GetMessage("generate.issue_created", 0, map[string]interface{}{
				"URL": r.Issue.URL,
			}))
			continue
		}
		failed++
		ui.PrintError(os.Stdout, t.GetMessage("generate.issue_failed", 0, map[string]interface{}{
			"Title": r.TicketTitle,
			"Error": r.Err.Error(),
		}))
	}

	switch {
	case created == 0:
		ui.PrintError(os.Stdout, t.GetMessage("generate.publish_summary_none", 0, nil))
	case failed > 0:
		ui.PrintWarning(t.GetMessage("generate.publish_summary_mixed", 0, map[string]interface{}{
			"Created": created,
			"Failed":  failed,
		}))
	default:
		ui.PrintSuccess(os.Stdout, t.GetMessage("generate.publish_summary_ok", created, map[string]interface{}{
			"Count": created,
		}))
	}

	return nil
}

func (f *GenerateCommandFactory) printTickets(tickets []models.Ticket) {
	separator := strings.Repeat("─", 60)
	for _, ticket := range tickets {
		fmt.Println(separator)
		ui.PrintKeyValue("Title", ticket.Title)
		if len(ticket.Labels) > 0 {
			ui.PrintKeyValue("Labels", strings.Join(ticket.Labels, ", "))
		}
		fmt.Println(ticket.Body)
	}
	fmt.Println(separator)
}
