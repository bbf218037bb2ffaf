package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

func NewTranslations(defaultLang string) (*Translations, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	files, err := filepath.Glob("locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[app_usage]
	other = "Generate batches of tracked GitHub issues from a prompt, with codebase context from Greptile"

	[app_description]
	other = "tickmate turns a free-form development prompt into stub tickets, expands the ones you keep into full tickets using a body template, and publishes them as GitHub issues."

	[help_command_usage]
	other = "Shows help"

	[generate.command_usage]
	other = "Generate stub tickets from a prompt, expand them, and publish GitHub issues"

	[generate.flag_prompt]
	other = "Prompt describing the work to break into tickets (or use --prompt-file)"

	[generate.flag_prompt_file]
	other = "Read the prompt from a file"

	[generate.flag_repo]
	other = "Repository to query for context, as owner/name"

	[generate.flag_remote]
	other = "Hosting provider of the context repository"

	[generate.flag_branch]
	other = "Branch of the context repository"

	[generate.flag_count]
	other = "Number of stub tickets to request"

	[generate.flag_template]
	other = "Body-format template for the detailed pass"

	[generate.flag_target]
	other = "Repository to create the issues in, as owner/name (defaults to --repo)"

	[generate.flag_genius]
	other = "Use the service's deeper (and more expensive) reasoning tier"

	[generate.flag_dry_run]
	other = "Run both passes but do not create any issues"

	[generate.flag_yes]
	other = "Skip interactive selection and accept every generated ticket"

	[generate.error_no_prompt]
	other = "A prompt is required. Pass --prompt or --prompt-file"

	[generate.error_no_repo]
	other = "A context repository is required. Pass --repo owner/name"

	[generate.using_mock]
	other = "Using recorded response from {{.Path}}"

	[generate.ensuring_indexed]
	other = "Ensuring repository is indexed..."

	[generate.waiting_indexed]
	other = "Waiting for repository indexing ({{.Repo}})..."

	[generate.indexed]
	other = "Repository is indexed."

	[generate.querying]
	other = "Querying Greptile..."

	[generate.query_done]
	other = "Query completed successfully."

	[generate.count_mismatch]
	other = "The number of tickets generated ({{.Got}}) does not match the requested number ({{.Want}})."

	[generate.extracted]
	one = "Extracted {{.Count}} ticket."
	other = "Extracted {{.Count}} tickets."

	[generate.no_tickets_selected]
	other = "No tickets selected, nothing to expand."

	[generate.expanding]
	one = "Expanding {{.Count}} ticket..."
	other = "Expanding {{.Count}} tickets..."

	[generate.expand_item_failed]
	other = "Failed to generate detailed ticket for: {{.Title}}"

	[generate.expanded]
	one = "{{.Count}} detailed ticket ready."
	other = "{{.Count}} detailed tickets ready."

	[generate.dry_run_done]
	other = "Dry run: no issues were created."

	[generate.review_detailed]
	one = "Review the {{.Count}} detailed ticket before publishing:"
	other = "Review the {{.Count}} detailed tickets before publishing:"

	[generate.nothing_to_publish]
	other = "No tickets confirmed, no issues were created."

	[generate.publishing]
	one = "Creating {{.Count}} issue..."
	other = "Creating {{.Count}} issues..."

	[generate.issue_created]
	other = "Created issue: {{.URL}}"

	[generate.issue_failed]
	other = "Failed to create issue '{{.Title}}': {{.Error}}"

	[generate.publish_summary_ok]
	one = "{{.Count}} issue created."
	other = "{{.Count}} issues created."

	[generate.publish_summary_mixed]
	other = "{{.Created}} issues created, {{.Failed}} failed."

	[generate.publish_summary_none]
	other = "Nothing was created."

	[generate.select_prompt]
	other = "Keep ticket '{{.Title}}'? [Y/n]"

	[templates.command_usage]
	other = "Manage ticket body templates"

	[templates.list_usage]
	other = "List available ticket templates"

	[templates.show_usage]
	other = "Show the content of a template"

	[templates.none_found]
	other = "No templates found in {{.Dir}}"

	[templates.error_not_found]
	other = "Template '{{.Name}}' not found"

	[config.command_usage]
	other = "Manage tickmate configuration"

	[config.show_usage]
	other = "Show the current configuration"

	[config.init_usage]
	other = "Create the default configuration file"

	[config.set_usage]
	other = "Set a configuration value"

	[config.initialized]
	other = "Configuration saved to {{.Path}}"

	[config.prompt_repository]
	other = "Default repository (owner/name) [{{.Current}}]:"

	[config.prompt_branch]
	other = "Default branch [{{.Current}}]:"

	[config.prompt_count]
	other = "Default number of tickets [{{.Current}}]:"

	[config.prompt_language]
	other = "Language [{{.Current}}]:"

	[config.greptile_key_hint]
	other = "No Greptile API key set. Export GREPTILE_API_KEY before generating tickets."

	[config.github_token_hint]
	other = "No GitHub token set. Export GITHUB_TOKEN before publishing issues."

	[config.updated]
	other = "Configuration updated."

	[config.unknown_key]
	other = "Unknown configuration key: {{.Key}}"
	`
