package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/tickmate/internal/config"
	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
)

func templateServiceForDir(dir string) *TemplateService {
	return NewTemplateService(WithTemplateConfig(&config.Config{TemplatesDir: dir}))
}

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTemplateService_ListTemplates(t *testing.T) {
	t.Run("Success - lists markdown templates with frontmatter metadata", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "bug.md", "---\nname: bug\nabout: Report a defect\n---\n## Steps to reproduce\n")
		writeTemplate(t, dir, "task.md", "## Task\n\n## Acceptance Criteria\n")
		writeTemplate(t, dir, "notes.txt", "not a template")

		service := templateServiceForDir(dir)
		metas, err := service.ListTemplates(context.Background())

		require.NoError(t, err)
		require.Len(t, metas, 2)
		assert.Equal(t, "bug", metas[0].Name)
		assert.Equal(t, "Report a defect", metas[0].About)
		assert.Equal(t, "task", metas[1].Name)
		assert.Empty(t, metas[1].About)
	})

	t.Run("Success - missing directory yields empty list", func(t *testing.T) {
		service := templateServiceForDir(filepath.Join(t.TempDir(), "nope"))
		metas, err := service.ListTemplates(context.Background())

		require.NoError(t, err)
		assert.Empty(t, metas)
	})
}

func TestTemplateService_GetTemplateByName(t *testing.T) {
	t.Run("Success - matches frontmatter name", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "story.md", "---\nname: user-story\nabout: User story format\nlabels:\n  - story\n---\nAs a user...\n")

		service := templateServiceForDir(dir)
		template, err := service.GetTemplateByName(context.Background(), "user-story")

		require.NoError(t, err)
		assert.Equal(t, "user-story", template.Name)
		assert.Equal(t, []string{"story"}, template.Labels)
		assert.Equal(t, "As a user...", template.Content)
	})

	t.Run("Success - falls back to filename without extension", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "task.md", "## Task\n\n## Acceptance Criteria")

		service := templateServiceForDir(dir)
		template, err := service.GetTemplateByName(context.Background(), "task")

		require.NoError(t, err)
		assert.Equal(t, "task", template.Name)
		assert.Equal(t, "## Task\n\n## Acceptance Criteria", template.Content)
	})

	t.Run("Error - unknown template name", func(t *testing.T) {
		dir := t.TempDir()
		writeTemplate(t, dir, "task.md", "## Task")

		service := templateServiceForDir(dir)
		_, err := service.GetTemplateByName(context.Background(), "epic")

		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrTemplateNotFound))
	})
}

func TestParseTemplate(t *testing.T) {
	t.Run("Success - frontmatter is stripped from content", func(t *testing.T) {
		template, err := parseTemplate("---\nname: bug\n---\nBody here\n", "bug.md")

		require.NoError(t, err)
		assert.Equal(t, "bug", template.Name)
		assert.Equal(t, "Body here", template.Content)
	})

	t.Run("Success - no frontmatter keeps the whole file as content", func(t *testing.T) {
		template, err := parseTemplate("Plain body\n", "plain.md")

		require.NoError(t, err)
		assert.Equal(t, "plain", template.Name)
		assert.Equal(t, "Plain body", template.Content)
	})

	t.Run("Error - malformed frontmatter", func(t *testing.T) {
		_, err := parseTemplate("---\nname: [unclosed\n---\nBody\n", "bad.md")

		require.Error(t, err)
	})
}
