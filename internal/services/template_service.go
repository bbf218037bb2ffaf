package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/tickmate/internal/config"
	apperrors "github.com/thomas-vilte/tickmate/internal/errors"
	"github.com/thomas-vilte/tickmate/internal/logger"
	"github.com/thomas-vilte/tickmate/internal/models"
	"gopkg.in/yaml.v3"
)

// TemplateService loads named body-format templates from the templates
// directory. Templates are markdown files with optional YAML frontmatter for
// metadata.
type TemplateService struct {
	config *config.Config
}

type TemplateOption func(*TemplateService)

func WithTemplateConfig(cfg *config.Config) TemplateOption {
	return func(s *TemplateService) {
		s.config = cfg
	}
}

func NewTemplateService(opts ...TemplateOption) *TemplateService {
	s := &TemplateService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TemplateService) templatesDir() string {
	if s.config != nil && s.config.TemplatesDir != "" {
		return s.config.TemplatesDir
	}
	return "ticket_templates"
}

// ListTemplates returns metadata for every loadable template in the
// directory. A missing directory yields an empty list, not an error; files
// that fail to parse are skipped with a warning.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]models.TemplateMetadata, error) {
	dir := s.templatesDir()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug(ctx, "templates directory does not exist", "path", dir)
		return []models.TemplateMetadata{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Error(ctx, "failed to read templates directory", err, "path", dir)
		return nil, apperrors.NewAppError(apperrors.TypeTemplate, "failed to read templates directory", err)
	}

	templates := make([]models.TemplateMetadata, 0)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		filePath := filepath.Join(dir, entry.Name())
		template, err := s.LoadTemplate(ctx, filePath)
		if err != nil {
			logger.Warn(ctx, "skipping invalid template", "path", filePath, "error", err)
			continue
		}

		templates = append(templates, models.TemplateMetadata{
			Name:     template.Name,
			About:    template.About,
			FilePath: filePath,
		})
	}

	logger.Debug(ctx, "listed templates", "count", len(templates), "dir", dir)
	return templates, nil
}

// GetTemplateByName loads the template whose name (or filename without
// extension) matches.
func (s *TemplateService) GetTemplateByName(ctx context.Context, name string) (*models.TicketTemplate, error) {
	metas, err := s.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	for _, meta := range metas {
		if meta.Name == name {
			return s.LoadTemplate(ctx, meta.FilePath)
		}
	}

	return nil, apperrors.ErrTemplateNotFound.WithContext("name", name)
}

// LoadTemplate reads and parses one template file.
func (s *TemplateService) LoadTemplate(ctx context.Context, filePath string) (*models.TicketTemplate, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		logger.Error(ctx, "failed to read template file", err, "path", filePath)
		return nil, apperrors.NewAppError(apperrors.TypeTemplate,
			fmt.Sprintf("failed to read template file: %s", filePath), err)
	}
	return parseTemplate(string(content), filePath)
}

// parseTemplate splits optional YAML frontmatter from the markdown body. The
// template name falls back to the filename without extension.
func parseTemplate(content, filePath string) (*models.TicketTemplate, error) {
	template := &models.TicketTemplate{FilePath: filePath}
	body := content

	if strings.HasPrefix(content, "---\n") {
		rest := content[len("---\n"):]
		if end := strings.Index(rest, "\n---"); end != -1 {
			frontmatter := rest[:end]
			if err := yaml.Unmarshal([]byte(frontmatter), template); err != nil {
				return nil, apperrors.NewAppError(apperrors.TypeTemplate,
					fmt.Sprintf("invalid template frontmatter: %s", filePath), err)
			}
			body = strings.TrimPrefix(rest[end+len("\n---"):], "\n")
		}
	}

	template.Content = strings.TrimSpace(body)
	if template.Name == "" {
		base := filepath.Base(filePath)
		template.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return template, nil
}
