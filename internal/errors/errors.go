package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeNetwork       ErrorType = "NETWORK"
	TypeService       ErrorType = "SERVICE"
	TypeIndexing      ErrorType = "INDEXING"
	TypeExtraction    ErrorType = "EXTRACTION"
	TypeVCS           ErrorType = "VCS"
	TypeTemplate      ErrorType = "TEMPLATE"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same taxonomy entry. Sentinel errors are
// matched by type and message so wrapped copies created with WithError or
// WithContext still compare equal under errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Code-query service errors
var (
	ErrServiceUnavailable = NewAppError(TypeNetwork, "Could not reach the code-query service", nil).
				WithSuggestion("Check your network connection and try again")

	ErrServiceRequest = NewAppError(TypeService, "Code-query service returned an error", nil).
				WithSuggestion("Verify your Greptile API key: tickmate config show")

	ErrServiceUnauthorized = NewAppError(TypeService, "Code-query service rejected the credentials", nil).
				WithSuggestion("Set a valid API key: export GREPTILE_API_KEY=<key>")

	ErrIndexingTimeout = NewAppError(TypeIndexing, "Repository indexing timed out", nil).
				WithSuggestion("Large repositories can take a while. Check your email for the indexing notification, then retry")

	ErrIndexingRequest = NewAppError(TypeIndexing, "Failed to submit the indexing request", nil).
				WithSuggestion("Verify the repository exists and your token can read it")
)

// Extraction errors
var (
	ErrExtractionFailure = NewAppError(TypeExtraction, "Unable to extract tickets from the response", nil).
		WithSuggestion("The model may have produced invalid JSON. Adjust the prompt or try again")
)

// Configuration errors
var (
	ErrGreptileKeyMissing = NewAppError(TypeConfiguration, "Greptile API key is missing", nil).
				WithSuggestion("Set it with: export GREPTILE_API_KEY=<key>")

	ErrTokenMissing = NewAppError(TypeConfiguration, "GitHub token is missing", nil).
			WithSuggestion("Set it with: export GITHUB_TOKEN=<token>")

	ErrConfigMissing = NewAppError(TypeConfiguration, "Configuration is missing", nil).
				WithSuggestion("Initialize configuration: tickmate config init")

	ErrMockFileInvalid = NewAppError(TypeConfiguration, "Mock response file could not be read", nil).
				WithSuggestion("Check the path in TICKMATE_MOCK_FILE points to a recorded query response")
)

// Tracker errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository name and access permissions")

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Token needs the 'repo' scope to create issues")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a personal access token for higher limits")

	ErrIssueValidation = NewAppError(TypeVCS, "GitHub rejected the issue content", nil).
				WithSuggestion("Check for invalid labels or an empty title")
)

// Template errors
var (
	ErrTemplateNotFound = NewAppError(TypeTemplate, "Ticket template not found", nil).
				WithSuggestion("List available templates: tickmate templates list")

	ErrNoTemplates = NewAppError(TypeTemplate, "No ticket templates available", nil).
			WithSuggestion("Add .md templates under ./ticket_templates")
)
