package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/tickmate/internal/models"
)

func TestBuildTicketListPrompt(t *testing.T) {
	t.Run("Success - carries prompt, count and output contract", func(t *testing.T) {
		prompt, err := BuildTicketListPrompt("  Improve the onboarding flow  ", 5)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(prompt, "Improve the onboarding flow"))
		assert.Contains(t, prompt, "exactly 5 atomic, actionable tickets")
		assert.Contains(t, prompt, "ONLY respond in pure JSON")
	})
}

func TestBuildDetailedTicketPrompt(t *testing.T) {
	t.Run("Success - renders stub fields and appends body format", func(t *testing.T) {
		stub := models.Ticket{
			Title:  "Add rate limiting",
			Body:   "Protect the API",
			Labels: []string{"feature", "backend"},
		}

		prompt, err := BuildDetailedTicketPrompt(stub, "## Acceptance Criteria\n- [ ] ...")

		require.NoError(t, err)
		assert.Contains(t, prompt, "Title: Add rate limiting")
		assert.Contains(t, prompt, "Description: Protect the API")
		assert.Contains(t, prompt, "Labels: feature, backend")
		assert.Contains(t, prompt, "ONLY respond in pure JSON")
		assert.True(t, strings.HasSuffix(prompt, "## Acceptance Criteria\n- [ ] ..."))
	})

	t.Run("Success - empty body format leaves the prompt untouched", func(t *testing.T) {
		prompt, err := BuildDetailedTicketPrompt(models.Ticket{Title: "Bare"}, "")

		require.NoError(t, err)
		assert.Contains(t, prompt, "Title: Bare")
		assert.True(t, strings.HasSuffix(prompt, "ONLY respond in pure JSON."))
	})
}
