package tickets

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/thomas-vilte/tickmate/internal/i18n"
	"github.com/thomas-vilte/tickmate/internal/models"
	"github.com/thomas-vilte/tickmate/internal/ui"
)

// bufferedInput lazily wraps the input source once. The same buffered
// reader must back every selection pass in a run, otherwise a second
// pass would lose lines already buffered by the first.
func (f *GenerateCommandFactory) bufferedInput() *bufio.Reader {
	if f.reader == nil {
		f.reader = bufio.NewReader(f.input)
	}
	return f.reader
}

// selectTickets walks the ticket list asking the user to keep or drop each
// one. The publish set is always chosen by explicit user action, never
// inferred; anything not confirmed gets Create cleared.
func (f *GenerateCommandFactory) selectTickets(t *i18n.Translations, stubs []models.Ticket) []models.Ticket {
	reader := f.bufferedInput()
	selected := make([]models.Ticket, len(stubs))

	for i, stub := range stubs {
		fmt.Println()
		ui.PrintKeyValue("Title", stub.Title)
		if len(stub.Labels) > 0 {
			ui.PrintKeyValue("Labels", strings.Join(stub.Labels, ", "))
		}
		if stub.Body != "" {
			fmt.Println(ui.Dim.Sprint(stub.Body))
		}

		fmt.Printf("%s ", t.GetMessage("generate.select_prompt", 0, map[string]interface{}{
			"Title": stub.Title,
		}))

		answer, err := reader.ReadString('\n')
		if err != nil {
			// Input exhausted: keep the remaining defaults.
			selected[i] = stub
			for j := i + 1; j < len(stubs); j++ {
				selected[j] = stubs[j]
			}
			return selected
		}

		stub.Create = !isNo(answer)
		selected[i] = stub
	}

	return selected
}

func isNo(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "n" || answer == "no"
}
