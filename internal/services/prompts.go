package services

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thomas-vilte/tickmate/internal/models"
)

// jsonInstructions is the reinforced output contract appended to every
// generation prompt. The model is asked for pure JSON; the extractor still
// assumes it may not comply.
const jsonInstructions = `
You must respond in JSON format with the following structure: "tickets": List[Object],
Where each Object has the following keys:
title: str, body: str, labels: List[str]
Do not respond with any code brackets like ` + "```json" + ` ONLY respond in pure JSON.`

const ticketListPromptTemplate = `{{.Prompt}}

Break the work above into exactly {{.Count}} atomic, actionable tickets for this codebase.
Keep each ticket small enough for one developer to complete independently.
{{.JSONInstructions}}`

const detailedTicketPromptTemplate = `Create a detailed ticket based on the following information. Make concrete decisions, do not list multiple implementations or frameworks. Give full, comprehensive, atomic task details to accomplish this task:

Title: {{.Title}}
Description: {{.Body}}
Labels: {{.Labels}}

Please provide a comprehensive and detailed ticket that includes:
1. A clear and specific description of the task
2. Step-by-step implementation details
3. Any potential challenges or considerations
4. Acceptance criteria
5. Any relevant technical specifications or requirements

Ensure the response is thorough and actionable, providing all necessary information for a developer to complete the task without ambiguity.
{{.JSONInstructions}}`

// renderPrompt renders a prompt template with the provided data.
func renderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

// BuildTicketListPrompt builds the phase-1 prompt from the user's free-form
// prompt and the requested ticket count.
func BuildTicketListPrompt(prompt string, count int) (string, error) {
	return renderPrompt("ticket_list", ticketListPromptTemplate, struct {
		Prompt           string
		Count            int
		JSONInstructions string
	}{
		Prompt:           strings.TrimSpace(prompt),
		Count:            count,
		JSONInstructions: jsonInstructions,
	})
}

// BuildDetailedTicketPrompt builds the phase-2 prompt for one stub: the
// rendered stub fields followed by the user-chosen body-format template.
func BuildDetailedTicketPrompt(stub models.Ticket, bodyFormat string) (string, error) {
	rendered, err := renderPrompt("detailed_ticket", detailedTicketPromptTemplate, struct {
		Title            string
		Body             string
		Labels           string
		JSONInstructions string
	}{
		Title:            stub.Title,
		Body:             stub.Body,
		Labels:           strings.Join(stub.Labels, ", "),
		JSONInstructions: jsonInstructions,
	})
	if err != nil {
		return "", err
	}

	if bodyFormat == "" {
		return rendered, nil
	}
	return rendered + "\n\n" + bodyFormat, nil
}
