// Package narrator adds optional AI-generated flavor text on top of the
// authored encounter narratives. It is a pure embellishment layer: any
// failure degrades to the authored text, never to a broken turn.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"hashquest/internal/content"
)

//go:embed prompts/narrate_outcome.txt
var narrateOutcomePrompt string

type Narrator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New builds a narrator backed by Gemini. Callers that have no API key
// should simply not construct one.
func New(ctx context.Context, apiKey string) (*Narrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Narrator{
		client: client,
		model:  client.GenerativeModel("gemini-2.5-flash"),
	}, nil
}

func (n *Narrator) Close() {
	n.client.Close()
}

// NarrateOutcome asks for a short in-world reaction to the player's
// result on an encounter.
func (n *Narrator) NarrateOutcome(ctx context.Context, enc *content.Encounter, succeeded bool) (string, error) {
	tmpl, err := template.New("narrate_outcome").Parse(narrateOutcomePrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	data := struct {
		Title     string
		Objective string
		Outcome   string
	}{
		Title:     enc.Title,
		Objective: enc.Objective,
		Outcome:   "failed",
	}
	if succeeded {
		data.Outcome = "succeeded"
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	resp, err := n.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}

	out := strings.TrimSpace(string(text))
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out), nil
}
