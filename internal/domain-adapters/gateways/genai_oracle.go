package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"

	"github.com/ochairo/casebot/internal/domain/entities"
)

const (
	// DefaultOracleModel is used when no model is configured
	DefaultOracleModel = "gemini-2.0-flash"

	// excerptLength limits how much of each script is shown to the model
	excerptLength = 600
)

// contentGenerator is the subset of *genai.Models the oracle needs
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIOracle selects test cases and scripts with a Gemini model
type GenAIOracle struct {
	models contentGenerator
	model  string
}

// NewGenAIOracle creates an oracle backed by the Gemini API
func NewGenAIOracle(ctx context.Context, apiKey, model string) (*GenAIOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newGenAIOracle(client.Models, model), nil
}

func newGenAIOracle(models contentGenerator, model string) *GenAIOracle {
	if model == "" {
		model = DefaultOracleModel
	}
	return &GenAIOracle{models: models, model: model}
}

type oracleCase struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type oracleScript struct {
	Path    string `json:"path"`
	Excerpt string `json:"excerpt"`
}

type recordSelection struct {
	Index *int `json:"index"`
}

type artifactSelection struct {
	Path string `json:"path"`
}

// SelectRecord asks the model which test case best matches query
func (o *GenAIOracle) SelectRecord(ctx context.Context, query string, records []entities.TestCaseRecord) (int, bool, error) {
	if len(records) == 0 {
		return 0, false, nil
	}

	cases := make([]oracleCase, len(records))
	for i, r := range records {
		cases[i] = oracleCase{Index: i, Title: r.Title, Description: r.Description}
	}
	catalog, err := json.Marshal(cases)
	if err != nil {
		return 0, false, fmt.Errorf("failed to serialize test cases: %w", err)
	}

	prompt := fmt.Sprintf(`User query: %q
Which of these test cases is most relevant to the query?
Test cases (JSON): %s
Answer with JSON {"index": <index>} or {"index": null} if none is relevant.`, query, catalog)

	text, err := o.generate(ctx, prompt)
	if err != nil {
		return 0, false, err
	}

	var sel recordSelection
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &sel); err != nil {
		return 0, false, fmt.Errorf("failed to decode oracle answer %q: %w", text, err)
	}
	if sel.Index == nil || *sel.Index < 0 || *sel.Index >= len(records) {
		return 0, false, nil
	}
	return *sel.Index, true, nil
}

// SelectArtifact asks the model which script implements record
func (o *GenAIOracle) SelectArtifact(ctx context.Context, record entities.TestCaseRecord, artifacts *entities.ArtifactIndex) (string, bool, error) {
	if artifacts.Len() == 0 {
		return "", false, nil
	}

	scripts := make([]oracleScript, 0, artifacts.Len())
	for _, p := range artifacts.Paths() {
		content, _ := artifacts.Content(p)
		scripts = append(scripts, oracleScript{Path: p, Excerpt: excerpt(content)})
	}
	list, err := json.Marshal(scripts)
	if err != nil {
		return "", false, fmt.Errorf("failed to serialize scripts: %w", err)
	}

	prompt := fmt.Sprintf(`Here is a test case: title %q, description %q.
Here are the available scripts (JSON): %s
Which one implements the test case?
Answer with JSON {"path": "<path>"} or {"path": ""} if none matches.`, record.Title, record.Description, list)

	text, err := o.generate(ctx, prompt)
	if err != nil {
		return "", false, err
	}

	var sel artifactSelection
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &sel); err != nil {
		return "", false, fmt.Errorf("failed to decode oracle answer %q: %w", text, err)
	}
	p := strings.TrimSpace(sel.Path)
	if p == "" {
		return "", false, nil
	}
	return p, true, nil
}

func (o *GenAIOracle) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.models.GenerateContent(ctx, o.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("GenAI returned an empty answer")
	}
	return text, nil
}

func excerpt(content string) string {
	if len(content) <= excerptLength {
		return content
	}
	cut := excerptLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

// stripCodeFence removes a ```json fence some models wrap answers in
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
