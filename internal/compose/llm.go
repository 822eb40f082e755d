package compose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonschema"

	"nytinsight/internal/ai"
	"nytinsight/internal/model"
)

var ErrInvalidComposition = errors.New("composer returned an invalid answer")

const compositionSchema = `{
  "type": "object",
  "required": ["answer"],
  "properties": {
    "answer": {"type": "string", "minLength": 1},
    "eli12": {"type": "string"},
    "relevance_nyc": {"type": "string"},
    "truth_lens": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["sentence", "label"],
        "properties": {
          "sentence": {"type": "string", "minLength": 1},
          "label": {"enum": ["confirmed", "developing", "uncertain"]}
        }
      }
    }
  }
}`

const systemPrompt = `You are a newsroom assistant. Answer the reader's question using only the cited passages.
Reply with a single JSON object with these keys:
"answer": a short factual answer,
"eli12": the same answer explained simply for a 12 year old,
"relevance_nyc": one or two sentences on why this matters to New Yorkers,
"truth_lens": a list of {"sentence", "label"} where label is "confirmed", "developing" or "uncertain".
If the passages do not support an answer, say so in "answer".`

type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// LLM composes answers with an OpenAI-compatible chat model. The model output
// is checked against a JSON Schema before it is trusted.
type LLM struct {
	client  Completer
	cfg     ai.ChatConfig
	timeout time.Duration
	schema  *jsonschema.Schema
}

func NewLLM(client Completer, cfg ai.ChatConfig, timeout time.Duration) (*LLM, error) {
	if client == nil {
		return nil, errors.New("llm composer requires a client")
	}
	if cfg.BaseURL == "" || cfg.Model == "" {
		return nil, errors.New("llm composer requires base url and model")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	schema, err := jsonschema.NewCompiler().Compile([]byte(compositionSchema))
	if err != nil {
		return nil, fmt.Errorf("compile composition schema failed: %w", err)
	}
	cfg.JSONMode = true
	return &LLM{client: client, cfg: cfg, timeout: timeout, schema: schema}, nil
}

type llmComposition struct {
	Answer       string `json:"answer"`
	ELI12        string `json:"eli12"`
	RelevanceNYC string `json:"relevance_nyc"`
	TruthLens    []struct {
		Sentence string `json:"sentence"`
		Label    string `json:"label"`
	} `json:"truth_lens"`
}

func (l *LLM) Compose(ctx context.Context, req Request) (*Composition, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	messages := []ai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(req)},
	}
	out, err := l.client.Complete(ctx, l.cfg, messages)
	if err != nil {
		return nil, fmt.Errorf("compose answer failed: %w", err)
	}

	payload := []byte(stripCodeFence(out))
	if result := l.schema.ValidateJSON(payload); !result.IsValid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidComposition, result.Errors)
	}

	var parsed llmComposition
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidComposition, err)
	}

	comp := &Composition{
		Answer:       strings.TrimSpace(parsed.Answer),
		ELI12:        strings.TrimSpace(parsed.ELI12),
		RelevanceNYC: strings.TrimSpace(parsed.RelevanceNYC),
	}
	if comp.Answer == "" {
		return nil, fmt.Errorf("%w: blank answer", ErrInvalidComposition)
	}
	// blank truth-lens sentences carry nothing to label
	for _, item := range parsed.TruthLens {
		sentence := strings.TrimSpace(item.Sentence)
		if sentence == "" {
			continue
		}
		comp.TruthLens = append(comp.TruthLens, model.FactStatus{
			Sentence: sentence,
			Label:    model.FactLabel(item.Label),
		})
	}
	return comp, nil
}

func buildUserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(req.Question)
	b.WriteString("\n\nRetrieval confidence: ")
	b.WriteString(string(req.Confidence.Label))
	b.WriteString(" (")
	b.WriteString(req.Confidence.Reason)
	b.WriteString(")\n\nPassages:")
	if len(req.Citations) == 0 {
		b.WriteString("\n(none)")
	}
	for i, c := range req.Citations {
		fmt.Fprintf(&b, "\n[%d] %s, paragraph %d: %s", i+1, c.Title, c.Paragraph, c.Snippet)
	}
	return b.String()
}

// stripCodeFence removes a ```json ... ``` wrapper some models add even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
