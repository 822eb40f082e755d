package compose

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nytinsight/internal/ai"
	"nytinsight/internal/model"
)

type stubCompleter struct {
	out      string
	err      error
	messages []ai.ChatMessage
	cfg      ai.ChatConfig
	deadline bool
}

func (s *stubCompleter) Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	s.cfg = cfg
	s.messages = messages
	_, s.deadline = ctx.Deadline()
	return s.out, s.err
}

func sampleRequest() Request {
	return Request{
		Question: "Where do ceasefire talks stand?",
		Citations: []model.Citation{
			{Title: "Talks Stall", URL: "https://example.com/1", Paragraph: 3, Snippet: "Negotiators met again..."},
		},
		Confidence: model.ConfidenceResult{Label: model.ConfidenceMedium, Reason: "Only 1 source retrieved; needs editorial review"},
	}
}

func newTestLLM(t *testing.T, c Completer) *LLM {
	t.Helper()
	l, err := NewLLM(c, ai.ChatConfig{BaseURL: "http://llm.local", APIKey: "k", Model: "m"}, time.Second)
	require.NoError(t, err)
	return l
}

func TestStatic_Compose(t *testing.T) {
	comp, err := NewStatic().Compose(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Contains(t, comp.Answer, "Ceasefire talks continue but remain fragile.")
	assert.NotEmpty(t, comp.ELI12)
	assert.NotEmpty(t, comp.RelevanceNYC)
	require.Len(t, comp.TruthLens, 3)
	for _, f := range comp.TruthLens {
		assert.True(t, f.Label.Valid())
	}
}

func TestNewLLM_Validation(t *testing.T) {
	_, err := NewLLM(nil, ai.ChatConfig{BaseURL: "x", Model: "y"}, 0)
	assert.Error(t, err)

	_, err = NewLLM(&stubCompleter{}, ai.ChatConfig{}, 0)
	assert.Error(t, err)
}

func TestLLM_Compose_Success(t *testing.T) {
	stub := &stubCompleter{out: "```json\n" + `{
		"answer": " Talks are stalled. ",
		"eli12": "They have not agreed yet.",
		"relevance_nyc": "It shapes U.S. policy.",
		"truth_lens": [{"sentence": "Talks are stalled.", "label": "confirmed"}]
	}` + "\n```"}
	l := newTestLLM(t, stub)

	comp, err := l.Compose(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Talks are stalled.", comp.Answer)
	assert.Equal(t, "They have not agreed yet.", comp.ELI12)
	assert.Equal(t, "It shapes U.S. policy.", comp.RelevanceNYC)
	assert.Equal(t, []model.FactStatus{{Sentence: "Talks are stalled.", Label: model.FactConfirmed}}, comp.TruthLens)

	assert.True(t, stub.cfg.JSONMode)
	assert.True(t, stub.deadline)
	require.Len(t, stub.messages, 2)
	assert.Equal(t, "system", stub.messages[0].Role)
	assert.Contains(t, stub.messages[1].Content, "Question: Where do ceasefire talks stand?")
	assert.Contains(t, stub.messages[1].Content, "[1] Talks Stall, paragraph 3: Negotiators met again...")
	assert.Contains(t, stub.messages[1].Content, "Retrieval confidence: Medium")
}

func TestLLM_Compose_RejectsInvalidOutput(t *testing.T) {
	cases := map[string]string{
		"not json":       "the talks are stalled",
		"missing answer": `{"eli12": "hi"}`,
		"empty answer":   `{"answer": ""}`,
		"blank answer":   `{"answer": "  \n\t "}`,
		"bad label":      `{"answer": "ok", "truth_lens": [{"sentence": "x", "label": "rumour"}]}`,
	}
	for name, out := range cases {
		t.Run(name, func(t *testing.T) {
			l := newTestLLM(t, &stubCompleter{out: out})
			_, err := l.Compose(context.Background(), sampleRequest())
			assert.ErrorIs(t, err, ErrInvalidComposition)
		})
	}
}

func TestLLM_Compose_DropsBlankTruthLensSentences(t *testing.T) {
	l := newTestLLM(t, &stubCompleter{out: `{
		"answer": "Talks are stalled.",
		"truth_lens": [
			{"sentence": "   ", "label": "confirmed"},
			{"sentence": " Talks are stalled. ", "label": "developing"}
		]
	}`})

	comp, err := l.Compose(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, []model.FactStatus{{Sentence: "Talks are stalled.", Label: model.FactDeveloping}}, comp.TruthLens)
}

func TestLLM_Compose_ClientError(t *testing.T) {
	boom := errors.New("boom")
	l := newTestLLM(t, &stubCompleter{err: boom})

	_, err := l.Compose(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, boom)
}

func TestLLM_Compose_OverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := `{"answer":"Negotiations continue.","truth_lens":[]}`
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	l, err := NewLLM(ai.NewOpenAICompatibleClientWithHTTP(server.Client()),
		ai.ChatConfig{BaseURL: server.URL, APIKey: "k", Model: "m"}, time.Second)
	require.NoError(t, err)

	comp, err := l.Compose(context.Background(), Request{Question: "status?"})
	require.NoError(t, err)
	assert.Equal(t, "Negotiations continue.", comp.Answer)
	assert.Empty(t, comp.TruthLens)
}

func TestBuildUserPrompt_NoCitations(t *testing.T) {
	prompt := buildUserPrompt(Request{Question: "q"})
	assert.Contains(t, prompt, "Passages:\n(none)")
}
