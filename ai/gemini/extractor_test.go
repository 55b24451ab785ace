package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/FatihSuicmez/TUIK-MCP/ai"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, genai.Text(p))
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func TestExtractFragments_Success(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse("```json\n[\"2023 yılında", " nüfus 85 milyondur.\"]\n```")}
	e := newFragmentExtractor(gen)

	got, err := e.ExtractFragments(context.Background(), "Yıl,Nüfus\n2023,85", "nufus.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023 yılında nüfus 85 milyondur."}, got)
	assert.Contains(t, gen.prompt, "Dosya Adı: nufus.xlsx")
	assert.Contains(t, gen.prompt, "2023,85")
}

func TestExtractFragments_BlockedError(t *testing.T) {
	gen := &fakeGenerator{err: &genai.BlockedError{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
	}}
	e := newFragmentExtractor(gen)

	_, err := e.ExtractFragments(context.Background(), "x", "a.xlsx")
	require.ErrorIs(t, err, ai.ErrBlocked)

	var blocked *ai.BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, genai.BlockReasonSafety.String(), blocked.Reason)
}

func TestExtractFragments_BlockedCandidate(t *testing.T) {
	gen := &fakeGenerator{err: &genai.BlockedError{
		Candidate: &genai.Candidate{FinishReason: genai.FinishReasonRecitation},
	}}
	e := newFragmentExtractor(gen)

	_, err := e.ExtractFragments(context.Background(), "x", "a.xlsx")
	assert.ErrorIs(t, err, ai.ErrBlocked)
}

func TestExtractFragments_EmptyWithFeedback(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonOther},
	}}
	e := newFragmentExtractor(gen)

	_, err := e.ExtractFragments(context.Background(), "x", "a.xlsx")
	assert.ErrorIs(t, err, ai.ErrBlocked)
}

func TestExtractFragments_Empty(t *testing.T) {
	e := newFragmentExtractor(&fakeGenerator{resp: &genai.GenerateContentResponse{}})

	_, err := e.ExtractFragments(context.Background(), "x", "a.xlsx")
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	assert.NotErrorIs(t, err, ai.ErrBlocked)
}

func TestExtractFragments_Malformed(t *testing.T) {
	e := newFragmentExtractor(&fakeGenerator{resp: textResponse(`{"a": 1}`)})

	_, err := e.ExtractFragments(context.Background(), "x", "a.xlsx")
	assert.ErrorIs(t, err, ai.ErrMalformedOutput)
}

func TestExtractFragments_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	e := newFragmentExtractor(&fakeGenerator{err: boom})

	_, err := e.ExtractFragments(context.Background(), "x", "a.xlsx")
	assert.ErrorIs(t, err, boom)
}
