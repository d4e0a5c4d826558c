package embedbackend

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/codeloom/codeloom/internal/errs"
)

// documentTaskType and queryTaskType select genai's asymmetric
// embedding prompt, the mechanism behind Backend's isQuery flag.
const (
	documentTaskType = "RETRIEVAL_DOCUMENT"
	queryTaskType    = "RETRIEVAL_QUERY"
)

// GenaiBackend is the default Backend, wired to Gemini's embeddings
// endpoint. It is the system's one embedding_backend value that needs
// network access; embedbackend.Fake exists for tests that don't.
type GenaiBackend struct {
	client     *genai.Client
	model      string
	dimensions int
}

// NewGenaiBackend mirrors the client-construction shape used
// throughout this codebase's other Gemini callers: an API key and a
// model name, both normally sourced from configuration.
func NewGenaiBackend(ctx context.Context, apiKey, model string, dimensions int) (*GenaiBackend, error) {
	if apiKey == "" {
		return nil, errs.New(errs.Config, "embedbackend: GEMINI_API_KEY is required")
	}
	if model == "" {
		model = "text-embedding-004"
	}
	if dimensions <= 0 {
		dimensions = 768
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errs.Wrap(errs.Embedding, err, "embedbackend: create genai client")
	}

	return &GenaiBackend{client: client, model: model, dimensions: dimensions}, nil
}

func (b *GenaiBackend) Dimensions() int { return b.dimensions }

func (b *GenaiBackend) Encode(ctx context.Context, texts []string, isQuery bool) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	taskType := documentTaskType
	if isQuery {
		taskType = queryTaskType
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.Text(t)[0]
	}

	resp, err := b.client.Models.EmbedContent(ctx, b.model, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, errs.Wrap(errs.Embedding, err, "embedbackend: embed content")
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedbackend: expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}
