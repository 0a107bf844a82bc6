package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// Request is a single prompt sent to a model.
type Request struct {
	Prompt      string
	Temperature *float64
}

// Provider is a language model backend.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req Request) (string, error)
	// Ping checks that the model is reachable with the configured key.
	Ping(ctx context.Context) error
}

// ProviderFor picks a backend from the model ID: gemini* uses the
// Gemini API, gpt* and o<digit>* use OpenAI.
func ProviderFor(ctx context.Context, modelID, apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("no API key for model %s", modelID)
	}
	id := strings.ToLower(modelID)
	switch {
	case strings.HasPrefix(id, "gemini"):
		return NewGemini(ctx, modelID, apiKey)
	case strings.HasPrefix(id, "gpt"), isOSeries(id):
		return NewOpenAI(modelID, apiKey, ""), nil
	default:
		return nil, fmt.Errorf("unsupported model %q", modelID)
	}
}

func isOSeries(id string) bool {
	return len(id) > 1 && id[0] == 'o' && id[1] >= '0' && id[1] <= '9'
}

// Retryable reports whether a failed Generate call may succeed when
// repeated. Client errors other than 408 and 429 are final, as are
// cancellations.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	code, ok := statusCode(err)
	if !ok {
		return true
	}
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func statusCode(err error) (int, bool) {
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	var oErr *openai.Error
	if errors.As(err, &oErr) {
		return oErr.StatusCode, true
	}
	return 0, false
}
