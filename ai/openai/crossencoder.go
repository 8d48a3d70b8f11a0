// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/recallit/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// CrossEncoder implements ai.CrossEncoder using OpenAI-compatible chat APIs.
// It asks an instruction model to rate how relevant a document is to a
// query, which reads both together instead of comparing embeddings.
type CrossEncoder struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// relevanceVerdict is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type relevanceVerdict struct {
	Relevance float64 `json:"relevance"`
}

// newCrossEncoder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCrossEncoder(config *ai.Config) (*CrossEncoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.RerankHost),
		openai.WithToken("none"),
		openai.WithModel(config.RerankModel),
	)
	if err != nil {
		return nil, err
	}

	return &CrossEncoder{
		client:  client,
		timeout: config.RerankTimeout,
		logger:  slog.Default().With("component", "openai-crossencoder"),
	}, nil
}

// NewCrossEncoder creates a new cross encoder using the provided configuration.
//
// Returns ai.CrossEncoder interface to enforce abstraction.
func NewCrossEncoder(config *ai.Config) (ai.CrossEncoder, error) {
	return newCrossEncoder(config)
}

// Score rates the relevance of a document to a query on a 0-10 scale
// and returns it scaled to [0,1].
func (e *CrossEncoder) Score(ctx context.Context, query, document string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(relevancePromptTemplate),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildRelevanceInput(query, document)),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var verdict relevanceVerdict
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return 0, fmt.Errorf("%w: %v", ai.ErrRerankUnavailable, err)
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return 0, fmt.Errorf("%w: empty response", ai.ErrRerankUnavailable)
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &verdict); err != nil {
			lastErr = err
			e.logger.Warn("error parsing relevance response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse relevance response after retries", "err", lastErr)
		return 0, fmt.Errorf("%w: %v", ai.ErrRerankUnavailable, lastErr)
	}

	score := verdict.Relevance / 10.0
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	e.logger.Debug("scored document", "relevance", verdict.Relevance, "score", score)
	return score, nil
}
