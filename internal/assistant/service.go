// Package assistant wraps the storefront's generative-AI collaborator.
// Failures never propagate to the client: every error path degrades to
// a fixed user-visible fallback message.
package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/nexusmarket/storefront/internal/metrics"
	"github.com/nexusmarket/storefront/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Fallback messages shown when the remote call fails or produces
// nothing usable.
const (
	FallbackMessage   = "Error connecting to AI."
	EmptyReplyMessage = "I'm sorry, I couldn't process that."
)

// Service builds the storefront prompts and converts generation
// failures into fallback text.
type Service struct {
	generator TextGenerator
	metrics   *metrics.AppMetrics
}

// NewService creates a new assistant service
func NewService(generator TextGenerator, metrics *metrics.AppMetrics) *Service {
	return &Service{
		generator: generator,
		metrics:   metrics,
	}
}

// ShoppingAdvice answers a shopping query against the current catalog.
func (s *Service) ShoppingAdvice(ctx context.Context, userPrompt string, products []models.Product) string {
	var productContext strings.Builder
	for _, p := range products {
		fmt.Fprintf(&productContext, "- %s ($%.2f) in %s: %s\n", p.Name, p.Price, p.Category, p.Description)
	}

	prompt := fmt.Sprintf(`You are NexusMarket AI, a helpful personal shopper.
Below are the available products in our store:
%s
User Query: %s

Provide helpful, concise shopping advice based ONLY on these products. If you can't find a good match, suggest something close or explain why.`,
		productContext.String(), userPrompt)

	return s.generate(ctx, "shopping_advice", prompt)
}

// ProductDescription drafts a listing description for a seller.
func (s *Service) ProductDescription(ctx context.Context, name, category string) string {
	prompt := fmt.Sprintf(`Generate a compelling and professional e-commerce product description for a product named %q in the category %q. Keep it under 100 words.`,
		name, category)

	return s.generate(ctx, "product_description", prompt)
}

func (s *Service) generate(ctx context.Context, kind, prompt string) string {
	attrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("assistant.kind", kind),
	})
	s.metrics.AssistantRequests.Add(ctx, 1, metric.WithAttributes(attrs...))

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.metrics.AssistantFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
		log.Printf("[ASSISTANT] %s call failed: %v", kind, err)
		return FallbackMessage
	}
	if strings.TrimSpace(text) == "" {
		return EmptyReplyMessage
	}
	return text
}
