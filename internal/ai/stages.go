package ai

import (
	"context"
	"fmt"

	"github.com/mhaveles/airbnboptimizer/internal/config"
	"github.com/mhaveles/airbnboptimizer/internal/domain"
)

// Stages runs the optimizer's model calls with the configured model ids.
type Stages struct {
	completer Completer
	cfg       config.AIConfig
}

// NewStages wires a completer to the configured models.
func NewStages(completer Completer, cfg config.AIConfig) *Stages {
	return &Stages{completer: completer, cfg: cfg}
}

// RunFreemiumAnalysis produces the free diagnosis for a scraped listing.
// Photo notes ride in a second user message when present.
func (s *Stages) RunFreemiumAnalysis(ctx context.Context, l *domain.Listing) (string, error) {
	messages := []Message{
		{Role: "user", Content: buildFreemiumUserMessage(l)},
	}
	if l.PhotoNotes != "" {
		messages = append(messages, Message{
			Role:    "user",
			Content: buildFreemiumPhotoMessage(l.PhotoNotes),
		})
	}

	out, err := s.completer.Complete(ctx, s.cfg.FreemiumModel, freemiumSystemPrompt, messages)
	if err != nil {
		return "", fmt.Errorf("freemium analysis: %w", err)
	}
	return out, nil
}

// RunAnalyzer produces the structured JSON brief for the paid rewrite.
func (s *Stages) RunAnalyzer(ctx context.Context, l *domain.Listing) (string, error) {
	userMsg, err := buildAnalyzerUserMessage(l)
	if err != nil {
		return "", err
	}

	out, err := s.completer.Complete(ctx, s.cfg.AnalyzerModel, analyzerSystemPrompt, []Message{
		{Role: "user", Content: userMsg},
	})
	if err != nil {
		return "", fmt.Errorf("paid analyzer: %w", err)
	}
	return out, nil
}

// RunWriter turns an analyzer brief and the property basics into the
// final paid description.
func (s *Stages) RunWriter(ctx context.Context, brief string, l *domain.Listing) (string, error) {
	propertyMsg, err := buildWriterPropertyMessage(l)
	if err != nil {
		return "", err
	}

	out, err := s.completer.Complete(ctx, s.cfg.WriterModel, writerSystemPrompt, []Message{
		{Role: "user", Content: brief},
		{Role: "user", Content: propertyMsg},
	})
	if err != nil {
		return "", fmt.Errorf("paid writer: %w", err)
	}
	return out, nil
}
