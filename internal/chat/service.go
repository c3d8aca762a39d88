package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sellarte/internal/knowledge"
	dErrors "sellarte/pkg/domain-errors"
)

// FallbackReply is sent when no knowledge fragment grounds the question.
const FallbackReply = "Por el momento no tengo información sobre eso. " +
	"Por favor contacta a nuestro equipo de ventas en ventas@sellarte.co y con gusto te ayudamos."

const systemPrompt = "Eres el asistente de una tienda de sellos personalizados en Colombia. " +
	"Responde en español, de forma breve y amable, usando únicamente la información de contexto. " +
	"Si el contexto no responde la pregunta, dilo y sugiere escribir a ventas@sellarte.co."

// Retriever is the knowledge lookup the service grounds replies on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, threshold float64, maxResults int) ([]knowledge.Match, error)
}

// Reply is a chat answer plus the fragments that grounded it.
type Reply struct {
	Message  string   `json:"message"`
	Grounded bool     `json:"grounded"`
	Sources  []string `json:"sources,omitempty"`
}

type Service struct {
	retriever  Retriever
	completer  Completer
	threshold  float64
	maxResults int
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithRetrieval overrides the default similarity threshold and result bound.
func WithRetrieval(threshold float64, maxResults int) Option {
	return func(s *Service) {
		s.threshold = threshold
		s.maxResults = maxResults
	}
}

func New(retriever Retriever, completer Completer, opts ...Option) (*Service, error) {
	if retriever == nil {
		return nil, fmt.Errorf("retriever is required")
	}
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	svc := &Service{
		retriever:  retriever,
		completer:  completer,
		threshold:  0.3,
		maxResults: 4,
		logger:     slog.Default(),
		tracer:     otel.Tracer("sellarte/chat"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Respond retrieves grounding fragments and asks the completion provider for
// an answer. No fragments means the fallback reply, not an error.
func (s *Service) Respond(ctx context.Context, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, dErrors.New(dErrors.CodeInvalidInput, "el mensaje no puede estar vacío")
	}

	ctx, span := s.tracer.Start(ctx, "chat.Respond")
	defer span.End()

	matches, err := s.retriever.Retrieve(ctx, message, s.threshold, s.maxResults)
	if err != nil {
		return Reply{}, err
	}
	span.SetAttributes(attribute.Int("chat.grounding_fragments", len(matches)))

	if len(matches) == 0 {
		return Reply{Message: FallbackReply}, nil
	}

	var grounding strings.Builder
	sources := make([]string, 0, len(matches))
	for i, match := range matches {
		fmt.Fprintf(&grounding, "[%d] %s\n%s\n\n", i+1, match.Fragment.Title, match.Fragment.Content)
		sources = append(sources, match.Fragment.ID.String())
	}

	answer, err := s.completer.Complete(ctx,
		systemPrompt+"\n\nContexto:\n"+grounding.String(), message)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Message: answer, Grounded: true, Sources: sources}, nil
}
