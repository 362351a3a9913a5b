// Package advisor turns a validated tax profile into advice text from the
// configured generative-model provider, mapping every failure onto a closed
// taxonomy. One outbound call per request, no retries, no caching.
package advisor

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/taxfiler/backend/internal/config"
	"github.com/taxfiler/backend/internal/logging"
	"github.com/taxfiler/backend/internal/model/tax"
)

// Service invokes the provider chat model through a compiled prompt chain.
// Safe for concurrent use; all fields are set at construction and read-only
// afterwards.
type Service struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewService compiles the advisory chain. chatModel may be nil when the
// provider credential is missing at startup; the service still constructs and
// every GetAdvice call reports a configuration error instead.
func NewService(ctx context.Context, chatModel model.ChatModel, cfg config.AIConfig) (*Service, error) {
	svc := &Service{timeout: cfg.Timeout()}
	if chatModel == nil {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile advisory chain: %w", err)
	}

	svc.chain = runnable
	return svc, nil
}

// Ready reports whether a provider model is wired in.
func (s *Service) Ready() bool {
	return s != nil && s.chain != nil
}

// GetAdvice issues exactly one provider call for the given input and returns
// the trimmed advice text. Every failure comes back as a *Error whose Message
// is safe for the caller; full detail is logged here and nowhere else.
func (s *Service) GetAdvice(ctx context.Context, input tax.TaxInfoInput) (advice string, err error) {
	log := logging.FromContext(ctx)

	defer func() {
		if rvr := recover(); rvr != nil {
			log.Error("panic during advisory call",
				zap.Any("panic", rvr),
				zap.ByteString("stack", debug.Stack()))
			advice = ""
			err = newError(KindInternal, msgInternal, fmt.Errorf("panic: %v", rvr))
		}
	}()

	if !s.Ready() {
		log.Error("chat model not initialized, cannot fetch advice")
		return "", newError(KindConfig, msgConfig, nil)
	}

	log.Info("requesting tax advice",
		zap.String("country", input.Country),
		zap.Float64("income", input.Income))

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	msg, invokeErr := s.chain.Invoke(callCtx, map[string]any{"query": buildTaxPrompt(input)})
	if invokeErr != nil {
		failure := classify(invokeErr)
		log.Error("advisory call failed",
			zap.String("error_type", string(failure.Kind)),
			zap.Error(invokeErr))
		return "", failure
	}

	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		log.Error("provider returned an empty completion")
		return "", newError(KindProvider, msgProvider, nil)
	}

	text := strings.TrimSpace(msg.Content)
	log.Info("received advice from provider", zap.Int("length", len(text)))
	return text, nil
}
