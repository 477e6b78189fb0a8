package fun

import (
	"context"
	"strings"
	"time"

	"github.com/kapu/kakao-royale-bot-go/internal/msgcat"
	"github.com/kapu/kakao-royale-bot-go/internal/obslog"
	"go.uber.org/zap"
)

const quipTimeout = 15 * time.Second

// TextGenerator produces short one-liners; the narrator's Gemini client
// satisfies this.
type TextGenerator interface {
	Quip(ctx context.Context, kind, target string) (string, error)
}

// Service serves the joke/roast/compliment commands, falling back to canned
// catalog lines when the generator is unavailable.
type Service struct {
	gen TextGenerator // may be nil
	cat *msgcat.Catalog
}

func NewService(gen TextGenerator, cat *msgcat.Catalog) *Service {
	return &Service{gen: gen, cat: cat}
}

func (s *Service) Joke(ctx context.Context) string {
	return s.quip(ctx, "joke", "")
}

func (s *Service) Roast(ctx context.Context, target string) string {
	return s.quip(ctx, "roast", target)
}

func (s *Service) Compliment(ctx context.Context, target string) string {
	return s.quip(ctx, "compliment", target)
}

func (s *Service) quip(ctx context.Context, kind, target string) string {
	target = strings.TrimSpace(target)
	if s.gen != nil {
		qctx, cancel := context.WithTimeout(ctx, quipTimeout)
		defer cancel()
		text, err := s.gen.Quip(qctx, kind, target)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		obslog.L().Warn("fun_quip_fallback", zap.String("kind", kind), zap.Error(err))
	}
	return s.cat.MustRender("fun."+kind+"_fallback", map[string]any{"Target": target}, "...")
}
