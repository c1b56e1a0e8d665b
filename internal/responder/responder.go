// Package responder turns a classified message into the bot's reply.
package responder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AdityaMalani1302/cms/internal/nlp"
	"github.com/AdityaMalani1302/cms/internal/tracking"
)

const trackingEntity = "tracking_number"

type Generator struct {
	provider tracking.Provider
	logger   *zap.Logger
}

func New(provider tracking.Provider, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{provider: provider, logger: logger}
}

// Generate builds the reply for intent. Only track_package with a tracking
// number does I/O; lookup failures become a not-found reply and are never
// returned.
func (g *Generator) Generate(ctx context.Context, intent string, ents nlp.Entities) Reply {
	if intent == "track_package" {
		if id, ok := ents.First(trackingEntity); ok {
			return g.trackReply(ctx, id)
		}
	}
	return Template(intent)
}

// Template returns the static reply for intent, falling back to unknown.
func Template(intent string) Reply {
	t, ok := templates[intent]
	if !ok {
		t = templates[nlp.IntentUnknown]
	}
	return Reply{Message: t.Message, QuickReplies: append([]string(nil), t.QuickReplies...)}
}

func (g *Generator) trackReply(ctx context.Context, id string) Reply {
	if g.provider == nil {
		return notFound(id)
	}
	st, err := g.provider.Fetch(ctx, id)
	if err != nil {
		g.logger.Warn("package status lookup failed", zap.String("tracking_id", id), zap.Error(err))
		return notFound(id)
	}
	if !st.Found {
		g.logger.Debug("package not found", zap.String("tracking_id", id))
		return notFound(id)
	}
	return Reply{
		Message:      fmt.Sprintf(trackFoundFormat, id, st.Status, st.Location, st.ETA),
		QuickReplies: append([]string(nil), trackFoundReplies...),
	}
}

func notFound(id string) Reply {
	return Reply{
		Message:      fmt.Sprintf(trackNotFoundFormat, id),
		QuickReplies: append([]string(nil), trackNotFoundReplies...),
	}
}
