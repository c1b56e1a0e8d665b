// Package chatbot runs a customer message through the text pipeline,
// builds the reply and records the turn in the session store.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdityaMalani1302/cms/internal/nlp"
	"github.com/AdityaMalani1302/cms/internal/responder"
	"github.com/AdityaMalani1302/cms/internal/store"
)

var ErrValidation = errors.New("validation error")

// SessionStore is the part of the session store the engine writes to.
type SessionStore interface {
	Append(sessionID string, msg store.Message, ctx map[string]store.ContextValue) int
	Get(sessionID string) (store.Session, error)
	Reset(sessionID string)
}

type Request struct {
	Message   string
	SessionID string
	UserID    string
	Context   map[string]store.ContextValue
}

type Result struct {
	Message      string
	Intent       string
	Confidence   float64
	Entities     nlp.Entities
	QuickReplies []string
	SessionID    string
	Timestamp    time.Time
}

// Analysis is the pipeline output for a message without any side effects.
type Analysis struct {
	Preprocessed   nlp.Preprocessed   `json:"preprocessed"`
	Classification nlp.Classification `json:"classification"`
	Entities       nlp.Entities       `json:"entities"`
	Scores         []nlp.RuleScore    `json:"scores,omitempty"`
}

type Engine struct {
	classifier *nlp.Classifier
	extractor  *nlp.EntityExtractor
	responder  *responder.Generator
	sessions   SessionStore
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

func NewEngine(rules *nlp.RuleSet, gen *responder.Generator, sessions SessionStore, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		classifier: nlp.NewClassifier(rules),
		extractor:  nlp.NewEntityExtractor(rules),
		responder:  gen,
		sessions:   sessions,
		logger:     logger,
		now:        time.Now,
		newID:      NewSessionID,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return "session_" + uuid.NewString()
}

// Analyze runs preprocessing, classification and extraction only.
func (e *Engine) Analyze(text string) Analysis {
	pre := nlp.Preprocess(text)
	return Analysis{
		Preprocessed:   pre,
		Classification: e.classifier.Classify(text, pre),
		Entities:       e.extractor.Extract(text),
		Scores:         e.classifier.Explain(text, pre),
	}
}

// Process answers one message. The session is written only after the
// reply, including any tracking lookup, is complete; a rejected request
// leaves the store untouched.
func (e *Engine) Process(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Result{}, fmt.Errorf("%w: message is required", ErrValidation)
	}
	sid := req.SessionID
	if strings.TrimSpace(sid) == "" {
		sid = e.newID()
	}

	pre := nlp.Preprocess(req.Message)
	cls := e.classifier.Classify(req.Message, pre)
	ents := e.extractor.Extract(req.Message)
	reply := e.responder.Generate(ctx, cls.Intent, ents)

	ts := e.now()
	n := e.sessions.Append(sid, store.Message{
		Timestamp:  ts,
		UserText:   req.Message,
		Intent:     cls.Intent,
		Confidence: cls.Confidence,
		Entities:   ents,
		BotReply:   reply.Message,
	}, req.Context)

	e.logger.Info("processed message",
		zap.String("session_id", sid),
		zap.String("user_id", req.UserID),
		zap.String("intent", cls.Intent),
		zap.Float64("confidence", cls.Confidence),
		zap.Int("entity_types", len(ents)),
		zap.Int("session_messages", n),
	)

	return Result{
		Message:      reply.Message,
		Intent:       cls.Intent,
		Confidence:   cls.Confidence,
		Entities:     ents,
		QuickReplies: reply.QuickReplies,
		SessionID:    sid,
		Timestamp:    ts,
	}, nil
}

// Session returns the stored conversation for id.
func (e *Engine) Session(id string) (store.Session, error) {
	return e.sessions.Get(id)
}

// ResetSession forgets a conversation. Blank ids are a validation error;
// unknown ids are not.
func (e *Engine) ResetSession(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: sessionId is required", ErrValidation)
	}
	e.sessions.Reset(id)
	e.logger.Info("session reset", zap.String("session_id", id))
	return nil
}
