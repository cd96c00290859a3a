// internal/engine/engine.go

// Package engine drives the intake conversation: one typed validator,
// transition, and mutation per turn, with reply generation layered on
// top. Collaborators are injected as interfaces so turns are
// deterministic under test.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/common/metrics"
	"insurance-intake/internal/common/observability"
	"insurance-intake/internal/models"
	"insurance-intake/internal/services/replygen"
	"insurance-intake/internal/services/vehicledata"
)

const historyWindow = 10

const welcomeMessage = "👋 Hi there! Welcome to our insurance onboarding. I'll help you get set up quickly. Let's start with your ZIP code - what is it?"

const closingStatement = "Thank you! Your information has been collected successfully. You can now start a new session if needed."

const frustrationTemplate = "I understand this can be frustrating. Here's something to brighten your day:\n\n%s\n\nI'm here to help. Let's continue when you're ready."

// Quote shown when the quote provider itself is unavailable.
const consolationQuote = "\"Every day may not be good, but there is something good in every day.\" - Alice Morse Earle"

// Store persists conversations and their message log. Writes to a
// single conversation must be serialized by the implementation.
type Store interface {
	SaveConversation(ctx context.Context, conv *models.Conversation) error
	AppendMessage(ctx context.Context, msg *models.Message) error
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
}

// VehicleLookup decodes VINs and sanity-checks makes. Both calls embed
// their own failure policy and never return transport errors.
type VehicleLookup interface {
	DecodeVIN(ctx context.Context, vin string) *vehicledata.DecodeResult
	ValidateYearMake(ctx context.Context, year int, make string) *vehicledata.MakeCheckResult
}

// ReplyGenerator produces the assistant's next message.
type ReplyGenerator interface {
	Generate(ctx context.Context, req replygen.Request) (string, error)
}

// FrustrationDetector flags messages that should divert to the
// empathetic branch.
type FrustrationDetector interface {
	IsFrustrated(text string) bool
}

// QuoteProvider supplies the consolation quote for frustrated users.
type QuoteProvider interface {
	Quote(ctx context.Context) (string, error)
}

// Notifier is told, best-effort, when an application reaches complete.
type Notifier interface {
	IntakeCompleted(ctx context.Context, conv *models.Conversation) error
}

// Deps wires the engine's collaborators. Notifier and Observability
// may be nil.
type Deps struct {
	Store         Store
	Lookup        VehicleLookup
	Generator     ReplyGenerator
	Frustration   FrustrationDetector
	Quotes        QuoteProvider
	Notifier      Notifier
	Observability *observability.Observability
	Logger        logger.Logger
}

// Engine orchestrates conversation turns.
type Engine struct {
	store       Store
	lookup      VehicleLookup
	generator   ReplyGenerator
	frustration FrustrationDetector
	quotes      QuoteProvider
	notifier    Notifier
	obs         *observability.Observability
	logger      logger.Logger
}

func New(d Deps) *Engine {
	return &Engine{
		store:       d.Store,
		lookup:      d.Lookup,
		generator:   d.Generator,
		frustration: d.Frustration,
		quotes:      d.Quotes,
		notifier:    d.Notifier,
		obs:         d.Observability,
		logger:      d.Logger.WithFields(map[string]interface{}{"component": "engine"}),
	}
}

// Welcome records and returns the fixed opening message for a freshly
// created conversation.
func (e *Engine) Welcome(ctx context.Context, conv *models.Conversation) (string, error) {
	if err := e.appendMessage(ctx, conv.ID, models.RoleAssistant, welcomeMessage); err != nil {
		return "", err
	}
	return welcomeMessage, nil
}

// ProcessMessage runs one turn: persist the inbound text, pick the
// frustration, terminal, or normal path, and persist whatever reply
// that path produced. Validation, lookup, and generation failures are
// absorbed inside the turn; only persistence failures are returned.
func (e *Engine) ProcessMessage(ctx context.Context, conv *models.Conversation, userText string) (string, error) {
	start := time.Now()
	entryState := conv.CurrentState

	if err := e.appendMessage(ctx, conv.ID, models.RoleUser, userText); err != nil {
		return "", err
	}

	var reply string
	var err error
	switch {
	case e.frustration.IsFrustrated(userText):
		reply = e.consoleFrustrated(ctx)
	case conv.CurrentState.Terminal():
		reply = closingStatement
	default:
		reply, err = e.advance(ctx, conv, userText)
		if err != nil {
			return "", err
		}
	}

	if err := e.appendMessage(ctx, conv.ID, models.RoleAssistant, reply); err != nil {
		return "", err
	}

	metrics.TurnsProcessed.WithLabelValues(string(entryState)).Inc()
	metrics.TurnDuration.WithLabelValues(string(entryState)).Observe(time.Since(start).Seconds())
	if e.obs != nil {
		e.obs.RecordTurnProcessed(ctx, "success")
		e.obs.RecordTurnDuration(ctx, time.Since(start), "success")
	}

	return reply, nil
}

// advance is the non-frustrated, non-terminal path: validate, mutate,
// transition, then generate the reply for the resulting state.
func (e *Engine) advance(ctx context.Context, conv *models.Conversation, userText string) (string, error) {
	state := conv.CurrentState

	guidance := ""
	value, rejection := Validate(ctx, e.lookup, conv, userText)
	if rejection != nil {
		metrics.ValidationRejections.WithLabelValues(string(state)).Inc()
		if reason := apperrors.RejectionReason(rejection); reason != "" {
			guidance = fmt.Sprintf("The user's input was invalid. Error: %s", reason)
		}
		e.logger.Debug("input rejected", map[string]interface{}{
			"conversationId": conv.ID,
			"state":          string(state),
		})
	} else {
		Apply(conv, state, value)
		conv.CurrentState = Next(state, value, conv)
		if err := e.store.SaveConversation(ctx, conv); err != nil {
			return "", apperrors.NewDatabaseQueryFailed("save conversation", err)
		}
		if conv.CurrentState.Terminal() {
			e.notifyCompleted(ctx, conv)
		}
	}

	history, err := e.store.RecentMessages(ctx, conv.ID, historyWindow)
	if err != nil {
		e.logger.Warn("failed to load history", map[string]interface{}{
			"conversationId": conv.ID,
			"error":          err.Error(),
		})
		history = nil
	}

	reply, err := e.generator.Generate(ctx, replygen.Request{
		State:       conv.CurrentState,
		UserMessage: userText,
		History:     history,
		Context:     Snapshot(conv),
		Guidance:    guidance,
	})
	if err != nil {
		metrics.FallbackReplies.WithLabelValues(string(conv.CurrentState)).Inc()
		e.logger.Warn("reply generation failed, using fallback", map[string]interface{}{
			"conversationId": conv.ID,
			"state":          string(conv.CurrentState),
			"error":          err.Error(),
		})
		reply = replygen.Fallback(conv.CurrentState)
	}
	return reply, nil
}

func (e *Engine) consoleFrustrated(ctx context.Context) string {
	metrics.FrustrationEvents.Inc()
	quote, err := e.quotes.Quote(ctx)
	if err != nil || quote == "" {
		e.logger.Warn("quote provider unavailable", map[string]interface{}{
			"error": fmt.Sprintf("%v", err),
		})
		quote = consolationQuote
	}
	return fmt.Sprintf(frustrationTemplate, quote)
}

func (e *Engine) notifyCompleted(ctx context.Context, conv *models.Conversation) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.IntakeCompleted(ctx, conv); err != nil {
		e.logger.Warn("completion notification failed", map[string]interface{}{
			"conversationId": conv.ID,
			"error":          err.Error(),
		})
	}
}

func (e *Engine) appendMessage(ctx context.Context, conversationID string, role models.Role, content string) error {
	msg := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	if err := e.store.AppendMessage(ctx, msg); err != nil {
		return apperrors.NewDatabaseQueryFailed("append message", err)
	}
	return nil
}
