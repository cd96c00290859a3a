// internal/server/server.go

// Package server exposes the intake conversation over HTTP: create a
// conversation, post user messages, and read back the record and log.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "insurance-intake/internal/common/errors"
	"insurance-intake/internal/common/logger"
	"insurance-intake/internal/common/validation"
	"insurance-intake/internal/models"
)

const messageSchema = `{
	"type": "object",
	"properties": {
		"content": {"type": "string", "minLength": 1}
	},
	"required": ["content"],
	"additionalProperties": false
}`

// Store is the read/create side the handlers need.
type Store interface {
	CreateConversation(ctx context.Context) (*models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
}

// Engine processes conversation turns.
type Engine interface {
	Welcome(ctx context.Context, conv *models.Conversation) (string, error)
	ProcessMessage(ctx context.Context, conv *models.Conversation, userText string) (string, error)
}

type Server struct {
	engine    Engine
	store     Store
	logger    logger.Logger
	responder *apperrors.ErrorResponder
}

func New(engine Engine, store Store, log logger.Logger) *Server {
	return &Server{
		engine:    engine,
		store:     store,
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
		responder: apperrors.NewErrorResponder(log),
	}
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/conversations", func(r chi.Router) {
		r.Post("/", s.createConversation)
		r.Route("/{conversationID}", func(r chi.Router) {
			r.Get("/", s.getConversation)
			r.Get("/messages", s.listMessages)
			r.Post("/messages", s.postMessage)
		})
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type conversationCreated struct {
	ID      string       `json:"id"`
	State   models.State `json:"state"`
	Message string       `json:"message"`
}

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.store.CreateConversation(r.Context())
	if err != nil {
		s.responder.Respond(w, err)
		return
	}

	welcome, err := s.engine.Welcome(r.Context(), conv)
	if err != nil {
		s.responder.Respond(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conversationCreated{
		ID:      conv.ID,
		State:   conv.CurrentState,
		Message: welcome,
	})
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.store.GetConversation(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		s.responder.Respond(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	if _, err := s.store.GetConversation(r.Context(), id); err != nil {
		s.responder.Respond(w, err)
		return
	}

	messages, err := s.store.ListMessages(r.Context(), id)
	if err != nil {
		s.responder.Respond(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

type turnReply struct {
	ConversationID string       `json:"conversationId"`
	State          models.State `json:"state"`
	Reply          string       `json:"reply"`
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.responder.Respond(w, apperrors.NewRequestInvalid("body is not valid JSON"))
		return
	}

	result, err := validation.ValidateDocument(payload, messageSchema)
	if err != nil {
		s.responder.Respond(w, err)
		return
	}
	if !result.Valid {
		s.responder.Respond(w, apperrors.NewRequestInvalid(result.Summary()))
		return
	}

	conv, err := s.store.GetConversation(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		s.responder.Respond(w, err)
		return
	}

	content := payload["content"].(string)
	reply, err := s.engine.ProcessMessage(r.Context(), conv, content)
	if err != nil {
		s.responder.Respond(w, err)
		return
	}

	writeJSON(w, http.StatusOK, turnReply{
		ConversationID: conv.ID,
		State:          conv.CurrentState,
		Reply:          reply,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
