package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"studybuddy/db"
	"studybuddy/models"
	"studybuddy/services"
	"studybuddy/services/prompt"
	"studybuddy/services/render"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

const (
	SessionCookieName = "studybuddy_session"

	maxChatRequestBytes = 64 << 10
)

type ChatHandler struct {
	service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/chat", h.SendMessage).Methods("POST")
	router.HandleFunc("/api/reset", h.Reset).Methods("POST")
	router.HandleFunc("/api/session", h.GetSession).Methods("GET")
	router.HandleFunc("/api/modes", h.ListModes).Methods("GET")
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received chat request")

	sessionID := h.resolveSession(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxChatRequestBytes)

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Printf("[ERROR] Chat request body exceeds %d bytes", tooLarge.Limit)
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		log.Printf("[ERROR] Failed to decode chat request JSON: %v", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	resp, err := h.service.SendMessage(r.Context(), sessionID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingAPIKey),
			errors.Is(err, services.ErrAgentConfig),
			errors.Is(err, services.ErrEmptyMessage):
			writeErrorResponse(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[ERROR] Chat request failed: %v", err)
			writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	resp.Message = withHTML(resp.Message)
	resp.Messages = lo.Map(resp.Messages, func(m models.Message, _ int) models.Message { return withHTML(m) })

	log.Printf("[INFO] Chat request completed successfully")
	writeJSONResponse(w, http.StatusOK, resp)
}

func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := h.resolveSession(w, r)

	if err := h.service.Reset(sessionID); err != nil {
		log.Printf("[ERROR] Reset failed: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to reset conversation")
		return
	}

	writeJSONResponse(w, http.StatusOK, models.SessionResponse{Messages: []models.Message{}})
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := h.resolveSession(w, r)

	messages, err := h.service.Transcript(sessionID)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			writeErrorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve conversation")
		return
	}

	writeJSONResponse(w, http.StatusOK, models.SessionResponse{
		Messages: lo.Map(messages, func(m models.Message, _ int) models.Message { return withHTML(m) }),
	})
}

func (h *ChatHandler) ListModes(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, prompt.SearchModes(r.URL.Query().Get("q")))
}

func (h *ChatHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve stats")
		return
	}

	writeJSONResponse(w, http.StatusOK, stats)
}

// resolveSession returns the caller's session id, issuing a new cookie when
// the request has none or names an expired session.
func (h *ChatHandler) resolveSession(w http.ResponseWriter, r *http.Request) string {
	var current string
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		current = cookie.Value
	}

	session, created := h.service.Session(current)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    session.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return session.ID
}

func withHTML(m models.Message) models.Message {
	m.HTML = render.Markdown(m.Content)
	return m
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
