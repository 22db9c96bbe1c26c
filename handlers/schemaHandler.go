package handlers

import (
	"net/http"

	"studybuddy/models"

	"github.com/gorilla/mux"
	"github.com/invopop/jsonschema"
)

type SchemaHandler struct {
	schemas map[string]*jsonschema.Schema
}

func NewSchemaHandler() *SchemaHandler {
	reflector := &jsonschema.Reflector{DoNotReference: true}

	return &SchemaHandler{
		schemas: map[string]*jsonschema.Schema{
			"chat_request":     reflector.Reflect(&models.ChatRequest{}),
			"chat_response":    reflector.Reflect(&models.ChatResponse{}),
			"session_response": reflector.Reflect(&models.SessionResponse{}),
			"mode":             reflector.Reflect(&models.ModeInfo{}),
			"turn_stats":       reflector.Reflect(&models.TurnStats{}),
		},
	}
}

func (h *SchemaHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/schema", h.GetSchemas).Methods("GET")
}

func (h *SchemaHandler) GetSchemas(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, h.schemas)
}
