package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"studybuddy/models"
	"studybuddy/services/prompt"

	"github.com/gorilla/mux"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	pageTitle   = "📚 Chatbot Asisten Belajar"
	pageCaption = "Teman belajar interaktif dengan Google Gemini"
)

type pageData struct {
	Title        string
	Caption      string
	Modes        []models.ModeInfo
	HasKeyPreset bool
}

type PageHandler struct {
	hasDefaultKey bool
}

func NewPageHandler(hasDefaultKey bool) *PageHandler {
	return &PageHandler{hasDefaultKey: hasDefaultKey}
}

func (h *PageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods("GET")
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title:        pageTitle,
		Caption:      pageCaption,
		Modes:        prompt.ModeInfos(),
		HasKeyPreset: h.hasDefaultKey,
	})
	if err != nil {
		log.Printf("[ERROR] Failed to render chat page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
