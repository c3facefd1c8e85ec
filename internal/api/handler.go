package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/RichardoC/docsx/internal/editor"
	"github.com/RichardoC/docsx/internal/export"
	"github.com/RichardoC/docsx/internal/models"
	"github.com/RichardoC/docsx/internal/remote"
	"github.com/RichardoC/docsx/internal/workspace"
	"go.uber.org/zap"
)

// Generator produces text for the /docsx/chat endpoints.
type Generator interface {
	Prompt(ctx context.Context, prompt string) (string, error)
	Rephrase(ctx context.Context, text string) (string, error)
}

type Handler struct {
	ws         *workspace.Workspace
	gen        Generator
	exportOpts export.Options
	logger     *zap.Logger
}

func NewHandler(ws *workspace.Workspace, gen Generator, exportOpts export.Options, logger *zap.Logger) *Handler {
	return &Handler{
		ws:         ws,
		gen:        gen,
		exportOpts: exportOpts,
		logger:     logger,
	}
}

// Routes registers the endpoints on a new mux. A nil workspace or generator
// leaves its routes out.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	if h.gen != nil {
		mux.HandleFunc(remote.PromptPath, h.HandlePrompt)
		mux.HandleFunc(remote.RephrasePath, h.HandleRephrasePrompt)
	}
	if h.ws != nil {
		mux.HandleFunc("/api/messages", h.GetMessages)
		mux.HandleFunc("/api/message", h.HandleMessage)
		mux.HandleFunc("/api/document", h.HandleDocument)
		mux.HandleFunc("/api/document/style", h.ApplyStyle)
		mux.HandleFunc("/api/document/rephrase", h.Rephrase)
		mux.HandleFunc("/api/document/export", h.Export)
	}
	return mux
}

type MessagesResponse struct {
	Greeting string           `json:"greeting"`
	Busy     bool             `json:"busy"`
	Messages []models.Message `json:"messages"`
}

type MessageRequest struct {
	Prompt string `json:"prompt"`
}

type MessageResponse struct {
	Messages []models.Message `json:"messages"`
}

type DocumentRequest struct {
	Markup string `json:"markup"`
}

type StyleRequest struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Command string `json:"command"`
	Value   string `json:"value"`
}

type RephraseRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type RephraseResponse struct {
	Document  models.Document  `json:"document"`
	Selection models.Selection `json:"selection"`
}

type AlertResponse struct {
	Alert string `json:"alert"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeAlert(w http.ResponseWriter, status int, err error) {
	msg := workspace.AlertMessage(err)
	if msg == "" {
		msg = err.Error()
	}
	h.writeJSON(w, status, AlertResponse{Alert: msg})
}

// HandlePrompt and HandleRephrasePrompt serve the generator contract:
// {"prompt": string} in, {"text": string} out.
func (h *Handler) HandlePrompt(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.gen.Prompt)
}

func (h *Handler) HandleRephrasePrompt(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, h.gen.Rephrase)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (string, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req remote.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, "Prompt is required", http.StatusBadRequest)
		return
	}

	text, err := fn(r.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("Failed to generate text",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		http.Error(w, fmt.Sprintf("Failed to generate text: %v", err), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, remote.Response{Text: text})
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, MessagesResponse{
		Greeting: workspace.Greeting,
		Busy:     h.ws.Busy(),
		Messages: h.ws.Messages(),
	})
}

func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msgs, err := h.ws.Send(r.Context(), req.Prompt)
	switch {
	case errors.Is(err, workspace.ErrEmptyPrompt):
		http.Error(w, "Prompt is required", http.StatusBadRequest)
		return
	case errors.Is(err, workspace.ErrBusy):
		h.writeAlert(w, http.StatusConflict, err)
		return
	case err != nil:
		h.logger.Error("Failed to send message", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, MessageResponse{Messages: msgs})
}

func (h *Handler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.ws.Document())

	case http.MethodPut:
		var req DocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		doc, err := h.ws.SetMarkup(req.Markup)
		if err != nil {
			h.logger.Warn("Failed to update document", zap.Error(err))
			http.Error(w, "Invalid markup", http.StatusBadRequest)
			return
		}

		h.logger.Debug("Document updated",
			zap.Int("length", len(doc.Text)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		h.writeJSON(w, http.StatusOK, doc)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) ApplyStyle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req StyleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := h.ws.ApplyStyle(editor.Range{Start: req.Start, End: req.End}, req.Command, req.Value)
	if err != nil {
		h.writeAlert(w, http.StatusBadRequest, err)
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) Rephrase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RephraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	doc, sel, err := h.ws.Rephrase(r.Context(), editor.Range{Start: req.Start, End: req.End})
	switch {
	case errors.Is(err, editor.ErrNoSelection), errors.Is(err, editor.ErrSelectionOutside):
		h.writeAlert(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, workspace.ErrBusy):
		h.writeAlert(w, http.StatusConflict, err)
		return
	case err != nil:
		h.writeAlert(w, http.StatusBadGateway, err)
		return
	}

	h.writeJSON(w, http.StatusOK, RephraseResponse{
		Document:  doc,
		Selection: models.Selection{Start: sel.Start, End: sel.End},
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	err := export.Render(&buf, h.ws.PlainText(), h.exportOpts)
	if errors.Is(err, export.ErrUnsupportedText) {
		h.writeAlert(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		h.logger.Error("Failed to export document", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Failed to write export", zap.Error(err))
	}
}
