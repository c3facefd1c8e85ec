// Package workspace holds the editor document and the chat transcript, and
// runs the two flows that call out to the generator: chat and rephrase.
//
// A single busy flag covers both flows. While a call is pending any further
// chat or rephrase request is rejected with ErrBusy instead of queued.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RichardoC/docsx/internal/db"
	"github.com/RichardoC/docsx/internal/editor"
	"github.com/RichardoC/docsx/internal/models"
	"github.com/RichardoC/docsx/internal/remote"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	Greeting            = "Hello! I am DocsX. How can I help you start your essay?"
	FallbackNoText      = "Sorry, I couldn't generate a response. Please try again."
	FallbackUnavailable = "An error occurred while connecting to the chat service."
	RephrasedNotice     = "Selected text rephrased successfully."
)

var (
	ErrBusy           = errors.New("a request is already in progress")
	ErrEmptyPrompt    = errors.New("prompt is empty")
	ErrRephraseFailed = errors.New("failed to rephrase selection")
)

// AlertMessage returns the user-facing alert for errors from Rephrase and
// ApplyStyle, or "" for errors that have none.
func AlertMessage(err error) string {
	switch {
	case errors.Is(err, editor.ErrSelectionOutside):
		return "Please select text inside the document editor."
	case errors.Is(err, editor.ErrNoSelection):
		return "Please select some text to rephrase."
	case errors.Is(err, ErrRephraseFailed):
		return "Failed to rephrase selected text. Please try again."
	case errors.Is(err, ErrBusy):
		return "Please wait for the current request to finish."
	case errors.Is(err, editor.ErrInvalidStyle):
		return "That style is not available."
	}
	return ""
}

type Generator interface {
	Prompt(ctx context.Context, prompt string) (string, error)
	Rephrase(ctx context.Context, text string) (string, error)
}

type Store interface {
	SaveDocument(doc *models.Document) error
	LoadDocument() (*models.Document, error)
	AppendMessage(msg *models.Message) error
	ListMessages() ([]models.Message, error)
}

type Workspace struct {
	gen    Generator
	store  Store
	logger *zap.Logger

	mu         sync.Mutex
	busy       bool
	docID      string
	doc        *editor.Document
	rev        uint64
	updatedAt  time.Time
	transcript []models.Message
}

// Open restores the document and transcript from store, seeding the
// document when the store is empty.
func Open(gen Generator, store Store, logger *zap.Logger) (*Workspace, error) {
	w := &Workspace{
		gen:    gen,
		store:  store,
		logger: logger,
	}

	saved, err := store.LoadDocument()
	switch {
	case errors.Is(err, db.ErrNotFound):
		w.docID = uuid.NewString()
		w.doc = editor.NewDocument(SeedText)
		w.persistLocked()
	case err != nil:
		return nil, fmt.Errorf("failed to load document: %w", err)
	default:
		w.docID = saved.ID
		w.doc = editor.NewDocument("")
		if err := w.doc.SetMarkup(saved.Markup); err != nil {
			return nil, fmt.Errorf("failed to restore document: %w", err)
		}
		w.updatedAt = saved.UpdatedAt
	}

	w.transcript, err = store.ListMessages()
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}

	logger.Info("workspace opened",
		zap.String("documentID", w.docID),
		zap.Int("messages", len(w.transcript)))
	return w, nil
}

func (w *Workspace) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

func (w *Workspace) Messages() []models.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]models.Message, len(w.transcript))
	copy(out, w.transcript)
	return out
}

func (w *Workspace) Document() models.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// PlainText returns the rendered text of the document, without styling.
func (w *Workspace) PlainText() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc.PlainText()
}

func (w *Workspace) snapshotLocked() models.Document {
	return models.Document{
		ID:        w.docID,
		Markup:    w.doc.Markup(),
		Text:      w.doc.PlainText(),
		UpdatedAt: w.updatedAt,
	}
}

// persistLocked writes the document snapshot. A store failure is logged and
// otherwise ignored; the in-memory document stays authoritative.
func (w *Workspace) persistLocked() {
	w.rev++
	snap := w.snapshotLocked()
	if err := w.store.SaveDocument(&snap); err != nil {
		w.logger.Warn("failed to save document", zap.Error(err), zap.String("documentID", w.docID))
		w.updatedAt = time.Now().UTC()
		return
	}
	w.updatedAt = snap.UpdatedAt
}

func (w *Workspace) appendLocked(sender models.Sender, text string) models.Message {
	msg := models.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.store.AppendMessage(&msg); err != nil {
		w.logger.Warn("failed to save message", zap.Error(err), zap.String("sender", string(sender)))
		msg.Seq = int64(len(w.transcript) + 1)
		if n := len(w.transcript); n > 0 {
			msg.Seq = w.transcript[n-1].Seq + 1
		}
	}
	w.transcript = append(w.transcript, msg)
	return msg
}

func (w *Workspace) setIdle() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

// SetMarkup replaces the document body, as on every edit event.
func (w *Workspace) SetMarkup(markup string) (models.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.doc.SetMarkup(markup); err != nil {
		return models.Document{}, err
	}
	w.persistLocked()
	return w.snapshotLocked(), nil
}

// ApplyStyle sets font, size or color on the characters in rg.
func (w *Workspace) ApplyStyle(rg editor.Range, command, value string) (models.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.doc.ApplyStyle(rg, command, value); err != nil {
		return models.Document{}, err
	}
	if !rg.Empty() {
		w.persistLocked()
	}
	return w.snapshotLocked(), nil
}

// Send appends prompt as a user message, asks the generator for a reply and
// appends that as an assistant message. Generator failures become a fallback
// reply, so the only errors are ErrEmptyPrompt and ErrBusy, neither of which
// touches the transcript.
func (w *Workspace) Send(ctx context.Context, prompt string) ([]models.Message, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.busy = true
	userMsg := w.appendLocked(models.SenderUser, prompt)
	w.mu.Unlock()
	defer w.setIdle()

	text, err := w.gen.Prompt(ctx, prompt)
	if err != nil {
		w.logger.Error("Failed to get chat reply", zap.Error(err))
		text = fallbackFor(err)
	}

	w.mu.Lock()
	reply := w.appendLocked(models.SenderAssistant, text)
	w.mu.Unlock()

	return []models.Message{userMsg, reply}, nil
}

func fallbackFor(err error) string {
	if errors.Is(err, remote.ErrNoText) {
		return FallbackNoText
	}
	return FallbackUnavailable
}

// Rephrase sends the text in rg to the generator and replaces the range with
// the result, returning the selection collapsed to the end of the new text.
// The document is untouched unless the whole replacement succeeds. If the
// document was edited while the request was pending the result is discarded.
func (w *Workspace) Rephrase(ctx context.Context, rg editor.Range) (models.Document, editor.Range, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return models.Document{}, rg, ErrBusy
	}
	selected, err := w.doc.Selected(rg)
	if err != nil {
		w.mu.Unlock()
		return models.Document{}, rg, err
	}
	w.busy = true
	rev := w.rev
	w.mu.Unlock()
	defer w.setIdle()

	text, err := w.gen.Rephrase(ctx, selected)
	if err != nil {
		w.logger.Error("Failed to rephrase selection", zap.Error(err), zap.Int("length", len([]rune(selected))))
		return models.Document{}, rg, fmt.Errorf("%w: %v", ErrRephraseFailed, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.rev != rev {
		w.logger.Warn("document changed during rephrase", zap.Uint64("rev", rev), zap.Uint64("current", w.rev))
		return models.Document{}, rg, fmt.Errorf("%w: document changed", ErrRephraseFailed)
	}
	sel, err := w.doc.Replace(rg, text)
	if err != nil {
		return models.Document{}, rg, fmt.Errorf("%w: %v", ErrRephraseFailed, err)
	}
	w.persistLocked()
	w.appendLocked(models.SenderSystem, RephrasedNotice)
	return w.snapshotLocked(), sel, nil
}
