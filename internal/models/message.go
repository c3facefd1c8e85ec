package models

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
	SenderSystem    Sender = "system"
)

// Message is one transcript entry. Seq is assigned on append and orders the transcript.
type Message struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Document struct {
	ID        string    `json:"id"`
	Markup    string    `json:"markup"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}
