package model

import "time"

// Chat is a conversation between an interested user and an item's reporter.
// One chat exists per (item, starter) pair.
type Chat struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	StarterID int64     `json:"starter_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one chat message. Messages are append-only and ordered by ID.
type Message struct {
	ID         int64     `json:"id"`
	ChatID     string    `json:"chat_id"`
	Sender     string    `json:"sender"`
	SenderName string    `json:"sender_name"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sent_at"`
}

// SenderSystem marks messages generated by the portal itself.
const SenderSystem = "system"

// MaxMessageLength caps a single chat message.
const MaxMessageLength = 500
