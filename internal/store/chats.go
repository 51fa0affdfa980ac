package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
)

// GetOrCreateChat returns the chat between a user and an item's reporter,
// creating it (with an initial system message) on first contact.
func GetOrCreateChat(ctx context.Context, db *sql.DB, itemID string, starterID int64, starterName, reporterName string) (*model.Chat, error) {
	chat, err := getChatByItemAndStarter(ctx, db, itemID, starterID)
	if err != nil {
		return nil, err
	}
	if chat != nil {
		return chat, nil
	}

	id := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chats (id, item_id, starter_id) VALUES (?, ?, ?)`,
		id, itemID, starterID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (chat_id, sender, sender_name, body) VALUES (?, ?, ?, ?)`,
		id, model.SenderSystem, "System",
		fmt.Sprintf("Chat started between %s and %s about item %s", starterName, reporterName, itemID),
	)
	if err != nil {
		return nil, fmt.Errorf("creating system message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing chat: %w", err)
	}

	return GetChat(ctx, db, id)
}

// GetChat returns a chat by ID, or nil when absent.
func GetChat(ctx context.Context, db *sql.DB, id string) (*model.Chat, error) {
	c := &model.Chat{}
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, starter_id, created_at FROM chats WHERE id = ?`, id,
	).Scan(&c.ID, &c.ItemID, &c.StarterID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting chat: %w", err)
	}
	return c, nil
}

func getChatByItemAndStarter(ctx context.Context, db *sql.DB, itemID string, starterID int64) (*model.Chat, error) {
	c := &model.Chat{}
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, starter_id, created_at FROM chats WHERE item_id = ? AND starter_id = ?`,
		itemID, starterID,
	).Scan(&c.ID, &c.ItemID, &c.StarterID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting chat: %w", err)
	}
	return c, nil
}

// AddMessage appends a message to a chat.
func AddMessage(ctx context.Context, db *sql.DB, chatID, sender, senderName, body string) (*model.Message, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO messages (chat_id, sender, sender_name, body) VALUES (?, ?, ?, ?)`,
		chatID, sender, senderName, body,
	)
	if err != nil {
		return nil, fmt.Errorf("adding message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting message id: %w", err)
	}

	m := &model.Message{}
	err = db.QueryRowContext(ctx,
		`SELECT id, chat_id, sender, sender_name, body, sent_at FROM messages WHERE id = ?`, id,
	).Scan(&m.ID, &m.ChatID, &m.Sender, &m.SenderName, &m.Body, &m.SentAt)
	if err != nil {
		return nil, fmt.Errorf("getting message: %w", err)
	}
	return m, nil
}

// ListMessages returns a chat's messages in send order. When after > 0,
// only messages with a larger ID are returned (incremental polling).
func ListMessages(ctx context.Context, db *sql.DB, chatID string, after int64) ([]model.Message, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, chat_id, sender, sender_name, body, sent_at
		 FROM messages WHERE chat_id = ? AND id > ? ORDER BY id`,
		chatID, after,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Sender, &m.SenderName, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
