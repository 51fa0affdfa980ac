package store

import (
	"context"
	"testing"

	"github.com/AbdulMoizz31/lost-found-portal/internal/db"
	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
)

func TestGetOrCreateChat(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alex.t@umt.edu.pk", "Alex", "hash", model.RoleStudent)
	item, _ := CreateItem(ctx, database, newTestItem(t))

	chat, err := GetOrCreateChat(ctx, database, item.ID, user.ID, "Alex", "Sarah Johnson")
	if err != nil {
		t.Fatalf("GetOrCreateChat: %v", err)
	}
	if chat.ItemID != item.ID || chat.StarterID != user.ID {
		t.Errorf("chat references wrong item/user: %+v", chat)
	}

	// First contact seeds a system message.
	messages, err := ListMessages(ctx, database, chat.ID, 0)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 system message, got %d", len(messages))
	}
	if messages[0].Sender != model.SenderSystem {
		t.Errorf("expected system sender, got %q", messages[0].Sender)
	}

	// A second start returns the same chat without another system message.
	again, err := GetOrCreateChat(ctx, database, item.ID, user.ID, "Alex", "Sarah Johnson")
	if err != nil {
		t.Fatalf("GetOrCreateChat again: %v", err)
	}
	if again.ID != chat.ID {
		t.Errorf("expected same chat, got %q and %q", chat.ID, again.ID)
	}
	messages, _ = ListMessages(ctx, database, chat.ID, 0)
	if len(messages) != 1 {
		t.Errorf("expected still 1 message, got %d", len(messages))
	}
}

func TestMessagesOrderedWithAfterCursor(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alex.t@umt.edu.pk", "Alex", "hash", model.RoleStudent)
	item, _ := CreateItem(ctx, database, newTestItem(t))
	chat, _ := GetOrCreateChat(ctx, database, item.ID, user.ID, "Alex", "Sarah")

	first, err := AddMessage(ctx, database, chat.ID, "1", "Alex", "Hi, I think that's my wallet")
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	AddMessage(ctx, database, chat.ID, "2", "Sarah", "Can you describe it?")

	all, _ := ListMessages(ctx, database, chat.ID, 0)
	if len(all) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Errorf("messages out of order at %d", i)
		}
	}

	// Incremental poll only returns messages after the cursor.
	newer, _ := ListMessages(ctx, database, chat.ID, first.ID)
	if len(newer) != 1 || newer[0].SenderName != "Sarah" {
		t.Errorf("expected only the reply after cursor, got %d messages", len(newer))
	}
}
