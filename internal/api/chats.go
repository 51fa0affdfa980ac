package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
	"github.com/AbdulMoizz31/lost-found-portal/internal/store"
)

// ChatsHandler handles claimant-reporter conversations.
type ChatsHandler struct {
	DB *sql.DB
}

type startChatRequest struct {
	ItemID string `json:"item_id"`
}

type postMessageRequest struct {
	Body string `json:"body"`
}

// Start handles POST /api/chats. Starting a chat twice for the same
// item returns the existing conversation.
func (h *ChatsHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req startChatRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, req.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	chat, err := store.GetOrCreateChat(r.Context(), h.DB, item.ID, claims.UserID, claims.Name, item.ReportedBy)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to start chat")
		return
	}

	jsonResponse(w, http.StatusOK, chat)
}

// Messages handles GET /api/chats/{id}/messages?after=.
func (h *ChatsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.chatForRequest(w, r)
	if !ok {
		return
	}

	var after int64
	if v := r.URL.Query().Get("after"); v != "" {
		var err error
		after, err = strconv.ParseInt(v, 10, 64)
		if err != nil || after < 0 {
			jsonError(w, http.StatusBadRequest, "invalid after cursor")
			return
		}
	}

	messages, err := store.ListMessages(r.Context(), h.DB, chat.ID, after)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	jsonResponse(w, http.StatusOK, messages)
}

// Post handles POST /api/chats/{id}/messages.
func (h *ChatsHandler) Post(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.chatForRequest(w, r)
	if !ok {
		return
	}
	claims := GetClaims(r.Context())

	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		jsonError(w, http.StatusBadRequest, "message body required")
		return
	}
	if utf8.RuneCountInString(body) > model.MaxMessageLength {
		jsonError(w, http.StatusBadRequest, "message exceeds 500 characters")
		return
	}

	message, err := store.AddMessage(r.Context(), h.DB, chat.ID, strconv.FormatInt(claims.UserID, 10), claims.Name, body)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	jsonResponse(w, http.StatusCreated, message)
}

// chatForRequest loads the chat from the path and checks the caller may
// access it (participant or admin).
func (h *ChatsHandler) chatForRequest(w http.ResponseWriter, r *http.Request) (*model.Chat, bool) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}

	chat, err := store.GetChat(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if chat == nil {
		jsonError(w, http.StatusNotFound, "chat not found")
		return nil, false
	}

	if chat.StarterID == claims.UserID || model.RoleAtLeast(claims.Role, model.RoleAdmin) {
		return chat, true
	}

	// The item's reporter is the other participant.
	item, err := store.GetItem(r.Context(), h.DB, chat.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	if item != nil && item.ReporterID != nil && *item.ReporterID == claims.UserID {
		return chat, true
	}

	jsonError(w, http.StatusForbidden, "insufficient permissions")
	return nil, false
}
