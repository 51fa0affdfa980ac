package api

import (
	"bytes"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AbdulMoizz31/lost-found-portal/internal/events"
	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
	"github.com/AbdulMoizz31/lost-found-portal/internal/storage"
	"github.com/AbdulMoizz31/lost-found-portal/internal/store"
	"github.com/AbdulMoizz31/lost-found-portal/internal/uploads"
)

// ClaimsHandler handles ownership claims on found items.
type ClaimsHandler struct {
	DB      *sql.DB
	Uploads *uploads.Manager
	Blobs   storage.BlobStore
	Events  *events.Publisher
}

type submitClaimRequest struct {
	ItemID            string   `json:"item_id"`
	FullName          string   `json:"full_name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	StudentID         string   `json:"student_id"`
	UserType          string   `json:"user_type"`
	Department        string   `json:"department"`
	Description       string   `json:"description"`
	LostLocation      string   `json:"lost_location"`
	LostDate          string   `json:"lost_date"`
	AdditionalDetails string   `json:"additional_details"`
	Uploads           []string `json:"uploads"`
}

type setClaimStatusRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/claims.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req submitClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := fieldErrors{}
	errs.require("full_name", req.FullName)
	errs.email("email", req.Email)
	errs.require("phone", req.Phone)
	errs.require("student_id", req.StudentID)
	errs.require("department", req.Department)
	errs.require("lost_location", req.LostLocation)
	errs.lengthBetween("description", req.Description, 20, 500)
	if !model.ValidUserType(req.UserType) {
		errs["user_type"] = "user type must be student, teacher, or faculty"
	}
	lostDate, err := model.ParseDate(req.LostDate)
	if err != nil {
		errs["lost_date"] = "lost date must be YYYY-MM-DD"
	}
	if len(req.Uploads) > uploads.MaxPerItem {
		errs["uploads"] = "at most 5 images per claim"
	}
	if len(errs) > 0 {
		jsonFieldErrors(w, errs)
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
	if item.Status != model.StatusFound {
		jsonError(w, http.StatusBadRequest, "claims can only be submitted for found items")
		return
	}

	staged, blobs, err := h.Uploads.Consume(req.Uploads)
	if err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			jsonError(w, http.StatusBadRequest, "unknown or expired upload id")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to collect uploads")
		return
	}

	images := make([]store.NewItemImage, 0, len(staged))
	for i, s := range staged {
		key := "img/" + s.ID
		if err := h.Blobs.Put(r.Context(), key, bytes.NewReader(blobs[i]), s.Size, s.MIME); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to store image")
			return
		}
		images = append(images, store.NewItemImage{
			Name:    s.Name,
			MIME:    s.MIME,
			Size:    s.Size,
			BlobKey: key,
		})
	}

	claim, err := store.CreateClaim(r.Context(), h.DB, store.NewClaim{
		ItemID:            req.ItemID,
		UserID:            claims.UserID,
		FullName:          req.FullName,
		Email:             req.Email,
		Phone:             req.Phone,
		StudentID:         req.StudentID,
		UserType:          req.UserType,
		Department:        req.Department,
		Description:       req.Description,
		LostLocation:      req.LostLocation,
		LostDate:          lostDate,
		AdditionalDetails: req.AdditionalDetails,
		Images:            images,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to submit claim")
		return
	}

	h.Events.Publish(r.Context(), events.ClaimSubmitted, claim)

	slog.Info("Claim submitted", "claim", claim.ID, "item", claim.ItemID, "by", claims.Email)
	jsonResponse(w, http.StatusCreated, claim)
}

// List handles GET /api/claims (admin).
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != model.ClaimStatusPending &&
		status != model.ClaimStatusApproved && status != model.ClaimStatusRejected {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	claims, err := store.ListClaims(r.Context(), h.DB, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if claims == nil {
		claims = []model.Claim{}
	}
	jsonResponse(w, http.StatusOK, claims)
}

// Get handles GET /api/claims/{id}.
func (h *ClaimsHandler) Get(w http.ResponseWriter, r *http.Request) {
	authClaims := GetClaims(r.Context())
	if authClaims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	claim, err := store.GetClaim(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}

	// Claimants see their own claims, admins see all.
	if claim.UserID != authClaims.UserID && !model.RoleAtLeast(authClaims.Role, model.RoleAdmin) {
		jsonError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	images, err := store.ListClaimImages(r.Context(), h.DB, claim.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claim images")
		return
	}
	if images == nil {
		images = []model.ClaimImage{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"claim":  claim,
		"images": images,
	})
}

// GetImage handles GET /api/claims/{id}/images/{n} (admin).
func (h *ClaimsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || position < 0 {
		jsonError(w, http.StatusBadRequest, "invalid image position")
		return
	}

	img, err := store.GetClaimImage(r.Context(), h.DB, r.PathValue("id"), position)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if img == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	blob, err := h.Blobs.Get(r.Context(), img.BlobKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(w, http.StatusNotFound, "no image")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to load image")
		return
	}

	w.Header().Set("Content-Type", blob.MIME)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(blob.Data)
}

// SetStatus handles PUT /api/claims/{id}/status (admin).
func (h *ClaimsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setClaimStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Status != model.ClaimStatusApproved && req.Status != model.ClaimStatusRejected {
		jsonError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	id := r.PathValue("id")
	if err := store.SetClaimStatus(r.Context(), h.DB, id, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			jsonError(w, http.StatusNotFound, "claim not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to update claim")
		return
	}

	slog.Info("Claim reviewed", "claim", id, "status", req.Status)

	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil || claim == nil {
		// The update itself succeeded; report that much.
		slog.Warn("Failed to read back reviewed claim", "claim", id, "error", err)
		jsonResponse(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
		return
	}

	h.Events.Publish(r.Context(), events.ClaimReviewed, claim)
	jsonResponse(w, http.StatusOK, claim)
}
