package api

import (
	"bytes"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AbdulMoizz31/lost-found-portal/internal/catalog"
	"github.com/AbdulMoizz31/lost-found-portal/internal/events"
	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
	"github.com/AbdulMoizz31/lost-found-portal/internal/storage"
	"github.com/AbdulMoizz31/lost-found-portal/internal/store"
	"github.com/AbdulMoizz31/lost-found-portal/internal/uploads"
)

// ItemsHandler serves the item catalog.
type ItemsHandler struct {
	DB      *sql.DB
	Catalog *catalog.Store
	Uploads *uploads.Manager
	Blobs   storage.BlobStore
	Events  *events.Publisher
}

type reportItemRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Status         string   `json:"status"`
	Location       string   `json:"location"`
	Date           string   `json:"date"`
	AdditionalInfo string   `json:"additionalInfo"`
	ContactInfo    string   `json:"contactInfo"`
	Uploads        []string `json:"uploads"`
}

type listItemsResponse struct {
	Items []model.Item  `json:"items"`
	Stats catalog.Stats `json:"stats"`
	State string        `json:"state"`
}

// parseCriteria builds filter criteria from query parameters. Status and
// category accept "all" as an explicit no-filter value; anything else
// unknown or malformed is an error, not an empty result.
func parseCriteria(r *http.Request) (catalog.Criteria, error) {
	var c catalog.Criteria
	q := r.URL.Query()

	if v := q.Get("status"); v != "" && v != "all" {
		status, ok := model.ParseStatus(v)
		if !ok {
			return c, errors.New("invalid status filter")
		}
		c.Status = status
	}
	if v := q.Get("category"); v != "" && v != "all" {
		category, ok := model.ParseCategory(v)
		if !ok {
			return c, errors.New("invalid category filter")
		}
		c.Category = category
	}
	if v := q.Get("from"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return c, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		c.DateFrom = d
	}
	if v := q.Get("to"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return c, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		c.DateTo = d
	}
	return c, nil
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.Catalog.State() != catalog.StateReady {
		if err := h.Catalog.Load(r.Context()); err != nil {
			jsonError(w, http.StatusBadGateway, "failed to load items")
			return
		}
	}

	items := catalog.Apply(h.Catalog.Items(), criteria)
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, listItemsResponse{
		Items: items,
		Stats: catalog.Summarize(items),
		State: h.Catalog.State().String(),
	})
}

// Reload handles POST /api/items/reload.
func (h *ItemsHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Reload(r.Context()); err != nil {
		jsonError(w, http.StatusBadGateway, "failed to reload items")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"state": h.Catalog.State().String()})
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req reportItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	errs := fieldErrors{}
	errs.require("title", req.Title)
	errs.require("description", req.Description)
	errs.require("location", req.Location)

	category, ok := model.ParseCategory(req.Category)
	if !ok {
		errs["category"] = "invalid category"
	}
	status, ok := model.ParseStatus(req.Status)
	if !ok {
		errs["status"] = "status must be lost or found"
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		errs["date"] = "date must be YYYY-MM-DD"
	}
	if len(req.Uploads) > uploads.MaxPerItem {
		errs["uploads"] = "at most 5 images per report"
	}
	if len(errs) > 0 {
		jsonFieldErrors(w, errs)
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

	item, err := store.CreateItem(r.Context(), h.DB, store.NewItem{
		Title:          req.Title,
		Description:    req.Description,
		Category:       category,
		Status:         status,
		Location:       req.Location,
		Date:           date,
		ReportedBy:     claims.Name,
		ReporterRole:   claims.Role,
		AdditionalInfo: req.AdditionalInfo,
		ContactInfo:    req.ContactInfo,
		ReporterID:     &claims.UserID,
		Images:         images,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.Events.Publish(r.Context(), events.ItemReported, item)

	// Refresh the catalog snapshot so the report shows up immediately.
	if err := h.Catalog.Reload(r.Context()); err != nil {
		slog.Warn("Catalog reload after report failed", "error", err)
	}

	slog.Info("Item reported", "id", item.ID, "status", item.Status, "by", claims.Email)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	images, err := store.ListItemImages(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list item images")
		return
	}
	if images == nil {
		images = []model.ItemImage{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"item":     item,
		"images":   images,
		"category": item.Category.Info(),
	})
}

// GetImage handles GET /api/items/{id}/images/{n}.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(r.PathValue("n"))
	if err != nil || position < 0 {
		jsonError(w, http.StatusBadRequest, "invalid image position")
		return
	}

	img, err := store.GetItemImage(r.Context(), h.DB, r.PathValue("id"), position)
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
