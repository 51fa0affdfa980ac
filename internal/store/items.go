package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
)

// NewItemImage describes one image to attach when reporting an item.
type NewItemImage struct {
	Name    string
	MIME    string
	Size    int64
	BlobKey string
}

// NewItem carries the fields for reporting an item. The ID is assigned here.
type NewItem struct {
	Title          string
	Description    string
	Category       model.Category
	Status         model.Status
	Location       string
	Date           model.Date
	ReportedBy     string
	ReporterRole   string
	AdditionalInfo string
	ContactInfo    string
	ReporterID     *int64
	Images         []NewItemImage
}

// CreateItem inserts an item and its image records in a single transaction.
func CreateItem(ctx context.Context, db *sql.DB, n NewItem) (*model.Item, error) {
	id := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, title, description, category, status, location, date,
		                    reported_by, reporter_role, additional_info, contact_info, reporter_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, n.Title, n.Description, string(n.Category), string(n.Status), n.Location, n.Date,
		n.ReportedBy, nullStr(n.ReporterRole), nullStr(n.AdditionalInfo), nullStr(n.ContactInfo), n.ReporterID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	for pos, img := range n.Images {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO item_images (item_id, position, name, mime, size, blob_key)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, pos, img.Name, img.MIME, img.Size, img.BlobKey,
		)
		if err != nil {
			return nil, fmt.Errorf("attaching item image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return GetItem(ctx, db, id)
}

const itemColumns = `i.id, i.title, i.description, i.category, i.status, i.location, i.date,
	    i.reported_by, i.reporter_role, i.additional_info, i.contact_info, i.reporter_id, i.created_at,
	    (SELECT COUNT(*) FROM item_images img WHERE img.item_id = i.id)`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	item := &model.Item{}
	var role, additional, contact sql.NullString
	err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Category, &item.Status,
		&item.Location, &item.Date, &item.ReportedBy, &role, &additional, &contact,
		&item.ReporterID, &item.CreatedAt, &item.ImageCount)
	if err != nil {
		return nil, err
	}
	item.ReporterRole = role.String
	item.AdditionalInfo = additional.String
	item.ContactInfo = contact.String
	return item, nil
}

// GetItem returns an item by ID, or nil when absent.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items i WHERE i.id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns the full item snapshot, newest reports first.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items i ORDER BY i.created_at DESC, i.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListItemImages returns an item's image records in display order.
func ListItemImages(ctx context.Context, db *sql.DB, itemID string) ([]model.ItemImage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT item_id, position, name, mime, size, blob_key
		 FROM item_images WHERE item_id = ? ORDER BY position`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item images: %w", err)
	}
	defer rows.Close()

	var images []model.ItemImage
	for rows.Next() {
		var img model.ItemImage
		if err := rows.Scan(&img.ItemID, &img.Position, &img.Name, &img.MIME, &img.Size, &img.BlobKey); err != nil {
			return nil, fmt.Errorf("scanning item image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// GetItemImage returns one image record by position, or nil when absent.
func GetItemImage(ctx context.Context, db *sql.DB, itemID string, position int) (*model.ItemImage, error) {
	img := &model.ItemImage{}
	err := db.QueryRowContext(ctx,
		`SELECT item_id, position, name, mime, size, blob_key
		 FROM item_images WHERE item_id = ? AND position = ?`, itemID, position,
	).Scan(&img.ItemID, &img.Position, &img.Name, &img.MIME, &img.Size, &img.BlobKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item image: %w", err)
	}
	return img, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
