package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
)

// NewClaim carries the fields for submitting an ownership claim.
type NewClaim struct {
	ItemID            string
	UserID            int64
	FullName          string
	Email             string
	Phone             string
	StudentID         string
	UserType          string
	Department        string
	Description       string
	LostLocation      string
	LostDate          model.Date
	AdditionalDetails string
	Images            []NewItemImage
}

// CreateClaim inserts a claim and its supporting images in one
// transaction. New claims always start as pending.
func CreateClaim(ctx context.Context, db *sql.DB, n NewClaim) (*model.Claim, error) {
	id := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO claims (id, item_id, user_id, full_name, email, phone, student_id,
		                     user_type, department, description, lost_location, lost_date,
		                     additional_details, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, n.ItemID, n.UserID, n.FullName, n.Email, n.Phone, n.StudentID,
		n.UserType, n.Department, n.Description, n.LostLocation, n.LostDate,
		nullStr(n.AdditionalDetails), model.ClaimStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	for pos, img := range n.Images {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO claim_images (claim_id, position, name, mime, size, blob_key)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, pos, img.Name, img.MIME, img.Size, img.BlobKey,
		)
		if err != nil {
			return nil, fmt.Errorf("attaching claim image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}

	return GetClaim(ctx, db, id)
}

const claimColumns = `c.id, c.item_id, c.user_id, c.full_name, c.email, c.phone, c.student_id,
	    c.user_type, c.department, c.description, c.lost_location, c.lost_date,
	    c.additional_details, c.status, c.submitted_at`

func scanClaim(row interface{ Scan(...any) error }, withTitle bool) (*model.Claim, error) {
	c := &model.Claim{}
	var details sql.NullString
	dest := []any{&c.ID, &c.ItemID, &c.UserID, &c.FullName, &c.Email, &c.Phone, &c.StudentID,
		&c.UserType, &c.Department, &c.Description, &c.LostLocation, &c.LostDate,
		&details, &c.Status, &c.SubmittedAt}
	if withTitle {
		dest = append(dest, &c.ItemTitle)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c.AdditionalDetails = details.String
	return c, nil
}

// GetClaim returns a claim by ID, or nil when absent.
func GetClaim(ctx context.Context, db *sql.DB, id string) (*model.Claim, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+claimColumns+` FROM claims c WHERE c.id = ?`, id,
	)
	c, err := scanClaim(row, false)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	return c, nil
}

// ListClaims returns claims with their item titles, newest first,
// optionally filtered by status.
func ListClaims(ctx context.Context, db *sql.DB, status string) ([]model.Claim, error) {
	query := `SELECT ` + claimColumns + `, i.title AS item_title
	          FROM claims c JOIN items i ON i.id = c.item_id`
	var args []any
	if status != "" {
		query += ` WHERE c.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY c.submitted_at DESC, c.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		c, err := scanClaim(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, *c)
	}
	return claims, rows.Err()
}

// ListClaimImages returns a claim's supporting images in display order.
func ListClaimImages(ctx context.Context, db *sql.DB, claimID string) ([]model.ClaimImage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT claim_id, position, name, mime, size, blob_key
		 FROM claim_images WHERE claim_id = ? ORDER BY position`, claimID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing claim images: %w", err)
	}
	defer rows.Close()

	var images []model.ClaimImage
	for rows.Next() {
		var img model.ClaimImage
		if err := rows.Scan(&img.ClaimID, &img.Position, &img.Name, &img.MIME, &img.Size, &img.BlobKey); err != nil {
			return nil, fmt.Errorf("scanning claim image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// GetClaimImage returns one supporting image record by position, or nil
// when absent.
func GetClaimImage(ctx context.Context, db *sql.DB, claimID string, position int) (*model.ClaimImage, error) {
	img := &model.ClaimImage{}
	err := db.QueryRowContext(ctx,
		`SELECT claim_id, position, name, mime, size, blob_key
		 FROM claim_images WHERE claim_id = ? AND position = ?`, claimID, position,
	).Scan(&img.ClaimID, &img.Position, &img.Name, &img.MIME, &img.Size, &img.BlobKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim image: %w", err)
	}
	return img, nil
}

// SetClaimStatus moves a claim to approved or rejected.
func SetClaimStatus(ctx context.Context, db *sql.DB, id, status string) error {
	if status != model.ClaimStatusApproved && status != model.ClaimStatusRejected {
		return fmt.Errorf("invalid claim status %q", status)
	}
	result, err := db.ExecContext(ctx,
		`UPDATE claims SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating claim status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
