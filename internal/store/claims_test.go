package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/AbdulMoizz31/lost-found-portal/internal/db"
	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
)

func newTestClaim(t *testing.T, itemID string, userID int64) NewClaim {
	t.Helper()
	return NewClaim{
		ItemID:       itemID,
		UserID:       userID,
		FullName:     "Alex Thompson",
		Email:        "alex.t@umt.edu.pk",
		Phone:        "+92-300-1234567",
		StudentID:    "S-2021-042",
		UserType:     model.UserTypeStudent,
		Department:   "Computer Science",
		Description:  "Red Hydro Flask with stickers, lost it during PE class.",
		LostLocation: "Sports Complex",
		LostDate:     testDate(t, "2024-05-26"),
	}
}

func setupClaimFixtures(t *testing.T) (ctx context.Context, database *sql.DB, itemID string, userID int64) {
	t.Helper()
	database = db.NewTestDB(t)
	ctx = context.Background()

	user, err := CreateUser(ctx, database, "alex.t@umt.edu.pk", "Alex Thompson", "hash", model.RoleStudent)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	item, err := CreateItem(ctx, database, newTestItem(t))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return ctx, database, item.ID, user.ID
}

func TestCreateAndGetClaim(t *testing.T) {
	ctx, database, itemID, userID := setupClaimFixtures(t)

	claim, err := CreateClaim(ctx, database, newTestClaim(t, itemID, userID))
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	if claim.ID == "" {
		t.Fatal("expected generated claim id")
	}
	if claim.Status != model.ClaimStatusPending {
		t.Errorf("expected pending status, got %q", claim.Status)
	}
	if claim.LostDate.String() != "2024-05-26" {
		t.Errorf("expected lost date '2024-05-26', got %q", claim.LostDate)
	}
}

func TestClaimSupportingImages(t *testing.T) {
	ctx, database, itemID, userID := setupClaimFixtures(t)

	n := newTestClaim(t, itemID, userID)
	n.Images = []NewItemImage{
		{Name: "receipt.jpg", MIME: "image/jpeg", Size: 1234, BlobKey: "blob-1"},
	}
	claim, err := CreateClaim(ctx, database, n)
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}

	images, err := ListClaimImages(ctx, database, claim.ID)
	if err != nil {
		t.Fatalf("ListClaimImages: %v", err)
	}
	if len(images) != 1 || images[0].Name != "receipt.jpg" {
		t.Errorf("expected 1 supporting image, got %+v", images)
	}

	img, err := GetClaimImage(ctx, database, claim.ID, 0)
	if err != nil {
		t.Fatalf("GetClaimImage: %v", err)
	}
	if img == nil || img.BlobKey != "blob-1" {
		t.Errorf("expected blob-1 at position 0, got %+v", img)
	}

	missing, err := GetClaimImage(ctx, database, claim.ID, 5)
	if err != nil {
		t.Fatalf("GetClaimImage missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing position, got %+v", missing)
	}
}

func TestListClaimsJoinsItemTitle(t *testing.T) {
	ctx, database, itemID, userID := setupClaimFixtures(t)

	if _, err := CreateClaim(ctx, database, newTestClaim(t, itemID, userID)); err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}

	claims, err := ListClaims(ctx, database, "")
	if err != nil {
		t.Fatalf("ListClaims: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(claims))
	}
	if claims[0].ItemTitle != "Black Wallet" {
		t.Errorf("expected joined item title, got %q", claims[0].ItemTitle)
	}
}

func TestSetClaimStatus(t *testing.T) {
	ctx, database, itemID, userID := setupClaimFixtures(t)

	claim, _ := CreateClaim(ctx, database, newTestClaim(t, itemID, userID))

	if err := SetClaimStatus(ctx, database, claim.ID, model.ClaimStatusApproved); err != nil {
		t.Fatalf("SetClaimStatus: %v", err)
	}

	got, _ := GetClaim(ctx, database, claim.ID)
	if got.Status != model.ClaimStatusApproved {
		t.Errorf("expected approved, got %q", got.Status)
	}

	if err := SetClaimStatus(ctx, database, claim.ID, "lost"); err == nil {
		t.Error("expected error for invalid status value")
	}
	if err := SetClaimStatus(ctx, database, "no-such-claim", model.ClaimStatusRejected); err == nil {
		t.Error("expected error for unknown claim id")
	}

	pending, _ := ListClaims(ctx, database, model.ClaimStatusPending)
	if len(pending) != 0 {
		t.Errorf("expected no pending claims after approval, got %d", len(pending))
	}
}
