package model

import "time"

// Claim represents an ownership claim submitted against a found item.
type Claim struct {
	ID                string    `json:"id"`
	ItemID            string    `json:"item_id"`
	UserID            int64     `json:"user_id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	StudentID         string    `json:"student_id"`
	UserType          string    `json:"user_type"`
	Department        string    `json:"department"`
	Description       string    `json:"description"`
	LostLocation      string    `json:"lost_location"`
	LostDate          Date      `json:"lost_date"`
	AdditionalDetails string    `json:"additional_details,omitempty"`
	Status            string    `json:"status"`
	SubmittedAt       time.Time `json:"submitted_at"`

	// Joined field (not always populated).
	ItemTitle string `json:"item_title,omitempty"`
}

// ClaimImage is one supporting image attached to a claim, in display order.
type ClaimImage struct {
	ClaimID  string `json:"claim_id"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	MIME     string `json:"mime"`
	Size     int64  `json:"size"`
	BlobKey  string `json:"-"`
}

// Claim statuses.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// Claimant affiliation types.
const (
	UserTypeStudent = "student"
	UserTypeTeacher = "teacher"
	UserTypeFaculty = "faculty"
)

// ValidUserType checks a claimant affiliation value.
func ValidUserType(s string) bool {
	return s == UserTypeStudent || s == UserTypeTeacher || s == UserTypeFaculty
}
