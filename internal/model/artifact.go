package model

import (
	"time"
)

// Item types accepted for talent bank uploads.
const (
	ItemTypeResume               = "resume"
	ItemTypeDocument             = "document"
	ItemTypeCredential           = "credential"
	ItemTypeImage                = "image"
	ItemTypeVideo                = "video"
	ItemTypePortfolio            = "portfolio"
	ItemTypeEducation            = "education"
	ItemTypeExperience           = "experience"
	ItemTypeLogo                 = "logo"
	ItemTypeBusinessIntroduction = "business_introduction"
	ItemTypeOther                = "other"
)

var itemTypes = map[string]bool{
	ItemTypeResume:               true,
	ItemTypeDocument:             true,
	ItemTypeCredential:           true,
	ItemTypeImage:                true,
	ItemTypeVideo:                true,
	ItemTypePortfolio:            true,
	ItemTypeEducation:            true,
	ItemTypeExperience:           true,
	ItemTypeLogo:                 true,
	ItemTypeBusinessIntroduction: true,
	ItemTypeOther:                true,
}

// IsItemType reports whether t is a known item type.
func IsItemType(t string) bool {
	return itemTypes[t]
}

// Artifact is one uploaded talent bank item.
type Artifact struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"` // Owner, never changes
	ItemType          string    `db:"item_type" json:"item_type"`
	Title             string    `db:"title" json:"title"`
	Description       *string   `db:"description" json:"description"`
	FilePath          string    `db:"file_path" json:"file_path"` // Unique object key in the bucket
	FileType          string    `db:"file_type" json:"file_type"` // Declared content type
	FileSize          int64     `db:"file_size" json:"file_size"`
	IsPublic          bool      `db:"is_public" json:"is_public"`
	ContentHash       string    `db:"content_hash" json:"content_hash"` // sha256 hex of the stored bytes
	VerificationToken string    `db:"verification_token" json:"verification_token"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// ItemMetadata is the caller-supplied part of an upload.
type ItemMetadata struct {
	ItemType    string  `json:"item_type"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	IsPublic    bool    `json:"is_public"`
}
