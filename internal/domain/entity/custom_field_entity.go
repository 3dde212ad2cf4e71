package entity

// CustomField is a per-user key/value attribute outside the core user record.
type CustomField struct {
	UserID int64
	Name   string
	Value  string
}

// AvatarUpload is an uploaded image referenced by a user's custom avatar slot.
type AvatarUpload struct {
	UploadID int64
	UserID   int64
	URL      string
}
