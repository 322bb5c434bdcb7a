package models

import "time"

// Photo represents an uploaded photo tagged with a friend
type Photo struct {
	ID            int       `json:"id"`
	FriendName    string    `json:"friend_name"`
	FriendContact string    `json:"friend_contact"`
	UploadDate    time.Time `json:"upload_date"`
	PhotoPath     string    `json:"photo_path"`
	Contact       string    `json:"contact"`
	Activity      *string   `json:"activity,omitempty"`
	UploaderID    int       `json:"uploader_id"`
}

// UploadPhotoRequest carries the form fields of an upload; the file itself
// travels separately as multipart data.
type UploadPhotoRequest struct {
	FriendName    string `form:"friend_name"`
	FriendContact string `form:"friend_contact"`
	Contact       string `form:"contact"`
	Activity      string `form:"activity"`
}
