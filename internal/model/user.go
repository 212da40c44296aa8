package model

type User struct {
	ID           string `json:"id"`
	GuestID      string `json:"guest_id,omitempty"`
	Email        string `json:"email,omitempty"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
	IsGuest      bool   `json:"is_guest"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}
