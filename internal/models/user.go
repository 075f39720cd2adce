package models

import "encoding/json"

// User is a profile as returned by the user endpoints. The moderator flag is
// togglable by admins; the admin flag is read-only from the client's side.
type User struct {
	ID          string
	Name        string
	Email       string
	Department  string
	IsModerator bool
	IsAdmin     bool
}

type wireUser struct {
	ID          string `json:"id"`
	AltID       string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	IsModerator bool   `json:"is_moderator"`
	IsAdmin     bool   `json:"is_admin"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var wire wireUser
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	u.ID = wire.ID
	if u.ID == "" {
		u.ID = wire.AltID
	}
	u.Name = wire.Name
	u.Email = wire.Email
	u.Department = wire.Department
	u.IsModerator = wire.IsModerator
	u.IsAdmin = wire.IsAdmin
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Department:  u.Department,
		IsModerator: u.IsModerator,
		IsAdmin:     u.IsAdmin,
	})
}
