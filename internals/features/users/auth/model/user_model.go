package model

// UserModel is a directory entry. Shape matches what the web client stores.
type UserModel struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	StudentID *string `json:"studentId,omitempty"`
	Subject   *string `json:"subject,omitempty"`

	PasswordHash []byte `json:"-"`
}
