package domain

import "time"

// ContactMessage — сообщение из формы обратной связи.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewContactMessage(id, name, email string, phone *string, subject, message string, createdAt time.Time) *ContactMessage {
	return &ContactMessage{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Subject:   subject,
		Message:   message,
		CreatedAt: createdAt,
	}
}
