package domain

type OpenDirectChatCommand struct {
	TargetUserID string `json:"userId" validate:"required,uuid"`
}

type SendMessageCommand struct {
	ChatID   string `json:"chatId" validate:"required,uuid"`
	SenderID string `json:"senderId,omitempty" validate:"omitempty,uuid"`
	Text     string `json:"text" validate:"required"`
}

type RetrieveMessagesCommand struct {
	ChatID string  `json:"chatId" validate:"required,uuid"`
	Cursor *string `json:"cursor,omitempty"`
}

type RegisterCommand struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
