package api

// PasswordGrantRequest представляет запрос на вход по email/паролю
type PasswordGrantRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль
}

// RefreshGrantRequest представляет запрос на обновление сессии
type RefreshGrantRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse представляет сессию, выданную identity провайдером
type SessionResponse struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"access_token"`  // JWT access token
	TokenType    string `json:"token_type"`    // обычно "bearer"
	RefreshToken string `json:"refresh_token"` // refresh token
	ExpiresIn    int64  `json:"expires_in"`    // время жизни access token в секундах
	ExpiresAt    int64  `json:"expires_at"`    // unix seconds, может отсутствовать
}

// User представляет пользователя identity провайдера
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
