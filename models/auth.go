package models

// Credentials are submitted to login and register
type Credentials struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// LoginResponse is the market API's answer to a login attempt
type LoginResponse struct {
	Success         bool       `json:"success"`
	Token           FlexString `json:"token"`
	UserID          FlexString `json:"user_id"`
	UserDisplayName FlexString `json:"user_display_name"`
	Message         FlexString `json:"message"`
}

// RegisterResponse is the market API's answer to a registration attempt
type RegisterResponse struct {
	Success bool       `json:"success"`
	Message FlexString `json:"message"`
}

// Session is the persisted authenticated user
type Session struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

// ThemeMode is the persisted theme preference
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// Valid reports whether the mode is one of light, dark or system
func (m ThemeMode) Valid() bool {
	switch m {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}
