package auth

// RegisterInput represents the request body for creating a new account.
type RegisterInput struct {
	Username          string `json:"username" validate:"required,max=50,min=3"`
	Email             string `json:"email" validate:"required,email,max=254"`
	Password          string `json:"password" validate:"required,min=6,max=72"`
	PreferredCurrency string `json:"preferred_currency" validate:"omitempty,len=3"`
}

// LoginInput represents the request body for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries the refresh token being exchanged.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// EmailInput is shared by resend-verification and forgot-password.
type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput represents the request body for redeeming a
// password reset token.
type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}
