package user

// UpdateProfileInput represents the request body for profile changes.
// Empty fields are left untouched.
type UpdateProfileInput struct {
	Username string `json:"username" validate:"omitempty,max=50,min=3"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
}

// UpdateCurrencyInput represents the request body for switching the
// preferred currency.
type UpdateCurrencyInput struct {
	PreferredCurrency string `json:"preferred_currency" validate:"required,len=3"`
}
