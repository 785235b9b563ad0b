package model

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest accepts either the username or the email in Username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ComputeRequest struct {
	Type string   `json:"type"`
	A    *float64 `json:"a"`
	B    *float64 `json:"b"`
}

type ComputeResponse struct {
	Result float64 `json:"result"`
}
