package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the body of POST /auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserResponse represents the authenticated principal and its profile
type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role" example:"STUDENT" enums:"STUDENT,FACULTY,HOD,ADMIN"`
	Name         string `json:"name,omitempty"`
	ProfileID    *int64 `json:"profileId,omitempty"`
	DepartmentID *int64 `json:"departmentId,omitempty"`
	RollNumber   *int64 `json:"rollNumber,omitempty"`
	EmployeeID   string `json:"employeeId,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
