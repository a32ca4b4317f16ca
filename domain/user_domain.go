package domain

import "errors"

var (
	MessageSuccessRegister     = "user registered successfully"
	MessageSuccessLogin        = "login success"
	MessageSuccessGetUser      = "success get user"
	MessageSuccessGetUsers     = "success get users"
	MessageSuccessUpdateAvatar = "avatar updated successfully"
	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedGetUser       = "failed to get user"
	MessageFailedGetUsers      = "failed to get users"
	MessageFailedSetPassword   = "failed to change password"
	MessageFailedUpdateAvatar  = "failed to update avatar"
	MessageFailedDeleteAvatar  = "failed to delete avatar"

	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyUsed    = errors.New("email already registered")
	ErrUsernameAlreadyUsed = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrWrongPassword       = errors.New("current password is incorrect")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
	}

	RegisterResponse struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
		Avatar       string `json:"avatar,omitempty"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	}

	UpdateAvatarRequest struct {
		Avatar string `json:"avatar" validate:"required"`
	}

	UpdateAvatarResponse struct {
		Avatar string `json:"avatar"`
	}
)
