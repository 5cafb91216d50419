package domain

import (
	"time"
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessGetUsers       = "users retrieved successfully"
	MessageSuccessGetUser        = "user retrieved successfully"
	MessageSuccessSetPassword    = "password changed successfully"
	MessageSuccessDeleteUser     = "user deleted successfully"
	MessageSuccessSubscribe      = "subscribed successfully"
	MessageSuccessUnsubscribe    = "unsubscribed successfully"
	MessageSuccessGetSubscribers = "subscriptions retrieved successfully"

	MessageFailedRegister        = "failed to register user"
	MessageFailedLogin           = "failed to login"
	MessageFailedGetUsers        = "failed to retrieve users"
	MessageFailedGetUser         = "failed to retrieve user"
	MessageFailedSetPassword     = "failed to change password"
	MessageFailedDeleteUser      = "failed to delete user"
	MessageFailedSubscribe       = "failed to subscribe"
	MessageFailedUnsubscribe     = "failed to unsubscribe"
	MessageFailedGetSubscription = "failed to retrieve subscriptions"

	ErrUserNotFound         = NewError(KindNotFound, "user not found")
	ErrEmailAlreadyUsed     = NewFieldError(KindConflict, "email", "email already registered")
	ErrUsernameAlreadyUsed  = NewFieldError(KindConflict, "username", "username already taken")
	ErrInvalidCredentials   = NewError(KindUnauthorized, "invalid email or password")
	ErrWrongCurrentPassword = NewFieldError(KindValidation, "current_password", "wrong current password")
	ErrSelfFollow           = NewFieldError(KindValidation, "author", "cannot follow self")
	ErrAlreadySubscribed    = NewError(KindConflict, "already subscribed to this author")
	ErrAlreadyUnsubscribed  = NewError(KindConflict, "subscription already removed")
	ErrUserHasRecipes       = NewError(KindConflict, "user still has recipes and cannot be deleted")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	}

	UserResponse struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	RegisterResponse struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Username  string    `json:"username"`
		FirstName string    `json:"first_name"`
		LastName  string    `json:"last_name"`
		CreatedAt time.Time `json:"created_at"`
	}

	SubscriptionResponse struct {
		UserResponse
		Recipes      []RecipeBrief `json:"recipes"`
		RecipesCount int64         `json:"recipes_count"`
	}

	UserListResponse struct {
		Users      []UserResponse `json:"users"`
		Pagination Pagination     `json:"pagination"`
	}

	SubscriptionListResponse struct {
		Subscriptions []SubscriptionResponse `json:"subscriptions"`
		Pagination    Pagination             `json:"pagination"`
	}
)
