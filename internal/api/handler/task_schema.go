package handler

import "time"

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type identityResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Token    string           `json:"token"`
	Identity identityResponse `json:"identity"`
}

// --- Tasks ---

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=500"`
}

// updateTaskRequest is a partial update; absent fields are left untouched.
type updateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,min=1,max=500"`
	Status      *string `json:"status"      validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
}

type taskLinks struct {
	Self string `json:"self"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Links       taskLinks `json:"_links"`
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Count int            `json:"count"`
}
