package models

// Request bodies are decoded into these typed shapes and validated before
// any business logic runs. A missing or empty required field is a
// bad-request, never a storage write.

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	UserName string `json:"userName" validate:"required"`
}

// UpdatePostRequest is the body of PUT /posts/{id}. The attributed author
// name is not part of the request; it is recomputed from the caller's
// current profile.
type UpdatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// SignUpRequest is the body of POST /signup.
type SignUpRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// SignInRequest is the body of POST /signin.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *CreatePostRequest) Validate() error { return validate.Struct(r) }

func (r *UpdatePostRequest) Validate() error { return validate.Struct(r) }

func (r *SignUpRequest) Validate() error { return validate.Struct(r) }

func (r *SignInRequest) Validate() error { return validate.Struct(r) }
