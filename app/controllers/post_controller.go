package controllers

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"postboard/app/middleware"
	"postboard/app/models"
	"postboard/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for posts
type PostController struct {
	postService *services.PostService
	templates   map[string]*template.Template
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, templates map[string]*template.Template) *PostController {
	return &PostController{
		postService: postService,
		templates:   templates,
	}
}

// Index handles listing all posts, optionally filtered by owner via the
// userId query parameter. Public; newest first.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	posts, err := pc.postService.ListPosts(r.Context(), userID)
	if err != nil {
		pc.sendError(w, r, "Failed to fetch posts", http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, posts)
		return
	}

	data := struct {
		Posts    []*models.Post
		Identity *models.Identity
	}{
		Posts:    posts,
		Identity: middleware.IdentityFrom(r.Context()),
	}
	if err := pc.templates["index"].ExecuteTemplate(w, "layout", data); err != nil {
		pc.sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
	}
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Identity *models.Identity
	}{
		Identity: middleware.IdentityFrom(r.Context()),
	}
	if err := pc.templates["new"].ExecuteTemplate(w, "layout", data); err != nil {
		pc.sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
	}
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			pc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Title = r.FormValue("title")
		req.Content = r.FormValue("content")
		req.UserName = r.FormValue("userName")
	}

	post, err := pc.postService.CreatePost(r.Context(), middleware.IdentityFrom(r.Context()), &req)
	if err != nil {
		pc.sendServiceError(w, r, err)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, http.StatusCreated, post)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Edit handles editing an existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := pc.postService.UpdatePost(r.Context(), middleware.IdentityFrom(r.Context()), id, &req)
	if err != nil {
		pc.sendServiceError(w, r, err)
		return
	}

	pc.sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post. Success is a 200 with no body.
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := pc.postService.DeletePost(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		pc.sendServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Helper methods for consistent response handling

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	contentType := r.Header.Get("Content-Type")
	return strings.Contains(accept, "application/json") ||
		strings.Contains(contentType, "application/json") ||
		strings.HasPrefix(r.URL.Path, "/api")
}

func (pc *PostController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendServiceError maps service errors onto the HTTP error taxonomy:
// 401 no identity, 403 wrong owner or missing post, 400 validation,
// 500 storage fault.
func (pc *PostController) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		pc.sendError(w, r, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, services.ErrForbidden):
		pc.sendError(w, r, "Forbidden", http.StatusForbidden)
	case isValidationError(err):
		pc.sendError(w, r, "Missing required fields", http.StatusBadRequest)
	default:
		pc.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
	}
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

func (pc *PostController) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}
