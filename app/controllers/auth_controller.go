package controllers

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"postboard/app/middleware"
	"postboard/app/models"
	"postboard/app/services"
)

// AuthController handles sign-up, sign-in and sign-out.
type AuthController struct {
	authService *services.AuthService
	templates   map[string]*template.Template
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, templates map[string]*template.Template) *AuthController {
	return &AuthController{
		authService: authService,
		templates:   templates,
	}
}

// SignUpForm displays the registration page
func (ac *AuthController) SignUpForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, "signup")
}

// SignInForm displays the login page
func (ac *AuthController) SignInForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, "signin")
}

// SignUp registers a new account and opens a session for it.
func (ac *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ac.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			ac.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
		req.FirstName = r.FormValue("firstName")
		req.Email = r.FormValue("email")
	}

	user, err := ac.authService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			ac.sendError(w, r, "Username already taken", http.StatusConflict)
		case isValidationError(err):
			ac.sendError(w, r, "Invalid sign-up details", http.StatusBadRequest)
		default:
			ac.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	session, err := ac.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		ac.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, session)

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(user)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignIn checks credentials and sets the session cookie.
func (ac *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			ac.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			ac.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
	}

	session, err := ac.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || isValidationError(err) {
			ac.sendError(w, r, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		ac.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	setSessionCookie(w, session)

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut deletes the session and clears the cookie.
func (ac *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := ac.authService.Logout(r.Context(), c.Value); err != nil {
			ac.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
	clearSessionCookie(w)

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (ac *AuthController) render(w http.ResponseWriter, r *http.Request, name string) {
	data := struct {
		Identity *models.Identity
	}{
		Identity: middleware.IdentityFrom(r.Context()),
	}
	if err := ac.templates[name].ExecuteTemplate(w, "layout", data); err != nil {
		ac.sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
	}
}

func (ac *AuthController) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}
