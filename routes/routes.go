package routes

import (
	"net/http"
	"path/filepath"

	"postboard/app/controllers"
	"postboard/app/middleware"
	"postboard/app/repositories"
	"postboard/app/services"

	"github.com/gorilla/mux"
)

// Deps bundles what the route table needs: the post store, the identity
// provider, and the directory holding templates and static assets.
type Deps struct {
	Posts    repositories.PostRepository
	Auth     *services.AuthService
	BasePath string
}

// SetupRoutes defines the application's routes and returns a router.
//
// Public: the root page, post reads, sign-in/up, and static assets.
// Everything that mutates the post collection sits behind RequireUser.
func SetupRoutes(deps Deps) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Authenticator(deps.Auth))

	templates := controllers.LoadTemplates(deps.BasePath)
	postService := services.NewPostService(deps.Posts)
	postController := controllers.NewPostController(postService, templates)
	authController := controllers.NewAuthController(deps.Auth, templates)

	// Serve static files
	staticDir := filepath.Join(deps.BasePath, "static")
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	// Web routes
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/signup", authController.SignUpForm).Methods("GET")
	router.HandleFunc("/signup", authController.SignUp).Methods("POST")
	router.HandleFunc("/signin", authController.SignInForm).Methods("GET")
	router.HandleFunc("/signin", authController.SignIn).Methods("POST")
	router.HandleFunc("/signout", authController.SignOut).Methods("POST")

	// Posts web endpoints
	posts := router.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.Handle("/new", middleware.RequireUser(http.HandlerFunc(postController.New))).Methods("GET")
	posts.Handle("", middleware.RequireUser(http.HandlerFunc(postController.Create))).Methods("POST")
	posts.Handle("/{id}", middleware.RequireUser(http.HandlerFunc(postController.Edit))).Methods("PUT")
	posts.Handle("/{id}", middleware.RequireUser(http.HandlerFunc(postController.Delete))).Methods("DELETE")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	apiPosts := api.PathPrefix("/posts").Subrouter()
	apiPosts.HandleFunc("", postController.Index).Methods("GET")
	apiPosts.Handle("", middleware.RequireUser(http.HandlerFunc(postController.Create))).Methods("POST")
	apiPosts.Handle("/{id}", middleware.RequireUser(http.HandlerFunc(postController.Edit))).Methods("PUT")
	apiPosts.Handle("/{id}", middleware.RequireUser(http.HandlerFunc(postController.Delete))).Methods("DELETE")

	return router
}
