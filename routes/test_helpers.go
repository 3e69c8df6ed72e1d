package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"postboard/app/middleware"
	"postboard/app/models"
	"postboard/app/repositories"
	"postboard/app/repositories/mock"
	"postboard/app/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupTestTemplates writes a minimal template and static tree so the HTML
// paths render without the real views.
func setupTestTemplates(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	viewsDir := filepath.Join(tmpDir, "app", "views")

	dirs := []string{
		filepath.Join(viewsDir, "posts"),
		filepath.Join(viewsDir, "auth"),
		filepath.Join(tmpDir, "static"),
	}
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	templates := map[string]string{
		filepath.Join(viewsDir, "layout.html"):       `{{define "layout"}}<!DOCTYPE html><html><body>{{template "content" .}}</body></html>{{end}}`,
		filepath.Join(viewsDir, "posts/index.html"):  `{{define "content"}}<div class="posts">{{range .Posts}}<h2>{{.Title}}</h2><p>by {{.UserName}}</p>{{end}}</div>{{end}}`,
		filepath.Join(viewsDir, "posts/new.html"):    `{{define "content"}}<form method="POST"><input name="title"><textarea name="content"></textarea></form>{{end}}`,
		filepath.Join(viewsDir, "auth/signin.html"):  `{{define "content"}}<form method="POST"><input name="username"><input name="password"></form>{{end}}`,
		filepath.Join(viewsDir, "auth/signup.html"):  `{{define "content"}}<form method="POST"><input name="username"><input name="password"></form>{{end}}`,
		filepath.Join(tmpDir, "static", "style.css"): "body { background: #f0f0f0; }",
	}
	for path, content := range templates {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	return tmpDir
}

func setupTestAuth(t *testing.T) *services.AuthService {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return services.NewAuthService(
		repositories.NewBadgerUserRepository(db),
		repositories.NewBadgerSessionRepository(db),
		time.Hour,
		bcrypt.MinCost,
	)
}

func setupTestRouter(t *testing.T) (*mux.Router, *mock.PostRepository) {
	t.Helper()
	repo := mock.NewPostRepository()
	router := SetupRoutes(Deps{
		Posts:    repo,
		Auth:     setupTestAuth(t),
		BasePath: setupTestTemplates(t),
	})
	return router, repo
}

// signUpUser registers an account through the HTTP surface and returns the
// created user plus the session cookie the response carried.
func signUpUser(t *testing.T, router *mux.Router, username, firstName, email string) (*models.User, *http.Cookie) {
	t.Helper()

	payload := `{"username": "` + username + `", "password": "secret-pw", "firstName": "` + firstName + `", "email": "` + email + `"}`
	req := httptest.NewRequest("POST", "/signup", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return &user, cookie
		}
	}
	t.Fatal("sign-up response carried no session cookie")
	return nil, nil
}

func jsonRequest(method, path, body string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}
