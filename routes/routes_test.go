package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"postboard/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePost(t *testing.T, body []byte) models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, json.Unmarshal(body, &post))
	return post
}

func TestCreateFlow(t *testing.T) {
	router, _ := setupTestRouter(t)
	user, cookie := signUpUser(t, router, "alice", "Alice", "alice@example.com")

	t.Run("authenticated create records the caller as owner", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/posts",
			`{"title": "T1", "content": "C1", "userName": "Alice"}`, cookie))

		require.Equal(t, http.StatusCreated, w.Code)
		post := decodePost(t, w.Body.Bytes())
		assert.Equal(t, user.ID, post.UserID)
		assert.Equal(t, "Alice", post.UserName)
		assert.Equal(t, "T1", post.Title)
	})

	t.Run("missing field is a 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/posts",
			`{"title": "T1", "content": "", "userName": "Alice"}`, cookie))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnauthenticatedCreate(t *testing.T) {
	router, repo := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/posts",
		`{"title": "T1", "content": "C1", "userName": "Alice"}`, nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	posts, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, posts, "no document may be created on a rejected request")
}

func TestOwnershipChecks(t *testing.T) {
	router, _ := setupTestRouter(t)
	_, aliceCookie := signUpUser(t, router, "alice", "Alice", "alice@example.com")
	_, bobCookie := signUpUser(t, router, "bob", "Bob", "bob@example.com")

	create := httptest.NewRecorder()
	router.ServeHTTP(create, jsonRequest("POST", "/api/posts",
		`{"title": "T1", "content": "C1", "userName": "Ally"}`, aliceCookie))
	require.Equal(t, http.StatusCreated, create.Code)
	post := decodePost(t, create.Body.Bytes())

	t.Run("another user's edit is a 403 even with valid fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("PUT", "/api/posts/"+post.ID.Hex(),
			`{"title": "T2", "content": "C2"}`, bobCookie))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("another user's delete is a 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("DELETE", "/api/posts/"+post.ID.Hex(), "", bobCookie))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	// A missing post answers exactly like someone else's post. If this is
	// ever split into a 404, these are the assertions to change.
	t.Run("missing id folds into the same 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("PUT", "/api/posts/64f000000000000000000000",
			`{"title": "T2", "content": "C2"}`, aliceCookie))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner edit succeeds and re-attributes the author name", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("PUT", "/api/posts/"+post.ID.Hex(),
			`{"title": "T2", "content": "C2"}`, aliceCookie))

		require.Equal(t, http.StatusOK, w.Code)
		updated := decodePost(t, w.Body.Bytes())
		assert.Equal(t, "T2", updated.Title)
		assert.Equal(t, "C2", updated.Content)
		// Created as "Ally"; the edit recomputes from the live profile.
		assert.Equal(t, "Alice", updated.UserName)
		assert.Equal(t, post.UserID, updated.UserID)
	})
}

func TestDeleteFlow(t *testing.T) {
	router, _ := setupTestRouter(t)
	_, cookie := signUpUser(t, router, "alice", "Alice", "alice@example.com")

	create := httptest.NewRecorder()
	router.ServeHTTP(create, jsonRequest("POST", "/api/posts",
		`{"title": "T1", "content": "C1", "userName": "Alice"}`, cookie))
	require.Equal(t, http.StatusCreated, create.Code)
	post := decodePost(t, create.Body.Bytes())

	t.Run("owner delete is a 200 with an empty body", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("DELETE", "/api/posts/"+post.ID.Hex(), "", cookie))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("deleting the same id again is a 403, not a silent success", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("DELETE", "/api/posts/"+post.ID.Hex(), "", cookie))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestListOrdering(t *testing.T) {
	router, repo := setupTestRouter(t)
	user, cookie := signUpUser(t, router, "alice", "Alice", "alice@example.com")

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"older", "newer"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/posts",
			`{"title": "`+title+`", "content": "C", "userName": "Alice"}`, cookie))
		require.Equal(t, http.StatusCreated, w.Code)

		post := decodePost(t, w.Body.Bytes())
		repo.SetCreatedAt(post.ID.Hex(), base.Add(time.Duration(i)*time.Minute))
	}

	t.Run("GET /api/posts is newest first", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("GET", "/api/posts", "", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var posts []models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		require.Len(t, posts, 2)
		assert.Equal(t, "newer", posts[0].Title)
		assert.Equal(t, "older", posts[1].Title)
	})

	t.Run("userId filter returns only that owner's posts", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("GET", "/api/posts?userId="+user.ID, "", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var posts []models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		assert.Len(t, posts, 2)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("GET", "/api/posts?userId=somebody-else", "", nil))

		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
		assert.Empty(t, posts)
	})
}

func TestWebRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)
	_, cookie := signUpUser(t, router, "alice", "Alice", "alice@example.com")

	create := httptest.NewRecorder()
	router.ServeHTTP(create, jsonRequest("POST", "/api/posts",
		`{"title": "Hello Board", "content": "C1", "userName": "Alice"}`, cookie))
	require.Equal(t, http.StatusCreated, create.Code)

	t.Run("root page renders the post list", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Hello Board")
		assert.Contains(t, w.Body.String(), "by Alice")
	})

	t.Run("create form requires a session", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/posts/new", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/signin", w.Header().Get("Location"))
	})

	t.Run("form create redirects home", func(t *testing.T) {
		form := url.Values{
			"title":    {"Form Post"},
			"content":  {"From the form"},
			"userName": {"Alice"},
		}
		req := httptest.NewRequest("POST", "/posts", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("static assets are public", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/static/style.css", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)
	signUpUser(t, router, "alice", "Alice", "alice@example.com")

	t.Run("duplicate username is a 409", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/signup",
			`{"username": "alice", "password": "another-pw"}`, nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/signin",
			`{"username": "alice", "password": "wrong-pw"}`, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("sign-in sets a session usable for writes", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/signin",
			`{"username": "alice", "password": "secret-pw"}`, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var session *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == "postboard_session" {
				session = c
			}
		}
		require.NotNil(t, session)

		create := httptest.NewRecorder()
		router.ServeHTTP(create, jsonRequest("POST", "/api/posts",
			`{"title": "T", "content": "C", "userName": "Alice"}`, session))
		assert.Equal(t, http.StatusCreated, create.Code)
	})

	t.Run("sign-out invalidates the session", func(t *testing.T) {
		_, cookie := signUpUser(t, router, "bob", "Bob", "bob@example.com")

		out := httptest.NewRecorder()
		router.ServeHTTP(out, jsonRequest("POST", "/signout", "", cookie))
		require.Equal(t, http.StatusOK, out.Code)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/posts",
			`{"title": "T", "content": "C", "userName": "Bob"}`, cookie))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
