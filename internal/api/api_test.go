package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/internal/api"
	"expense-tracker/internal/api/controller"
	"expense-tracker/internal/infrastructure/database"
	"expense-tracker/internal/repository"
	"expense-tracker/internal/service"
	"expense-tracker/web"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	authSvc := service.NewAuthService(repository.NewUserRepository(db))
	expenseSvc := service.NewExpenseService(repository.NewExpenseRepo(db))

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("session", store))
	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))
	api.RegisterRoutes(r, controller.NewAuthController(authSvc), controller.NewExpenseController(expenseSvc))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns an http client with its own cookie jar, i.e. one
// browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postForm(t *testing.T, client *http.Client, rawURL string, values url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(rawURL, values)
	require.NoError(t, err)
	return resp
}

func signUp(t *testing.T, client *http.Client, base, username, password string) {
	t.Helper()
	resp := postForm(t, client, base+"/register", url.Values{
		"username": {username}, "password": {password},
	})
	resp.Body.Close()
}

func logIn(t *testing.T, client *http.Client, base, username, password string) {
	t.Helper()
	resp := postForm(t, client, base+"/login", url.Values{
		"username": {username}, "password": {password},
	})
	resp.Body.Close()
}

func doJSON(t *testing.T, client *http.Client, method, rawURL string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, rawURL, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func TestSessionGateRedirectsToLogin(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	for _, path := range []string{"/", "/logout", "/api/expenses"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode, "path %s", path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), "path %s", path)
	}
}

func TestRegisterDuplicateUsernameShowsError(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	signUp(t, client, srv.URL, "alice", "pw1")

	resp := postForm(t, client, srv.URL+"/register", url.Values{
		"username": {"alice"}, "password": {"pw2"},
	})
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(raw), "already exists")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	signUp(t, client, srv.URL, "alice", "pw1")

	resp := postForm(t, client, srv.URL+"/login", url.Values{
		"username": {"alice"}, "password": {"wrong"},
	})
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(raw), "Invalid username or password")

	// Still no session: the index stays gated.
	gated := newClient(t)
	gated.Jar = client.Jar
	gated.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	indexResp, err := gated.Get(srv.URL + "/")
	require.NoError(t, err)
	indexResp.Body.Close()
	assert.Equal(t, http.StatusFound, indexResp.StatusCode)
}

func TestCreateExpenseValidation(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	signUp(t, client, srv.URL, "alice", "pw1")
	logIn(t, client, srv.URL, "alice", "pw1")

	resp, raw := doJSON(t, client, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"description": "Coffee",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "missing required fields")

	resp, raw = doJSON(t, client, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"base_amount": 3.5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "missing required fields")

	resp, raw = doJSON(t, client, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"description": "Coffee", "base_amount": "not a number",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "invalid data")

	resp, raw = doJSON(t, client, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"description": "Coffee", "base_amount": 3.5, "category": "groceries",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "invalid data")

	listResp, listRaw := doJSON(t, client, http.MethodGet, srv.URL+"/api/expenses", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list controller.ListExpensesResponse
	require.NoError(t, json.Unmarshal(listRaw, &list))
	assert.Empty(t, list.Expenses, "rejected creates must not persist")
}

func TestListValidation(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	signUp(t, client, srv.URL, "alice", "pw1")
	logIn(t, client, srv.URL, "alice", "pw1")

	resp, _ := doJSON(t, client, http.MethodGet, srv.URL+"/api/expenses?category=nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, srv.URL+"/api/expenses?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownExpenseID(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	signUp(t, client, srv.URL, "alice", "pw1")
	logIn(t, client, srv.URL, "alice", "pw1")

	resp, _ := doJSON(t, client, http.MethodPut, srv.URL+"/api/expenses/9999", map[string]any{
		"base_amount": 1.0,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/api/expenses/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCrossOwnerAccessForbidden(t *testing.T) {
	srv := newTestServer(t)

	alice := newClient(t)
	signUp(t, alice, srv.URL, "alice", "pw1")
	logIn(t, alice, srv.URL, "alice", "pw1")

	resp, raw := doJSON(t, alice, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"description": "Coffee", "base_amount": 3.5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created controller.ExpenseEnvelope
	require.NoError(t, json.Unmarshal(raw, &created))

	bob := newClient(t)
	signUp(t, bob, srv.URL, "bob", "pw2")
	logIn(t, bob, srv.URL, "bob", "pw2")

	id := created.Expense.ID
	resp, _ = doJSON(t, bob, http.MethodPut, srv.URL+urlForExpense(id), map[string]any{
		"base_amount": 99.0,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, bob, http.MethodDelete, srv.URL+urlForExpense(id), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Bob never sees alice's row either.
	resp, raw = doJSON(t, bob, http.MethodGet, srv.URL+"/api/expenses", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list controller.ListExpensesResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Empty(t, list.Expenses)
}

func urlForExpense(id uint) string {
	return fmt.Sprintf("/api/expenses/%d", id)
}

// TestEndToEndScenario walks the full register → login → create → list →
// update → delete flow for one user.
func TestEndToEndScenario(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	signUp(t, client, srv.URL, "alice", "pw1")
	logIn(t, client, srv.URL, "alice", "pw1")

	resp, raw := doJSON(t, client, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"description": "Coffee", "base_amount": 3.5, "category": "food",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created controller.ExpenseEnvelope
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "created", created.Message)
	assert.Equal(t, "Food", created.Expense.Category)
	assert.InDelta(t, 3.5, created.Expense.TotalAmount, 1e-9)

	resp, raw = doJSON(t, client, http.MethodGet, srv.URL+"/api/expenses?category=FOOD", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list controller.ListExpensesResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Expenses, 1)
	assert.Equal(t, created.Expense.ID, list.Expenses[0].ID)
	assert.Equal(t, 1, list.TotalPages)
	assert.False(t, list.HasNext)
	assert.False(t, list.HasPrev)

	resp, raw = doJSON(t, client, http.MethodPut, srv.URL+urlForExpense(created.Expense.ID), map[string]any{
		"base_amount": 4.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated controller.ExpenseEnvelope
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "Coffee", updated.Expense.Description, "description unchanged")
	assert.InDelta(t, 4.0, updated.Expense.TotalAmount, 1e-9)

	resp, raw = doJSON(t, client, http.MethodDelete, srv.URL+urlForExpense(created.Expense.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "deleted")

	resp, raw = doJSON(t, client, http.MethodGet, srv.URL+"/api/expenses", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Empty(t, list.Expenses)
}

func TestLogoutEndsSession(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)
	signUp(t, client, srv.URL, "alice", "pw1")
	logIn(t, client, srv.URL, "alice", "pw1")

	resp, err := client.Get(srv.URL + "/logout")
	require.NoError(t, err)
	resp.Body.Close()

	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}
