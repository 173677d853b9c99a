package routes

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mbolis/quick-forms/ai"
	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/session"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, app.App) {
	t.Helper()

	cfg := config.Config{
		DBUrl:       filepath.Join(t.TempDir(), "test.sqlite"),
		AdminUser:   "admin",
		AdminPass:   "password123",
		TokenSecret: "test-secret",
	}

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a := app.App{
		DB:       db,
		Config:   cfg,
		Sessions: session.New(cfg),
		AI:       ai.NewClient(cfg),
	}

	srv := httptest.NewServer(Wire(a))
	t.Cleanup(srv.Close)

	return srv, a
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func login(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	client := newClient(t)
	resp := doJSON(t, client, "POST", srv.URL+"/api/auth/login", map[string]string{
		"username": "admin",
		"password": "password123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return client
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func contactForm() model.Form {
	return model.Form{
		Title: "Contact",
		Sections: []model.Section{{
			Title: "Info",
			Fields: []model.Field{
				{Label: "Name", Type: model.FieldTypeText, Required: true},
				{Label: "Age", Type: model.FieldTypeNumber, Required: false},
			},
		}},
	}
}

func createForm(t *testing.T, client *http.Client, srv *httptest.Server, form model.Form) model.Form {
	t.Helper()
	resp := doJSON(t, client, "POST", srv.URL+"/api/forms", form)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := model.Form{}
	decodeJSON(t, resp, &created)
	require.NotZero(t, created.ID)
	return created
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
