package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/platinummonkey/todo/pkg/httputil"
	"github.com/platinummonkey/todo/pkg/observability"
	"github.com/platinummonkey/todo/pkg/storage/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "handler-test-secret"

const sqliteSchema = `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		completed BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
`

type testEnv struct {
	server  *Server
	tokens  *auth.TokenService
	metrics *observability.Metrics
	logs    *test.Hook
}

func newTestEnv(t *testing.T, secret string, customize ...func(*Options)) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)

	logger, logs := test.NewNullLogger()
	tokens := auth.NewTokenService(auth.TokenConfig{Secret: []byte(secret), TTL: time.Hour})
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	opts := Options{
		Users:       postgres.NewUserStore(db),
		Tasks:       postgres.NewTaskStore(db),
		Hasher:      auth.NewHasher(bcrypt.MinCost),
		Tokens:      tokens,
		Logger:      logger,
		Metrics:     metrics,
		CORSOrigins: []string{"http://localhost:3000"},
		EnvCheck: func() map[string]string {
			return map[string]string{"DATABASE_URL": "set", "BETTER_AUTH_SECRET": "set", "CORS_ORIGINS": "missing"}
		},
	}
	for _, fn := range customize {
		fn(&opts)
	}

	server := NewServer(opts)
	return &testEnv{server: server, tokens: tokens, metrics: metrics, logs: logs}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, email, password string) AuthResponse {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{Email: email, Password: password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp AuthResponse
	decode(t, w, &resp)
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body httputil.ErrorResponse
	decode(t, w, &body)
	return body.Detail
}
