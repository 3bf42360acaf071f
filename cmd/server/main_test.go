package main

import (
	"database/sql"
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"testing"

	"adyen-notify-be/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNewServer(t *testing.T) {
	// 1. Setup Mock DB
	// We use a mock driver so we don't need a real Postgres connection
	db, err := sql.Open("mock_driver_main", "")
	assert.NoError(t, err)

	// 2. Setup Config
	cfg := &config.Config{
		AppPort:     "8080",
		AppEnv:      "test",
		WebhookPath: "/webhook/adyen",
	}

	// 3. Call newServer (The function we want to cover)
	router := newServer(cfg, db)

	// 4. Assertions
	assert.NotNil(t, router)

	t.Run("Health Check", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/healthz", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "OK")
	})

	t.Run("Webhook Wiring", func(t *testing.T) {
		// An empty body is rejected by the parser, which proves the request
		// reached the webhook handler through the middleware chain.
		req := httptest.NewRequest("POST", "/webhook/adyen", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Wrong Method", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/webhook/adyen", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

// --- Mock Driver for Testing ---
type mockDriver struct{}

func (m *mockDriver) Open(name string) (driver.Conn, error)         { return &mockConn{}, nil }
func (c *mockConn) Prepare(query string) (driver.Stmt, error)       { return &mockStmt{}, nil }
func (c *mockConn) Close() error                                    { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                       { return nil, nil }
func (s *mockStmt) Close() error                                    { return nil }
func (s *mockStmt) NumInput() int                                   { return 0 }
func (s *mockStmt) Exec(args []driver.Value) (driver.Result, error) { return nil, nil }
func (s *mockStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, nil }

type mockConn struct{}
type mockStmt struct{}

func init() {
	sql.Register("mock_driver_main", &mockDriver{})
}

func TestRun(t *testing.T) {
	// 1. Mock initDBFunc
	origInitDB := initDBFunc
	defer func() { initDBFunc = origInitDB }()
	initDBFunc = func(cfg *config.Config) *sql.DB {
		db, _ := sql.Open("mock_driver_main", "")
		return db
	}

	// 2. Mock startServerFunc
	origStartServer := startServerFunc
	defer func() { startServerFunc = origStartServer }()
	startServerFunc = func(addr string, handler http.Handler) error {
		return nil
	}

	// 3. Set Environment
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASSWORD", "pass")
	t.Setenv("DB_NAME", "db")

	// 4. Run
	assert.NoError(t, run())
}
