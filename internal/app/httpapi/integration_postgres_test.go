//go:build integration && postgres

package httpapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"

	"github.com/R3E-Network/bankproducts/internal/app/runtime"
	"github.com/R3E-Network/bankproducts/internal/config"
)

// Integration test against Postgres to ensure migrations + core flows work with persistence.
func TestIntegrationPostgres(t *testing.T) {
	_ = godotenv.Load() // allow .env for local runs
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration")
	}

	ctx := context.Background()
	cfg := config.Default()
	cfg.Database.Driver = config.DriverPostgres
	cfg.Database.DSN = dsn
	cfg.Database.AutoMigrate = true
	cfg.Logging.Level = "warn"

	appRuntime, err := runtime.NewApplication(ctx, cfg)
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	t.Cleanup(func() { _ = appRuntime.Shutdown(ctx) })

	server := httptest.NewServer(appRuntime.Handler())
	defer server.Close()
	client := server.Client()

	resp, err := client.Post(server.URL+"/bankproducts", "application/json", strings.NewReader(`{"title":"Savings Account"}`))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %d", resp.StatusCode)
	}
	location := resp.Header.Get("Location")

	resp, err = client.Get(server.URL + location)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK || gjson.Get(body, "title").String() != "Savings Account" {
		t.Fatalf("get: %d %s", resp.StatusCode, body)
	}

	req, _ := http.NewRequest(http.MethodDelete, server.URL+location, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %d", resp.StatusCode)
	}

	if resp, err := client.Get(server.URL + "/readyz"); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz failed: %v", err)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
