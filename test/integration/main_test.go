//go:build integration

package integration_test

import (
	"log"
	"os"
	"testing"

	"jobnest_backend/test/helpers"
)

var testServer *helpers.TestServer

// TestMain поднимает сервер один раз на весь пакет.
// Без TEST_DATABASE_URL тесты пропускаются.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		log.Println("TEST_DATABASE_URL is not set, skipping integration tests")
		os.Exit(0)
	}

	storageDir, err := os.MkdirTemp("", "jobnest-reports-*")
	if err != nil {
		log.Fatalf("failed to create storage dir: %v", err)
	}

	testServer, err = helpers.NewTestServer(dsn, storageDir)
	if err != nil {
		log.Fatalf("failed to start test server: %v", err)
	}

	code := m.Run()

	testServer.Close()
	_ = os.RemoveAll(storageDir)
	os.Exit(code)
}
