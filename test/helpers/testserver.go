//go:build integration

package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"jobnest_backend/internal/app"
	"jobnest_backend/internal/config"
	"jobnest_backend/internal/database"
	"jobnest_backend/internal/email"
	"jobnest_backend/internal/handlers"
	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/middleware"
	"jobnest_backend/internal/otp"
	"jobnest_backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testJWTSecret = "integration-secret"

// TestServer поднимает настоящий роутер поверх тестовой БД.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Mailer *CapturingMailer

	tokens *middleware.TokenVerifier
}

// NewTestServer подключается к dsn, мигрирует схему и засевает банк вопросов.
func NewTestServer(dsn, storageDir string) (*TestServer, error) {
	logger.Init("test")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	if _, err := database.SeedQuestions(context.Background(), db); err != nil {
		return nil, err
	}

	files, err := storage.NewStorage(storage.Config{Type: "local", BasePath: storageDir, BaseURL: "/api/v1/reports"})
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.JWT.Secret = testJWTSecret
	cfg.Email.Mock = true
	cfg.OTP = cfg.OTP.WithDefaults()
	cfg.OTP.HashCost = 4
	cfg.Timeouts.Persistence = 5 * time.Second
	cfg.Timeouts.Email = 5 * time.Second
	cfg.Timeouts.Report = 10 * time.Second
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000
	cfg.Report.JobSampleSize = 10

	mailer := &CapturingMailer{codes: map[string]string{}}
	router := app.SetupRouter(cfg, app.Dependencies{
		DB:       db,
		OTPStore: otp.NewMemoryStore(),
		Mailer:   mailer,
		Storage:  files,
		Health: map[string]handlers.HealthCheck{
			"database": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
	})

	return &TestServer{
		Server: httptest.NewServer(router),
		DB:     db,
		Mailer: mailer,
		tokens: middleware.NewTokenVerifier(testJWTSecret, ""),
	}, nil
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	if sqlDB, err := ts.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// ClearTables очищает все таблицы, кроме банка вопросов.
func (ts *TestServer) ClearTables(t *testing.T) {
	t.Helper()
	err := ts.DB.Exec("TRUNCATE TABLE job_seekers, employers, jobs, quiz_sessions, assessment_results RESTART IDENTITY CASCADE").Error
	if err != nil {
		t.Fatalf("Не удалось очистить таблицы: %v", err)
	}
}

// Token выпускает bearer-токен так, как это сделал бы внешний провайдер.
func (ts *TestServer) Token(t *testing.T, userID, emailAddr string) string {
	t.Helper()
	token, err := ts.tokens.Sign(userID, emailAddr, time.Hour)
	if err != nil {
		t.Fatalf("Не удалось подписать токен: %v", err)
	}
	return token
}

// SendRequest отправляет JSON-запрос и возвращает ответ с телом.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return res, resBody
}

// RegisterUser проходит OTP и регистрацию, возвращая userID и токен.
func (ts *TestServer) RegisterUser(t *testing.T, userType, name string, extra map[string]string) (string, string) {
	t.Helper()

	emailAddr := uuid.NewString()[:8] + "@jobnest.test"
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/otp/send", "", map[string]string{
		"email": emailAddr, "userType": userType, "name": name,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("otp/send: %d %s", res.StatusCode, body)
	}

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/otp/verify", "", map[string]string{
		"email": emailAddr, "otp": ts.Mailer.Code(emailAddr),
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("otp/verify: %d %s", res.StatusCode, body)
	}

	userID := uuid.NewString()
	token := ts.Token(t, userID, emailAddr)
	req := map[string]string{"email": emailAddr, "name": name, "userType": userType}
	for k, v := range extra {
		req[k] = v
	}
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", token, req)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("auth/register: %d %s", res.StatusCode, body)
	}
	return userID, token
}

// CapturingMailer запоминает последний код для каждого адреса.
type CapturingMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

var _ email.Provider = (*CapturingMailer)(nil)

func (m *CapturingMailer) SendOTP(_ context.Context, to, code, _ string) (*email.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return &email.SendResult{MessageID: "capture-" + uuid.NewString()}, nil
}

func (m *CapturingMailer) Code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

func (m *CapturingMailer) Validate() error { return nil }
func (m *CapturingMailer) Close() error    { return nil }
