package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tosgate/internal/audit"
	identityStore "tosgate/internal/identity/store"
	jwttoken "tosgate/internal/jwt_token"
	"tosgate/internal/platform/health"
	"tosgate/internal/platform/metrics"
	termsHandler "tosgate/internal/terms/handler"
	"tosgate/internal/terms/ledger"
	termsMetrics "tosgate/internal/terms/metrics"
	"tosgate/internal/terms/service"
	termsStore "tosgate/internal/terms/store"
	httptransport "tosgate/internal/transport/http"
	id "tosgate/pkg/domain"
)

const (
	// Matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey   = "dev-secret-key-change-in-production"
	defaultIssuer   = "http://localhost:8080"
	defaultAudience = "tosgate"
	claimsNamespace = "tos-acknowledgements"
)

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte
	AccessToken      string

	jwt        *jwttoken.JWTService
	claims     *identityStore.InMemoryStore
	server     *httptest.Server
	remembered map[string]string
}

// NewTestContext targets BASE_URL when set; otherwise it starts an
// in-process gateway backed by memory stores.
func NewTestContext() *TestContext {
	tc := &TestContext{
		BaseURL: os.Getenv("BASE_URL"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		jwt:        jwttoken.NewJWTService(devSigningKey, defaultIssuer, defaultAudience, 15*time.Minute),
		remembered: map[string]string{},
	}
	if tc.BaseURL == "" {
		tc.startInProcess()
	}
	return tc
}

func (tc *TestContext) startInProcess() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	tm := termsMetrics.New(reg)

	tc.claims = identityStore.New()
	acks, err := ledger.New(tc.claims, claimsNamespace,
		ledger.WithLogger(logger),
		ledger.WithMetrics(tm),
	)
	if err != nil {
		panic(err)
	}
	svc := service.NewService(
		termsStore.NewCached(termsStore.New(), time.Minute),
		acks,
		audit.NewPublisher(audit.NewInMemoryStore()),
		logger,
		service.WithMetrics(tm),
	)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         logger,
		RequestTimeout: 5 * time.Second,
		Validator:      jwttoken.NewJWTServiceAdapter(tc.jwt),
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		Health:         health.New("test"),
		Terms:          termsHandler.New(svc, logger),
	})
	tc.server = httptest.NewServer(router)
	tc.BaseURL = tc.server.URL
}

// Close stops the in-process server, if any.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
	}
}

// inProcess reports whether steps may reach into the gateway's stores.
func (tc *TestContext) inProcess() bool {
	return tc.claims != nil
}

func (tc *TestContext) mintToken(userID string) (string, error) {
	uid, err := id.ParseUserID(userID)
	if err != nil {
		return "", err
	}
	token, _, err := tc.jwt.GenerateToken(context.Background(), uid)
	return token, err
}

// Call invokes a callable operation with data as the payload.
func (tc *TestContext) Call(operation string, data json.RawMessage) error {
	body := []byte(`{}`)
	if data != nil {
		body = append(append([]byte(`{"data":`), data...), '}')
	}
	headers := map[string]string{}
	if tc.AccessToken != "" {
		headers["Authorization"] = "Bearer " + tc.AccessToken
	}
	return tc.POSTRaw("/functions/"+operation, body, headers)
}

// POSTRaw makes a POST request with a raw JSON body and stores the response
func (tc *TestContext) POSTRaw(path string, body []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}
