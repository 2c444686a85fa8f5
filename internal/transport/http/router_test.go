package httptransport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tosgate/internal/platform/health"
	"tosgate/internal/platform/metrics"
	"tosgate/internal/platform/middleware"
	termsHandler "tosgate/internal/terms/handler"
	"tosgate/internal/terms/handler/mocks"
	"tosgate/internal/terms/models"
	id "tosgate/pkg/domain"
)

type fixedValidator struct{}

func (fixedValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	if token != "good" {
		return nil, assert.AnError
	}
	return &middleware.JWTClaims{UserID: "alice"}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	return NewRouter(RouterConfig{
		Logger:         logger,
		RequestTimeout: time.Second,
		Validator:      fixedValidator{},
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		Health:         health.New("test"),
		Terms:          termsHandler.New(svc, logger),
	}), svc
}

func post(router http.Handler, path, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_ResolvesCallerFromBearerToken(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().GetAcknowledgements(gomock.Any(), id.UserID("alice"), gomock.Any()).
		Return(models.AcknowledgementSet{}, nil)

	w := post(router, "/functions/getAcknowledgements", `{"data":{}}`, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RejectsBadTokenBeforeDispatch(t *testing.T) {
	router, _ := newTestRouter(t)

	w := post(router, "/functions/acceptTerms", `{"data":{"tosId":"v1"}}`, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RejectsNonJSONContentType(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/functions/acceptTerms", strings.NewReader("tosId=v1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRouter_ExposesHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tosgate_http_requests_total")
}
