package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Dhoini/Client-microservice/internal/domain"
	"github.com/Dhoini/Client-microservice/internal/metrics"
	"github.com/Dhoini/Client-microservice/internal/repository"
	"github.com/Dhoini/Client-microservice/internal/service"
	"github.com/Dhoini/Client-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewWithOutput(logger.ERROR, io.Discard)
	repo := repository.NewInMemoryClientRepository(log)
	svc := service.NewClientService(repo, log)

	registry := prometheus.NewRegistry()
	clientMetrics := metrics.NewClientMetrics(registry, log)

	return SetupRouter(svc, nil, clientMetrics, registry, log)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func clientBody(firstName, lastName, cuit, email string) string {
	return fmt.Sprintf(`{
		"first_name": %q,
		"last_name": %q,
		"birth_date": "1990-05-12",
		"cuit": %q,
		"address": "Calle Falsa 123",
		"mobile": "+5491122334455",
		"email": %q
	}`, firstName, lastName, cuit, email)
}

func TestCreateClientEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("  Ana  ", "García", "27-12345678-0", "Ana@Example.com"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var created domain.Client
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.ID == 0 {
		t.Error("response has no id")
	}
	if created.FirstName != "Ana" {
		t.Errorf("first name = %q, want normalized %q", created.FirstName, "Ana")
	}
	if created.Email != "ana@example.com" {
		t.Errorf("email = %q, want lower-cased", created.Email)
	}
}

func TestCreateClientValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{
			name: "bad cuit check digit",
			body: clientBody("Ana", "García", "27-12345678-5", "ana@example.com"),
		},
		{
			name: "malformed email",
			body: clientBody("Ana", "García", "27-12345678-0", "not-an-email"),
		},
		{
			name: "missing first name",
			body: clientBody("", "García", "27-12345678-0", "ana@example.com"),
		},
		{
			name: "future birth date",
			body: strings.Replace(
				clientBody("Ana", "García", "27-12345678-0", "ana@example.com"),
				"1990-05-12", "2190-05-12", 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/v1/clients", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateDuplicateCUITEndpoint(t *testing.T) {
	router := newTestRouter(t)

	if w := doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("Ana", "García", "27-12345678-0", "ana@example.com")); w.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", w.Code)
	}

	w := doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("Luis", "Pérez", "27-12345678-0", "luis@example.com"))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate create status = %d, want 409", w.Code)
	}
}

func TestGetClientEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("Ana", "García", "27-12345678-0", "ana@example.com"))

	if w := doRequest(router, http.MethodGet, "/api/v1/clients/1", ""); w.Code != http.StatusOK {
		t.Errorf("get status = %d, want 200", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/api/v1/clients/99", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/api/v1/clients/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestListAndSearchEndpoints(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("María", "Fernández", "27-12345678-0", "maria@example.com"))
	doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("Ana", "García", "20-11111111-2", "ana@example.com"))

	w := doRequest(router, http.MethodGet, "/api/v1/clients", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}

	var clients []domain.Client
	if err := json.Unmarshal(w.Body.Bytes(), &clients); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(clients) != 2 || clients[0].ID >= clients[1].ID {
		t.Errorf("list = %v, want 2 clients in ascending id order", clients)
	}

	// Подстрока через границу имени и фамилии
	w = doRequest(router, http.MethodGet, "/api/v1/clients/search?name="+url.QueryEscape("ía Fer"), "")
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}

	clients = nil
	if err := json.Unmarshal(w.Body.Bytes(), &clients); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(clients) != 1 || clients[0].FirstName != "María" {
		t.Errorf("search result = %v, want only María", clients)
	}
}

func TestUpdateClientEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("Ana", "García", "27-12345678-0", "ana@example.com"))
	doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("Luis", "Pérez", "20-11111111-2", "luis@example.com"))

	// Собственный CUIT не конфликт
	if w := doRequest(router, http.MethodPut, "/api/v1/clients/1", clientBody("Ana", "García", "27-12345678-0", "ana@example.com")); w.Code != http.StatusOK {
		t.Errorf("self-cuit update status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	// Чужой CUIT конфликт
	if w := doRequest(router, http.MethodPut, "/api/v1/clients/2", clientBody("Luis", "Pérez", "27-12345678-0", "luis@example.com")); w.Code != http.StatusConflict {
		t.Errorf("foreign-cuit update status = %d, want 409", w.Code)
	}

	if w := doRequest(router, http.MethodPut, "/api/v1/clients/99", clientBody("Ana", "García", "27-12345678-0", "x@example.com")); w.Code != http.StatusNotFound {
		t.Errorf("missing id update status = %d, want 404", w.Code)
	}
}

func TestDeleteClientEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, http.MethodPost, "/api/v1/clients", clientBody("Ana", "García", "27-12345678-0", "ana@example.com"))

	if w := doRequest(router, http.MethodDelete, "/api/v1/clients/1", ""); w.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", w.Code)
	}
	if w := doRequest(router, http.MethodDelete, "/api/v1/clients/1", ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}
}
