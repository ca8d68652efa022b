package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	mathrand "math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chiqbank/internal/auth"
	"chiqbank/internal/bank"
	"chiqbank/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.APIConfig{Addr: ":0", JWTSecret: "secreto-de-prueba", TokenTTL: time.Hour, RequestTimeout: time.Minute}
	store := bank.NewStore(log, mathrand.New(mathrand.NewSource(7)))
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	srv := New(cfg, log, tokens, store)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func register(t *testing.T, ts *httptest.Server, username string) {
	t.Helper()
	resp, _ := doJSON(t, ts, http.MethodPost, "/registro", "", map[string]any{
		"usuario":    username,
		"contrasena": "secreto123",
		"nombre":     "Cuenta de Prueba",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, ts *httptest.Server, username, password string) string {
	t.Helper()
	resp, out := doJSON(t, ts, http.MethodPost, "/login", "", map[string]any{
		"usuario":    username,
		"contrasena": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, out := doJSON(t, ts, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["ok"])
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")

	token := login(t, ts, "maria", "secreto123")
	resp, out := doJSON(t, ts, http.MethodGet, "/api/saldo", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "maria", out["usuario"])
	assert.Equal(t, float64(bank.OpeningBalanceCentavos), out["saldo_centavos"])
}

func TestRegisterConflict(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")

	resp, _ := doJSON(t, ts, http.MethodPost, "/registro", "", map[string]any{
		"usuario":    "maria",
		"contrasena": "secreto123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")

	resp, _ := doJSON(t, ts, http.MethodPost, "/login", "", map[string]any{
		"usuario":    "maria",
		"contrasena": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, ts, http.MethodGet, "/api/saldo", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodGet, "/api/saldo", "token-falso", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")
	token := login(t, ts, "maria", "secreto123")

	resp, _ := doJSON(t, ts, http.MethodGet, "/api/solicitudes", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, ts, http.MethodGet, "/admin/resumen", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDepositApprovalFlow(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")
	userToken := login(t, ts, "maria", "secreto123")
	adminToken := login(t, ts, "admin", "admin123")

	resp, out := doJSON(t, ts, http.MethodPost, "/api/solicitar_transaccion", userToken, map[string]any{
		"tipo":           "deposito",
		"monto_centavos": 1000 * bank.CentavosPerChiq,
		"descripcion":    "Sueldo",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	requestID := int64(out["id"].(float64))

	resp, out = doJSON(t, ts, http.MethodGet, "/api/solicitudes", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out["solicitudes"], 1)

	resp, out = doJSON(t, ts, http.MethodPost, "/api/procesar_solicitud", adminToken, map[string]any{
		"solicitud_id": requestID,
		"decision":     "aprobar",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(bank.StatusAprobado), out["estado_final"])

	// 1000.00 deposited, 2% tax withheld, 980.00 credited.
	resp, out = doJSON(t, ts, http.MethodGet, "/api/saldo", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	want := float64(bank.OpeningBalanceCentavos + 980*bank.CentavosPerChiq)
	assert.Equal(t, want, out["saldo_centavos"])
}

func TestRejectFlow(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")
	userToken := login(t, ts, "maria", "secreto123")
	adminToken := login(t, ts, "admin", "admin123")

	_, out := doJSON(t, ts, http.MethodPost, "/api/solicitar_transaccion", userToken, map[string]any{
		"tipo":           "retiro",
		"monto_centavos": 100 * bank.CentavosPerChiq,
	})
	requestID := int64(out["id"].(float64))

	resp, out := doJSON(t, ts, http.MethodPost, "/api/procesar_solicitud", adminToken, map[string]any{
		"solicitud_id": requestID,
		"decision":     "rechazar",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(bank.StatusRechazado), out["estado_final"])

	resp, out = doJSON(t, ts, http.MethodGet, "/api/saldo", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(bank.OpeningBalanceCentavos), out["saldo_centavos"])
}

func TestRequestValidation(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")
	token := login(t, ts, "maria", "secreto123")

	// Unknown transaction type.
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/solicitar_transaccion", token, map[string]any{
		"tipo":           "transferencia",
		"monto_centavos": 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown field.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/solicitar_transaccion", token, map[string]any{
		"tipo":           "deposito",
		"monto_centavos": 100,
		"extra":          true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Bad bet pick.
	resp, _ = doJSON(t, ts, http.MethodPost, "/apostar_deportes", token, map[string]any{
		"evento_id":      1,
		"resultado":      "doble",
		"monto_centavos": 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuotesAndEvents(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")
	token := login(t, ts, "maria", "secreto123")

	resp, out := doJSON(t, ts, http.MethodGet, "/acciones", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, out["acciones"], 4)

	resp, out = doJSON(t, ts, http.MethodGet, "/eventos", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, out["eventos"], 3)
}

func TestAdminOverview(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "maria")
	adminToken := login(t, ts, "admin", "admin123")

	resp, out := doJSON(t, ts, http.MethodGet, "/admin/resumen", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), out["total_usuarios"])
	assert.Equal(t, float64(0), out["total_solicitudes"])
}
