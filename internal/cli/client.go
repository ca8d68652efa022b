package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"usuario"`
	Role     string `json:"tipo"`
	Name     string `json:"nombre"`
}

func (c *Client) Register(ctx context.Context, username, password, name, email string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/registro", "", map[string]any{
		"usuario":    username,
		"contrasena": password,
		"nombre":     name,
		"email":      email,
	}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/login", "", map[string]any{
		"usuario":    username,
		"contrasena": password,
	}, &out)
	return out, err
}

func (c *Client) Balance(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/api/saldo", token, nil, &out)
	return out, err
}

func (c *Client) Transactions(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/api/transacciones", token, nil, &out)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/api/patrimonio", token, nil, &out)
	return out, err
}

func (c *Client) RequestTransaction(ctx context.Context, token, kind string, amountCentavos int64, description string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/api/solicitar_transaccion", token, map[string]any{
		"tipo":           kind,
		"monto_centavos": amountCentavos,
		"descripcion":    description,
	}, &out)
	return out, err
}

func (c *Client) PendingRequests(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/api/solicitudes", token, nil, &out)
	return out, err
}

func (c *Client) ResolveRequest(ctx context.Context, token string, requestID int64, decision string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/api/procesar_solicitud", token, map[string]any{
		"solicitud_id": requestID,
		"decision":     decision,
	}, &out)
	return out, err
}

func (c *Client) Quotes(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/acciones", token, nil, &out)
	return out, err
}

func (c *Client) BuyShares(ctx context.Context, token, symbol string, quantity int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/comprar_acciones", token, map[string]any{
		"simbolo":  symbol,
		"cantidad": quantity,
	}, &out)
	return out, err
}

func (c *Client) Events(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/eventos", token, nil, &out)
	return out, err
}

func (c *Client) PlaceBet(ctx context.Context, token string, eventID int64, pick string, amountCentavos int64) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/apostar_deportes", token, map[string]any{
		"evento_id":      eventID,
		"resultado":      pick,
		"monto_centavos": amountCentavos,
	}, &out)
	return out, err
}

func (c *Client) Loans(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/prestamos", token, nil, &out)
	return out, err
}

func (c *Client) ApplyLoan(ctx context.Context, token string, principalCentavos int64, termMonths int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/solicitar_prestamo", token, map[string]any{
		"monto_centavos": principalCentavos,
		"plazo_meses":    termMonths,
	}, &out)
	return out, err
}

func (c *Client) Overview(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/admin/resumen", token, nil, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, token string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
