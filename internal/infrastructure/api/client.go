package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/farmadesk/stockdesk/internal/application/dto"
	"github.com/farmadesk/stockdesk/internal/domain"
	"github.com/farmadesk/stockdesk/internal/domain/entity"
	"github.com/farmadesk/stockdesk/internal/domain/movement"
)

// Client es el cliente REST contra el backend de farmacia. Implementa los
// puertos CatalogSource y MovementSink de la capa de aplicación y traduce el
// 409 INSUFFICIENT_STOCK al *movement.StockConflictError del dominio.
type Client struct {
	http *resty.Client
}

// Config opciones del cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient construye el cliente REST.
func NewClient(cfg Config) *Client {
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	return &Client{http: rc}
}

// Login autentica contra el backend y deja el bearer token en el cliente.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out dto.LoginResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(dto.LoginRequest{Username: username, Password: password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return domain.ErrUnauthorized
	}
	if resp.IsError() {
		return fmt.Errorf("login: estado inesperado %d", resp.StatusCode())
	}
	c.http.SetAuthToken(out.Token)
	return nil
}

// FetchStockCatalog trae la foto completa del catálogo con stock.
func (c *Client) FetchStockCatalog(ctx context.Context) ([]entity.CatalogProduct, error) {
	return c.fetchProducts(ctx, "")
}

// SearchCatalog trae la página del catálogo que matchea el filtro
// (resuelto en el servidor).
func (c *Client) SearchCatalog(ctx context.Context, filter string) ([]entity.CatalogProduct, error) {
	return c.fetchProducts(ctx, filter)
}

func (c *Client) fetchProducts(ctx context.Context, filter string) ([]entity.CatalogProduct, error) {
	var out []entity.CatalogProduct
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if filter != "" {
		req.SetQueryParam("q", filter)
	}
	resp, err := req.Get("/api/products")
	if err != nil {
		return nil, fmt.Errorf("catálogo: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catálogo: estado inesperado %d", resp.StatusCode())
	}
	return out, nil
}

// CreateMovement envía el movimiento como unidad. Un 409 con code
// INSUFFICIENT_STOCK vuelve como *movement.StockConflictError con los
// renglones rechazados; el resto de las fallas colapsa en un error genérico.
func (c *Client) CreateMovement(ctx context.Context, req dto.CreateMovementRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/movements")
	if err != nil {
		return fmt.Errorf("crear movimiento: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		var conflict dto.StockConflictResponse
		if jsonErr := json.Unmarshal(resp.Body(), &conflict); jsonErr == nil && conflict.Code == "INSUFFICIENT_STOCK" {
			return &movement.StockConflictError{Rejected: conflict.Rejected}
		}
		return fmt.Errorf("crear movimiento: conflicto no reconocido (%s)", resp.Body())
	}
	if resp.IsError() {
		return fmt.Errorf("crear movimiento: estado inesperado %d", resp.StatusCode())
	}
	return nil
}
