package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"api_ventas/api"
	"api_ventas/internal/auth"
	"api_ventas/internal/config"
	"api_ventas/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var dbSeq atomic.Int64

type testEnv struct {
	router *gin.Engine
	tokens *auth.TokenService
	ana    *sales.Seller // boss, has María as subordinate
	maria  *sales.Seller
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App:      config.AppConfig{Name: "api_ventas", Env: "development", Port: "0"},
		Database: config.DatabaseConfig{},
		JWT:      config.JWTConfig{Secret: "integration-secret", Issuer: "api_ventas", Expiration: time.Hour},
		Report:   config.ReportConfig{DisplayUTCOffsetHours: -5},
	}

	dsn := fmt.Sprintf("file:apitest_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sales.OpenDatabase(dsn)
	require.NoError(t, err)

	ana := &sales.Seller{ID: uuid.New(), Name: "Ana Pérez", Code: "VND-001"}
	require.NoError(t, db.Create(ana).Error)
	maria := &sales.Seller{ID: uuid.New(), Name: "María López", Code: "VND-002", BossID: &ana.ID}
	require.NoError(t, db.Create(maria).Error)
	require.NoError(t, db.Create(&sales.Product{ID: uuid.New(), Name: "Crema Facial", Price: decimal.NewFromInt(35000)}).Error)
	require.NoError(t, db.Create(&sales.Product{ID: uuid.New(), Name: "Jabón Natural", Price: decimal.NewFromInt(12000)}).Error)

	router := gin.New()
	api.InitRoutes(router, cfg, db, zaptest.NewLogger(t))

	return &testEnv{
		router: router,
		tokens: auth.NewTokenService(cfg.JWT),
		ana:    ana,
		maria:  maria,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) sellerToken(t *testing.T, seller *sales.Seller) string {
	t.Helper()
	token, err := e.tokens.Generate(seller.ID, seller.Name, auth.RoleSeller)
	require.NoError(t, err)
	return token
}

func TestSalesFlow(t *testing.T) {
	env := setupEnv(t)
	token := env.sellerToken(t, env.ana)

	t.Run("POST_CreateSale", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/sales", token, map[string]any{
			"customerName":  "Carlos Ruiz",
			"products":      "Crema Facial, Jabón Natural",
			"quantity":      2,
			"totalPrice":    94000,
			"paymentMethod": "efectivo",
			"saleDate":      "2024-03-10",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Venta registrada correctamente", resp.Message)
	})

	t.Run("GET_ListWithSummary", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/sales?startDate=2024-03-01&endDate=2024-03-15", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Success bool               `json:"success"`
			Data    []sales.SaleRecord `json:"data"`
			Summary sales.Summary      `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Carlos Ruiz", resp.Data[0].CustomerName)
		assert.Equal(t, 1, resp.Summary.CantidadVentas)
		assert.Equal(t, 4, resp.Summary.TotalProductos)
		assert.True(t, resp.Summary.TotalVentas.Equal(decimal.NewFromInt(94000)))
	})

	t.Run("GET_ListInvalidDate", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/sales?startDate=10/03/2024", token, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "fecha de inicio")
	})

	t.Run("GET_Report", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/sales/report?startDate=2024-03-01&endDate=2024-03-15", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		disposition := w.Header().Get("Content-Disposition")
		assert.True(t, strings.HasPrefix(disposition, "attachment; filename=reporte_ventas_VND-001_"), disposition)
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	})

	t.Run("GET_ReportEmptyPeriod", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/sales/report?startDate=2019-01-01&endDate=2019-01-31", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	})
}

func TestProxySaleFlow(t *testing.T) {
	env := setupEnv(t)
	token := env.sellerToken(t, env.ana)

	t.Run("AuthorizedSubordinateName", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/sales", token, map[string]any{
			"customerName":  strings.ToLower(env.maria.Name),
			"products":      "Kit de belleza edición especial",
			"quantity":      3,
			"totalPrice":    90000,
			"hasSeller":     "Sí",
			"sellerCode":    env.maria.Code,
			"paymentMethod": "transferencia",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("UnauthorizedName", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/sales", token, map[string]any{
			"customerName": "Pedro Gómez",
			"products":     "Kit de belleza",
			"quantity":     1,
			"totalPrice":   30000,
			"hasSeller":    "Sí",
			"sellerCode":   "VND-002",
		})
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	t.Run("UnknownSellerCode", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/sales", token, map[string]any{
			"customerName": "Ana Pérez",
			"products":     "Kit de belleza",
			"quantity":     1,
			"totalPrice":   30000,
			"hasSeller":    "Sí",
			"sellerCode":   "NO-EXISTE",
		})
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

func TestAuthBoundaries(t *testing.T) {
	env := setupEnv(t)

	t.Run("MissingToken", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/sales", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("NonSellerRole", func(t *testing.T) {
		token, err := env.tokens.Generate(uuid.New(), "Admin", "admin")
		require.NoError(t, err)

		w := env.do(t, http.MethodGet, "/sales", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "No autorizado")
	})

	t.Run("MissingRequiredFields", func(t *testing.T) {
		token := env.sellerToken(t, env.ana)
		w := env.do(t, http.MethodPost, "/sales", token, map[string]any{
			"customerName": "Carlos Ruiz",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Faltan campos requeridos")
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		token := env.sellerToken(t, env.ana)
		w := env.do(t, http.MethodPost, "/sales", token, map[string]any{
			"customerName": "Carlos Ruiz",
			"products":     "Producto Fantasma",
			"quantity":     1,
			"totalPrice":   1000,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Producto no encontrado: Producto Fantasma")
	})

	t.Run("Ping", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/ping", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
