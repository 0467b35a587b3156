package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"api_ventas/internal/auth"
	"api_ventas/internal/config"
	"api_ventas/internal/report"
	"api_ventas/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// salesHandler holds the sales service and implements the HTTP handlers.
type salesHandler struct {
	salesService *sales.Service
	cfg          *config.Config
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, cfg *config.Config, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		cfg:          cfg,
		logger:       logger,
	}
}

// requireSeller enforces the seller role and resolves the caller's id.
// Anything else gets a 403, matching the legacy contract.
func (h *salesHandler) requireSeller(c *gin.Context) (*auth.Claims, uuid.UUID, bool) {
	claims, ok := callerClaims(c)
	if !ok || claims.Role != auth.RoleSeller {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No autorizado"})
		return nil, uuid.Nil, false
	}
	sellerID, err := claims.SellerUUID()
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "No autorizado"})
		return nil, uuid.Nil, false
	}
	return claims, sellerID, true
}

// handleListSales handles GET /sales: filtered listing plus summary block.
func (h *salesHandler) handleListSales(c *gin.Context) {
	_, sellerID, ok := h.requireSeller(c)
	if !ok {
		return
	}

	filter, err := sales.ParseListFilter(
		sellerID,
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("customerName"),
		c.Query("paymentMethod"),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	records, summary, err := h.salesService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list sales", zap.String("seller_id", sellerID.String()), zap.Error(err))
		body := gin.H{"success": false, "error": "Error interno al obtener ventas"}
		if !h.cfg.IsProduction() {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
		"summary": summary,
	})
}

// handleSalesReport handles GET /sales/report: streams the PDF document.
func (h *salesHandler) handleSalesReport(c *gin.Context) {
	_, sellerID, ok := h.requireSeller(c)
	if !ok {
		return
	}

	filter, err := sales.ParseListFilter(sellerID, c.Query("startDate"), c.Query("endDate"), "", "")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	records, summary, err := h.salesService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to load report data", zap.String("seller_id", sellerID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generando el reporte"})
		return
	}

	sellerName, sellerCode := "No especificado", "No especificado"
	if seller, err := h.salesService.SellerInfo(c.Request.Context(), sellerID); err == nil {
		sellerName, sellerCode = seller.Name, seller.Code
	}

	filename := fmt.Sprintf("reporte_ventas_%s_%s.pdf", sellerCode, time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	params := report.Params{
		SellerName:    sellerName,
		SellerCode:    sellerCode,
		PeriodLabel:   filter.PeriodLabel(),
		GeneratedAt:   time.Now(),
		DisplayOffset: h.cfg.Report.DisplayOffset(),
	}
	if err := report.Generate(c.Writer, records, summary, params); err != nil {
		h.logger.Error("failed to generate report", zap.String("seller_id", sellerID.String()), zap.Error(err))
		// Once the response started streaming the status is already on the
		// wire; a second, conflicting write would corrupt the document.
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Disposition")
			c.Header("Content-Type", "application/json; charset=utf-8")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generando el reporte"})
		}
	}
}

// createSaleRequest is the POST /sales body.
type createSaleRequest struct {
	SaleDate      string          `json:"saleDate"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	Products      string          `json:"products"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	HasSeller     string          `json:"hasSeller"`
	SellerCode    string          `json:"sellerCode"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
	Address       string          `json:"address"`
}

// handleCreateSale handles POST /sales.
func (h *salesHandler) handleCreateSale(c *gin.Context) {
	_, sellerID, ok := h.requireSeller(c)
	if !ok {
		return
	}

	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Cuerpo de la petición inválido"})
		return
	}

	input := sales.CreateSaleInput{
		SaleDate:      req.SaleDate,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Products:      req.Products,
		Quantity:      req.Quantity,
		TotalPrice:    req.TotalPrice,
		HasSeller:     req.HasSeller,
		SellerCode:    req.SellerCode,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Address:       req.Address,
	}

	if _, err := h.salesService.CreateSale(c.Request.Context(), sellerID, input); err != nil {
		h.writeCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Venta registrada correctamente"})
}

// writeCreateError maps domain errors to the legacy status contract: bad
// input and unresolved products are 400, proxy authorization failures and
// unknown seller codes are 403, everything else is 500.
func (h *salesHandler) writeCreateError(c *gin.Context, err error) {
	var validationErr *sales.ValidationError
	var notFoundErr *sales.NotFoundError
	var authErr *sales.AuthorizationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		status := http.StatusBadRequest
		if notFoundErr.Resource == "vendedor" {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"success": false, "error": notFoundErr.Message})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": authErr.Message})
	default:
		h.logger.Error("failed to create sale", zap.Error(err))
		body := gin.H{"success": false, "error": "Error al registrar la venta"}
		if !h.cfg.IsProduction() {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
