package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/freight-desk/internal/form"
	"github.com/nurpe/freight-desk/internal/http/middleware"
	"github.com/nurpe/freight-desk/internal/metrics"
	"github.com/nurpe/freight-desk/internal/model"
	"github.com/nurpe/freight-desk/internal/ranking"
	"github.com/nurpe/freight-desk/internal/service"
	"github.com/nurpe/freight-desk/internal/session"
)

type Services struct {
	Orders  *service.OrderService
	Quotes  *service.QuoteService
	Forms   *service.FormService
	Stats   *service.StatsService
	Exports *service.ExportService
}

type Handler struct {
	services Services
	gate     *session.Gate
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewHandler(services Services, gate *session.Gate, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{services: services, gate: gate, metrics: m, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.POST("/session/gate", h.sessionGate)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	managers := middleware.RequireRoles(model.RoleAdmin, model.RoleMainUser)

	protected.GET("/orders", h.listOrders)
	protected.POST("/orders", h.createOrder)
	protected.POST("/orders/export", managers, h.exportOrders)
	protected.GET("/orders/:number", h.getOrder)
	protected.POST("/orders/:number/pending", h.markPending)
	protected.POST("/orders/:number/cancel", h.cancelOrder)

	protected.GET("/orders/:number/quotes", h.listQuotes)
	protected.POST("/orders/:number/quotes", h.submitQuote)
	protected.POST("/orders/:number/quotes/:quote_id/select", h.selectQuote)
	protected.GET("/orders/:number/quotes/export/pdf", managers, h.exportQuotesPDF)

	protected.GET("/forms/:order_type/:shipment_type", h.getForm)
	protected.POST("/forms/:order_type/:shipment_type/validate", h.validateForm)

	protected.GET("/stats", managers, h.stats)
	protected.GET("/exports", managers, h.exportHistory)
}

func (h *Handler) sessionGate(c *gin.Context) {
	var req gateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	allowed := req.AllowedRoles
	if req.View != "" {
		roles, ok := session.ViewRoles(req.View)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view"})
			return
		}
		allowed = roles
	}

	sc := session.FromRequest(c.Request, h.gate)
	if token := strings.TrimSpace(req.Token); token != "" {
		sc = session.Context{Token: token, Role: h.gate.Role(token)}
	}

	decision := h.gate.AuthorizeContext(sc, allowed)
	if h.metrics != nil {
		h.metrics.ObserveGateDecision(decision.OK, string(decision.Redirect))
	}
	c.JSON(http.StatusOK, decision)
}

func (h *Handler) listOrders(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req orderCriteriaRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	orders, err := h.services.Orders.ListOrders(c.Request.Context(), principal, req.criteria())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders, "total": len(orders)})
}

func (h *Handler) getOrder(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	order, err := h.services.Orders.GetOrder(c.Request.Context(), principal, c.Param("number"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) createOrder(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ref, err := h.services.Orders.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		Principal:    principal,
		Token:        middleware.AccessToken(c),
		OrderType:    req.OrderType,
		ShipmentType: req.ShipmentType,
		Data:         req.Data,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ref)
}

func (h *Handler) markPending(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	ref, err := h.services.Orders.MarkPending(c.Request.Context(), principal, middleware.AccessToken(c), c.Param("number"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	ref, err := h.services.Orders.CancelOrder(c.Request.Context(), principal, middleware.AccessToken(c), c.Param("number"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

func (h *Handler) listQuotes(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	table, err := h.services.Quotes.ListQuotes(c.Request.Context(), service.ListQuotesInput{
		Principal:   principal,
		OrderNumber: c.Param("number"),
		RankField:   c.Query("rankField"),
		Sort: ranking.SortState{
			Key:       strings.TrimSpace(c.Query("sort")),
			Direction: ranking.ParseDirection(c.Query("direction")),
		},
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *Handler) submitQuote(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var data form.Data
	if err := c.ShouldBindJSON(&data); err != nil {
		h.badRequest(c, err)
		return
	}

	quote, err := h.services.Quotes.SubmitQuote(c.Request.Context(), service.SubmitQuoteInput{
		Principal:   principal,
		Token:       middleware.AccessToken(c),
		OrderNumber: c.Param("number"),
		Data:        data,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

func (h *Handler) selectQuote(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	quoteID, err := uuid.Parse(strings.TrimSpace(c.Param("quote_id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote_id"})
		return
	}

	ref, err := h.services.Quotes.SelectQuote(c.Request.Context(), principal, middleware.AccessToken(c), c.Param("number"), quoteID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

func (h *Handler) getForm(c *gin.Context) {
	schema, err := h.services.Forms.Schema(c.Param("order_type"), c.Param("shipment_type"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": schema.Name, "fields": schema.Fields})
}

func (h *Handler) validateForm(c *gin.Context) {
	var data form.Data
	if err := c.ShouldBindJSON(&data); err != nil {
		h.badRequest(c, err)
		return
	}
	errs, err := h.services.Forms.Validate(c.Param("order_type"), c.Param("shipment_type"), data)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": errs.Valid(), "errors": errs})
}

func (h *Handler) stats(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	summary, err := h.services.Stats.Summary(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) exportOrders(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req orderCriteriaRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	result, err := h.services.Exports.ExportOrders(c.Request.Context(), principal, req.criteria())
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.attachment(c, result)
}

func (h *Handler) exportHistory(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req exportHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	logs, err := h.services.Exports.History(c.Request.Context(), principal, req.Limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs, "total": len(logs)})
}

func (h *Handler) exportQuotesPDF(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	result, err := h.services.Exports.ExportQuoteComparison(c.Request.Context(), principal, c.Param("number"), c.Query("rankField"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.attachment(c, result)
}

func (h *Handler) attachment(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Type", result.ContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) principal(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return principal, ok
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	if fields := bindingErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUpstream):
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("backend call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
