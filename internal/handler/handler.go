package handler

import (
	"time"

	"duckwheel/internal/infrastructure/lock"
	"duckwheel/internal/model"
	"duckwheel/internal/service"
	"duckwheel/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler exposes the wheel, shop and admin operations over HTTP.
type Handler struct {
	wheelService   *service.WheelService
	orderService   *service.OrderService
	accountService *service.AccountService
	catalogService *service.CatalogService
	now            func() time.Time
}

func NewHandler(deps service.Deps) *Handler {
	// All services must share one locker so a spin and a purchase of the same
	// user are serialized against each other.
	if deps.Locker == nil {
		deps.Locker = lock.NewLocalUserLocker()
	}
	return &Handler{
		wheelService:   service.NewWheelService(deps),
		orderService:   service.NewOrderService(deps),
		accountService: service.NewAccountService(deps),
		catalogService: service.NewCatalogService(deps),
		now:            time.Now,
	}
}

// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC(),
	})
}

// GET /api/me?userId=
func (h *Handler) Me(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.InvalidInput(c, "userId is required")
		return
	}
	user, err := h.accountService.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}

// GET /api/prizes
func (h *Handler) ListPrizes(c *gin.Context) {
	prizes, err := h.catalogService.ListPrizes(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, prizes)
}

// GET /api/settings
func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.catalogService.ListSettings(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, settings)
}

// GET /api/odds?betLevel=&userId=
func (h *Handler) Odds(c *gin.Context) {
	level := model.WheelLevel(c.Query("betLevel"))
	if !level.Valid() {
		response.InvalidInput(c, "betLevel must be one of basic, advanced, epic, legendary")
		return
	}
	odds, err := h.wheelService.Odds(c.Request.Context(), level, c.Query("userId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, odds)
}

// GET /api/users-overview
func (h *Handler) UsersOverview(c *gin.Context) {
	overview, err := h.accountService.Overview(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, overview)
}

// GET /api/logs?userId=
func (h *Handler) SpinLogs(c *gin.Context) {
	logs, err := h.accountService.SpinLogs(c.Request.Context(), c.Query("userId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nonNil(logs))
}

// GET /api/orders?userId=
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("userId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nonNil(orders))
}

// GET /api/duck-history?userId=
func (h *Handler) DuckHistory(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.InvalidInput(c, "userId is required")
		return
	}
	history, err := h.accountService.DuckHistory(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nonNil(history))
}

// POST /api/spin
func (h *Handler) Spin(c *gin.Context) {
	var req service.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidInput(c, err.Error())
		return
	}
	if !req.BetLevel.Valid() {
		response.InvalidInput(c, "betLevel must be one of basic, advanced, epic, legendary")
		return
	}
	resp, err := h.wheelService.Spin(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// POST /api/buy
func (h *Handler) Buy(c *gin.Context) {
	var req service.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidInput(c, err.Error())
		return
	}
	resp, err := h.orderService.Buy(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

// POST /api/admin/add-ducks
func (h *Handler) AddDucks(c *gin.Context) {
	var req service.AddDucksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidInput(c, err.Error())
		return
	}
	resp, err := h.accountService.AddDucks(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, resp)
}

type SavePrizeRequest struct {
	Prize *model.Prize `json:"prize" binding:"required"`
}

// POST /api/admin/prizes
func (h *Handler) SavePrize(c *gin.Context) {
	var req SavePrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidInput(c, err.Error())
		return
	}
	prize, err := h.catalogService.SavePrize(c.Request.Context(), *req.Prize)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, prize)
}

type SaveSettingRequest struct {
	Setting *model.WheelSetting `json:"setting" binding:"required"`
}

// POST /api/admin/settings
func (h *Handler) SaveSetting(c *gin.Context) {
	var req SaveSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidInput(c, err.Error())
		return
	}
	setting, err := h.catalogService.SaveSetting(c.Request.Context(), *req.Setting)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, setting)
}

// POST /api/admin/orders/status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req service.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidInput(c, err.Error())
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, order)
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
