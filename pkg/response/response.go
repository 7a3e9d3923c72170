package response

import (
	"errors"
	"net/http"

	"duckwheel/internal/economy"
	"duckwheel/internal/infrastructure/lock"
	"duckwheel/internal/model"
	"duckwheel/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	CodeInvalidInput              = "INVALID_INPUT"
	CodeInsufficientBalance       = "INSUFFICIENT_BALANCE"
	CodeNoPrizesAvailable         = "NO_PRIZES_AVAILABLE"
	CodeInvalidWeightDistribution = "INVALID_WEIGHT_DISTRIBUTION"
	CodeDirectPurchaseNotAllowed  = "DIRECT_PURCHASE_NOT_ALLOWED"
	CodeDirectPriceNotSet         = "DIRECT_PRICE_NOT_SET"
	CodePrizeUnavailable          = "PRIZE_UNAVAILABLE"
	CodeInvalidStatusTransition   = "INVALID_STATUS_TRANSITION"
	CodeUserNotFound              = "USER_NOT_FOUND"
	CodeLevelNotFound             = "LEVEL_NOT_FOUND"
	CodePrizeNotFound             = "PRIZE_NOT_FOUND"
	CodeOrderNotFound             = "ORDER_NOT_FOUND"
	CodeBusy                      = "BUSY"
	CodeUnauthorized              = "UNAUTHORIZED"
	CodeServerError               = "SERVER_ERROR"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type mapping struct {
	target error
	status int
	code   string
}

// Checked in order; the first errors.Is match wins.
var mappings = []mapping{
	{economy.ErrInsufficientBalance, http.StatusBadRequest, CodeInsufficientBalance},
	{economy.ErrNoPrizesAvailable, http.StatusBadRequest, CodeNoPrizesAvailable},
	{economy.ErrInvalidWeightDistribution, http.StatusBadRequest, CodeInvalidWeightDistribution},
	{economy.ErrDirectPurchaseNotAllowed, http.StatusBadRequest, CodeDirectPurchaseNotAllowed},
	{economy.ErrDirectPriceNotSet, http.StatusBadRequest, CodeDirectPriceNotSet},
	{economy.ErrPrizeUnavailable, http.StatusBadRequest, CodePrizeUnavailable},
	{economy.ErrZeroAmount, http.StatusBadRequest, CodeInvalidInput},
	{model.ErrInvalidPrize, http.StatusBadRequest, CodeInvalidInput},
	{model.ErrInvalidWheelSetting, http.StatusBadRequest, CodeInvalidInput},
	{repository.ErrOrderStatusInvalid, http.StatusConflict, CodeInvalidStatusTransition},
	{repository.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
	{repository.ErrLevelNotFound, http.StatusNotFound, CodeLevelNotFound},
	{repository.ErrPrizeNotFound, http.StatusNotFound, CodePrizeNotFound},
	{repository.ErrOrderNotFound, http.StatusNotFound, CodeOrderNotFound},
	{lock.ErrLockFailed, http.StatusConflict, CodeBusy},
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: code, Message: message})
}

func InvalidInput(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeInvalidInput, message)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, "invalid auth secret")
}

// Classify maps a service error onto an HTTP status and error code.
func Classify(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, CodeServerError
}

// FromError writes the error body for err. Unknown errors are logged and
// reported without their internal message.
func FromError(c *gin.Context, err error) {
	status, code := Classify(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		Error(c, status, code, "internal server error")
		return
	}
	Error(c, status, code, err.Error())
}
