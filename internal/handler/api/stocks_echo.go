package api

import (
	"time"

	"github.com/labstack/echo/v4"

	models "StockCast/internal/domain/models"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// StocksEchoHandler serves the prediction, recommendation, and history
// endpoints.
type StocksEchoHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.PredictorUseCase
	advisor   *usecase.AdvisorUseCase
	history   *usecase.HistoryUseCase
}

func NewStocksEchoHandler(
	logger *xlogger.Logger,
	predictor *usecase.PredictorUseCase,
	advisor *usecase.AdvisorUseCase,
	history *usecase.HistoryUseCase,
) *StocksEchoHandler {
	return &StocksEchoHandler{
		logger:    logger,
		predictor: predictor,
		advisor:   advisor,
		history:   history,
	}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/stocks")
	g.GET("/:ticker/history", h.History)
	g.GET("/:ticker/predict", h.Predict)
	g.GET("/:ticker/recommendation", h.Recommendation)
}

func (h *StocksEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.predictor.Predict(c.Request().Context(), normalizeTicker(req.Ticker), req.Days, req.Lookback)
	if err != nil {
		h.logger.Error("predict usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Recommendation(c echo.Context) error {
	req := &models.RecommendRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.advisor.Recommend(c.Request().Context(), normalizeTicker(req.Ticker))
	if err != nil {
		h.logger.Error("recommend usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if rec == nil {
		return xhttp.NotFoundResponse(c, map[string]string{
			"message": "not enough history to form a recommendation",
		})
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *StocksEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	from := util.ParseDateDefault(req.Start, now.AddDate(0, 0, -90))
	to := util.ParseDateDefault(req.End, now)
	if to.Before(from) {
		return xhttp.BadRequestResponse(c, map[string]string{
			"message": "end must not precede start",
		})
	}

	bars, err := h.history.GetBars(c.Request().Context(), normalizeTicker(req.Ticker), from, to)
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, bars, int64(len(bars)))
}
