package api

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	models "StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"
)

// DiscoveryEchoHandler serves the ticker search and browse surface.
type DiscoveryEchoHandler struct {
	logger    *xlogger.Logger
	discovery *usecase.DiscoveryUseCase
}

func NewDiscoveryEchoHandler(logger *xlogger.Logger, discovery *usecase.DiscoveryUseCase) *DiscoveryEchoHandler {
	return &DiscoveryEchoHandler{logger: logger, discovery: discovery}
}

func (h *DiscoveryEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/discovery")
	g.GET("/search", h.Search)
	g.GET("/search/suggestions", h.Suggest)
	g.GET("/browse/sectors", h.Sectors)
	g.GET("/browse/sectors/:sector", h.SectorTickers)
	g.GET("/screen", h.Screen)
	g.GET("/tickers/:ticker", h.Lookup)
}

func (h *DiscoveryEchoHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.discovery.Search(c.Request().Context(), req.Query, req.Limit)
	if err != nil {
		h.logger.Error("discovery search error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *DiscoveryEchoHandler) Suggest(c echo.Context) error {
	req := &models.SuggestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res := h.discovery.Suggest(req.Query, req.Limit)
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *DiscoveryEchoHandler) Sectors(c echo.Context) error {
	res := h.discovery.Sectors()
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *DiscoveryEchoHandler) SectorTickers(c echo.Context) error {
	sector := strings.TrimSpace(c.Param("sector"))
	if sector == "" {
		return xhttp.BadRequestResponse(c, map[string]string{"message": "sector is required"})
	}

	res, err := h.discovery.SectorTickers(c.Request().Context(), sector, 50)
	if err != nil {
		h.logger.Error("discovery sector error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *DiscoveryEchoHandler) Screen(c echo.Context) error {
	req := &models.ScreenRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.MaxPrice > 0 && req.MaxPrice < req.MinPrice {
		return xhttp.BadRequestResponse(c, map[string]string{"message": "max_price below min_price"})
	}

	res, err := h.discovery.Screen(c.Request().Context(), usecase.ScreenParams{
		Sector:    req.Sector,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		MinMktCap: req.MinCap,
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.Error("discovery screen error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res, int64(len(res)))
}

func (h *DiscoveryEchoHandler) Lookup(c echo.Context) error {
	ticker := normalizeTicker(c.Param("ticker"))
	if ticker == "" {
		return xhttp.BadRequestResponse(c, map[string]string{"message": "ticker is required"})
	}

	info, err := h.discovery.Lookup(c.Request().Context(), ticker)
	if err != nil {
		if errors.Is(err, domrepo.ErrNoData) {
			return xhttp.NotFoundResponse(c, map[string]string{"message": "unknown ticker"})
		}
		h.logger.Error("discovery lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, info)
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
