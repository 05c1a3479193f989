package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parking-service/internal/config"
	"parking-service/internal/http/middleware"
	"parking-service/internal/match"
	"parking-service/internal/model"
	"parking-service/internal/search"
	"parking-service/internal/service"
)

type Handler struct {
	parkingService *service.ParkingService
	engine         *search.Engine
	searchCfg      config.SearchConfig
	log            zerolog.Logger
}

func NewHandler(
	parkingService *service.ParkingService,
	engine *search.Engine,
	searchCfg config.SearchConfig,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		parkingService: parkingService,
		engine:         engine,
		searchCfg:      searchCfg,
		log:            log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := r.Group("/api/v1")
	api.Use(authMiddleware)

	vehicles := api.Group("/vehicles")
	{
		vehicles.POST("/check-in", h.checkIn)
		vehicles.POST("/check-out", h.checkOut)
		vehicles.GET("", h.findVehiclesByLocation)
		vehicles.GET("/:plate", h.findVehicleByPlate)
	}

	searchGroup := api.Group("/search")
	{
		searchGroup.GET("/vehicles", h.searchVehicles)
		searchGroup.GET("/suggestions", h.getSearchSuggestions)
		searchGroup.POST("/cache/clear", h.clearSearchCache)
	}

	api.GET("/spots/available", h.findAvailableSpots)
	api.GET("/occupancy", h.getOccupancy)
}

func (h *Handler) checkIn(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		LicensePlate string `json:"license_plate" binding:"required"`
		VehicleType  string `json:"vehicle_type"`
		SpotID       string `json:"spot_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	vehicle, err := h.parkingService.CheckIn(c.Request.Context(), principal, service.CheckInInput{
		LicensePlate: req.LicensePlate,
		VehicleType:  req.VehicleType,
		SpotID:       req.SpotID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(vehicle))
}

func (h *Handler) checkOut(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		LicensePlate string `json:"license_plate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	vehicle, err := h.parkingService.CheckOut(c.Request.Context(), principal, req.LicensePlate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicle))
}

func (h *Handler) findVehicleByPlate(c *gin.Context) {
	plate := strings.TrimSpace(c.Param("plate"))
	if plate == "" {
		c.JSON(http.StatusBadRequest, errorResponse("license plate is required"))
		return
	}

	result, err := h.engine.FindVehicleByLicensePlate(c.Request.Context(), plate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if !result.Found {
		c.JSON(http.StatusNotFound, successResponse(result))
		return
	}
	c.JSON(http.StatusOK, successResponse(result))
}

// searchVehicles owns bounds validation for the search options: the engine
// trusts threshold and max_results as given.
func (h *Handler) searchVehicles(c *gin.Context) {
	term := c.Query("q")

	mode, err := match.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	threshold := h.searchCfg.DefaultThreshold
	if raw := strings.TrimSpace(c.Query("threshold")); raw != "" {
		threshold, err = strconv.ParseFloat(raw, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			c.JSON(http.StatusBadRequest, errorResponse("threshold must be a number between 0 and 1"))
			return
		}
	}

	maxResults := h.searchCfg.DefaultMaxResults
	if raw := strings.TrimSpace(c.Query("max_results")); raw != "" {
		maxResults, err = strconv.Atoi(raw)
		if err != nil || maxResults < 1 || maxResults > 100 {
			c.JSON(http.StatusBadRequest, errorResponse("max_results must be an integer between 1 and 100"))
			return
		}
	}

	result, err := h.engine.SearchVehicles(c.Request.Context(), term, match.Options{
		Mode:       mode,
		Threshold:  threshold,
		MaxResults: maxResults,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) getSearchSuggestions(c *gin.Context) {
	partial := c.Query("q")

	limit := h.searchCfg.SuggestionLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, errorResponse("limit must be an integer between 1 and 100"))
			return
		}
		limit = parsed
	}

	suggestions, err := h.engine.GetSearchSuggestions(c.Request.Context(), partial, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(suggestions))
}

func (h *Handler) clearSearchCache(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}
	if !principal.IsAdmin() {
		c.JSON(http.StatusForbidden, errorResponse("admin role required"))
		return
	}

	h.engine.ClearCache()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) findVehiclesByLocation(c *gin.Context) {
	var filter model.LocationFilter

	if raw := strings.TrimSpace(c.Query("floor")); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid floor"))
			return
		}
		filter.Floor = &floor
	}
	if raw := strings.TrimSpace(c.Query("bay")); raw != "" {
		filter.Bay = &raw
	}
	if raw := strings.TrimSpace(c.Query("spot_id")); raw != "" {
		spotID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid spot_id"))
			return
		}
		filter.SpotID = &spotID
	}

	vehicles, err := h.engine.FindVehiclesByLocation(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(vehicles))
}

func (h *Handler) findAvailableSpots(c *gin.Context) {
	var filter model.SpotFilter

	if raw := strings.TrimSpace(c.Query("floor")); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid floor"))
			return
		}
		filter.Floor = &floor
	}
	if raw := strings.TrimSpace(c.Query("bay")); raw != "" {
		filter.Bay = &raw
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		spotType := model.SpotType(strings.ToUpper(raw))
		filter.SpotType = &spotType
	}
	if raw := strings.TrimSpace(c.Query("features")); raw != "" {
		for _, feature := range strings.Split(raw, ",") {
			if feature = strings.TrimSpace(feature); feature != "" {
				filter.Features = append(filter.Features, feature)
			}
		}
	}

	spots, err := h.engine.FindAvailableSpots(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(spots))
}

func (h *Handler) getOccupancy(c *gin.Context) {
	report, err := h.parkingService.GetOccupancy(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(report))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, search.ErrPlateRequired):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
