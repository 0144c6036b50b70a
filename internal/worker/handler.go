package worker

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hostelsaathi/internal/apperr"
	"hostelsaathi/pkg/response"
)

type WorkerHandler struct {
	service *WorkerService
}

func NewWorkerHandler(service *WorkerService) *WorkerHandler {
	return &WorkerHandler{service: service}
}

func (h *WorkerHandler) GetAllWorkers(c echo.Context) error {
	params := ListParams{
		Role:     c.QueryParam("role"),
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "pageNumber", 1),
		PageSize: queryInt(c, "pageSize", 5),
	}

	workers, totalItems, err := h.service.List(c.Request().Context(), params)
	if err != nil {
		return response.Fail(c, err)
	}
	totalPages := (totalItems + int64(params.PageSize) - 1) / int64(params.PageSize)
	return response.OK(c, http.StatusOK, echo.Map{
		"totalItems":  totalItems,
		"totalPages":  totalPages,
		"currentPage": params.Page,
		"ref":         workers,
	}, "Workers fetched successfully")
}

func (h *WorkerHandler) GetWorkerByID(c echo.Context) error {
	workerID := c.QueryParam("workerId")
	if workerID == "" {
		return response.Fail(c, apperr.BadRequest("Bad input"))
	}
	id, err := primitive.ObjectIDFromHex(workerID)
	if err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid worker id"))
	}

	worker, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, http.StatusOK, worker, "Worker fetched successfully")
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
