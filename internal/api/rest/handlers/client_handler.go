package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dhoini/Client-microservice/internal/domain"
	"github.com/Dhoini/Client-microservice/internal/kafka/producer"
	"github.com/Dhoini/Client-microservice/internal/metrics"
	"github.com/Dhoini/Client-microservice/internal/service"
	"github.com/Dhoini/Client-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ClientHandler обработчик для клиентов. Преобразует Outcome сервиса
// в HTTP-ответы, ориентируясь только на классификатор статуса.
type ClientHandler struct {
	service service.ClientService
	events  producer.ClientProducer
	metrics metrics.ClientMetrics
	log     *logger.Logger
}

// NewClientHandler создает новый обработчик клиентов
func NewClientHandler(
	svc service.ClientService,
	events producer.ClientProducer,
	clientMetrics metrics.ClientMetrics,
	log *logger.Logger,
) *ClientHandler {
	return &ClientHandler{
		service: svc,
		events:  events,
		metrics: clientMetrics,
		log:     log,
	}
}

// httpStatus сопоставляет классификатор исхода с кодом ответа
func httpStatus(s service.Status) int {
	switch s {
	case service.StatusOK:
		return http.StatusOK
	case service.StatusNotFound:
		return http.StatusNotFound
	case service.StatusConflict:
		return http.StatusConflict
	case service.StatusValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetClients возвращает список всех клиентов
func (h *ClientHandler) GetClients(c *gin.Context) {
	out := h.service.GetAll(c.Request.Context())
	h.metrics.IncOperation("list", out.Status)

	if !out.Success {
		c.JSON(httpStatus(out.Status), gin.H{"error": out.Message})
		return
	}

	h.log.Info("Returned %d clients", len(out.Data))
	c.JSON(http.StatusOK, out.Data)
}

// SearchClients возвращает клиентов, чье имя содержит подстроку запроса
func (h *ClientHandler) SearchClients(c *gin.Context) {
	out := h.service.SearchByName(c.Request.Context(), c.Query("name"))
	h.metrics.IncOperation("search", out.Status)

	if !out.Success {
		c.JSON(httpStatus(out.Status), gin.H{"error": out.Message})
		return
	}

	h.log.Info("Search returned %d clients", len(out.Data))
	c.JSON(http.StatusOK, out.Data)
}

// GetClient возвращает клиента по id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	out := h.service.GetByID(c.Request.Context(), id)
	h.metrics.IncOperation("get", out.Status)

	if !out.Success {
		c.JSON(httpStatus(out.Status), gin.H{"error": out.Message})
		return
	}

	c.JSON(http.StatusOK, out.Data)
}

// CreateClient создает нового клиента
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req domain.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create request: %v", err)
		h.metrics.IncOperation("create", service.StatusValidationFailed)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := h.service.Create(c.Request.Context(), req)
	h.metrics.IncOperation("create", out.Status)

	if !out.Success {
		c.JSON(httpStatus(out.Status), gin.H{"error": out.Message})
		return
	}

	if h.events != nil {
		if err := h.events.PublishClientCreated(c.Request.Context(), out.Data); err != nil {
			h.log.Error("Failed to publish client.created for id %d: %v", out.Data.ID, err)
		}
	}

	h.log.Info("Created client with id: %d", out.Data.ID)
	c.JSON(http.StatusCreated, out.Data)
}

// UpdateClient обновляет существующего клиента
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req domain.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid update request: %v", err)
		h.metrics.IncOperation("update", service.StatusValidationFailed)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out := h.service.Update(c.Request.Context(), id, req)
	h.metrics.IncOperation("update", out.Status)

	if !out.Success {
		c.JSON(httpStatus(out.Status), gin.H{"error": out.Message})
		return
	}

	if h.events != nil {
		if err := h.events.PublishClientUpdated(c.Request.Context(), out.Data); err != nil {
			h.log.Error("Failed to publish client.updated for id %d: %v", id, err)
		}
	}

	c.JSON(http.StatusOK, out.Data)
}

// DeleteClient удаляет клиента
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	out := h.service.Delete(c.Request.Context(), id)
	h.metrics.IncOperation("delete", out.Status)

	if !out.Success {
		c.JSON(httpStatus(out.Status), gin.H{"error": out.Message})
		return
	}

	if h.events != nil {
		if err := h.events.PublishClientDeleted(c.Request.Context(), id); err != nil {
			h.log.Error("Failed to publish client.deleted for id %d: %v", id, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": out.Message})
}

func (h *ClientHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warn("Invalid client id: %s", c.Param("id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return 0, false
	}
	return id, true
}
