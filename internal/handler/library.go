package handler

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/azure"
	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/pkg/model"
)

// LibraryHandler implements the custom product library and stock endpoints.
// Product photos are stored in blob storage when it is configured; otherwise
// the photo stays inline in the document.
type LibraryHandler struct {
	service *service.TrackerService
	blob    azure.BlobStorage
	logger  *zap.Logger
}

// NewLibraryHandler creates a new LibraryHandler. blob may be nil.
func NewLibraryHandler(service *service.TrackerService, blob azure.BlobStorage, logger *zap.Logger) *LibraryHandler {
	return &LibraryHandler{
		service: service,
		blob:    blob,
		logger:  logger,
	}
}

// ListProducts returns the whole product library
func (h *LibraryHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Profile().CustomProducts)
}

// AddProductRequest declares a new catalogued product
type AddProductRequest struct {
	Name               string      `json:"name" binding:"required"`
	PhotoBase64        string      `json:"photoBase64"`
	ServingDescription string      `json:"servingDescription"`
	Calories           model.Macro `json:"calories"`
	Protein            model.Macro `json:"protein"`
	Carbs              model.Macro `json:"carbs"`
	Fat                model.Macro `json:"fat"`
}

// AddProduct adds a product to the library
func (h *LibraryHandler) AddProduct(c *gin.Context) {
	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	product := model.CustomProduct{
		Name:               req.Name,
		ServingDescription: req.ServingDescription,
		Calories:           req.Calories,
		Protein:            req.Protein,
		Carbs:              req.Carbs,
		Fat:                req.Fat,
	}

	if req.PhotoBase64 != "" {
		photo, err := h.storePhoto(c, req.PhotoBase64)
		if err != nil {
			h.logger.Error("failed to store product photo", zap.Error(err))
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid product photo",
				Details: stringPtr(err.Error()),
			})
			return
		}
		product.Photo = photo
	}

	stored, err := h.service.AddProduct(c.Request.Context(), product)
	if err != nil {
		h.logger.Error("failed to add product",
			zap.Error(err),
			zap.String("name", req.Name),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stored)
}

// RemoveProduct deletes a product from the library. Removing an unknown id
// succeeds; logged meals that used the product keep their copied values.
func (h *LibraryHandler) RemoveProduct(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.RemoveProduct(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to remove product",
			zap.Error(err),
			zap.String("product_id", id),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to remove product",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, h.service.Profile().CustomProducts)
}

// GetProductPhoto serves a product photo previously stored in blob storage
func (h *LibraryHandler) GetProductPhoto(c *gin.Context) {
	if h.blob == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "FEATURE_UNAVAILABLE",
			Message: "Photo storage is not configured",
		})
		return
	}

	blobName := c.Param("name")

	data, err := h.blob.DownloadPhoto(c.Request.Context(), blobName)
	if err != nil {
		h.logger.Error("failed to download product photo",
			zap.Error(err),
			zap.String("blob_name", blobName),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Photo not found",
		})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

// ListStock returns the stock-on-hand list
func (h *LibraryHandler) ListStock(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Profile().ProductsInStock)
}

// StockItemRequest names one basic ingredient
type StockItemRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddStockItem adds an ingredient to the stock list
func (h *LibraryHandler) AddStockItem(c *gin.Context) {
	var req StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.AddStockItem(c.Request.Context(), req.Name); err != nil {
		h.logger.Error("failed to add stock item",
			zap.Error(err),
			zap.String("name", req.Name),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to add stock item",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, h.service.Profile().ProductsInStock)
}

// RemoveStockItem removes an ingredient from the stock list, idempotently
func (h *LibraryHandler) RemoveStockItem(c *gin.Context) {
	var req StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.RemoveStockItem(c.Request.Context(), req.Name); err != nil {
		h.logger.Error("failed to remove stock item",
			zap.Error(err),
			zap.String("name", req.Name),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to remove stock item",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, h.service.Profile().ProductsInStock)
}

// storePhoto uploads a decoded photo to blob storage when configured, else
// keeps it inline. Returns the value to store in the product's Photo field.
func (h *LibraryHandler) storePhoto(c *gin.Context, photoBase64 string) (string, error) {
	if h.blob == nil {
		return photoBase64, nil
	}

	data, err := base64.StdEncoding.DecodeString(photoBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode photo: %w", err)
	}

	filename := fmt.Sprintf("product-%s.jpg", uuid.New().String())
	blobName, err := h.blob.UploadPhoto(c.Request.Context(), filename, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	return blobName, nil
}
