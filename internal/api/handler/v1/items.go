package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/festpass/festpass-api/internal/api/handler/v1/response"
	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/service"
)

type CatalogService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	AddItem(ctx context.Context, item domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id uint) error
}

type ItemsHandler struct {
	svc       CatalogService
	uploadDir string
}

func NewItemsHandler(svc CatalogService, uploadDir string) *ItemsHandler {
	return &ItemsHandler{
		svc:       svc,
		uploadDir: uploadDir,
	}
}

// HandleListItems godoc
// @Summary      List all catalog items, oldest first
// @Tags         items
// @Produce      json
// @Success      200      {object}   []domain.Item
// @Failure      500      {object}   response.Err
// @Router       /items [get]
func (h *ItemsHandler) HandleListItems(ctx *gin.Context) {
	items, err := h.svc.ListItems(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListItems -> h.svc.ListItems -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleAddItem godoc
// @Summary      Add a catalog item, with an optional multipart image upload
// @Tags         items
// @Accept       mpfd
// @Produce      json
// @Param        name     formData   string true  "item name"
// @Param        price    formData   int    true  "item price"
// @Param        image    formData   file   false "item image"
// @Success      201      {object}   domain.Item
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items [post]
func (h *ItemsHandler) HandleAddItem(ctx *gin.Context) {
	name := ctx.PostForm("name")
	if name == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("name is required")))
		return
	}

	price, err := strconv.Atoi(ctx.PostForm("price"))
	if err != nil || price < 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("price must be a non-negative number")))
		return
	}

	item := domain.Item{
		Name:        name,
		Price:       price,
		Description: ctx.PostForm("description"),
	}

	if file, fileErr := ctx.FormFile("image"); fileErr == nil {
		filename := fmt.Sprintf("%d%v", time.Now().UnixNano(), filepath.Ext(file.Filename))
		if err := ctx.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
			err = fmt.Errorf("v1.HandleAddItem -> ctx.SaveUploadedFile -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		item.Image = "/uploads/" + filename
	}

	created, err := h.svc.AddItem(ctx.Request.Context(), item)
	if err != nil {
		err = fmt.Errorf("v1.HandleAddItem -> h.svc.AddItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleDeleteItem godoc
// @Summary      Delete a catalog item by id
// @Tags         items
// @Produce      json
// @Param        id       path       int true "item id"
// @Success      200      {object}   response.MessageResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/{id} [delete]
func (h *ItemsHandler) HandleDeleteItem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid item id")))
		return
	}

	if err := h.svc.DeleteItem(ctx.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("item", "id", ctx.Param("id")))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteItem -> h.svc.DeleteItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "Item deleted"})
}
