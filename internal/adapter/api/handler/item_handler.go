package handler

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/usecase"
	"ecosprout/pkg/errors"
	"ecosprout/pkg/response"
	"ecosprout/pkg/utils"
)

type ItemHandler struct {
	itemUseCase *usecase.ItemUseCase
}

func NewItemHandler(itemUseCase *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
	}
}

// ListItems serves the public catalogue. Malformed numeric filters are ignored.
func (h *ItemHandler) ListItems(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, usecase.DefaultListingLimit)

	filter := entity.ItemFilter{
		Category:  c.QueryParam("category"),
		Condition: c.QueryParam("condition"),
		MinPrice:  utils.ParseOptionalFloat(c.QueryParam("minPrice")),
		MaxPrice:  utils.ParseOptionalFloat(c.QueryParam("maxPrice")),
		City:      c.QueryParam("city"),
		Search:    c.QueryParam("search"),
		Sort:      entity.ParseSort(c.QueryParam("sort")),
		Limit:     pagination.PageSize,
		Offset:    pagination.Offset,
	}

	page, err := h.itemUseCase.ListItems(c.Request().Context(), filter)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, page.Items, len(page.Items), page.Total, pagination.Page, pagination.PageSize)
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.itemUseCase.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, item)
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req usecase.CreateItemInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.itemUseCase.CreateItem(c.Request().Context(), currentActor(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, item)
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	var req usecase.UpdateItemInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.itemUseCase.UpdateItem(c.Request().Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, item)
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	if err := h.itemUseCase.DeleteItem(c.Request().Context(), currentActor(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Item deleted successfully", nil)
}

func (h *ItemHandler) ToggleFavorite(c echo.Context) error {
	added, err := h.itemUseCase.ToggleFavorite(c.Request().Context(), currentActor(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	message := "Removed from favorites"
	if added {
		message = "Added to favorites"
	}
	return response.SuccessMessage(c, message, map[string]bool{"isFavorited": added})
}

func (h *ItemHandler) MyItems(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, usecase.DefaultMyItemsLimit)

	page, err := h.itemUseCase.MyItems(
		c.Request().Context(),
		currentActor(c),
		c.QueryParam("status"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, page.Items, len(page.Items), page.Total, pagination.Page, pagination.PageSize)
}

func (h *ItemHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.Validation("image is required"))
	}
	if file.Size > usecase.MaxImageSize {
		return response.Error(c, errors.Validation("image must be 5 MB or smaller"))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read image", err))
	}
	defer src.Close()

	image, err := h.itemUseCase.UploadImage(c.Request().Context(), currentActor(c), c.Param("id"), src)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, image)
}

func (h *ItemHandler) PromoteItem(c echo.Context) error {
	var req usecase.PromoteItemInput
	if err := bindStrict(c, &req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.itemUseCase.PromoteItem(c.Request().Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, item)
}

func (h *ItemHandler) BackfillEcoScores(c echo.Context) error {
	updated, err := h.itemUseCase.BackfillEcoScores(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.SuccessMessage(c, "Eco scores backfilled", map[string]int{"updated": updated})
}
