package handler

import (
	"errors"
	"net/http"
	"time"

	"agrimarket/internal/config"
	"agrimarket/internal/domain/model"
	"agrimarket/internal/middleware"
	repo "agrimarket/internal/repository"
	"agrimarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラー種別をHTTPコードへ写す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrConflict),
		errors.Is(err, usecase.ErrDuplicateHold),
		errors.Is(err, usecase.ErrAlreadyFinalized):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInsufficientStock),
		errors.Is(err, usecase.ErrCropUnavailable),
		errors.Is(err, usecase.ErrPaymentDeclined):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	return id, ok && id != ""
}

func getRoleFromContext(c echo.Context) model.Role {
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return model.Role(role)
}

// /crops の公開＋farmer向けAPI
type CropHandler struct {
	uc *usecase.CropUsecase
}

// DI
func NewCropHandler(uc *usecase.CropUsecase) *CropHandler {
	return &CropHandler{uc: uc}
}

func (h *CropHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/crops", h.list)
	e.GET("/crops/:id", h.detail)

	//推奨はログイン済みなら誰でも
	e.GET("/crops/suggestions/ai", h.suggestions, middleware.AuthJWT(cfg))

	g := e.Group("/crops")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.RequireRole(model.RoleFarmer))

	g.POST("", h.create, middleware.RequireVerified())
	g.GET("/mine", h.listMine)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

type CropCreateRequest struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
	HarvestDate *time.Time      `json:"harvest_date"`
}

type CropUpdateRequest struct {
	Price       *decimal.Decimal `json:"price"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Status      *string          `json:"status"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"`
}

func (h *CropHandler) create(c echo.Context) error {
	farmerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CropCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), farmerID, usecase.CreateCropInput{
		Name:        req.Name,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		HarvestDate: req.HarvestDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CropHandler) list(c echo.Context) error {
	q := repo.CropListQuery{
		Type:  c.QueryParam("type"),
		Sort:  c.QueryParam("sort_by"),
		Order: c.QueryParam("order"),
	}
	if v := c.QueryParam("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
		}
		q.MinPrice = &d
	}
	if v := c.QueryParam("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
		}
		q.MaxPrice = &d
	}

	out, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropHandler) listMine(c echo.Context) error {
	farmerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMine(c.Request().Context(), farmerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropHandler) suggestions(c echo.Context) error {
	out, err := h.uc.Suggest(c.Request().Context(), c.QueryParam("location"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropHandler) update(c echo.Context) error {
	farmerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CropUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), farmerID, c.Param("id"), usecase.UpdateCropInput{
		Price:       req.Price,
		Quantity:    req.Quantity,
		Status:      req.Status,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropHandler) delete(c echo.Context) error {
	farmerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Delete(c.Request().Context(), farmerID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "crop listing deleted"})
}
