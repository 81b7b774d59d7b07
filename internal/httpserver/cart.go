package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/grocery_cart/internal/logging"
	"github.com/Skotchmaster/grocery_cart/internal/service"
	"github.com/Skotchmaster/grocery_cart/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func pathUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(v), nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	userID, err := pathUint(c, "user_id")
	if err != nil {
		l.Warn("get_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: err.Error()})
	}

	lines, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.MessageResponse{Message: "internal server error"})
	}

	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	userID, err := pathUint(c, "user_id")
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: err.Error()})
	}
	productID, err := pathUint(c, "product_id")
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: err.Error()})
	}

	var req transport.QuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "invalid body"})
	}
	quantity, ok := req.Resolve()
	if !ok {
		l.Warn("add_to_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "quantity must be a positive integer"})
	}

	if _, err := h.Svc.AddToCart(ctx, userID, productID, quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			l.Warn("add_to_cart_product_not_found", "status", 404, "product_id", productID)
			return c.JSON(http.StatusNotFound, transport.MessageResponse{Message: "Product not found"})
		case errors.Is(err, service.ErrInsufficientQuantity):
			l.Warn("add_to_cart_insufficient", "status", 400, "product_id", productID, "quantity", quantity)
			return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Product quantity is insufficient"})
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_to_cart_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "quantity must be a positive integer"})
		default:
			l.Error("add_to_cart_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.MessageResponse{Message: "internal server error"})
		}
	}

	l.Info("product added to cart", "product_id", productID, "quantity", quantity)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Product added to cart"})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart")

	userID, err := pathUint(c, "user_id")
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: err.Error()})
	}
	productID, err := pathUint(c, "product_id")
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: err.Error()})
	}

	var req transport.QuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "invalid body"})
	}
	quantity, ok := req.Resolve()
	if !ok {
		l.Warn("remove_from_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "quantity must be a positive integer"})
	}

	result, err := h.Svc.RemoveFromCart(ctx, userID, productID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("remove_from_cart_not_found", "status", 404, "product_id", productID)
			return c.JSON(http.StatusNotFound, transport.MessageResponse{Message: "Product not found in cart"})
		case errors.Is(err, service.ErrValidation):
			l.Warn("remove_from_cart_error", "status", 400, "error", err)
			return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "quantity must be a positive integer"})
		default:
			l.Error("remove_from_cart_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.MessageResponse{Message: "internal server error"})
		}
	}

	l.Info("product removed from cart", "product_id", productID, "deleted", result.Deleted)
	return c.JSON(http.StatusOK, transport.RemoveResponse{
		Message:  "Product removed from cart",
		Deleted:  result.Deleted,
		Quantity: result.Remaining,
	})
}
