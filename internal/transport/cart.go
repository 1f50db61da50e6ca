package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"physicsclass-be/internal/cart"
	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/logger"
	"physicsclass-be/internal/mapper"
	"physicsclass-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartRequest struct {
	UserID    string   `json:"userId"`
	ItemType  string   `json:"itemType"`
	ItemID    string   `json:"itemId"`
	Title     string   `json:"title"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice"`
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var body cartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, msgBadJSON, http.StatusBadRequest)
		return
	}

	userID, status, msg := resolveUser(r, body.UserID)
	if status != 0 {
		utils.WriteJSONError(w, msg, status)
		return
	}

	params := cart.AddItemParams{
		UserID:   userID,
		ItemType: catalog.ItemType(body.ItemType),
		ItemID:   body.ItemID,
		Title:    body.Title,
		Quantity: body.Quantity,
	}
	if body.UnitPrice != nil {
		params.UnitPrice = decimal.NewNullDecimal(decimal.NewFromFloat(*body.UnitPrice))
	}

	item, err := h.cart.AddItem(r.Context(), params)
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	writeOK(w, msgCartAdded, mapper.MapCartItem(item))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, status, msg := resolveUser(r, r.URL.Query().Get("userId"))
	if status != 0 {
		utils.WriteJSONError(w, msg, status)
		return
	}
	if userID == "" {
		utils.WriteJSONError(w, msgUserRequired, http.StatusBadRequest)
		return
	}

	items, err := h.cart.GetItems(r.Context(), userID)
	if errors.Is(err, cart.ErrCartNotFound) {
		writeOK(w, "", []mapper.CartItem{})
		return
	}
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	writeOK(w, "", mapper.MapCartItems(items))
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var body cartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteJSONError(w, msgBadJSON, http.StatusBadRequest)
		return
	}

	userID, status, msg := resolveUser(r, body.UserID)
	if status != 0 {
		utils.WriteJSONError(w, msg, status)
		return
	}

	err := h.cart.RemoveItem(r.Context(), cart.RemoveItemParams{
		UserID: userID,
		Key:    cart.Key{ItemType: catalog.ItemType(body.ItemType), ItemID: body.ItemID},
	})
	if err != nil {
		writeCartError(w, r, err)
		return
	}

	writeOK(w, msgCartRemoved, nil)
}

func writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrMissingFields):
		utils.WriteJSONError(w, msgUserRequired, http.StatusBadRequest)
	case errors.Is(err, cart.ErrInvalidItemType), errors.Is(err, cart.ErrInvalidQuantity):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, cart.ErrCartItemAlreadyExist):
		utils.WriteJSONError(w, msgCartDuplicate, http.StatusConflict)
	case errors.Is(err, cart.ErrCartItemNotFound), errors.Is(err, cart.ErrCartNotFound):
		utils.WriteJSONError(w, msgCartNotFound, http.StatusNotFound)
	default:
		logger.FromCtx(r.Context()).Error("cart operation failed", zap.String("layer", "handler"), zap.Error(err))
		utils.WriteJSONError(w, msgCartFailed, http.StatusInternalServerError)
	}
}
