package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"physicsclass-be/internal/catalog"
	"physicsclass-be/internal/checkout"
	"physicsclass-be/internal/logger"
	"physicsclass-be/internal/mapper"
	"physicsclass-be/internal/shipping"
	"physicsclass-be/internal/utils"

	"go.uber.org/zap"
)

type createOrderRequest struct {
	UserID string `json:"userId"`
	Items  []struct {
		ItemType string `json:"itemType"`
		ItemID   string `json:"itemId"`
		Title    string `json:"title"`
		Quantity int    `json:"quantity"`
		// UnitPrice is accepted for compatibility; prices always come from the catalog.
		UnitPrice *float64 `json:"unitPrice"`
	} `json:"items"`
	CouponCode      string            `json:"couponCode"`
	ShippingAddress *shipping.Address `json:"shippingAddress"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "handler"),
		zap.String("method", "CreateOrder"),
	)

	var body createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Warn("invalid request body", zap.Error(err))
		utils.WriteJSONError(w, msgBadJSON, http.StatusBadRequest)
		return
	}

	userID, status, msg := resolveUser(r, body.UserID)
	if status != 0 {
		utils.WriteJSONError(w, msg, status)
		return
	}

	req := checkout.Request{
		UserID:          userID,
		CouponCode:      body.CouponCode,
		ShippingAddress: body.ShippingAddress,
		Lines:           make([]checkout.Line, 0, len(body.Items)),
	}
	for _, it := range body.Items {
		req.Lines = append(req.Lines, checkout.Line{
			ItemType: catalog.ItemType(it.ItemType),
			ItemID:   it.ItemID,
			Title:    it.Title,
			Quantity: it.Quantity,
		})
	}

	res, err := h.checkout.Checkout(r.Context(), req)
	if err != nil {
		var ce *checkout.Error
		if errors.As(err, &ce) {
			utils.WriteJSONError(w, ce.Message, ce.HTTPStatus())
			return
		}
		log.Error("unexpected checkout error", zap.Error(err))
		utils.WriteJSONError(w, checkout.MsgInternal, http.StatusInternalServerError)
		return
	}

	writeOK(w, res.Message, mapper.MapCheckoutResult(res))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, status, msg := resolveUser(r, r.URL.Query().Get("userId"))
	if status != 0 {
		utils.WriteJSONError(w, msg, status)
		return
	}
	if userID == "" {
		utils.WriteJSONError(w, msgUserRequired, http.StatusBadRequest)
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("failed to list orders", zap.String("layer", "handler"), zap.Error(err))
		utils.WriteJSONError(w, msgListOrders, http.StatusInternalServerError)
		return
	}

	writeOK(w, "", mapper.MapOrders(orders))
}

func (h *Handler) MyCourses(w http.ResponseWriter, r *http.Request) {
	userID, status, msg := resolveUser(r, r.URL.Query().Get("userId"))
	if status != 0 {
		utils.WriteJSONError(w, msg, status)
		return
	}
	if userID == "" {
		utils.WriteJSONError(w, msgUserRequired, http.StatusBadRequest)
		return
	}

	list, err := h.enrollments.ListByUser(r.Context(), userID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("failed to list enrollments", zap.String("layer", "handler"), zap.Error(err))
		utils.WriteJSONError(w, msgListCourses, http.StatusInternalServerError)
		return
	}

	writeOK(w, "", mapper.MapEnrollments(list))
}
