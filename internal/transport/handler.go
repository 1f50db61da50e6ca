package transport

import (
	"context"
	"net/http"

	"physicsclass-be/internal/cart"
	"physicsclass-be/internal/checkout"
	"physicsclass-be/internal/enrollment"
	"physicsclass-be/internal/metrics"
	"physicsclass-be/internal/order"
	"physicsclass-be/internal/utils"
)

const (
	msgBadJSON       = "รูปแบบข้อมูลไม่ถูกต้อง"
	msgUserRequired  = "กรุณาระบุ userId"
	msgForbidden     = "ไม่มีสิทธิ์ทำรายการนี้"
	msgListOrders    = "เกิดข้อผิดพลาดในการดึงข้อมูลคำสั่งซื้อ"
	msgListCourses   = "เกิดข้อผิดพลาดในการดึงข้อมูลคอร์สเรียน"
	msgCartFailed    = "เกิดข้อผิดพลาดในการจัดการตะกร้าสินค้า"
	msgCartAdded     = "เพิ่มสินค้าลงตะกร้าแล้ว"
	msgCartRemoved   = "ลบสินค้าออกจากตะกร้าแล้ว"
	msgCartDuplicate = "สินค้านี้อยู่ในตะกร้าแล้ว"
	msgCartNotFound  = "ไม่พบสินค้าในตะกร้า"
)

type OrderLister interface {
	ListByUser(ctx context.Context, userID string) ([]*order.Order, error)
}

type EnrollmentLister interface {
	ListByUser(ctx context.Context, userID string) ([]*enrollment.Enrollment, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	checkout    checkout.Service
	orders      OrderLister
	enrollments EnrollmentLister
	cart        cart.Service
	metrics     *metrics.Checkout
	db          Pinger
}

func NewHandler(
	checkoutSvc checkout.Service,
	orders OrderLister,
	enrollments EnrollmentLister,
	cartSvc cart.Service,
	m *metrics.Checkout,
	db Pinger,
) *Handler {
	return &Handler{
		checkout:    checkoutSvc,
		orders:      orders,
		enrollments: enrollments,
		cart:        cartSvc,
		metrics:     m,
		db:          db,
	}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/my-courses", h.MyCourses)

	mux.HandleFunc("POST /api/cart", h.AddToCart)
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("DELETE /api/cart", h.RemoveFromCart)

	mux.HandleFunc("GET /metrics", h.Metrics)
	mux.HandleFunc("GET /healthz", h.Health)

	return mux
}

// resolveUser picks the acting user. Trusted services may act for anyone,
// an authenticated caller only for itself, and anonymous callers must name
// the user explicitly.
func resolveUser(r *http.Request, claimed string) (string, int, string) {
	tokenUser, authed := utils.GetUserIDFromContext(r.Context())
	switch {
	case utils.IsInternalRequest(r.Context()) && claimed != "":
		return claimed, 0, ""
	case authed && claimed == "":
		return tokenUser, 0, ""
	case authed && claimed != tokenUser:
		return "", http.StatusForbidden, msgForbidden
	default:
		return claimed, 0, ""
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeOK(w http.ResponseWriter, message string, data any) {
	utils.WriteJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}
