package checkout

import (
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindNotFound        Kind = "NOT_FOUND"
	KindAlreadyOwned    Kind = "ALREADY_OWNED"
	KindConflict        Kind = "CONFLICT"
	KindInternal        Kind = "INTERNAL"
)

// Caller-facing messages.
const (
	MsgMissingFields   = "ข้อมูลไม่ครบถ้วน"
	MsgInvalidItemType = "ประเภทสินค้าไม่ถูกต้อง"
	MsgDuplicateLine   = "มีสินค้าซ้ำในคำสั่งซื้อ"
	MsgUserNotFound    = "ไม่พบผู้ใช้งาน"
	MsgItemNotFound    = "ไม่พบสินค้า %s"
	MsgAlreadyOwned    = "คุณได้ซื้อสินค้านี้แล้ว (%s)"
	MsgInProgress      = "มีคำสั่งซื้อของคุณกำลังดำเนินการอยู่ กรุณาลองใหม่อีกครั้ง"
	MsgInternal        = "เกิดข้อผิดพลาดในการสร้างคำสั่งซื้อ"

	MsgFreeEnrolled = "ลงทะเบียนฟรีสำเร็จ"
	MsgOrderCreated = "สร้างคำสั่งซื้อสำเร็จ"
)

// Error is the typed failure returned by Checkout. Message is safe to show
// to the caller; Err carries the internal detail.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidArgument, KindAlreadyOwned:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func invalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func alreadyOwned(itemID string, err error) *Error {
	return &Error{Kind: KindAlreadyOwned, Message: fmt.Sprintf(MsgAlreadyOwned, itemID), Err: err}
}

func conflict(err error) *Error {
	return &Error{Kind: KindConflict, Message: MsgInProgress, Err: err}
}

func internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}
