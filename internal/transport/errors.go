package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means no credential was stored or the server rejected it.
	// The stored identity has been cleared and the login hook invoked.
	ErrUnauthorized = errors.New("Unauthorized")

	// ErrTransport hides network failures and non-2xx statuses behind one
	// localized message; the cause is logged.
	ErrTransport = errors.New("การเชื่อมต่อกับเซิร์ฟเวอร์ล้มเหลว")

	// ErrLoginUnreachable is ErrTransport for the login screen.
	ErrLoginUnreachable = errors.New("ไม่สามารถเชื่อมต่อเซิร์ฟเวอร์ได้")
)

const (
	defaultLoginFailure = "เกิดข้อผิดพลาดในการล็อกอิน"
	defaultAppFailure   = "เกิดข้อผิดพลาดจากเซิร์ฟเวอร์"
)

// ApplicationError is a response with status other than "success". Message is
// the server's text, shown verbatim.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// ContractMismatchError is a success response lacking the expected key.
type ContractMismatchError struct {
	Key string
}

func (e *ContractMismatchError) Error() string {
	return fmt.Sprintf("ไม่พบข้อมูล '%s' ในผลลัพธ์จากเซิร์ฟเวอร์", e.Key)
}
