package shared

import (
	"errors"
	"regexp"
	"strings"
)

const maxEmailLength = 255

var (
	// ErrInvalidEmailFormat 邮箱格式错误
	ErrInvalidEmailFormat = errors.New("invalid email format")

	emailRegex = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,}$`)
)

// Email 值对象 - 不可变，按规范化后的值比较
// 存在的 Email 一定合法：只能通过 NewEmail/TryParseEmail 获得非零值
type Email struct {
	value string
}

// NewEmail 去除首尾空白并转小写后校验
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case normalized == "":
		return Email{}, invalidEmail("email is required")
	case len(normalized) > maxEmailLength:
		return Email{}, invalidEmail("email must not exceed 255 characters")
	case strings.Contains(normalized, ".."):
		return Email{}, invalidEmail("email must not contain consecutive dots")
	case !emailRegex.MatchString(normalized):
		return Email{}, invalidEmail("invalid email format: " + normalized)
	}

	return Email{value: normalized}, nil
}

// TryParseEmail 与 NewEmail 相同的校验，但不返回错误
func TryParseEmail(raw string) (Email, bool) {
	email, err := NewEmail(raw)
	if err != nil {
		return Email{}, false
	}
	return email, true
}

// MustEmail 仅用于测试与常量初始化
func MustEmail(raw string) Email {
	email, err := NewEmail(raw)
	if err != nil {
		panic(err)
	}
	return email
}

func invalidEmail(reason string) error {
	return &DomainError{
		Err:     errors.Join(ErrInvalidEmailFormat, ErrInvalidInput),
		Entity:  "email",
		Field:   "email",
		Message: reason,
		stack:   CaptureStack(4),
	}
}

func (e Email) Value() string  { return e.value }
func (e Email) String() string { return e.value }
func (e Email) IsZero() bool   { return e.value == "" }

// Equals 比较两个 Email 是否相等
func (e Email) Equals(other Email) bool { return e.value == other.value }
