package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Fixed category identifiers. A transaction may also carry an arbitrary
// user-supplied category string when the user picked "other" with a custom
// label.
const (
	CategoryFood          = "food"
	CategoryTransport     = "transport"
	CategoryShopping      = "shopping"
	CategoryBills         = "bills"
	CategoryEntertainment = "entertainment"
	CategorySalary        = "salary"
	CategoryOther         = "other"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income or expense event.
	Transaction struct {
		ID       string          `json:"id"`
		Type     TransactionType `json:"type"`
		Amount   Money           `json:"amount"`
		Category string          `json:"category"`
		Date     time.Time       `json:"date"`
		Remark   string          `json:"remark"`
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
	ErrRemarkTooLong = errors.New("remark too long (max 200 characters)")
)

// FixedCategories lists the built-in categories in form display order.
func FixedCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryBills,
		CategoryEntertainment,
		CategorySalary,
		CategoryOther,
	}
}

// IsFixedCategory reports whether name is one of the built-in identifiers.
func IsFixedCategory(name string) bool {
	for _, c := range FixedCategories() {
		if c == name {
			return true
		}
	}
	return false
}

// DefaultCategory returns the form default for a transaction type.
func DefaultCategory(t TransactionType) string {
	if t == Income {
		return CategorySalary
	}
	return CategoryFood
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(tx.Remark) > 200 {
		return ErrRemarkTooLong
	}
	return nil
}
