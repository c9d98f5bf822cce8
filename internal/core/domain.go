package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Inflow  Flow = "Inflow"
	Outflow Flow = "Outflow"
)

type (
	// Flow is the direction label of an activity. It is always derived from
	// the sign of the amount, never stored on its own.
	Flow string

	// Date is a calendar date at day granularity, normalized to midnight UTC.
	Date struct {
		time.Time
	}

	// Money is a signed amount in cents. Negative cents are outflows,
	// positive cents are inflows.
	Money struct {
		Cents int64
	}

	Activity struct {
		ID            int64
		Date          Date
		Description   string
		Amount        Money
		Category      string
		PaymentMethod string
		UserID        int64
	}

	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
	}

	Category struct {
		ID   int64
		Name string
	}

	// PaymentMethod is owned by a single user; the default "Cash" method is
	// seeded at signup.
	PaymentMethod struct {
		ID     int64
		Name   string
		UserID int64
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidFlow        = errors.New("invalid flow direction")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyPaymentMethod = errors.New("empty payment method")
)

// DateLayout is the only accepted wire format for dates.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO YYYY-MM-DD string. Anything else is rejected so
// that range filters and period summaries always compare the same canonical
// value.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate builds a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary timestamp to day granularity.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Flow derives the direction label from the amount sign. Zero never occurs
// on a valid activity.
func (m Money) Flow() Flow {
	if m.Cents < 0 {
		return Outflow
	}
	return Inflow
}

// Magnitude returns the unsigned cents, for display and form round-trips.
func (m Money) Magnitude() int64 {
	if m.Cents < 0 {
		return -m.Cents
	}
	return m.Cents
}

func (m Money) Validate() error {
	if m.Cents == 0 {
		return ErrInvalidAmount
	}
	return nil
}

// FromMagnitude applies a flow direction to an unsigned amount. This is the
// only place where a sign is assigned, which keeps amount and flow from ever
// disagreeing.
func FromMagnitude(cents int64, f Flow) (Money, error) {
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	switch f {
	case Inflow:
		return Money{Cents: cents}, nil
	case Outflow:
		return Money{Cents: -cents}, nil
	default:
		return Money{}, ErrInvalidFlow
	}
}

func (a Activity) Validate() error {
	if err := a.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(a.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(a.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := a.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(a.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(a.PaymentMethod) == "" {
		return ErrEmptyPaymentMethod
	}
	return nil
}
