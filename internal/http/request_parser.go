package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"outgo/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// activityRequest is the wire shape for creating or updating an activity.
// Amount is an unsigned decimal string; Flow says which direction it moves.
type activityRequest struct {
	Date          string `json:"date"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Flow          string `json:"flow"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// toActivity converts and validates the request into a domain activity owned
// by userID.
func (req activityRequest) toActivity(userID int64) (core.Activity, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Activity{}, fmt.Errorf("date: %w", err)
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Activity{}, fmt.Errorf("amount: %w", err)
	}

	amount, err := core.FromMagnitude(cents, core.Flow(req.Flow))
	if errors.Is(err, core.ErrInvalidFlow) {
		return core.Activity{}, fmt.Errorf("flow: %w", err)
	}
	if err != nil {
		return core.Activity{}, fmt.Errorf("amount: %w", err)
	}

	a := core.Activity{
		Date:          date,
		Description:   sanitizeInput(req.Description),
		Amount:        amount,
		Category:      sanitizeInput(req.Category),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		UserID:        userID,
	}
	if err := a.Validate(); err != nil {
		return core.Activity{}, err
	}
	return a, nil
}
