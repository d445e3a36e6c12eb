package stripe

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
)

// Charge представляет списание на стороне Stripe
type Charge struct {
	ID       string `json:"id"`
	Object   string `json:"object"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Captured bool   `json:"captured"`
	Paid     bool   `json:"paid"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	Created  int64  `json:"created"`
}

// CreateCharge создает списание в Stripe.
// Запрос обязан нести ровно один способ списания, проверка выполняется
// до обращения к процессору.
func (c *Client) CreateCharge(ctx context.Context, req domain.ChargeRequest) (*Charge, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.log.Debug("Creating Stripe charge: %d %s", req.Amount, req.Currency)

	formData := url.Values{}
	formData.Add("amount", fmt.Sprintf("%d", req.Amount))
	formData.Add("currency", req.Currency)
	if req.Description != "" {
		formData.Add("description", req.Description)
	}
	if !req.Capture {
		formData.Add("capture", "false")
	}

	if req.Token != "" {
		formData.Add("card", req.Token)
	} else {
		formData.Add("customer", req.CustomerID)
		formData.Add("card", req.CardID)
	}

	var charge Charge
	if err := c.postForm(ctx, "/charges", formData, &charge); err != nil {
		return nil, err
	}

	c.log.Info("Successfully created Stripe charge with ID: %s, captured: %t", charge.ID, charge.Captured)
	return &charge, nil
}

// CaptureCharge выполняет захват ранее авторизованного списания.
// amount > 0 переопределяет сумму захвата.
func (c *Client) CaptureCharge(ctx context.Context, chargeID string, amount int64) (*Charge, error) {
	c.log.Debug("Capturing Stripe charge: %s", chargeID)

	formData := url.Values{}
	if amount > 0 {
		formData.Add("amount", fmt.Sprintf("%d", amount))
	}

	var charge Charge
	if err := c.postForm(ctx, "/charges/"+chargeID+"/capture", formData, &charge); err != nil {
		return nil, err
	}

	c.log.Info("Successfully captured Stripe charge: %s", charge.ID)
	return &charge, nil
}
