package stripe

import (
	"context"
	"net/url"
)

// Customer представляет клиента на стороне Stripe
type Customer struct {
	ID          string   `json:"id"`
	Object      string   `json:"object"`
	Email       string   `json:"email"`
	Description string   `json:"description"`
	DefaultCard string   `json:"default_card"`
	Cards       CardList `json:"cards"`
	Created     int64    `json:"created"`
}

// CardList список карт клиента
type CardList struct {
	Data []Card `json:"data"`
}

// Card представляет карту на стороне Stripe
type Card struct {
	ID       string `json:"id"`
	Object   string `json:"object"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	Customer string `json:"customer"`
}

// CardByID возвращает карту клиента по идентификатору, nil если не найдена
func (c *Customer) CardByID(cardID string) *Card {
	for i := range c.Cards.Data {
		if c.Cards.Data[i].ID == cardID {
			return &c.Cards.Data[i]
		}
	}
	return nil
}

// CreateCustomer создает нового клиента в Stripe из одноразового токена карты
func (c *Client) CreateCustomer(ctx context.Context, token, email, description string) (*Customer, error) {
	c.log.Debug("Creating Stripe customer for %s", email)

	formData := url.Values{}
	formData.Add("card", token)
	if email != "" {
		formData.Add("email", email)
	}
	if description != "" {
		formData.Add("description", description)
	}

	var customer Customer
	if err := c.postForm(ctx, "/customers", formData, &customer); err != nil {
		return nil, err
	}

	c.log.Info("Successfully created Stripe customer with ID: %s", customer.ID)
	return &customer, nil
}

// GetCustomer получает клиента из Stripe по ID
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	c.log.Debug("Getting Stripe customer with ID: %s", customerID)

	var customer Customer
	if err := c.getJSON(ctx, "/customers/"+customerID, &customer); err != nil {
		return nil, err
	}

	return &customer, nil
}

// UpdateCustomer обновляет клиента в Stripe (например, карту по умолчанию)
func (c *Client) UpdateCustomer(ctx context.Context, customerID string, changes url.Values) (*Customer, error) {
	c.log.Debug("Updating Stripe customer with ID: %s", customerID)

	var customer Customer
	if err := c.postForm(ctx, "/customers/"+customerID, changes, &customer); err != nil {
		return nil, err
	}

	c.log.Info("Successfully updated Stripe customer: %s", customer.ID)
	return &customer, nil
}

// AddCard привязывает новую карту к существующему клиенту Stripe
func (c *Client) AddCard(ctx context.Context, customerID, token string) (*Card, error) {
	c.log.Debug("Adding card to Stripe customer: %s", customerID)

	formData := url.Values{}
	formData.Add("card", token)

	var card Card
	if err := c.postForm(ctx, "/customers/"+customerID+"/cards", formData, &card); err != nil {
		return nil, err
	}

	c.log.Info("Successfully added card %s to Stripe customer %s", card.ID, customerID)
	return &card, nil
}
