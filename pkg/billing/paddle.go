package billing

import (
	"context"
	"fmt"
	"strings"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

const paddleName = "paddle"

// PaddleProvider implements Provider on Paddle Billing. A checkout session
// maps to a draft transaction; its hosted checkout URL is returned.
type PaddleProvider struct {
	client *paddle.SDK
	config PaddleConfig
}

func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.UIDCustomField == "" {
		cfg.UIDCustomField = "user_id"
	}

	var (
		sdk *paddle.SDK
		err error
	)
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		sdk, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		sdk, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: paddle environment %q", ErrInvalidConfig, cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	return &PaddleProvider{client: sdk, config: cfg}, nil
}

// CreateCustomer requires an email: Paddle identifies customers by it.
func (p *PaddleProvider) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	if req.Email == "" {
		return nil, ErrMissingEmail
	}

	creq := &paddle.CreateCustomerRequest{Email: req.Email}
	if req.UserID != "" {
		creq.CustomData = paddle.CustomData{p.config.UIDCustomField: req.UserID}
	}

	c, err := p.client.CustomersClient.CreateCustomer(ctx, creq)
	if err != nil {
		return nil, &ProviderError{Provider: paddleName, Op: "create customer", Err: err}
	}
	return &Customer{ID: c.ID}, nil
}

// CreateCheckoutSession creates a transaction for one unit of the catalog
// price. Paddle has no per-transaction cancel URL, so both redirect targets
// travel in custom data for the checkout page to pick up.
func (p *PaddleProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})

	treq := &paddle.CreateTransactionRequest{
		Items:      []paddle.CreateTransactionItems{*item},
		CustomerID: paddle.PtrTo(req.CustomerID),
		CustomData: paddle.CustomData{
			"success_url": req.SuccessURL,
			"cancel_url":  req.CancelURL,
		},
	}

	tx, err := p.client.TransactionsClient.CreateTransaction(ctx, treq)
	if err != nil {
		return nil, &ProviderError{Provider: paddleName, Op: "create transaction", Err: err}
	}
	if tx.Checkout == nil || tx.Checkout.URL == nil || *tx.Checkout.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutSession{ID: tx.ID, URL: *tx.Checkout.URL}, nil
}
