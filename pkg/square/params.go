package square

import (
	"strings"

	sq "github.com/square/square-go-sdk"
)

// SubscriptionCreateParams carries everything needed to start a Square
// subscription for a plan variation.
type SubscriptionCreateParams struct {
	LocationID            string
	PlanVariationID       string
	CustomerID            string
	CardID                string
	IdempotencyKey        string
	StartDate             string
	CanceledDate          string
	TaxPercentage         string
	PriceOverrideAmount   int64
	PriceOverrideCurrency string
}

func (p SubscriptionCreateParams) toSquareRequest(idempotencyKey string) *sq.CreateSubscriptionRequest {
	req := &sq.CreateSubscriptionRequest{
		IdempotencyKey: ptrString(idempotencyKey),
		LocationID:     p.LocationID,
		CustomerID:     p.CustomerID,
	}
	req.PlanVariationID = trimPtr(p.PlanVariationID)
	req.CardID = trimPtr(p.CardID)
	req.StartDate = trimPtr(p.StartDate)
	req.CanceledDate = trimPtr(p.CanceledDate)
	req.TaxPercentage = trimPtr(p.TaxPercentage)
	if p.PriceOverrideAmount > 0 {
		req.PriceOverrideMoney = moneyPtr(p.PriceOverrideAmount, p.PriceOverrideCurrency)
	}
	return req
}

// CustomerCreateParams describes a Square customer record to create.
type CustomerCreateParams struct {
	Email          string
	PhoneNumber    string
	GivenName      string
	FamilyName     string
	CompanyName    string
	ReferenceID    string
	Address        *sq.Address
	Note           string
	IdempotencyKey string
}

func (p CustomerCreateParams) toSquareRequest(idempotencyKey string) *sq.CreateCustomerRequest {
	req := &sq.CreateCustomerRequest{
		IdempotencyKey: ptrString(idempotencyKey),
	}
	req.EmailAddress = trimPtr(p.Email)
	if phone := trimPtr(p.PhoneNumber); phone != nil {
		req.PhoneNumber = ptrString("+1" + *phone)
	}
	req.GivenName = trimPtr(p.GivenName)
	req.FamilyName = trimPtr(p.FamilyName)
	req.CompanyName = trimPtr(p.CompanyName)
	req.ReferenceID = trimPtr(p.ReferenceID)
	req.Note = trimPtr(p.Note)
	if p.Address != nil {
		req.Address = p.Address
	}
	return req
}

// CardCreateParams describes a card to vault against a customer.
type CardCreateParams struct {
	CustomerID        string
	SourceID          string
	CardholderName    string
	BillingAddress    *sq.Address
	ReferenceID       string
	VerificationToken string
	IdempotencyKey    string
}

func (p CardCreateParams) toSquareRequest(idempotencyKey string) *sq.CreateCardRequest {
	req := &sq.CreateCardRequest{
		IdempotencyKey: idempotencyKey,
		SourceID:       p.SourceID,
	}
	req.VerificationToken = trimPtr(p.VerificationToken)

	card := &sq.Card{
		CustomerID:     trimPtr(p.CustomerID),
		CardholderName: trimPtr(p.CardholderName),
		ReferenceID:    trimPtr(p.ReferenceID),
		BillingAddress: p.BillingAddress,
	}
	if card.CustomerID != nil || card.CardholderName != nil || card.BillingAddress != nil || card.ReferenceID != nil {
		req.Card = card
	}
	return req
}

// PaymentCreateParams describes a one-off Square payment.
type PaymentCreateParams struct {
	AmountCents    int64
	Currency       string
	LocationID     string
	CustomerID     string
	SourceID       string
	IdempotencyKey string
	Note           string
	ReferenceID    string
}

func (p PaymentCreateParams) toSquareRequest(idempotencyKey string) *sq.CreatePaymentRequest {
	req := &sq.CreatePaymentRequest{
		IdempotencyKey: idempotencyKey,
		LocationID:     ptrString(p.LocationID),
		CustomerID:     ptrString(p.CustomerID),
		SourceID:       p.SourceID,
	}
	if p.AmountCents > 0 {
		req.AmountMoney = moneyPtr(p.AmountCents, p.Currency)
	}
	req.Note = trimPtr(p.Note)
	req.ReferenceID = trimPtr(p.ReferenceID)
	return req
}

// trimPtr trims the value and returns nil when nothing remains.
func trimPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func ptrString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func int64Ptr(value int64) *int64 {
	return &value
}

func currencyPtr(code string) *sq.Currency {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		normalized = "USD"
	}
	currency := sq.Currency(normalized)
	return &currency
}

func moneyPtr(amount int64, currency string) *sq.Money {
	if amount == 0 {
		return nil
	}
	return &sq.Money{
		Amount:   int64Ptr(amount),
		Currency: currencyPtr(currency),
	}
}
