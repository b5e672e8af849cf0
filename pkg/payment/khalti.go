package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"karya-backend/config"
	"karya-backend/internal/domain"
	"karya-backend/pkg/apperror"
)

// minWalletAmountMinor is the smallest charge the wallet provider accepts,
// in paisa (Rs 10).
const minWalletAmountMinor = 1000

// KhaltiGateway talks to the Khalti ePayment API. There is no official Go
// SDK, so this is a thin JSON client over net/http.
type KhaltiGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewKhaltiGateway(cfg *config.Config) *KhaltiGateway {
	return &KhaltiGateway{
		baseURL:   cfg.KhaltiBaseURL,
		secretKey: cfg.KhaltiSecretKey,
		client: &http.Client{
			Timeout: cfg.ProviderTimeout,
		},
	}
}

type khaltiInitiateRequest struct {
	ReturnURL         string             `json:"return_url"`
	WebsiteURL        string             `json:"website_url"`
	Amount            int64              `json:"amount"`
	PurchaseOrderID   string             `json:"purchase_order_id"`
	PurchaseOrderName string             `json:"purchase_order_name"`
	CustomerInfo      khaltiCustomerInfo `json:"customer_info"`
}

type khaltiCustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type khaltiInitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

type khaltiLookupResponse struct {
	Pidx          string `json:"pidx"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	TotalAmount   int64  `json:"total_amount"`
	Refunded      bool   `json:"refunded"`
}

func (g *KhaltiGateway) Initiate(ctx context.Context, req domain.WalletInitiateRequest) (*domain.WalletInitiateResult, error) {
	if req.AmountMinor < minWalletAmountMinor {
		return nil, apperror.BadRequest("amount is below the wallet provider minimum")
	}

	body := khaltiInitiateRequest{
		ReturnURL:         req.ReturnURL,
		WebsiteURL:        req.WebsiteURL,
		Amount:            req.AmountMinor,
		PurchaseOrderID:   req.OrderID,
		PurchaseOrderName: req.OrderName,
		CustomerInfo: khaltiCustomerInfo{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
		},
	}

	var resp khaltiInitiateResponse
	if err := g.post(ctx, "/epayment/initiate/", body, &resp); err != nil {
		return nil, err
	}
	if resp.Pidx == "" || resp.PaymentURL == "" {
		return nil, apperror.ExternalProvider("wallet provider returned an incomplete initiation response", nil)
	}
	return &domain.WalletInitiateResult{
		Pidx:       resp.Pidx,
		PaymentURL: resp.PaymentURL,
	}, nil
}

// Lookup verifies a transaction server-side. Callback query parameters are
// forgeable, so payment completion is decided by this call alone.
func (g *KhaltiGateway) Lookup(ctx context.Context, pidx string) (*domain.WalletLookupResult, error) {
	if pidx == "" {
		return nil, apperror.BadRequest("missing wallet transaction identifier")
	}

	var resp khaltiLookupResponse
	if err := g.post(ctx, "/epayment/lookup/", map[string]string{"pidx": pidx}, &resp); err != nil {
		return nil, err
	}
	return &domain.WalletLookupResult{
		Status:        resp.Status,
		TransactionID: resp.TransactionID,
	}, nil
}

func (g *KhaltiGateway) post(ctx context.Context, path string, payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return apperror.Internal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return apperror.Internal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+g.secretKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return apperror.ExternalProvider("wallet provider is unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperror.ExternalProvider("failed to read wallet provider response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperror.ExternalProvider(
			"wallet provider rejected the request",
			fmt.Errorf("khalti %s: status %d after %s: %s", path, resp.StatusCode, time.Since(start).Round(time.Millisecond), respBody),
		)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperror.ExternalProvider("wallet provider returned malformed JSON", err)
	}
	return nil
}
