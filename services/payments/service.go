package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	"github.com/internbridge/trustguard/config"
	"github.com/internbridge/trustguard/interfaces"
	"github.com/internbridge/trustguard/internal/tracing"
)

// Razorpay-style orders API: https://razorpay.com/docs/api/orders/
type paymentGatewayService struct {
	cfg    *config.PaymentGatewayConfig
	client *http.Client
}

func NewPaymentGatewayService(cfg *config.PaymentGatewayConfig) interfaces.PaymentGateway {
	return &paymentGatewayService{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder registers a collect order with the payment gateway. The gateway
// amount is in the smallest currency unit, which matches how escrow amounts
// are stored.
func (s *paymentGatewayService) CreateOrder(ctx context.Context, reference string, amount int64) (*interfaces.PaymentOrder, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "PaymentGatewayService.CreateOrder")
	defer span.Finish()
	span.LogKV("reference", reference, "amount", amount)

	if s.cfg.KeyID == "" || s.cfg.KeySecret == "" {
		err := errors.New("payment gateway API configuration is missing")
		tracing.TraceErr(span, err)
		return nil, err
	}

	payload := map[string]interface{}{
		"amount":   amount,
		"currency": s.cfg.Currency,
		"receipt":  reference,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Url+"/orders", bytes.NewReader(body))
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.cfg.KeyID, s.cfg.KeySecret)

	resp, err := s.client.Do(req)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to call payment gateway"))
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to read payment gateway response"))
		return nil, err
	}
	span.LogFields(tracingLog.String("responseBody", string(responseBody)))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
		tracing.TraceErr(span, err)
		return nil, err
	}

	var result struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(responseBody, &result); err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "failed to parse payment gateway response"))
		return nil, err
	}

	return &interfaces.PaymentOrder{
		OrderID:   result.ID,
		Reference: reference,
		Amount:    result.Amount,
		Currency:  result.Currency,
	}, nil
}
