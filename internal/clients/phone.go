package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/eyadahmed25/customer-management/internal/config"
)

// PhoneValidation is the outcome of a phone lookup. A transport failure is
// reported as IsValid=false with an explanatory message, never as an error.
type PhoneValidation struct {
	IsValid      bool
	PhoneNumber  string
	CountryCode  string
	Carrier      string
	ErrorMessage string
}

// PhoneValidator validates phone numbers against an external lookup service.
type PhoneValidator interface {
	Validate(ctx context.Context, phoneNumber string) PhoneValidation
}

type twilioValidator struct {
	cfg    config.TwilioConfig
	client *http.Client
	logger *zap.Logger
}

// NewTwilioValidator returns a PhoneValidator backed by the Twilio Lookup API.
func NewTwilioValidator(cfg config.TwilioConfig, logger *zap.Logger) PhoneValidator {
	return &twilioValidator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type twilioLookupResponse struct {
	PhoneNumber string `json:"phone_number"`
	CountryCode string `json:"country_code"`
	Carrier     *struct {
		Name string `json:"name"`
	} `json:"carrier"`
}

func (v *twilioValidator) Validate(ctx context.Context, phoneNumber string) PhoneValidation {
	endpoint := v.cfg.BaseURL + "/v1/PhoneNumbers/" + url.PathEscape(phoneNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PhoneValidation{IsValid: false, ErrorMessage: fmt.Sprintf("build lookup request: %v", err)}
	}
	req.SetBasicAuth(v.cfg.AccountSID, v.cfg.AuthToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return PhoneValidation{IsValid: false, ErrorMessage: fmt.Sprintf("phone lookup request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PhoneValidation{IsValid: false, ErrorMessage: fmt.Sprintf("read lookup response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PhoneValidation{
			IsValid:      false,
			ErrorMessage: fmt.Sprintf("phone validation failed: %s. %s", resp.Status, string(body)),
		}
	}

	var lookup twilioLookupResponse
	if err := json.Unmarshal(body, &lookup); err != nil {
		return PhoneValidation{IsValid: false, ErrorMessage: fmt.Sprintf("decode lookup response: %v", err)}
	}

	v.logger.Debug("phone lookup ok",
		zap.String("phone_number", lookup.PhoneNumber),
		zap.String("country_code", lookup.CountryCode))

	result := PhoneValidation{
		IsValid:     true,
		PhoneNumber: lookup.PhoneNumber,
		CountryCode: lookup.CountryCode,
	}
	if lookup.Carrier != nil {
		result.Carrier = lookup.Carrier.Name
	}
	return result
}
