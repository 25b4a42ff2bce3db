package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
)

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// HTTPVerifier checks CAPTCHA tokens against a siteverify endpoint.
type HTTPVerifier struct {
	Secret    string
	VerifyURL string
	client    *http.Client
}

func NewHTTPVerifier(secret, verifyURL string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		Secret:    secret,
		VerifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return domain.ErrCaptchaFailed
	}

	form := url.Values{}
	form.Set("secret", v.Secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, v.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := v.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: captcha: %v", domain.ErrUpstream, err)
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: captcha: %v", domain.ErrUpstream, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: captcha: status %d", domain.ErrUpstream, response.StatusCode)
	}

	var verify verifyResponse
	if err := json.Unmarshal(responseBodyBytes, &verify); err != nil {
		return fmt.Errorf("%w: captcha: %v", domain.ErrUpstream, err)
	}
	if !verify.Success {
		return fmt.Errorf("%w: %s", domain.ErrCaptchaFailed, strings.Join(verify.ErrorCodes, ","))
	}
	return nil
}

// NoopVerifier accepts every token. Used when no secret is configured.
type NoopVerifier struct{}

func (NoopVerifier) Verify(context.Context, string, string) error {
	return nil
}

// New picks the HTTP verifier when a secret is set.
func New(secret, verifyURL string, timeout time.Duration) domain.CaptchaVerifier {
	if secret == "" {
		return NoopVerifier{}
	}
	return NewHTTPVerifier(secret, verifyURL, timeout)
}
