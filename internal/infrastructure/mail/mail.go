package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPMailer hands messages to the mail service over HTTP.
type HTTPMailer struct {
	Address string
	From    string
	client  *http.Client
}

func NewHTTPMailer(host, port, from string, timeout time.Duration) *HTTPMailer {
	return &HTTPMailer{
		Address: fmt.Sprintf("%s:%s", host, port),
		From:    from,
		client:  &http.Client{Timeout: timeout},
	}
}

func (m *HTTPMailer) SendPasswordReset(ctx context.Context, email, resetLink string) error {
	return m.send(ctx, sendRequest{
		From:    m.From,
		To:      email,
		Subject: "Password reset",
		Body:    fmt.Sprintf("Use the link below to set a new password. It expires soon and works once.\n\n%s\n", resetLink),
	})
}

func (m *HTTPMailer) send(ctx context.Context, message sendRequest) error {
	requestBodyBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/send", m.Address), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := m.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	var errResponse errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResponse); err != nil || errResponse.Error == "" {
		return fmt.Errorf("mail service returned status %d", response.StatusCode)
	}
	return errors.New(errResponse.Error)
}
