package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// logIDHeader is the response header carrying the platform request log id.
const logIDHeader = "X-Tt-Logid"

// requester performs the JSON POST requests behind every token exchange.
// It owns error-envelope parsing; token values are never logged.
type requester struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func newRequester(httpClient *http.Client, logger *slog.Logger) *requester {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &requester{httpClient: httpClient, logger: logger}
}

// postJSON sends body as JSON to rawURL and decodes the response into out.
// When bearer is non-empty it is sent as an Authorization bearer credential.
func (r *requester) postJSON(ctx context.Context, rawURL, bearer string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	logID := resp.Header.Get(logIDHeader)
	r.logger.Debug("token endpoint response",
		"url", rawURL,
		"status", resp.StatusCode,
		"logid", logID)

	if err := checkResponse(resp.StatusCode, data, logID); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// checkResponse maps a token endpoint response to a typed error.
// The platform uses two envelopes: {code, msg} for generic API errors and
// {error_code, error_message} for OAuth protocol errors.
func checkResponse(status int, data []byte, logID string) error {
	var envelope struct {
		Code         int    `json:"code"`
		Msg          string `json:"msg"`
		ErrorCode    string `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	}
	// The body may not be JSON at all (e.g. proxy error pages); the
	// envelope stays zero and the status check below takes over.
	_ = json.Unmarshal(data, &envelope)

	if envelope.ErrorCode != "" {
		return &AuthError{
			HTTPStatus: status,
			Code:       AuthErrorCode(envelope.ErrorCode),
			Message:    envelope.ErrorMessage,
			LogID:      logID,
		}
	}
	if envelope.Code != 0 {
		return &APIError{
			HTTPStatus: status,
			Code:       envelope.Code,
			Msg:        envelope.Msg,
			LogID:      logID,
		}
	}
	if status != http.StatusOK {
		return &APIError{
			HTTPStatus: status,
			Msg:        http.StatusText(status),
			LogID:      logID,
		}
	}
	return nil
}
