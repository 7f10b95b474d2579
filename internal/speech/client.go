package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://smartspeech.sber.ru/rest/v1"
	requestTimeout = 30 * time.Second
)

// NotConfiguredPlaceholder is returned instead of a transcript when no
// speech credential was provided, keeping the voice flow usable.
const NotConfiguredPlaceholder = "[Распознавание речи не настроено]"

// Client talks to the SaluteSpeech recognition endpoint. A zero-value or
// credential-less client is valid and reports itself as disabled.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a transcription client; an empty token yields a
// disabled client.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// Enabled reports whether a speech credential was configured
func (c *Client) Enabled() bool { return c != nil && c.token != "" }

func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	form := url.Values{"scope": {"SALUTE_SPEECH_PERS"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var tr struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}
	return tr.AccessToken, nil
}

// Transcribe sends OGG/Opus audio bytes for recognition and returns the
// transcript. A disabled client returns the fixed placeholder instead of
// failing the flow. Errors are not retried; the caller asks the user to
// resend.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if !c.Enabled() {
		return NotConfiguredPlaceholder, nil
	}

	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("speech auth: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speech:recognize", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build recognize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "audio/ogg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognize request returned status %d", resp.StatusCode)
	}

	var rr struct {
		Result []string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("decode recognize response: %w", err)
	}
	if len(rr.Result) == 0 {
		return "", fmt.Errorf("recognize response contained no result")
	}
	return strings.TrimSpace(strings.Join(rr.Result, " ")), nil
}
