package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the MyMemory API root.
const DefaultBaseURL = "https://api.mymemory.translated.net"

const maxResponseBytes = 1 << 20

// TranslationError is any failure talking to the translation service.
// Status is 0 when no response was received; Err holds the transport or
// decoding error, if any.
type TranslationError struct {
	Status  int
	Details string
	Err     error
}

func (e *TranslationError) Error() string {
	msg := "translation failed"
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Translator translates a single chunk of text.
type Translator interface {
	TranslateChunk(ctx context.Context, text, source, target string) (string, error)
}

// responseStatus accepts both 200 and "200"; MyMemory sends either.
type responseStatus int

func (s *responseStatus) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid responseStatus %s", data)
	}
	*s = responseStatus(n)
	return nil
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  responseStatus `json:"responseStatus"`
	ResponseDetails string         `json:"responseDetails"`
}

// MyMemoryClient translates text with the MyMemory API.
type MyMemoryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMyMemoryClient creates a client. baseURL may be empty.
func NewMyMemoryClient(baseURL string, timeout time.Duration) *MyMemoryClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &MyMemoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TranslateChunk sends GET {base}/get?q=text&langpair=source|target.
func (c *MyMemoryClient) TranslateChunk(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", source+"|"+target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get?"+params.Encode(), nil)
	if err != nil {
		return "", &TranslationError{Details: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TranslationError{Details: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &TranslationError{Status: resp.StatusCode, Details: "failed to read response", Err: err}
	}

	var mr myMemoryResponse
	if resp.StatusCode != http.StatusOK {
		details := http.StatusText(resp.StatusCode)
		if json.Unmarshal(body, &mr) == nil && mr.ResponseDetails != "" {
			details = mr.ResponseDetails
		}
		return "", &TranslationError{Status: resp.StatusCode, Details: details}
	}

	if err := json.Unmarshal(body, &mr); err != nil {
		return "", &TranslationError{Status: resp.StatusCode, Details: "failed to parse response", Err: err}
	}
	if mr.ResponseStatus != http.StatusOK {
		return "", &TranslationError{Status: int(mr.ResponseStatus), Details: mr.ResponseDetails}
	}
	return mr.ResponseData.TranslatedText, nil
}
