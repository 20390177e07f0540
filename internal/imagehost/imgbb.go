// Package imagehost uploads user images to a public host so the LLM can
// fetch them by URL.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/models"
	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxBytes = 5 << 20

// ValidateImage checks the declared content type, the sniffed content type
// and the size of an uploaded image.
func ValidateImage(declaredType string, data []byte, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(data) == 0 {
		return &models.ValidationError{Field: "image", Message: "No image file provided"}
	}
	if declaredType != "" && !strings.HasPrefix(declaredType, "image/") {
		return &models.ValidationError{Field: "image", Message: "File must be an image"}
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return &models.ValidationError{Field: "image", Message: "File must be an image"}
	}
	if int64(len(data)) > maxBytes {
		return &models.ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("File size must be less than %dMB", maxBytes>>20),
		}
	}
	return nil
}

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ImgBBClient uploads images to ImgBB.
type ImgBBClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

type imgbbResponse struct {
	Data struct {
		ID        string `json:"id"`
		URL       string `json:"url"`
		DeleteURL string `json:"delete_url"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewImgBBClient creates a new ImgBB client.
func NewImgBBClient(cfg *config.ImageHostConfig) *ImgBBClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.imgbb.com/1/upload"
	}
	return &ImgBBClient{
		apiKey:     cfg.APIKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Upload sends the image as the multipart field "image" and returns the
// hosted URL.
func (c *ImgBBClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		filename = "image"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	reqURL := c.endpoint + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &models.ProviderError{Provider: "imgbb", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &models.ProviderError{Provider: "imgbb", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &models.ProviderError{
			Provider:   "imgbb",
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Err:        fmt.Errorf("failed to upload image: %s", strings.TrimSpace(string(respBody))),
		}
	}

	var result imgbbResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &models.ProviderError{Provider: "imgbb", StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if !result.Success || result.Data.URL == "" {
		msg := "upload failed"
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", &models.ProviderError{Provider: "imgbb", StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	return result.Data.URL, nil
}
