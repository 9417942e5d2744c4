package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultCloudinaryURL = "https://api.cloudinary.com"

// Cloudinary performs unsigned uploads; the preset decides folder and limits.
type Cloudinary struct {
	baseURL   string
	cloudName string
	client    *http.Client
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewCloudinary(baseURL, cloudName string) *Cloudinary {
	if baseURL == "" {
		baseURL = defaultCloudinaryURL
	}
	return &Cloudinary{
		baseURL:   strings.TrimRight(baseURL, "/"),
		cloudName: cloudName,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, filename, preset string) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := form.WriteField("upload_preset", preset); err != nil {
		return "", fmt.Errorf("write preset: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var res cloudinaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if res.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUploadRejected, res.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || res.SecureURL == "" {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return res.SecureURL, nil
}
