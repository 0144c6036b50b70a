package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
)

type UploadConfig struct {
	APIKey string
	APIURL string
}

func NewUploadConfig() *UploadConfig {
	apiKey := os.Getenv("UPLOAD_API_KEY")
	apiURL := os.Getenv("UPLOAD_API_URL")
	if apiKey == "" || apiURL == "" {
		log.Println("Upload service not configured, file uploads disabled")
	}
	return &UploadConfig{APIKey: apiKey, APIURL: apiURL}
}

// UploadService pushes files to the external image host and returns the
// public URL. Only URLs are persisted; the blob itself never touches the
// database.
type UploadService struct {
	Config *UploadConfig
}

func NewUploadService(lc fx.Lifecycle, config *UploadConfig) *UploadService {
	service := &UploadService{Config: config}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("Upload service initialized")
			return nil
		},
	})
	return service
}

func (u *UploadService) Enabled() bool {
	return u.Config.APIKey != "" && u.Config.APIURL != ""
}

func (u *UploadService) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if !u.Enabled() {
		return "", errors.New("upload service is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload payload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.Config.APIURL, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.Config.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorResponse map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorResponse)
		return "", fmt.Errorf("failed to upload file, status code: %d, error: %v", resp.StatusCode, errorResponse)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.URL == "" {
		return "", errors.New("upload response missing url")
	}

	log.Println("File uploaded successfully:", filename)
	return result.URL, nil
}
