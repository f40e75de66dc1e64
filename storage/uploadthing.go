package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// UploadThing talks to the UploadThing REST API. Uploads happen in the
// browser, so it only resolves and deletes keys.
type UploadThing struct {
	client   *resty.Client
	secret   string
	fileHost string
}

type deleteFilesRequest struct {
	FileKeys []string `json:"fileKeys"`
}

type deleteFilesResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deletedCount"`
}

// NewUploadThing creates a client for apiURL authenticated with secret.
// fileHost serves the files, normally https://utfs.io.
func NewUploadThing(apiURL, secret, fileHost string) *UploadThing {
	client := resty.New().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Uploadthing-Api-Key", secret).
		SetHeader("X-Uploadthing-Version", "6.4.0").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	if fileHost == "" {
		fileHost = "https://utfs.io"
	}
	return &UploadThing{
		client:   client,
		secret:   secret,
		fileHost: strings.TrimRight(fileHost, "/"),
	}
}

// URL returns the public URL of key.
func (u *UploadThing) URL(key string) string {
	return fmt.Sprintf("%s/f/%s", u.fileHost, key)
}

// Delete removes keys from the app's UploadThing storage.
func (u *UploadThing) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if u.secret == "" {
		return ErrNotConfigured
	}

	var out deleteFilesResponse
	resp, err := u.client.R().
		SetContext(ctx).
		SetBody(deleteFilesRequest{FileKeys: keys}).
		SetResult(&out).
		Post("/v6/deleteFiles")
	if err != nil {
		return fmt.Errorf("uploadthing delete: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("uploadthing delete: status %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if !out.Success {
		return fmt.Errorf("uploadthing delete: request not successful")
	}
	return nil
}
