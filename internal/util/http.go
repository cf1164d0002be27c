package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxDownload caps the size of a fetched body.
const MaxDownload = 32 << 20

var client = &http.Client{Timeout: 12 * time.Second}

func GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownload+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxDownload {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, MaxDownload)
	}
	return b, nil
}
