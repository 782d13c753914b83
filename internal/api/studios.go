package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// --- Studio Methods ---

func (c *Client) FindStudio(ctx context.Context, id string) (*Studio, error) {
	data, err := c.get(ctx, fmt.Sprintf("/api/studios/%s", url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	return decodeOne[Studio](data)
}

func (c *Client) QueryStudios(ctx context.Context, params QueryParams) ([]Studio, error) {
	data, err := c.get(ctx, buildQuery("/api/studios", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Studio](data)
}

func (c *Client) CreateStudio(ctx context.Context, input StudioCreateInput) (*Studio, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("studio name is required")
	}
	data, err := c.post(ctx, "/api/studios", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Studio](data)
}

func (c *Client) UpdateStudio(ctx context.Context, input StudioUpdateInput) (*Studio, error) {
	if input.ID == "" {
		return nil, fmt.Errorf("studio id is required")
	}
	data, err := c.put(ctx, fmt.Sprintf("/api/studios/%s", url.PathEscape(input.ID)), input)
	if err != nil {
		return nil, err
	}
	return decodeOne[Studio](data)
}

func (c *Client) DestroyStudio(ctx context.Context, input StudioDestroyInput) error {
	if input.ID == "" {
		return fmt.Errorf("studio id is required")
	}
	_, err := c.post(ctx, "/api/studios/destroy", input)
	return err
}

// AutoTag queues a metadata auto-tag job for the given studios.
func (c *Client) AutoTag(ctx context.Context, input AutoTagInput) (*JobStarted, error) {
	data, err := c.post(ctx, "/api/metadata/auto_tag", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[JobStarted](data)
}

// FetchStudioImage downloads the studio image. With bypassCache set the
// request asks every cache between us and the server to revalidate.
func (c *Client) FetchStudioImage(ctx context.Context, id string, bypassCache bool) (*Image, error) {
	r := request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/studio/%s/image", url.PathEscape(id)),
	}
	if bypassCache {
		r.header = http.Header{
			"Cache-Control": []string{"no-cache"},
			"Pragma":        []string{"no-cache"},
		}
	}
	body, _, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	return &Image{
		StudioID:    id,
		ContentType: http.DetectContentType(body),
		Data:        body,
		FetchedAt:   time.Now(),
	}, nil
}
