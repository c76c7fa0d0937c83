// Package store is the HTTP client for the destination configuration
// service. The service assigns identifier and version on creation and
// reports them through the Location header; the client surfaces exactly
// that assigned reference, since all downstream rewriting depends on it.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/enterstudio/botimport/internal/models"
	"github.com/enterstudio/botimport/internal/refs"
)

// CreationError reports a create request the destination rejected. It is
// fatal to the subtree rooted at the failing resource's parent; siblings
// and ancestors already created are not rolled back.
type CreationError struct {
	Collection string
	StatusCode int
	Body       string
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed to create %s resource: destination responded %d: %s",
		e.Collection, e.StatusCode, e.Body)
}

// Client wraps the destination service API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the destination service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsAvailable checks if the destination service is running and accessible.
func IsAvailable(baseURL string) bool {
	client := &http.Client{
		Timeout: 2 * time.Second,
	}

	resp, err := client.Get(baseURL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// CreateBot submits a bot configuration and returns the assigned reference.
func (c *Client) CreateBot(ctx context.Context, cfg models.BotConfiguration) (refs.Reference, error) {
	return c.create(ctx, refs.Bots, cfg)
}

// CreatePackage submits a package configuration and returns the assigned
// reference.
func (c *Client) CreatePackage(ctx context.Context, cfg models.PackageConfiguration) (refs.Reference, error) {
	return c.create(ctx, refs.Packages, cfg)
}

// CreateDictionary submits a dictionary and returns the assigned reference.
func (c *Client) CreateDictionary(ctx context.Context, cfg models.DictionaryConfiguration) (refs.Reference, error) {
	return c.create(ctx, refs.Dictionaries, cfg)
}

// CreateBehaviorSet submits a behavior set and returns the assigned
// reference.
func (c *Client) CreateBehaviorSet(ctx context.Context, cfg models.BehaviorConfiguration) (refs.Reference, error) {
	return c.create(ctx, refs.BehaviorSets, cfg)
}

// CreateOutputSet submits an output set and returns the assigned reference.
func (c *Client) CreateOutputSet(ctx context.Context, cfg models.OutputConfiguration) (refs.Reference, error) {
	return c.create(ctx, refs.OutputSets, cfg)
}

// PatchDescriptor applies a patch instruction to the descriptor of the
// resource identified by id and version.
func (c *Client) PatchDescriptor(ctx context.Context, id string, version int, instruction models.PatchInstruction) error {
	payload, err := json.Marshal(instruction)
	if err != nil {
		return fmt.Errorf("failed to marshal patch instruction: %w", err)
	}

	url := c.baseURL + "/descriptors/" + id + "?version=" + strconv.Itoa(version)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build patch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to patch descriptor %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to patch descriptor %s: destination responded %d", id, resp.StatusCode)
	}

	return nil
}

// create posts one resource body to its collection endpoint and parses the
// assigned reference out of the Location header. One call per resource, no
// batching.
func (c *Client) create(ctx context.Context, collection string, body interface{}) (refs.Reference, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return refs.Reference{}, fmt.Errorf("failed to marshal %s resource: %w", collection, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+collection, bytes.NewReader(payload))
	if err != nil {
		return refs.Reference{}, fmt.Errorf("failed to build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return refs.Reference{}, fmt.Errorf("failed to create %s resource: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return refs.Reference{}, &CreationError{
			Collection: collection,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(detail)),
		}
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return refs.Reference{}, fmt.Errorf("destination returned no Location for created %s resource", collection)
	}

	assigned, err := refs.Parse(location)
	if err != nil {
		return refs.Reference{}, fmt.Errorf("failed to parse assigned reference: %w", err)
	}

	return assigned, nil
}
