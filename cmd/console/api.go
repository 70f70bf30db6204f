package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/dialogue-engine/internal/handlers"
)

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, client *http.Client) *apiClient {
	return &apiClient{baseURL: baseURL, http: client}
}

func (c *apiClient) health() error {
	resp, err := c.http.Get(c.baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (c *apiClient) createSession() (*handlers.SessionResponse, error) {
	resp, err := c.http.Post(c.baseURL+"/v1/sessions", "application/json", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeSession(resp)
}

func (c *apiClient) action(sessionID string, req handlers.ActionRequest) (*handlers.SessionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1/sessions/%s/action", c.baseURL, sessionID)
	resp, err := c.http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeSession(resp)
}

func decodeSession(resp *http.Response) (*handlers.SessionResponse, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var apiErr handlers.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("api error: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("api returned %d", resp.StatusCode)
	}

	var sess handlers.SessionResponse
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	return &sess, nil
}
