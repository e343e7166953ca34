// Package deploy talks to the external deployment service that builds,
// deploys, activates, and registers My1155 contract instances. The heavy
// lifting (Stylus toolchain, on-chain activation) happens server-side; this
// client makes exactly one request per invocation and never retries.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Request describes one deployment.
type Request struct {
	BaseURI        string `json:"baseUri"`
	FactoryAddress string `json:"factoryAddress,omitempty"`
	PrivateKey     string `json:"privateKey"`
	RPCEndpoint    string `json:"rpcEndpoint"`
}

// Result is the service's report of a completed deployment.
type Result struct {
	ContractAddress string `json:"contractAddress"`
	TxHash          string `json:"txHash"`
	Success         bool   `json:"success"`
	DeployOutput    string `json:"deployOutput,omitempty"`
	InitOutput      string `json:"initOutput,omitempty"`
	RegisterOutput  string `json:"registerOutput,omitempty"`
}

// TransportError reports a network-level failure reaching the service.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "deployment service unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// DeploymentError reports that the service itself declared the deployment
// failed, whether via HTTP status or a success:false body. HTTP 200 does not
// imply deployment success.
type DeploymentError struct {
	Message    string
	StatusCode int
}

func (e *DeploymentError) Error() string {
	if e.Message != "" {
		return "deployment failed: " + e.Message
	}
	return fmt.Sprintf("deployment failed with status %d", e.StatusCode)
}

// Client calls the deployment HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// errorBody is the shape the service uses for failure responses.
type errorBody struct {
	Error string `json:"error"`
}

// Deploy submits one deployment request and waits for the service to finish
// the full deploy → activate → initialize → register sequence.
func (c *Client) Deploy(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/deploy-erc1155", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			return nil, &DeploymentError{Message: eb.Error, StatusCode: resp.StatusCode}
		}
		return nil, &DeploymentError{StatusCode: resp.StatusCode}
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &DeploymentError{Message: "unparseable response body", StatusCode: resp.StatusCode}
	}

	if !result.Success {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			return nil, &DeploymentError{Message: eb.Error, StatusCode: resp.StatusCode}
		}
		return nil, &DeploymentError{Message: "service reported success=false", StatusCode: resp.StatusCode}
	}

	// A success report with no transaction hash means the service skipped or
	// lost a step; trusting it would hand callers a placeholder hash.
	if result.TxHash == "" {
		return nil, &DeploymentError{Message: "success response missing transaction hash", StatusCode: resp.StatusCode}
	}
	if result.ContractAddress == "" {
		return nil, &DeploymentError{Message: "success response missing contract address", StatusCode: resp.StatusCode}
	}

	return &result, nil
}
