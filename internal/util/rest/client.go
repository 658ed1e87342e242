package rest

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/EluvK/ai-sketch/build"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgPack = "application/msgpack"
)

type RESTClient struct {
	baseURL     *url.URL
	token       string
	tokenKey    string
	tokenFormat string
	userAgent   string
	contentType string
	HTTPClient  *http.Client
	headers     map[string]string
}

func NewClient(baseURL string, token string, insecureSkipVerify bool) (*RESTClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %s, error: %v", baseURL, err)
	}

	restClient := &RESTClient{
		baseURL:     parsed,
		token:       token,
		tokenKey:    "Authorization",
		tokenFormat: "Bearer %s",
		userAgent:   "ai-sketch v" + build.Version,
		contentType: ContentTypeJSON,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		headers: make(map[string]string),
	}

	restClient.HTTPClient.Transport = &http.Transport{
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: insecureSkipVerify},
		MaxConnsPerHost:     64,
		MaxIdleConns:        64,
		MaxIdleConnsPerHost: 32,
		IdleConnTimeout:     30 * time.Second,
	}

	return restClient, nil
}

func (c *RESTClient) Close() {
	c.HTTPClient.CloseIdleConnections()
}

func (c *RESTClient) SetTimeout(timeout time.Duration) *RESTClient {
	c.HTTPClient.Timeout = timeout
	return c
}

func (c *RESTClient) SetContentType(contentType string) *RESTClient {
	c.contentType = contentType
	return c
}

func (c *RESTClient) SetAuthToken(token string) *RESTClient {
	c.token = token
	return c
}

func (c *RESTClient) SetTokenKey(key string) *RESTClient {
	c.tokenKey = key
	return c
}

func (c *RESTClient) SetTokenFormat(format string) *RESTClient {
	c.tokenFormat = format
	return c
}

func (c *RESTClient) SetHeader(key, value string) *RESTClient {
	c.headers[key] = value
	return c
}

func (c *RESTClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, application/msgpack")
	req.Header.Set("Content-Type", c.contentType)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set(c.tokenKey, fmt.Sprintf(c.tokenFormat, c.token))
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

func (c *RESTClient) Get(ctx context.Context, path string, response interface{}) (int, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return 0, fmt.Errorf("invalid path: %s, error: %v", path, err)
	}

	u := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}

	c.setHeaders(req)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}

	defer resp.Body.Close()

	if response != nil {
		contentType := resp.Header.Get("Content-Type")
		if strings.Contains(contentType, ContentTypeMsgPack) {
			err = msgpack.NewDecoder(resp.Body).Decode(response)
		} else {
			err = json.NewDecoder(resp.Body).Decode(response)
		}
	}
	return resp.StatusCode, err
}

func (c *RESTClient) SendData(ctx context.Context, method string, path string, request interface{}, response interface{}, successCode int) (int, error) {
	var data []byte
	var err error

	rel, err := url.Parse(path)
	if err != nil {
		return 0, fmt.Errorf("invalid path: %s, error: %v", path, err)
	}

	u := c.baseURL.ResolveReference(rel)

	if c.contentType == ContentTypeMsgPack {
		data, err = msgpack.Marshal(request)
	} else {
		data, err = json.Marshal(request)
	}
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(data))
	if err != nil {
		return 0, err
	}

	c.setHeaders(req)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if (successCode == 0 && resp.StatusCode >= http.StatusBadRequest) || (successCode > 0 && resp.StatusCode != successCode) {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if response != nil {
		contentType := resp.Header.Get("Content-Type")
		if strings.Contains(contentType, ContentTypeMsgPack) {
			err = msgpack.NewDecoder(resp.Body).Decode(response)
		} else {
			err = json.NewDecoder(resp.Body).Decode(response)
		}
		if err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func (c *RESTClient) Post(ctx context.Context, path string, request interface{}, response interface{}, successCode int) (int, error) {
	return c.SendData(ctx, http.MethodPost, path, request, response, successCode)
}

func (c *RESTClient) Put(ctx context.Context, path string, request interface{}, response interface{}, successCode int) (int, error) {
	return c.SendData(ctx, http.MethodPut, path, request, response, successCode)
}

func (c *RESTClient) Delete(ctx context.Context, path string, request interface{}, response interface{}, successCode int) (int, error) {
	return c.SendData(ctx, http.MethodDelete, path, request, response, successCode)
}

type StreamResponseFunc func(chunk interface{}) (isDone bool, err error)

// streamDataCore reads an SSE response body line by line, decoding each
// data: payload into a chunk created by the factory. Malformed payloads are
// skipped; the "[DONE]" sentinel ends the stream.
func (c *RESTClient) streamDataCore(
	ctx context.Context,
	method string,
	path string,
	request interface{},
	fn StreamResponseFunc,
	createChunk func() interface{},
) error {
	var data []byte
	var err error

	if c.contentType == ContentTypeMsgPack {
		data, err = msgpack.Marshal(request)
	} else {
		data, err = json.Marshal(request)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid path: %s, error: %v", path, err)
	}
	u := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)

	// Streaming responses can stay open far longer than the client timeout,
	// the context handles cancellation instead.
	originalTimeout := c.HTTPClient.Timeout
	c.HTTPClient.Timeout = 0

	resp, err := c.HTTPClient.Do(req)

	c.HTTPClient.Timeout = originalTimeout

	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, string(bodyBytes))
	}

	scanner := bufio.NewScanner(resp.Body)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var payload string
		if strings.HasPrefix(line, "data: ") {
			payload = strings.TrimPrefix(line, "data: ")
		} else if strings.HasPrefix(line, "data:") {
			payload = strings.TrimPrefix(line, "data:")
		} else {
			// event:, id:, retry: and comment lines carry no payload
			continue
		}

		payload = strings.TrimSpace(payload)
		if payload == "" {
			continue
		}

		if payload == "[DONE]" {
			break
		}

		chunk := createChunk()
		if err := json.Unmarshal([]byte(payload), chunk); err != nil {
			log.Debug().Err(err).Msg("rest: skipping malformed stream chunk")
			continue
		}

		isDone, err := fn(chunk)
		if err != nil {
			return err
		}
		if isDone {
			break
		}
	}

	return scanner.Err()
}

type Pointer[T any] interface {
	*T
}

// StreamData streams typed SSE chunks, invoking fn for each decoded chunk
// until fn reports done, the server sends "[DONE]" or the stream ends.
func StreamData[P Pointer[T], T any](
	c *RESTClient,
	ctx context.Context,
	method string,
	path string,
	request interface{},
	fn func(P) (bool, error),
) error {
	return c.streamDataCore(ctx, method, path, request,
		func(chunk interface{}) (bool, error) {
			return fn(chunk.(P))
		},
		func() interface{} {
			return new(T)
		})
}
