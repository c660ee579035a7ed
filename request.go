package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// NoContent is the result of a successful request whose response body is
// empty, such as the player and library modification endpoints. It is a
// distinguished value rather than an absent one, so a succeeded request is
// never mistakable for a failed one.
type NoContent struct{}

// rawBody is a non-JSON request body, such as the JPEG payload of a playlist
// cover upload.
type rawBody struct {
	contentType string
	data        []byte
}

// do issues a single authenticated request against the Web API and decodes
// the response into out. path is appended to the client's base URL unless it
// is already absolute (pagination hrefs are absolute URLs).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	secret, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	endpoint := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		endpoint = c.baseURL + path
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
		// Spotify wants a Content-Length header on bodyless PUT requests.
		// An empty reader makes the transport send Content-Length: 0.
		if method != http.MethodGet {
			reader = strings.NewReader("")
		}
	case rawBody:
		reader = bytes.NewReader(b.data)
		contentType = b.contentType
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("spotify: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("spotify: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.debugf("%s %s", method, endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("spotify: request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("spotify: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFrom(resp.StatusCode, payload)
	}

	return decodeResponse(payload, out)
}

// apiErrorFrom translates a non-2xx response into an *APIError, preferring
// the structured error object Spotify returns in the body.
func apiErrorFrom(status int, payload []byte) error {
	var body apiErrorBody
	if err := json.Unmarshal(payload, &body); err == nil && body.Error.Status != 0 {
		return &body.Error
	}

	message := strings.TrimSpace(string(payload))
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message}
}

// decodeResponse decodes a successful response body into out. An empty body
// is only valid for [NoContent]; for model types it is a decode failure, so a
// silently truncated response cannot masquerade as a zero value.
func decodeResponse(payload []byte, out any) error {
	if out == nil {
		return nil
	}
	if _, ok := out.(*NoContent); ok {
		return nil
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return &DecodeError{Body: payload, Err: errors.New("empty response body")}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &DecodeError{Body: payload, Err: err}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// getOptional issues a GET whose successful response may legitimately be
// empty, such as the playback state when nothing is playing. It reports
// whether a body was decoded into out.
func (c *Client) getOptional(ctx context.Context, path string, query url.Values, out any) (bool, error) {
	err := c.do(ctx, http.MethodGet, path, query, nil, out)
	if err == nil {
		return true, nil
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) && len(bytes.TrimSpace(decodeErr.Body)) == 0 {
		return false, nil
	}
	return false, err
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPut, path, query, body, out)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodDelete, path, query, body, out)
}

// clamp bounds v to the inclusive range [lo, hi]. List endpoints clamp their
// limit parameter at construction instead of surfacing a late validation
// error from the API.
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// joinIDs renders an ID list as the comma-separated form the Web API expects
// in query strings.
func joinIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// idsBody is the JSON body shape of the library save/remove endpoints.
func idsBody(ids []string) map[string]any {
	return map[string]any{"ids": ids}
}

func setLimit(q url.Values, limit int) {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
}

func setOffset(q url.Values, offset int) {
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
}
