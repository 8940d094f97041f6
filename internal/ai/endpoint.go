// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestTimeout bounds a single generation call.
const requestTimeout = 60 * time.Second

// maxErrorBody caps how much of a failed response ends up in an error.
const maxErrorBody = 512

// errMalformed marks a response that arrived but could not be decoded.
var errMalformed = errors.New("malformed response")

// StatusError is a non-200 answer from a provider API.
type StatusError struct {
	API  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.API, e.Code, e.Body)
}

// Temporary reports whether the call may succeed if repeated later.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// jsonEndpoint is one JSON-over-HTTP API method.
type jsonEndpoint struct {
	api    string
	url    string
	header http.Header
	client *http.Client
}

func newJSONEndpoint(api, base, path string, timeout time.Duration, header http.Header) *jsonEndpoint {
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")
	return &jsonEndpoint{
		api:    api,
		url:    strings.TrimRight(base, "/") + path,
		header: header,
		client: &http.Client{Timeout: timeout},
	}
}

func bearer(key string) http.Header {
	return http.Header{"Authorization": {"Bearer " + key}}
}

// call posts in as JSON and decodes the 200 answer into out.
func (e *jsonEndpoint) call(ctx context.Context, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s marshal: %w", e.api, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s request: %w", e.api, err)
	}
	req.Header = e.header.Clone()

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s http: %w", e.api, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read body: %w", e.api, err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{API: e.api, Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w: %v", e.api, errMalformed, err)
	}
	return nil
}
