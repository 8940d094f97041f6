// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slides creates storyboard presentations by copying a Google Slides
// template and replacing its {{placeholder}} tokens with generated content.
package slides

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"

	"storyboarder/internal/googleauth"
)

// MimePDF is the export format used for archived decks.
const MimePDF = "application/pdf"

// Replacement is one find/replace request. Matching is case-sensitive.
type Replacement struct {
	Find    string
	Replace string
}

// Platform is the document platform the generator drives. Every call runs
// with the signed-in user's token.
type Platform interface {
	// CopyFile copies srcID to a new file called name and returns its id.
	CopyFile(ctx context.Context, tok googleauth.Token, srcID, name string) (string, error)
	// BatchReplace applies all replacements in one all-or-nothing request.
	BatchReplace(ctx context.Context, tok googleauth.Token, presentationID string, reps []Replacement) error
	// Export downloads fileID converted to mimeType.
	Export(ctx context.Context, tok googleauth.Token, fileID, mimeType string) ([]byte, error)
}

// GooglePlatform implements Platform with the Drive v3 and Slides v1 APIs.
type GooglePlatform struct {
	// Endpoint overrides the API base URL for both services. Tests only.
	Endpoint string
	Timeout  time.Duration
}

// NewGooglePlatform returns a GooglePlatform with a 60 second call timeout.
func NewGooglePlatform() *GooglePlatform {
	return &GooglePlatform{Timeout: 60 * time.Second}
}

// clientOptions builds per-call options from the user's token.
func (p *GooglePlatform) clientOptions(ctx context.Context, tok googleauth.Token) []option.ClientOption {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok.OAuth2()))
	if p.Timeout > 0 {
		httpClient.Timeout = p.Timeout
	}
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if p.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.Endpoint))
	}
	return opts
}

// CopyFile copies the template with Drive files.copy.
func (p *GooglePlatform) CopyFile(ctx context.Context, tok googleauth.Token, srcID, name string) (string, error) {
	svc, err := drive.NewService(ctx, p.clientOptions(ctx, tok)...)
	if err != nil {
		return "", fmt.Errorf("drive client: %w", err)
	}

	f, err := svc.Files.Copy(srcID, &drive.File{Name: name}).
		SupportsAllDrives(true).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive copy %s: %w", srcID, err)
	}
	if f.Id == "" {
		return "", fmt.Errorf("drive copy %s: response has no file id", srcID)
	}
	return f.Id, nil
}

// BatchReplace sends one presentations.batchUpdate with a ReplaceAllText
// request per replacement, applied by the server in order.
func (p *GooglePlatform) BatchReplace(ctx context.Context, tok googleauth.Token, presentationID string, reps []Replacement) error {
	svc, err := slides.NewService(ctx, p.clientOptions(ctx, tok)...)
	if err != nil {
		return fmt.Errorf("slides client: %w", err)
	}

	requests := make([]*slides.Request, 0, len(reps))
	for _, r := range reps {
		requests = append(requests, &slides.Request{
			ReplaceAllText: &slides.ReplaceAllTextRequest{
				ContainsText: &slides.SubstringMatchCriteria{Text: r.Find, MatchCase: true},
				ReplaceText:  r.Replace,
				// An empty replacement must still be sent.
				ForceSendFields: []string{"ReplaceText"},
			},
		})
	}

	_, err = svc.Presentations.BatchUpdate(presentationID, &slides.BatchUpdatePresentationRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("slides batch update %s: %w", presentationID, err)
	}
	return nil
}

// Export downloads a converted copy of a file with Drive files.export.
func (p *GooglePlatform) Export(ctx context.Context, tok googleauth.Token, fileID, mimeType string) ([]byte, error) {
	svc, err := drive.NewService(ctx, p.clientOptions(ctx, tok)...)
	if err != nil {
		return nil, fmt.Errorf("drive client: %w", err)
	}

	resp, err := svc.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("drive export %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("drive export %s: status %d", fileID, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("drive export %s: read body: %w", fileID, err)
	}
	return data, nil
}
