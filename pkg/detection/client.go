package detection

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// HTTPClient talks to the external detector service over its JSON API.
// It implements Detector.
type HTTPClient struct {
	baseURL string
	token   string
	client  *retryablehttp.Client
}

// NewHTTPClient builds a detector client for the given service URL.
// An empty token disables the Authorization header.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  retryClient,
	}
}

// Analyze uploads the target image and parses the detector's response into
// a Result. The detector owns the actual impact model; this client only
// moves bytes and decodes JSON.
func (c *HTTPClient) Analyze(ctx context.Context, imagePath string) (*Result, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", imagePath, err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, c.baseURL+"/api/v1/analyze", bytes.NewReader(img))
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detector request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode, string(body))
	}

	return parseAnalyzeResponse(body)
}

func parseAnalyzeResponse(body []byte) (*Result, error) {
	root := gjson.ParseBytes(body)
	if !root.Get("image").Exists() {
		return nil, fmt.Errorf("detector response missing image block")
	}

	res := &Result{
		ImageWidth:   int(root.Get("image.width").Int()),
		ImageHeight:  int(root.Get("image.height").Int()),
		TotalImpacts: int(root.Get("stats.total_impacts").Int()),
		FreshInside:  int(root.Get("stats.fresh_inside").Int()),
		FreshOutside: int(root.Get("stats.fresh_outside").Int()),
	}
	if res.ImageWidth <= 0 || res.ImageHeight <= 0 {
		return nil, fmt.Errorf("detector response has invalid image dimensions %dx%d", res.ImageWidth, res.ImageHeight)
	}

	for _, d := range root.Get("detections").Array() {
		rec := Record{
			Width:        d.Get("width").Float(),
			Height:       d.Get("height").Float(),
			Confidence:   d.Get("confidence").Float(),
			Fresh:        d.Get("fresh").Bool(),
			InsideTarget: d.Get("inside_target").Bool(),
			Label:        d.Get("label").String(),
		}
		cx := d.Get("center.x")
		cy := d.Get("center.y")
		if cx.Exists() && cy.Exists() {
			rec.CenterX = cx.Float()
			rec.CenterY = cy.Float()
			rec.HasCenter = true
		}
		res.Detections = append(res.Detections, rec)
	}
	return res, nil
}
