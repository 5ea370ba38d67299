package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"jobmate-backend/internal/docintel"
)

const (
	apiVersion      = "2024-11-30"
	defaultModelID  = "prebuilt-layout"
	defaultPollWait = 2 * time.Second
)

// Client implements docintel.Extractor using the Azure Document
// Intelligence REST API (begin-analyze plus polling).
type Client struct {
	endpoint   string
	key        string
	modelID    string
	pollWait   time.Duration
	httpClient *http.Client
}

// NewClient constructs an Azure Document Intelligence client.
func NewClient(endpoint, key, modelID string) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" || strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("document intelligence endpoint and key are required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultModelID
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("DOCINTEL_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		modelID:  modelID,
		pollWait: defaultPollWait,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type analyzeRequest struct {
	Base64Source string `json:"base64Source"`
}

type analyzeResponse struct {
	Status        string `json:"status"`
	AnalyzeResult *struct {
		Content    string `json:"content"`
		Paragraphs []struct {
			Content    string   `json:"content"`
			Confidence *float64 `json:"confidence"`
		} `json:"paragraphs"`
		Tables []struct {
			RowCount    int `json:"rowCount"`
			ColumnCount int `json:"columnCount"`
			Cells       []struct {
				Content    string   `json:"content"`
				Confidence *float64 `json:"confidence"`
			} `json:"cells"`
		} `json:"tables"`
		Confidence *float64 `json:"confidence"`
	} `json:"analyzeResult"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract submits the payload for layout analysis and polls until the
// operation reaches a terminal state.
func (c *Client) Extract(ctx context.Context, content []byte, fileName string) (docintel.Extraction, error) {
	opURL, err := c.beginAnalyze(ctx, content)
	if err != nil {
		return docintel.Extraction{}, fmt.Errorf("document %s: %w", fileName, err)
	}

	resp, err := c.pollResult(ctx, opURL)
	if err != nil {
		return docintel.Extraction{}, fmt.Errorf("document %s: %w", fileName, err)
	}

	return mapExtraction(resp), nil
}

func (c *Client) beginAnalyze(ctx context.Context, content []byte) (string, error) {
	payload, err := json.Marshal(analyzeRequest{
		Base64Source: base64.StdEncoding.EncodeToString(content),
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s&outputContentFormat=markdown",
		c.endpoint, c.modelID, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("begin analyze status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", fmt.Errorf("begin analyze missing Operation-Location header")
	}
	return opURL, nil
}

func (c *Client) pollResult(ctx context.Context, opURL string) (analyzeResponse, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return analyzeResponse{}, err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return analyzeResponse{}, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return analyzeResponse{}, err
		}

		var parsed analyzeResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return analyzeResponse{}, fmt.Errorf("analyze response parse: %w", err)
		}
		if parsed.Error != nil {
			return analyzeResponse{}, fmt.Errorf("analyze error: %s (%s)", parsed.Error.Message, parsed.Error.Code)
		}

		switch parsed.Status {
		case "succeeded":
			return parsed, nil
		case "failed":
			return analyzeResponse{}, fmt.Errorf("analyze operation failed")
		}

		select {
		case <-ctx.Done():
			return analyzeResponse{}, ctx.Err()
		case <-time.After(c.pollWait):
		}
	}
}

func mapExtraction(resp analyzeResponse) docintel.Extraction {
	out := docintel.Extraction{}
	result := resp.AnalyzeResult
	if result == nil {
		return out
	}

	out.Text = result.Content
	out.DocumentConfidence = result.Confidence

	for _, p := range result.Paragraphs {
		out.Paragraphs = append(out.Paragraphs, docintel.Paragraph{
			Content:    p.Content,
			Confidence: p.Confidence,
		})
	}
	for _, t := range result.Tables {
		table := docintel.Table{
			RowCount:    t.RowCount,
			ColumnCount: t.ColumnCount,
			Cells:       []docintel.Cell{},
		}
		for _, c := range t.Cells {
			table.Cells = append(table.Cells, docintel.Cell{
				Content:    c.Content,
				Confidence: c.Confidence,
			})
		}
		out.Tables = append(out.Tables, table)
	}
	return out
}

var _ docintel.Extractor = (*Client)(nil)
