package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const providerTimeout = 30 * time.Second

// indicProvider calls a dedicated Indic-to-English translation model served
// over HTTP.
type indicProvider struct {
	baseURL    string
	httpClient *http.Client
}

func newIndicProvider(baseURL string) *indicProvider {
	return &indicProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

func (p *indicProvider) Name() string { return "indic" }

// indicRequest is the JSON body sent to POST /translate.
type indicRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type indicResponse struct {
	Translation string `json:"translation"`
}

func (p *indicProvider) Translate(ctx context.Context, text, srcLang string) (string, error) {
	body, err := json.Marshal(indicRequest{Text: text, SourceLang: srcLang, TargetLang: "en"})
	if err != nil {
		return "", fmt.Errorf("indic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("indic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("indic: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("indic: status %d", resp.StatusCode)
	}

	var out indicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("indic: decode response: %w", err)
	}
	return out.Translation, nil
}

// httpProvider calls a generic external translation API with a simple JSON
// contract. Both the primary and secondary chain steps use this shape.
type httpProvider struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newHTTPProvider(name, baseURL, apiKey string) *httpProvider {
	return &httpProvider{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

func (p *httpProvider) Name() string { return p.name }

type apiRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type apiResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (p *httpProvider) Translate(ctx context.Context, text, srcLang string) (string, error) {
	body, err := json.Marshal(apiRequest{Q: text, Source: srcLang, Target: "en", Format: "text"})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", p.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: status %d", p.name, resp.StatusCode)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", p.name, err)
	}
	return out.TranslatedText, nil
}

// myMemoryProvider is the free-tier fallback at the end of the chain.
type myMemoryProvider struct {
	baseURL    string
	httpClient *http.Client
}

func newMyMemoryProvider() *myMemoryProvider {
	return &myMemoryProvider{
		baseURL:    "https://api.mymemory.translated.net",
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

func (p *myMemoryProvider) Name() string { return "mymemory" }

// myMemoryResponse is the subset of the MyMemory GET /get response we read.
type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus int `json:"responseStatus"`
}

func (p *myMemoryProvider) Translate(ctx context.Context, text, srcLang string) (string, error) {
	// MyMemory caps request size well below our input cap.
	if len([]rune(text)) > 500 {
		text = string([]rune(text)[:500])
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", srcLang+"|en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("mymemory: create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mymemory: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mymemory: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("mymemory: read response: %w", err)
	}

	var out myMemoryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("mymemory: decode response: %w", err)
	}
	if out.ResponseStatus != 0 && out.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("mymemory: api status %d", out.ResponseStatus)
	}
	return out.ResponseData.TranslatedText, nil
}
