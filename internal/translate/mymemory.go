// Package translate machine-translates menu text from the source language into
// the target languages.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mahmoud22020/Pvdmenus/pkg/httpclient"
)

// ErrNoTranslation is returned when the provider answers without usable text.
var ErrNoTranslation = errors.New("no translation returned")

// providerCodes maps our language codes to the provider's where they differ.
var providerCodes = map[string]string{
	"zh": "zh-CN",
}

// MyMemory calls the MyMemory translation API.
type MyMemory struct {
	doer   httpclient.Doer
	apiURL string
	source string
}

// NewMyMemory creates a client for the API at apiURL translating from source.
func NewMyMemory(doer httpclient.Doer, apiURL, source string) *MyMemory {
	return &MyMemory{doer: doer, apiURL: apiURL, source: source}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// The API sends the status as a number or as a string.
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

func (r myMemoryResponse) status() string {
	return strings.Trim(string(r.ResponseStatus), `"`)
}

// Translate returns text in lang. Blank text translates to blank without a call.
func (m *MyMemory) Translate(ctx context.Context, text, lang string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	target := lang
	if code, ok := providerCodes[lang]; ok {
		target = code
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", m.source+"|"+target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.apiURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create translate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var out myMemoryResponse
	if err := httpclient.DoJSON(ctx, m.doer, req, "mymemory", &out); err != nil {
		return "", fmt.Errorf("translate to %s: %w", lang, err)
	}
	if s := out.status(); s != "" && s != "200" {
		return "", fmt.Errorf("translate to %s: provider status %s: %s", lang, s, out.ResponseDetails)
	}

	translated := strings.TrimSpace(out.ResponseData.TranslatedText)
	if translated == "" {
		return "", fmt.Errorf("translate to %s: %w", lang, ErrNoTranslation)
	}
	return translated, nil
}
