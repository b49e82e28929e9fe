package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

var ErrKakaoNotConfigured = errors.New("kakao rest api key is not configured")

// KakaoClient — прокси к Kakao Local REST API (поиск мест и адресов).
type KakaoClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewKakaoClient(apiKey, baseURL string) *KakaoClient {
	return &KakaoClient{APIKey: apiKey, BaseURL: baseURL, HTTP: http.DefaultClient}
}

type KeywordSearchOptions struct {
	Page   int
	Size   int
	X, Y   string
	Radius int
}

func (c *KakaoClient) get(path string, params url.Values) (json.RawMessage, error) {
	if c.APIKey == "" {
		return nil, ErrKakaoNotConfigured
	}
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "KakaoAK "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kakao request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var errCheck struct {
		ErrorType string `json:"error_type"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &errCheck); err == nil && errCheck.ErrorType != "" {
		msg := errCheck.Message
		if msg == "" {
			msg = errCheck.ErrorType
		}
		return nil, fmt.Errorf("kakao api: %s", msg)
	}
	return json.RawMessage(body), nil
}

func (c *KakaoClient) SearchByKeyword(query string, opts KeywordSearchOptions) (json.RawMessage, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Size <= 0 {
		opts.Size = 15
	}
	if opts.Size > 30 {
		opts.Size = 30
	}
	params := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(opts.Page)},
		"size":  {strconv.Itoa(opts.Size)},
	}
	if opts.X != "" && opts.Y != "" {
		params.Set("x", opts.X)
		params.Set("y", opts.Y)
		if opts.Radius > 0 {
			params.Set("radius", strconv.Itoa(opts.Radius))
		}
	}
	return c.get("/v2/local/search/keyword.json", params)
}

func (c *KakaoClient) SearchByAddress(query string, page, size int) (json.RawMessage, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	if size > 30 {
		size = 30
	}
	params := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
		"size":  {strconv.Itoa(size)},
	}
	return c.get("/v2/local/search/address.json", params)
}

func (c *KakaoClient) Coord2Address(lng, lat string) (json.RawMessage, error) {
	params := url.Values{"x": {lng}, "y": {lat}}
	return c.get("/v2/local/geo/coord2address.json", params)
}
