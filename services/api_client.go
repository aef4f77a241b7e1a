package services

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
	"time"

	"github.com/fenilmodi00/ipo-companion/models"
	"github.com/fenilmodi00/ipo-companion/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const marketAPIServiceName = "MarketAPIClient"

// maxResponseBytes bounds how much of an upstream body is read
const maxResponseBytes = 4 << 20

type contextKey string

const freshDataKey contextKey = "fresh_data"

// WithFreshData marks ctx so GET requests skip the response cache
func WithFreshData(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshDataKey, true)
}

func wantsFreshData(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshDataKey).(bool)
	return fresh
}

// TokenProvider supplies the bearer token of the current session, or ""
type TokenProvider interface {
	Token() string
}

// IPOQuery filters the IPO list endpoint
type IPOQuery struct {
	Status string `json:"status"`
	IsSME  *bool  `json:"is_sme"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

// GMPQuery filters the GMP trends endpoint
type GMPQuery struct {
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	IsSME      *bool    `json:"is_sme"`
	Status     string   `json:"status"`
	MinPremium *float64 `json:"min_premium"`
	MaxPremium *float64 `json:"max_premium"`
}

// BuybackQuery filters the buyback endpoint
type BuybackQuery struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Status string `json:"status"`
}

// MarketAPIClient talks to the remote market-data REST API. Requests are paced by a
// rate limiter and bounded by the client timeout. Failures are never retried.
type MarketAPIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *shared.HTTPRequestRateLimiter
	cache      *CacheService
	metrics    *shared.ServiceMetrics
	tokens     TokenProvider
	logger     *logrus.Entry
}

// NewMarketAPIClient creates a client for the configured base URL. cache may be nil.
func NewMarketAPIClient(config shared.ServiceConfig, factory *shared.HTTPClientFactory, cache *CacheService) *MarketAPIClient {
	if factory == nil {
		factory = shared.NewHTTPClientFactory(shared.DefaultHTTPTimeout)
	}
	timeout := config.HTTPRequestTimeout
	if timeout <= 0 {
		timeout = shared.DefaultHTTPTimeout
	}
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = shared.DefaultBaseURL
	}

	return &MarketAPIClient{
		baseURL:    baseURL,
		httpClient: factory.CreateHTTPClient(timeout),
		limiter:    shared.NewHTTPRequestRateLimiter(config.RequestsPerSecond, config.RequestBurst),
		cache:      cache,
		metrics:    shared.NewServiceMetrics(marketAPIServiceName),
		logger: logrus.WithFields(logrus.Fields{
			"component": marketAPIServiceName,
			"base_url":  baseURL,
		}),
	}
}

// SetTokenProvider attaches the session used for bearer authentication
func (c *MarketAPIClient) SetTokenProvider(tokens TokenProvider) {
	c.tokens = tokens
}

// Metrics returns the client's request metrics
func (c *MarketAPIClient) Metrics() *shared.ServiceMetrics {
	return c.metrics
}

// RequestCount returns how many requests passed the rate limiter
func (c *MarketAPIClient) RequestCount() int64 {
	return c.limiter.GetRequestCount()
}

// FetchIPOs returns one page of IPO listings
func (c *MarketAPIClient) FetchIPOs(ctx context.Context, query IPOQuery) ([]models.IPOListing, error) {
	params := pageParams(query.Page, query.Limit)
	setIfNotEmpty(params, "status", query.Status)
	setBool(params, "is_sme", query.IsSME)

	var page models.IPOListPage
	if err := c.getJSON(ctx, "FetchIPOs", "/ipos", params, true, &page); err != nil {
		return nil, err
	}
	return page.IPOs, nil
}

// FetchGMPTrends returns one page of IPO listings with grey-market premiums
func (c *MarketAPIClient) FetchGMPTrends(ctx context.Context, query GMPQuery) ([]models.IPOListing, error) {
	params := pageParams(query.Page, query.Limit)
	setIfNotEmpty(params, "status", query.Status)
	setBool(params, "is_sme", query.IsSME)
	setFloat(params, "min_premium", query.MinPremium)
	setFloat(params, "max_premium", query.MaxPremium)

	var page models.IPOListPage
	if err := c.getJSON(ctx, "FetchGMPTrends", "/ipos/gmp", params, true, &page); err != nil {
		return nil, err
	}
	return page.IPOs, nil
}

// FetchIPODetails returns the full details of one IPO
func (c *MarketAPIClient) FetchIPODetails(ctx context.Context, id string) (*models.IPODetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shared.NewServiceError(shared.ErrorCategoryValidation, "MISSING_ID",
			"ipo id is required", marketAPIServiceName, "FetchIPODetails", false, nil)
	}

	var details models.IPODetails
	if err := c.getJSON(ctx, "FetchIPODetails", "/ipos/"+url.PathEscape(id), nil, true, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// FetchBuybacks returns one page of buyback offers
func (c *MarketAPIClient) FetchBuybacks(ctx context.Context, query BuybackQuery) ([]models.BuybackOffer, error) {
	params := pageParams(query.Page, query.Limit)
	setIfNotEmpty(params, "status", query.Status)

	var page models.BuybackPage
	if err := c.getJSON(ctx, "FetchBuybacks", "/buybacks", params, true, &page); err != nil {
		return nil, err
	}
	return page.Buybacks, nil
}

// FetchBrokers returns all brokers. The endpoint answers with a bare array or
// {"brokers": [...]}.
func (c *MarketAPIClient) FetchBrokers(ctx context.Context) ([]models.Broker, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "FetchBrokers", "/brokers", nil, true, &raw); err != nil {
		return nil, err
	}

	var brokers []models.Broker
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Brokers []models.Broker `json:"brokers"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, decodeError("FetchBrokers", err)
		}
		return wrapped.Brokers, nil
	}
	if err := json.Unmarshal(trimmed, &brokers); err != nil {
		return nil, decodeError("FetchBrokers", err)
	}
	return brokers, nil
}

// Login submits credentials. Rejected credentials are a response with Success false,
// not an error.
func (c *MarketAPIClient) Login(ctx context.Context, credentials models.Credentials) (*models.LoginResponse, error) {
	var response models.LoginResponse
	status, err := c.doJSON(ctx, "Login", http.MethodPost, "/auth/login", nil, credentials, &response, authRejectionStatuses...)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		response.Success = false
	}
	return &response, nil
}

// Register creates an account. Rejections are a response with Success false.
func (c *MarketAPIClient) Register(ctx context.Context, credentials models.Credentials) (*models.RegisterResponse, error) {
	var response models.RegisterResponse
	status, err := c.doJSON(ctx, "Register", http.MethodPost, "/auth/register", nil, credentials, &response, authRejectionStatuses...)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		response.Success = false
	}
	return &response, nil
}

// GetPortfolio returns the user's ledger and its server-side summary. Never cached.
func (c *MarketAPIClient) GetPortfolio(ctx context.Context, userID string) (*models.Portfolio, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, shared.NewServiceError(shared.ErrorCategoryValidation, "MISSING_USER_ID",
			"user id is required", marketAPIServiceName, "GetPortfolio", false, nil)
	}

	var portfolio models.Portfolio
	if err := c.getJSON(ctx, "GetPortfolio", "/portfolio/"+url.PathEscape(userID), nil, false, &portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// AddPortfolioTransaction submits a new ledger entry
func (c *MarketAPIClient) AddPortfolioTransaction(ctx context.Context, request models.PortfolioTransactionRequest) (*models.Ack, error) {
	var ack models.Ack
	if _, err := c.doJSON(ctx, "AddPortfolioTransaction", http.MethodPost, "/portfolio", nil, request, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

var authRejectionStatuses = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusConflict,
	http.StatusUnprocessableEntity,
}

// getJSON issues a GET, serving and filling the response cache when cacheable
func (c *MarketAPIClient) getJSON(ctx context.Context, operation, path string, params url.Values, cacheable bool, out interface{}) error {
	requestURL := c.buildURL(path, params)
	useCache := cacheable && c.cache != nil

	if useCache && !wantsFreshData(ctx) {
		if body, found := c.cache.Get(requestURL); found {
			c.metrics.IncrementCustomCounter("cache_hits")
			if err := json.Unmarshal(body, out); err != nil {
				c.cache.Delete(requestURL)
				return decodeError(operation, err)
			}
			return nil
		}
	}

	body, _, err := c.execute(ctx, operation, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return decodeError(operation, err)
	}

	if useCache {
		c.cache.Set(requestURL, body)
	}
	return nil
}

// doJSON sends payload as JSON and decodes the response into out. Statuses listed in
// accept are decoded like successes; the status is returned.
func (c *MarketAPIClient) doJSON(ctx context.Context, operation, method, path string, params url.Values, payload, out interface{}, accept ...int) (int, error) {
	var encoded []byte
	if payload != nil {
		var marshalError error
		encoded, marshalError = json.Marshal(payload)
		if marshalError != nil {
			return 0, shared.WrapError(marshalError, shared.ErrorCategoryProcessing, "ENCODE_FAILED",
				marketAPIServiceName, operation, false)
		}
	}

	body, status, err := c.execute(ctx, operation, method, c.buildURL(path, params), encoded, accept...)
	if err != nil {
		return status, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return status, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return status, decodeError(operation, err)
	}
	return status, nil
}

// execute performs one round trip and classifies every failure as a ServiceError
func (c *MarketAPIClient) execute(ctx context.Context, operation, method, requestURL string, payload []byte, accept ...int) ([]byte, int, error) {
	requestID := uuid.NewString()
	logger := c.logger.WithFields(logrus.Fields{
		"operation":  operation,
		"method":     method,
		"request_id": requestID,
	})

	if limitError := c.limiter.Wait(ctx); limitError != nil {
		return nil, 0, shared.ClassifyTransportError(limitError, marketAPIServiceName, operation)
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpRequest, requestError := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if requestError != nil {
		return nil, 0, shared.WrapError(requestError, shared.ErrorCategoryConfiguration, "INVALID_REQUEST",
			marketAPIServiceName, operation, false)
	}
	shared.SetJSONHeaders(httpRequest, requestID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpRequest.Header.Set("Authorization", "Bearer "+token)
		}
	}

	startTime := time.Now()
	httpResponse, executionError := c.httpClient.Do(httpRequest)
	elapsed := time.Since(startTime)

	if executionError != nil {
		serviceErr := shared.ClassifyTransportError(executionError, marketAPIServiceName, operation)
		c.metrics.RecordHTTPRequest(operation, false, 0, elapsed, serviceErr.Category == shared.ErrorCategoryTimeout)
		logger.WithError(executionError).WithField("category", serviceErr.Category).Warn("Market API request failed")
		return nil, 0, serviceErr
	}
	defer httpResponse.Body.Close()

	body, readError := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseBytes))
	if readError != nil {
		serviceErr := shared.ClassifyTransportError(readError, marketAPIServiceName, operation)
		c.metrics.RecordHTTPRequest(operation, false, httpResponse.StatusCode, elapsed, serviceErr.Category == shared.ErrorCategoryTimeout)
		return nil, httpResponse.StatusCode, serviceErr.WithStatusCode(httpResponse.StatusCode)
	}

	statusCode := httpResponse.StatusCode
	accepted := statusCode >= 200 && statusCode < 300
	for _, status := range accept {
		if statusCode == status {
			accepted = true
		}
	}

	c.metrics.RecordHTTPRequest(operation, accepted, statusCode, elapsed, false)
	logger.WithFields(logrus.Fields{
		"status_code": statusCode,
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("Market API request completed")

	if !accepted {
		return nil, statusCode, statusError(operation, statusCode, body)
	}
	return body, statusCode, nil
}

func (c *MarketAPIClient) buildURL(path string, params url.Values) string {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}
	return requestURL
}

// statusError maps an upstream HTTP status onto the error taxonomy, keeping the
// server's message when the body carries one
func statusError(operation string, statusCode int, body []byte) *shared.ServiceError {
	message := upstreamMessage(body)
	if message == "" {
		message = fmt.Sprintf("market API returned HTTP %d", statusCode)
	}

	category := shared.ErrorCategoryUpstream
	code := "UPSTREAM_ERROR"
	retryable := false

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		category, code = shared.ErrorCategoryAuthentication, "UNAUTHORIZED"
	case statusCode == http.StatusNotFound:
		category, code = shared.ErrorCategoryResource, "NOT_FOUND"
	case statusCode == http.StatusTooManyRequests:
		code, retryable = "RATE_LIMITED", true
	case statusCode == http.StatusRequestTimeout || statusCode == http.StatusGatewayTimeout:
		category, code, retryable = shared.ErrorCategoryTimeout, "UPSTREAM_TIMEOUT", true
	case statusCode >= 500:
		code, retryable = "UPSTREAM_UNAVAILABLE", true
	case statusCode >= 400:
		category, code = shared.ErrorCategoryValidation, "REJECTED"
	}

	return shared.NewServiceError(category, code, message, marketAPIServiceName, operation, retryable, nil).
		WithStatusCode(statusCode)
}

// upstreamMessage extracts "message" or "error" from a JSON error body
func upstreamMessage(body []byte) string {
	var envelope struct {
		Message models.FlexString `json:"message"`
		Error   json.RawMessage   `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if !envelope.Message.IsBlank() {
		return envelope.Message.String()
	}
	var text models.FlexString
	if len(envelope.Error) > 0 && text.UnmarshalJSON(envelope.Error) == nil {
		return text.String()
	}
	return ""
}

func decodeError(operation string, err error) *shared.ServiceError {
	var syntaxError *json.SyntaxError
	code := "DECODE_FAILED"
	if errors.As(err, &syntaxError) {
		code = "MALFORMED_JSON"
	}
	return shared.WrapError(err, shared.ErrorCategoryProcessing, code, marketAPIServiceName, operation, false)
}

func pageParams(page, limit int) url.Values {
	params := url.Values{}
	if page <= 0 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

func setIfNotEmpty(params url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		params.Set(key, value)
	}
}

func setBool(params url.Values, key string, value *bool) {
	if value != nil {
		params.Set(key, strconv.FormatBool(*value))
	}
}

func setFloat(params url.Values, key string, value *float64) {
	if value != nil {
		params.Set(key, strconv.FormatFloat(*value, 'f', -1, 64))
	}
}
