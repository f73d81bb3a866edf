// internal/bankfeed/client.go
package bankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
)

// Client ходит в прокси банковского агрегатора. Контракт прокси —
// непрозрачный JSON запрос/ответ; токены банка сюда не попадают,
// ими владеет сам прокси.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// AccountBalance — счёт в формате прокси.
type AccountBalance struct {
	ExternalID string          `json:"account_id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
	Currency   string          `json:"currency"`
}

// FeedTransaction — транзакция в формате прокси. Amount со знаком,
// отрицательное значение — списание.
type FeedTransaction struct {
	ExternalID string          `json:"transaction_id"`
	AccountID  string          `json:"account_id"`
	Date       string          `json:"date"` // YYYY-MM-DD
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Currency   string          `json:"currency"`
}

type balancesResponse struct {
	Accounts []AccountBalance `json:"accounts"`
}

type transactionsResponse struct {
	Transactions []FeedTransaction `json:"transactions"`
}

func (c *Client) Balances(ctx context.Context, userID int64) ([]AccountBalance, error) {
	var resp balancesResponse
	if err := c.getJSON(ctx, "/balances", userID, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch balances: %w", err)
	}
	return resp.Accounts, nil
}

func (c *Client) Transactions(ctx context.Context, userID int64, since time.Time) ([]FeedTransaction, error) {
	params := url.Values{"since": {since.Format("2006-01-02")}}
	var resp transactionsResponse
	if err := c.getJSON(ctx, "/transactions", userID, params, &resp); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	return resp.Transactions, nil
}

// getJSON делает GET с экспоненциальным повтором: сетевые сбои и 5xx
// повторяются, 4xx — нет.
func (c *Client) getJSON(ctx context.Context, path string, userID int64, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("user_id", strconv.FormatInt(userID, 10))
	endpoint := c.baseURL + path + "?" + params.Encode()

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("proxy returned %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("proxy returned %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}
