package bankfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bill-tracker/internal/domain"
)

func TestBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/balances" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("user_id") != "42" {
			t.Errorf("user_id not forwarded, query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer feed-token" {
			t.Error("missing proxy token")
		}
		w.Write([]byte(`{"accounts":[{"account_id":"ext-1","name":"Main","type":"checking","balance":1520.75,"currency":"$"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "feed-token")
	accounts, err := client.Balances(context.Background(), 42)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}
	if accounts[0].ExternalID != "ext-1" || !accounts[0].Balance.Equal(decimal.RequireFromString("1520.75")) {
		t.Errorf("unexpected account: %+v", accounts[0])
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"accounts":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	if _, err := client.Balances(context.Background(), 1); err != nil {
		t.Fatalf("expected retries to recover, got: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("got %d calls, want 3", calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	if _, err := client.Balances(context.Background(), 1); err == nil {
		t.Fatal("expected error on 403")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d calls", calls.Load())
	}
}

// fakeStore записывает вызовы синхронизации.
type fakeStore struct {
	accounts []domain.Account
	txs      []domain.Transaction
}

func (f *fakeStore) UpsertAccountByExternalID(_ context.Context, acc *domain.Account, _ time.Time) error {
	f.accounts = append(f.accounts, *acc)
	return nil
}

func (f *fakeStore) InsertTransactions(_ context.Context, txs []domain.Transaction) (int, error) {
	f.txs = append(f.txs, txs...)
	return len(txs), nil
}

func TestSync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/balances":
			w.Write([]byte(`{"accounts":[
				{"account_id":"ext-1","name":"Main","type":"checking","balance":100,"currency":"$"},
				{"account_id":"ext-2","name":"Weird","type":"crypto","balance":5,"currency":"$"}
			]}`))
		case "/transactions":
			w.Write([]byte(`{"transactions":[
				{"transaction_id":"t1","account_id":"ext-1","date":"2025-06-10","name":"Coffee","amount":-4.50,"currency":"$"},
				{"transaction_id":"t2","account_id":"ext-1","date":"not-a-date","name":"Broken","amount":1,"currency":"$"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	store := &fakeStore{}
	syncer := NewSyncer(NewClient(srv.URL, "tok"), store)

	res, err := syncer.Sync(context.Background(), 7)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if res.AccountsSynced != 2 {
		t.Errorf("AccountsSynced = %d, want 2", res.AccountsSynced)
	}
	// неизвестный тип счёта падает в other
	if store.accounts[1].Type != domain.AccountOther {
		t.Errorf("unknown type mapped to %q, want other", store.accounts[1].Type)
	}
	// транзакция с кривой датой пропускается, не роняя синхронизацию
	if res.TransactionsImported != 1 {
		t.Errorf("TransactionsImported = %d, want 1", res.TransactionsImported)
	}
	if store.txs[0].ExternalID != "t1" || !store.txs[0].Amount.Equal(decimal.RequireFromString("-4.5")) {
		t.Errorf("unexpected imported transaction: %+v", store.txs[0])
	}
}
