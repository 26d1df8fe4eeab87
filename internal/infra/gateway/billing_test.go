package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBillingCreateAccount(t *testing.T) {
	var got billingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/accounts" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"accountId": "acct-42",
			"status":    "ACTIVE",
		})
	}))
	defer srv.Close()

	client := NewBillingClient(srv.URL)

	account, err := client.CreateAccount(context.Background(), "pid-1", "Ana", "ana@x.com")
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	if account.AccountID != "acct-42" || account.Status != "ACTIVE" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if got.PatientID != "pid-1" || got.Name != "Ana" || got.Email != "ana@x.com" {
		t.Fatalf("request fields wrong: %+v", got)
	}
}

func TestBillingRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewBillingClient(srv.URL)

	if _, err := client.CreateAccount(context.Background(), "pid-1", "Ana", "ana@x.com"); err == nil {
		t.Fatalf("expected an error on 500")
	}
}

func TestBillingTimeoutIsBounded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewBillingClient(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.CreateAccount(ctx, "pid-1", "Ana", "ana@x.com")
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("call must respect the deadline")
	}
}

func TestBillingConnectionRefused(t *testing.T) {
	client := NewBillingClient("http://127.0.0.1:1")

	if _, err := client.CreateAccount(context.Background(), "pid-1", "Ana", "ana@x.com"); err == nil {
		t.Fatalf("expected a transport error")
	}
}
