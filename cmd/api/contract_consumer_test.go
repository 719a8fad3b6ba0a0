//go:build contract

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	pact "github.com/pact-foundation/pact-go/v2"
	"github.com/pact-foundation/pact-go/v2/consumer"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Contract tests need the pact FFI library: go test -tags contract ./cmd/api

const (
	contractConsumer = "erp-frontend"
	contractProvider = "inventory-core"
	pactDir          = "testdata/pacts"

	stateItemExists     = "item item-1 exists with stock 5"
	statePurchaseExists = "purchase PUR-0001 of 10 x item-1 exists"
)

func newContract(t *testing.T) *consumer.V4HTTPMockProvider {
	t.Helper()
	absPath, err := filepath.Abs(pactDir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(absPath, 0755))

	mockProvider, err := pact.NewV4Pact(pact.Config{
		Consumer: contractConsumer,
		Provider: contractProvider,
		PactDir:  pactDir,
	})
	require.NoError(t, err)
	return mockProvider
}

func lineMatcher() matchers.Map {
	return matchers.Map{
		"itemId":    matchers.String("item-1"),
		"quantity":  matchers.Like(10),
		"unitPrice": matchers.Like(5),
		"total":     matchers.Like(50),
	}
}

// send issues a JSON request against the mock server and decodes the reply
func send(config consumer.MockServerConfig, method, path string, body any, want int, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, fmt.Sprintf("http://%s:%d%s", config.Host, config.Port, path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func TestInventoryCoreConsumer(t *testing.T) {
	t.Run("RecordPurchase", func(t *testing.T) {
		err := newContract(t).
			AddInteraction().
			Given(stateItemExists).
			UponReceiving("a request to record a local purchase").
			WithRequest(http.MethodPost, "/api/v1/purchases").
			WithHeader("Content-Type", matchers.String("application/json")).
			WithJSONBody(matchers.Map{
				"supplierId": matchers.Regex("Sup-0001", `^Sup-\d{4,}$`),
				"kind":       matchers.String("local"),
				"items": matchers.EachLike(matchers.Map{
					"itemId":    matchers.String("item-1"),
					"quantity":  matchers.Like(10),
					"unitPrice": matchers.Like(5),
				}, 1),
			}).
			WillRespondWith(http.StatusCreated).
			WithHeader("Content-Type", matchers.String("application/json")).
			WithJSONBody(matchers.Map{
				"id":         matchers.Regex("PUR-0001", `^PUR-\d{4,}$`),
				"supplierId": matchers.String("Sup-0001"),
				"kind":       matchers.String("local"),
				"items":      matchers.EachLike(lineMatcher(), 1),
				"grandTotal": matchers.Like(50),
			}).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				var purchase struct {
					ID         string  `json:"id"`
					GrandTotal float64 `json:"grandTotal"`
				}
				err := send(config, http.MethodPost, "/api/v1/purchases", map[string]any{
					"supplierId": "Sup-0001",
					"kind":       "local",
					"items":      []map[string]any{{"itemId": "item-1", "quantity": 10, "unitPrice": 5}},
				}, http.StatusCreated, &purchase)
				if err != nil {
					return err
				}

				assert.Equal(t, "PUR-0001", purchase.ID)
				assert.Equal(t, 50.0, purchase.GrandTotal)
				return nil
			})

		require.NoError(t, err)
	})

	t.Run("GetPurchase", func(t *testing.T) {
		err := newContract(t).
			AddInteraction().
			Given(statePurchaseExists).
			UponReceiving("a request to get a purchase").
			WithRequest(http.MethodGet, "/api/v1/purchases/PUR-0001").
			WithHeader("Accept", matchers.String("application/json")).
			WillRespondWith(http.StatusOK).
			WithHeader("Content-Type", matchers.String("application/json")).
			WithJSONBody(matchers.Map{
				"id":    matchers.String("PUR-0001"),
				"kind":  matchers.String("local"),
				"items": matchers.EachLike(lineMatcher(), 1),
			}).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				var purchase struct {
					ID    string           `json:"id"`
					Items []map[string]any `json:"items"`
				}
				if err := send(config, http.MethodGet, "/api/v1/purchases/PUR-0001", nil, http.StatusOK, &purchase); err != nil {
					return err
				}

				assert.Equal(t, "PUR-0001", purchase.ID)
				assert.NotEmpty(t, purchase.Items)
				return nil
			})

		require.NoError(t, err)
	})

	t.Run("RecordSale", func(t *testing.T) {
		err := newContract(t).
			AddInteraction().
			Given(stateItemExists).
			UponReceiving("a request to record a sale").
			WithRequest(http.MethodPost, "/api/v1/sales").
			WithHeader("Content-Type", matchers.String("application/json")).
			WithJSONBody(matchers.Map{
				"clientId": matchers.Regex("Cli-0001", `^Cli-\d{4,}$`),
				"items": matchers.EachLike(matchers.Map{
					"itemId":    matchers.String("item-1"),
					"quantity":  matchers.Like(4),
					"unitPrice": matchers.Like(8),
				}, 1),
			}).
			WillRespondWith(http.StatusCreated).
			WithHeader("Content-Type", matchers.String("application/json")).
			WithJSONBody(matchers.Map{
				"id":         matchers.Regex("Sales-0001", `^Sales-\d{4,}$`),
				"clientId":   matchers.String("Cli-0001"),
				"items":      matchers.EachLike(lineMatcher(), 1),
				"grandTotal": matchers.Like(32),
			}).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				var sale struct {
					ID string `json:"id"`
				}
				err := send(config, http.MethodPost, "/api/v1/sales", map[string]any{
					"clientId": "Cli-0001",
					"items":    []map[string]any{{"itemId": "item-1", "quantity": 4, "unitPrice": 8}},
				}, http.StatusCreated, &sale)
				if err != nil {
					return err
				}

				assert.Equal(t, "Sales-0001", sale.ID)
				return nil
			})

		require.NoError(t, err)
	})

	t.Run("CreateAudit", func(t *testing.T) {
		err := newContract(t).
			AddInteraction().
			Given(stateItemExists).
			UponReceiving("a request to create an audit from a physical count").
			WithRequest(http.MethodPost, "/api/v1/audits").
			WithHeader("Content-Type", matchers.String("application/json")).
			WithJSONBody(matchers.Map{
				"rows": matchers.EachLike(matchers.Map{
					"itemId":      matchers.String("item-1"),
					"physicalQty": matchers.Like(7),
				}, 1),
			}).
			WillRespondWith(http.StatusCreated).
			WithHeader("Content-Type", matchers.String("application/json")).
			WithJSONBody(matchers.Map{
				"id":     matchers.Regex("INV-0001", `^INV-\d{4,}$`),
				"status": matchers.String("Draft"),
				"items": matchers.EachLike(matchers.Map{
					"itemId":      matchers.String("item-1"),
					"systemQty":   matchers.Like(5),
					"physicalQty": matchers.Like(7),
					"difference":  matchers.Like(2),
				}, 1),
				"totalImpact": matchers.Like(0),
			}).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				var audit struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				}
				err := send(config, http.MethodPost, "/api/v1/audits", map[string]any{
					"rows": []map[string]any{{"itemId": "item-1", "physicalQty": 7}},
				}, http.StatusCreated, &audit)
				if err != nil {
					return err
				}

				assert.Equal(t, "Draft", audit.Status)
				return nil
			})

		require.NoError(t, err)
	})

	t.Run("VerifyStock", func(t *testing.T) {
		err := newContract(t).
			AddInteraction().
			Given(statePurchaseExists).
			UponReceiving("a request to verify stock against document history").
			WithRequest(http.MethodGet, "/api/v1/stock/verify").
			WithHeader("Accept", matchers.String("application/json")).
			WillRespondWith(http.StatusOK).
			WithHeader("Content-Type", matchers.String("application/json")).
			WithJSONBody(matchers.Map{
				"consistent": matchers.Like(true),
			}).
			ExecuteTest(t, func(config consumer.MockServerConfig) error {
				var report struct {
					Consistent bool `json:"consistent"`
				}
				if err := send(config, http.MethodGet, "/api/v1/stock/verify", nil, http.StatusOK, &report); err != nil {
					return err
				}

				assert.True(t, report.Consistent)
				return nil
			})

		require.NoError(t, err)
	})
}
