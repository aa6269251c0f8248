package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/brasaerp/brasaerp/internal/shared"
	"github.com/brasaerp/brasaerp/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{})
	require.NoError(t, err)
	sessions := shared.NewSessionManager("test_session", time.Hour, false)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if sess := sessions.Load(req); sess != nil {
				req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
			}
			next.ServeHTTP(w, req)
		})
	})
	NewHandler(nil, st, sessions).MountRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, st
}

// login signs the user in and returns a client carrying the session
// cookie.
func login(t *testing.T, srv *httptest.Server, username, password string) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/auth/login",
		map[string]string{"username": username, "password": password})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return client
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedUser(t *testing.T, st *store.Store, username string, role store.Role) {
	t.Helper()
	_, err := st.AddUser("seed", store.User{
		Name: "Test " + username, Username: username, Role: role,
	}, "charcoal1")
	require.NoError(t, err)
}

func TestAuthFlow(t *testing.T) {
	srv, st := newTestServer(t)
	seedUser(t, st, "boss", store.RoleAdmin)

	// No session is a 401 on every protected route.
	resp, err := http.Get(srv.URL + "/suppliers")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Bad credentials are rejected without detail.
	resp = doJSON(t, http.DefaultClient, http.MethodPost, srv.URL+"/auth/login",
		map[string]string{"username": "boss", "password": "wrong"})
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	client := login(t, srv, "boss", "charcoal1")
	resp, err = client.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	me := decodeBody[store.User](t, resp)
	require.Equal(t, "boss", me.Username)
	require.Empty(t, me.PasswordHash)

	resp = doJSON(t, client, http.MethodPost, srv.URL+"/auth/logout", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = client.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPermissionEnforcement(t *testing.T) {
	srv, st := newTestServer(t)
	seedUser(t, st, "depot", store.RoleItaguai)
	client := login(t, srv, "depot", "charcoal1")

	// The depot role manages sales but not users or production.
	resp, err := client.Get(srv.URL + "/sales")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, path := range []string{"/users", "/production", "/audit", "/finance"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestSupplierEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	seedUser(t, st, "boss", store.RoleAdmin)
	client := login(t, srv, "boss", "charcoal1")

	resp := doJSON(t, client, http.MethodPost, srv.URL+"/suppliers",
		map[string]string{"name": "Carvoaria Boa Vista", "phone": "21 99999-0000"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[store.Supplier](t, resp)
	require.NotEmpty(t, created.ID)

	// Malformed email is a validation error, not a 500.
	resp = doJSON(t, client, http.MethodPost, srv.URL+"/suppliers",
		map[string]string{"name": "Bad", "email": "not-an-email"})
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err := client.Get(srv.URL + "/suppliers")
	require.NoError(t, err)
	list := decodeBody[[]store.Supplier](t, resp)
	require.Len(t, list, 1)

	resp, err = client.Get(srv.URL + "/suppliers/" + created.ID + "/stats")
	require.NoError(t, err)
	stats := decodeBody[map[string]any](t, resp)
	require.Equal(t, 0.0, stats["total_input_kg"])
}

func TestSaleResolvesPriceFromTable(t *testing.T) {
	srv, st := newTestServer(t)
	seedUser(t, st, "boss", store.RoleAdmin)

	_, err := st.AddPriceTable("seed", store.PriceTable{
		Name:    "Balcao",
		Default: true,
		Method:  store.PaymentCash,
		Prices: map[store.ProductType]decimal.Decimal{
			store.Product3kg: decimal.NewFromInt(15),
		},
	})
	require.NoError(t, err)
	seedStock(t, st, store.Product3kg, 50)

	client := login(t, srv, "boss", "charcoal1")
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/sales", map[string]any{
		"location": "factory",
		"method":   "cash",
		"items":    []map[string]any{{"product": "3kg", "quantity": 10}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decodeBody[store.Sale](t, resp)
	require.True(t, sale.Total.Equal(decimal.NewFromInt(150)))
	require.True(t, sale.Items[0].UnitPrice.Equal(decimal.NewFromInt(15)))
}

func TestSaleInsufficientStockConflict(t *testing.T) {
	srv, st := newTestServer(t)
	seedUser(t, st, "boss", store.RoleAdmin)
	seedStock(t, st, store.Product3kg, 5)

	client := login(t, srv, "boss", "charcoal1")
	resp := doJSON(t, client, http.MethodPost, srv.URL+"/sales", map[string]any{
		"location": "factory",
		"method":   "cash",
		"items": []map[string]any{
			{"product": "3kg", "quantity": 10, "unit_price": "15"},
		},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

// seedStock provisions factory inventory through the supply chain.
func seedStock(t *testing.T, st *store.Store, p store.ProductType, bags int) {
	t.Helper()
	sup, err := st.AddSupplier("seed", store.Supplier{Name: "Carvoaria Teste"})
	require.NoError(t, err)
	rawKg := float64(bags)*p.UnitWeightKg() + 50
	po, err := st.AddPurchaseOrder("seed", store.PurchaseOrder{
		SupplierID: sup.ID,
		Items: []store.PurchaseOrderItem{
			{Material: "raw charcoal", QuantityKg: rawKg, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	require.NoError(t, st.UpdatePurchaseOrderStatus("seed", po.ID, store.PurchaseReceived))
	_, err = st.AddProductionBatch("seed", store.ProductionBatch{
		Inputs:  []store.BatchInput{{SupplierID: sup.ID, WeightKg: rawKg}},
		Outputs: []store.BatchOutput{{Product: p, Bags: bags}},
	})
	require.NoError(t, err)
}
