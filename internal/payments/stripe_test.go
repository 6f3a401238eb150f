package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiBase string) StripeConfig {
	return StripeConfig{
		SecretKey: "sk_test_123",
		ClientURL: "https://voice-cv.com",
		APIBase:   apiBase,
	}
}

func TestNewStripeProvider_MissingKey(t *testing.T) {
	_, err := NewStripeProvider(StripeConfig{ClientURL: "https://voice-cv.com"})

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Error(), "secret key")
}

func TestNewStripeProvider_Defaults(t *testing.T) {
	p, err := NewStripeProvider(testConfig(""))
	require.NoError(t, err)

	assert.Equal(t, "Suscripción Voice-CV", p.config.ProductName)
	assert.Equal(t, "eur", p.config.Currency)
	assert.Equal(t, 1, p.config.UnitAmount)
	assert.Equal(t, DefaultAPIBase, p.config.APIBase)
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())

		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/pay/cs_test_1"}`))
	}))
	defer srv.Close()

	p, err := NewStripeProvider(testConfig(srv.URL))
	require.NoError(t, err)

	session, err := p.CreateCheckoutSession(context.Background(), "uid-123", "juan@x.com")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", session.URL)

	assert.Equal(t, "payment", gotForm["mode"])
	assert.Equal(t, "eur", gotForm["line_items[0][price_data][currency]"])
	assert.Equal(t, "Suscripción Voice-CV", gotForm["line_items[0][price_data][product_data][name]"])
	assert.Equal(t, "1", gotForm["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "uid-123", gotForm["metadata[uid]"])
	assert.Equal(t, "juan@x.com", gotForm["customer_email"])
	assert.Contains(t, gotForm["success_url"], "session_id={CHECKOUT_SESSION_ID}")
	assert.Contains(t, gotForm["success_url"], "uid=uid-123")
	assert.Contains(t, gotForm["cancel_url"], "canceled=true")
}

func TestCreateCheckoutSession_ProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	p, err := NewStripeProvider(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = p.CreateCheckoutSession(context.Background(), "uid-123", "")
	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
}

func TestGetCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/v1/checkout/sessions/cs_test_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","payment_status":"paid","status":"complete"}`))
	}))
	defer srv.Close()

	p, err := NewStripeProvider(testConfig(srv.URL))
	require.NoError(t, err)

	status, err := p.GetCheckoutSession(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.True(t, status.Paid())
}

func TestSessionStatus_Paid(t *testing.T) {
	tests := []struct {
		name   string
		status *SessionStatus
		want   bool
	}{
		{"nil session", nil, false},
		{"unpaid open session", &SessionStatus{PaymentStatus: "unpaid", Status: "open"}, false},
		{"paid", &SessionStatus{PaymentStatus: "paid"}, true},
		{"complete without payment_status", &SessionStatus{Status: "complete"}, true},
		{"expired", &SessionStatus{PaymentStatus: "unpaid", Status: "expired"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Paid())
		})
	}
}
