package stripe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	log := logger.New(logger.ERROR)
	log.SetOutput(io.Discard)
	return log
}

// newTestClient поднимает фейковый API процессора и возвращает клиент,
// направленный на него
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{SecretKey: "sk_test_secret", BaseURL: srv.URL}, testLogger())
}

func TestCreateCharge_SendsFormEncodedRequest(t *testing.T) {
	var gotReq *http.Request
	var gotForm url.Values

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotReq = r
		gotForm = r.PostForm
		w.Write([]byte(`{"id":"ch_123","object":"charge","amount":1999,"currency":"usd","paid":true,"captured":true}`))
	})

	charge, err := client.CreateCharge(context.Background(), domain.ChargeRequest{
		Amount:      1999,
		Currency:    "usd",
		Description: "Guest (john@example.com) John Doe",
		Capture:     true,
		Token:       "tok_visa",
	})

	require.NoError(t, err)
	assert.Equal(t, "ch_123", charge.ID)
	assert.Equal(t, int64(1999), charge.Amount)
	assert.True(t, charge.Captured)

	// Секретный ключ уходит именем пользователя basic auth с пустым паролем
	user, pass, ok := gotReq.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "sk_test_secret", user)
	assert.Equal(t, "", pass)

	assert.Equal(t, "POST", gotReq.Method)
	assert.Equal(t, "/charges", gotReq.URL.Path)
	assert.Equal(t, "application/x-www-form-urlencoded", gotReq.Header.Get("Content-Type"))
	assert.Equal(t, "1999", gotForm.Get("amount"))
	assert.Equal(t, "usd", gotForm.Get("currency"))
	assert.Equal(t, "tok_visa", gotForm.Get("card"))

	// При немедленном списании параметр capture не передается
	_, hasCapture := gotForm["capture"]
	assert.False(t, hasCapture)
}

func TestCreateCharge_AuthorizeOnly(t *testing.T) {
	var gotForm url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Write([]byte(`{"id":"ch_auth","amount":5000,"currency":"usd","paid":true,"captured":false}`))
	})

	_, err := client.CreateCharge(context.Background(), domain.ChargeRequest{
		Amount:     5000,
		Currency:   "usd",
		CustomerID: "cus_1",
		CardID:     "card_1",
	})

	require.NoError(t, err)
	assert.Equal(t, "false", gotForm.Get("capture"))
	assert.Equal(t, "cus_1", gotForm.Get("customer"))
	assert.Equal(t, "card_1", gotForm.Get("card"))
}

func TestCreateCharge_RejectsAmbiguousMethod(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	// Токен и сохраненная карта одновременно дают ошибку до обращения к API
	_, err := client.CreateCharge(context.Background(), domain.ChargeRequest{
		Amount:     100,
		Currency:   "usd",
		Token:      "tok_visa",
		CustomerID: "cus_1",
		CardID:     "card_1",
	})
	assert.ErrorIs(t, err, domain.ErrAmbiguousChargeMethod)

	// И ни одного способа тоже
	_, err = client.CreateCharge(context.Background(), domain.ChargeRequest{
		Amount:   100,
		Currency: "usd",
	})
	assert.ErrorIs(t, err, domain.ErrAmbiguousChargeMethod)

	assert.False(t, called)
}

func TestDo_ErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	})

	_, err := client.CreateCharge(context.Background(), domain.ChargeRequest{
		Amount: 100, Currency: "usd", Token: "tok_visa",
	})

	var procErr *ProcessorError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "card_error", procErr.Type)
	assert.Equal(t, "card_declined", procErr.Code)
	assert.Equal(t, "Your card was declined.", procErr.Message)
	assert.Equal(t, http.StatusPaymentRequired, procErr.StatusCode)
	assert.Equal(t, "Your card was declined.", procErr.Error())
}

func TestDo_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.GetCustomer(context.Background(), "cus_1")

	var procErr *ProcessorError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "Empty response.", procErr.Message)
}

func TestDo_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	})

	_, err := client.GetCustomer(context.Background(), "cus_1")

	var procErr *ProcessorError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "Invalid response.", procErr.Message)
}

func TestDo_ConnectionError(t *testing.T) {
	// Сервер закрыт до запроса: транспортная ошибка
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(Config{SecretKey: "sk_test_secret", BaseURL: srv.URL}, testLogger())
	_, err := client.GetCustomer(context.Background(), "cus_1")

	var procErr *ProcessorError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "There was a problem connecting to the payment gateway.", procErr.Message)
}

func TestCreateCustomer(t *testing.T) {
	var gotForm url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		assert.Equal(t, "/customers", r.URL.Path)
		w.Write([]byte(`{
			"id":"cus_1","object":"customer","email":"john@example.com","default_card":"card_1",
			"cards":{"data":[{"id":"card_1","brand":"Visa","last4":"4242","exp_month":12,"exp_year":2030}]}
		}`))
	})

	cust, err := client.CreateCustomer(context.Background(), "tok_visa", "john@example.com", "jdoe checkout")

	require.NoError(t, err)
	assert.Equal(t, "tok_visa", gotForm.Get("card"))
	assert.Equal(t, "john@example.com", gotForm.Get("email"))
	assert.Equal(t, "cus_1", cust.ID)

	card := cust.CardByID(cust.DefaultCard)
	require.NotNil(t, card)
	assert.Equal(t, "4242", card.Last4)
	assert.Nil(t, cust.CardByID("card_missing"))
}

func TestAddCard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers/cus_1/cards", r.URL.Path)
		w.Write([]byte(`{"id":"card_2","object":"card","brand":"MasterCard","last4":"4444","exp_month":1,"exp_year":2031,"customer":"cus_1"}`))
	})

	card, err := client.AddCard(context.Background(), "cus_1", "tok_mc")

	require.NoError(t, err)
	assert.Equal(t, "card_2", card.ID)
	assert.Equal(t, "4444", card.Last4)
}

func TestCaptureCharge(t *testing.T) {
	var gotForm url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		assert.Equal(t, "/charges/ch_1/capture", r.URL.Path)
		w.Write([]byte(`{"id":"ch_1","amount":2100,"currency":"usd","captured":true}`))
	})

	t.Run("with amount override", func(t *testing.T) {
		charge, err := client.CaptureCharge(context.Background(), "ch_1", 2100)
		require.NoError(t, err)
		assert.True(t, charge.Captured)
		assert.Equal(t, "2100", gotForm.Get("amount"))
	})

	t.Run("full amount", func(t *testing.T) {
		_, err := client.CaptureCharge(context.Background(), "ch_1", 0)
		require.NoError(t, err)
		_, hasAmount := gotForm["amount"]
		assert.False(t, hasAmount)
	})
}
