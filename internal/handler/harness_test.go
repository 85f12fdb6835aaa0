package handler_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sefazor/imaginet-backend/internal/handler"
	"github.com/sefazor/imaginet-backend/internal/middleware"
	"github.com/sefazor/imaginet-backend/internal/service"
	"github.com/sefazor/imaginet-backend/internal/service/servicetest"
	"github.com/sefazor/imaginet-backend/pkg/payment"
	"github.com/sefazor/imaginet-backend/pkg/utils"
	"github.com/sefazor/imaginet-backend/pkg/webhook"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"
	stripewebhook "github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"
)

var clerkSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("imaginet-clerk-handler-secret"))

const stripeSecret = "whsec_stripe_handler_test"

type harness struct {
	t            *testing.T
	app          *fiber.App
	users        *servicetest.Users
	images       *servicetest.Images
	transactions *servicetest.Transactions
	storage      *servicetest.Storage
	checkout     *servicetest.Checkout
	userService  *service.UserService
	key          *rsa.PrivateKey
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithSecret(t, clerkSecret)
}

func newHarnessWithSecret(t *testing.T, secret string) *harness {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	sessions, err := middleware.NewSessionVerifier(string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})))
	require.NoError(t, err)

	verifier, err := webhook.NewVerifier(secret)
	require.NoError(t, err)

	users := servicetest.NewUsers()
	h := &harness{
		t:            t,
		users:        users,
		images:       servicetest.NewImages(),
		transactions: servicetest.NewTransactions(users),
		storage:      servicetest.NewStorage(),
		checkout:     &servicetest.Checkout{},
		key:          key,
	}

	log := zap.NewNop()
	validator := utils.NewValidator()
	h.userService = service.NewUserService(h.users, nil, validator, log)
	imageService := service.NewImageService(h.images, h.users, h.storage, validator, log)
	paymentService := service.NewPaymentService(h.checkout, h.users, h.transactions, validator, log)
	stripeService := payment.NewStripeService("sk_test_handler", stripeSecret, "http://localhost:3000")

	routes := &handler.Routes{
		Health:  handler.NewHealthHandler(okPinger{}),
		Webhook: handler.NewWebhookHandler(verifier, h.userService, log),
		Payment: handler.NewPaymentHandler(paymentService, stripeService, log),
		User:    handler.NewUserHandler(h.userService, log),
		Image:   handler.NewImageHandler(imageService, log),
	}

	h.app = fiber.New()
	routes.Register(h.app, middleware.AuthMiddleware(sessions))
	return h
}

func (h *harness) token(clerkID string) string {
	h.t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub": clerkID,
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString(h.key)
	require.NoError(h.t, err)
	return signed
}

func (h *harness) do(req *http.Request) (int, []byte) {
	h.t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, body
}

// api sends an authenticated JSON request; an empty clerkID sends none.
func (h *harness) api(method, path, clerkID string, body interface{}) (int, apiResponse) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if clerkID != "" {
		req.Header.Set("Authorization", "Bearer "+h.token(clerkID))
	}

	status, raw := h.do(req)
	var out apiResponse
	require.NoError(h.t, json.Unmarshal(raw, &out), string(raw))
	return status, out
}

func (h *harness) clerkWebhook(payload []byte, headers map[string]string) (int, []byte) {
	h.t.Helper()
	req := httptest.NewRequest("POST", "/api/webhook/clerk", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return h.do(req)
}

func (h *harness) stripeWebhook(payload []byte) (int, []byte) {
	h.t.Helper()
	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   payload,
		Secret:    stripeSecret,
		Timestamp: time.Now(),
	})
	req := httptest.NewRequest("POST", "/api/webhook/stripe", bytes.NewReader(signed.Payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signed.Header)
	return h.do(req)
}

func svixHeaders(t *testing.T, secret string, payload []byte) map[string]string {
	t.Helper()
	wh, err := svix.NewWebhook(secret)
	require.NoError(t, err)

	now := time.Now()
	sig, err := wh.Sign("msg_test", now, payload)
	require.NoError(t, err)

	return map[string]string{
		webhook.HeaderID:        "msg_test",
		webhook.HeaderTimestamp: strconv.FormatInt(now.Unix(), 10),
		webhook.HeaderSignature: sig,
	}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details string          `json:"details"`
	Data    json.RawMessage `json:"data"`
}

func (r apiResponse) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v))
}
