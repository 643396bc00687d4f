package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	orderhandler "github.com/swiftcart/flashsale/internal/order/handler"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

type stubHandler struct {
	orderId int64
	err     error
}

func (s *stubHandler) PlaceOrder(_ context.Context, _, _ int64) (int64, error) {
	return s.orderId, s.err
}

func newTestRouter(h orderhandler.Handler) *gin.Engine {
	engine := gin.New()
	ctrl := NewController(h)
	engine.POST("/api/v1/voucher/:voucherId/order", ctrl.PlaceOrder)
	return engine
}

func placeOrder(router *gin.Engine, voucherId, userId string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/voucher/"+voucherId+"/order", nil)
	if userId != "" {
		req.Header.Set("X-User-Id", userId)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestPlaceOrderSuccess(t *testing.T) {
	router := newTestRouter(&stubHandler{orderId: 4521876350001})

	resp := placeOrder(router, "7", "1001")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"orderId":"4521876350001"}`, resp.Body.String())
}

func TestPlaceOrderBadVoucherId(t *testing.T) {
	router := newTestRouter(&stubHandler{})

	resp := placeOrder(router, "not-a-number", "1001")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPlaceOrderMissingUserIdentity(t *testing.T) {
	router := newTestRouter(&stubHandler{})

	resp := placeOrder(router, "7", "")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestPlaceOrderErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not started", orderhandler.ErrNotStarted, http.StatusForbidden},
		{"ended", orderhandler.ErrEnded, http.StatusForbidden},
		{"out of stock", orderhandler.ErrOutOfStock, http.StatusGone},
		{"already purchased", orderhandler.ErrAlreadyPurchased, http.StatusConflict},
		{"duplicate request", orderhandler.ErrDuplicateRequest, http.StatusTooManyRequests},
		{"infra failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubHandler{err: tc.err})
			resp := placeOrder(router, "7", "1001")
			assert.Equal(t, tc.code, resp.Code)
		})
	}
}
