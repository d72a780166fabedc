package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-points-wallet/internal/models"
	"github.com/sbilibin2017/gw-points-wallet/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestCancelHandler(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		requestBody    any
		setupMocks     func(m *MockCanceler)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:        "partial cancel",
			header:      "c-1",
			requestBody: CancelRequest{OrderID: "o-1", CancelAmount: 40, ReasonCode: "PARTIAL_REFUND", ReasonMessage: "one item"},
			setupMocks: func(m *MockCanceler) {
				m.EXPECT().Cancel(gomock.Any(), services.CancelCommand{
					UserID: 1, OrderID: "o-1", CancelAmount: 40,
					ReasonCode: "PARTIAL_REFUND", ReasonMessage: "one item", RequestID: "c-1",
				}).Return(&models.PaymentSnapshot{OrderID: "o-1", UserID: 1, Status: models.PaymentCaptured, PointAmount: 60, Balance: 940}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "header request id too long",
			header:         strings.Repeat("c", 121),
			requestBody:    CancelRequest{OrderID: "o-1", CancelAmount: 1},
			setupMocks:     func(m *MockCanceler) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:           "reason code too long",
			requestBody:    CancelRequest{OrderID: "o-1", CancelAmount: 1, ReasonCode: "THIS_REASON_CODE_IS_LONGER_THAN_THIRTY"},
			setupMocks:     func(m *MockCanceler) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:        "unknown payment",
			requestBody: CancelRequest{OrderID: "missing", CancelAmount: 1},
			setupMocks: func(m *MockCanceler) {
				m.EXPECT().Cancel(gomock.Any(), gomock.Any()).Return(nil, services.ErrPaymentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "PAYMENT_NOT_FOUND",
		},
		{
			name:        "exceeds captured points",
			requestBody: CancelRequest{OrderID: "o-1", CancelAmount: 1000},
			setupMocks: func(m *MockCanceler) {
				m.EXPECT().Cancel(gomock.Any(), gomock.Any()).Return(nil, services.ErrExceedPointPaid)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "EXCEED_POINT_PAID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockCanceler(ctrl)
			tt.setupMocks(mockSvc)

			req := newRequest(http.MethodPost, "/api/points/1/payments/cancel", tt.requestBody, map[string]string{"userId": "1"})
			if tt.header != "" {
				req.Header.Set(IdempotencyKeyHeader, tt.header)
			}
			rr := httptest.NewRecorder()

			NewCancelHandler(mockSvc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeMap(rr)["code"])
			}
		})
	}
}
