package mocks

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"

	"budget-bites/state-svc/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// CheckoutGuard is a mock type for the service.CheckoutGuard interface.
type CheckoutGuard struct {
	mock.Mock
}

func (_m *CheckoutGuard) CheckoutMarkerKey(sessionID string, idempotencyKey string) string {
	ret := _m.Called(sessionID, idempotencyKey)

	var r0 string
	if rf, ok := ret.Get(0).(func(string, string) string); ok {
		r0 = rf(sessionID, idempotencyKey)
	} else {
		r0 = ret.Get(0).(string)
	}
	return r0
}

func (_m *CheckoutGuard) Claim(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context, string) bool); ok {
		r0 = rf(ctx, key)
	} else {
		r0 = ret.Get(0).(bool)
	}
	return r0, ret.Error(1)
}

func (_m *CheckoutGuard) Release(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

func NewCheckoutGuard(t testingT) *CheckoutGuard {
	m := &CheckoutGuard{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// EventPublisher is a mock type for the service.EventPublisher interface.
type EventPublisher struct {
	mock.Mock
}

func (_m *EventPublisher) PublishOrderEvent(ctx context.Context, msg domain.OrderEvent) error {
	ret := _m.Called(ctx, msg)
	return ret.Error(0)
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// QRGenerator is a mock type for the service.QRGenerator interface.
type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(orderID string, otp string) ([]byte, error) {
	ret := _m.Called(orderID, otp)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// StatusRecorder is a mock type for the service.StatusRecorder interface.
type StatusRecorder struct {
	mock.Mock
}

func (_m *StatusRecorder) RecordOrderStatus(sessionID string, orderID string, status domain.OrderStatus) error {
	ret := _m.Called(sessionID, orderID, status)
	return ret.Error(0)
}

func NewStatusRecorder(t testingT) *StatusRecorder {
	m := &StatusRecorder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// SpendResetter is a mock type for the service.SpendResetter interface.
type SpendResetter struct {
	mock.Mock
}

func (_m *SpendResetter) ResetDailySpend() int {
	ret := _m.Called()
	return ret.Int(0)
}

func (_m *SpendResetter) ResetMonthlySpend() int {
	ret := _m.Called()
	return ret.Int(0)
}

func NewSpendResetter(t testingT) *SpendResetter {
	m := &SpendResetter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MessageReader is a mock type for the service.MessageReader interface.
type MessageReader struct {
	mock.Mock
}

func (_m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := _m.Called(ctx)

	var r0 kafka.Message
	if rf, ok := ret.Get(0).(func(context.Context) kafka.Message); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(kafka.Message)
	}
	return r0, ret.Error(1)
}

func NewMessageReader(t testingT) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MessageWriter is a mock type for the storage.MessageWriter interface.
type MessageWriter struct {
	mock.Mock
}

func (_m *MessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := []interface{}{ctx}
	for _, m := range msgs {
		args = append(args, m)
	}
	ret := _m.Called(args...)
	return ret.Error(0)
}

func NewMessageWriter(t testingT) *MessageWriter {
	m := &MessageWriter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
