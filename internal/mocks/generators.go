package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ecostory/internal/game"
)

// MockTextGenerator is a mock type for game.TextGenerator.
type MockTextGenerator struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, req
func (_m *MockTextGenerator) GenerateText(ctx context.Context, req game.TextRequest) (string, error) {
	ret := _m.Called(ctx, req)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, game.TextRequest) string); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.String(0)
	}
	return r0, ret.Error(1)
}

// NewMockTextGenerator creates a MockTextGenerator bound to t and asserts its
// expectations on cleanup.
func NewMockTextGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextGenerator {
	m := &MockTextGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockImageGenerator is a mock type for game.ImageGenerator.
type MockImageGenerator struct {
	mock.Mock
}

// GenerateImage provides a mock function with given fields: ctx, req
func (_m *MockImageGenerator) GenerateImage(ctx context.Context, req game.ImageRequest) (string, error) {
	ret := _m.Called(ctx, req)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, game.ImageRequest) string); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.String(0)
	}
	return r0, ret.Error(1)
}

// NewMockImageGenerator creates a MockImageGenerator bound to t and asserts
// its expectations on cleanup.
func NewMockImageGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockImageGenerator {
	m := &MockImageGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ game.TextGenerator  = (*MockTextGenerator)(nil)
	_ game.ImageGenerator = (*MockImageGenerator)(nil)
)
