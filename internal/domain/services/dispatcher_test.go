package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces/gateways"
)

var testTarget = entities.WorkflowTarget{
	Owner:      "fumiharu",
	Repo:       "ui-automation-test-sample",
	WorkflowID: "ui-test.yml",
	Ref:        "main",
}

func TestDispatcher_MockMode(t *testing.T) {
	logger, logs := observedLogger()
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, DispatcherConfig{Target: testTarget, Credential: "token"}, logger)

	require.Equal(t, entities.DispatchModeMock, dispatcher.Mode())

	for _, p := range []string{"tests/ui/auth/test_login.py", ""} {
		result := dispatcher.Trigger(context.Background(), p)
		assert.True(t, result.Success)
		assert.Equal(t, entities.DispatchModeMock, result.Mode)
		assert.Equal(t, "fumiharu/ui-automation-test-sample:ui-test.yml@main", result.Target)
		assert.NotEmpty(t, result.RequestID)
	}
	assert.Empty(t, gateway.calls)

	entries := logs.FilterMessage("mock workflow dispatch").All()
	require.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ui-test.yml", fields["workflow"])
	assert.Equal(t, "tests/ui/auth/test_login.py", fields[TestTargetInput])
}

func TestDispatcher_UnknownModeIsMock(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, DispatcherConfig{Target: testTarget, Mode: "LIVE!"}, nil)

	assert.Equal(t, entities.DispatchModeMock, dispatcher.Mode())
	assert.True(t, dispatcher.Trigger(context.Background(), "x.py").Success)
	assert.Empty(t, gateway.calls)
}

func TestDispatcher_LiveWithoutCredential(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, DispatcherConfig{Target: testTarget, Mode: entities.DispatchModeLive}, nil)

	result := dispatcher.Trigger(context.Background(), "tests/ui/auth/test_login.py")
	assert.False(t, result.Success)
	assert.Equal(t, DetailMissingCredential, result.Detail)
	assert.Empty(t, gateway.calls)
}

func TestDispatcher_LiveSuccess(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, DispatcherConfig{
		Target:     testTarget,
		Credential: "ghp_test",
		Mode:       entities.DispatchModeLive,
	}, nil)

	result := dispatcher.Trigger(context.Background(), "tests/ui/cart/test_checkout.py")
	require.True(t, result.Success)
	assert.Equal(t, entities.DispatchModeLive, result.Mode)

	want := []gateways.WorkflowDispatch{{
		Owner:      "fumiharu",
		Repo:       "ui-automation-test-sample",
		WorkflowID: "ui-test.yml",
		Ref:        "main",
		Inputs:     map[string]string{"test_target": "tests/ui/cart/test_checkout.py"},
	}}
	if diff := cmp.Diff(want, gateway.calls); diff != "" {
		t.Errorf("dispatch request mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatcher_LiveFailureCapturesBody(t *testing.T) {
	logger, logs := observedLogger()
	gateway := &fakeGateway{err: &gateways.DispatchError{StatusCode: 422, Body: `{"message":"Unexpected inputs provided"}`}}
	dispatcher := NewDispatcher(gateway, DispatcherConfig{
		Target:     testTarget,
		Credential: "ghp_test",
		Mode:       entities.DispatchModeLive,
	}, logger)

	result := dispatcher.Trigger(context.Background(), "tests/ui/auth/test_login.py")
	assert.False(t, result.Success)
	assert.Equal(t, `{"message":"Unexpected inputs provided"}`, result.Detail)
	assert.Len(t, gateway.calls, 1, "no retry inside a trigger call")

	entries := logs.FilterMessage("failed to trigger workflow").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 422, entries[0].ContextMap()["status"])
	assert.Equal(t, "tests/ui/auth/test_login.py", entries[0].ContextMap()[TestTargetInput])
}

func TestDispatcher_LiveTransportError(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("dial tcp: connection refused")}
	dispatcher := NewDispatcher(gateway, DispatcherConfig{
		Target:     testTarget,
		Credential: "ghp_test",
		Mode:       entities.DispatchModeLive,
	}, nil)

	result := dispatcher.Trigger(context.Background(), "tests/ui/auth/test_login.py")
	assert.False(t, result.Success)
	assert.Contains(t, result.Detail, "connection refused")
}

func TestDispatcher_TimeoutIsFailure(t *testing.T) {
	gateway := &fakeGateway{wait: true}
	dispatcher := NewDispatcher(gateway, DispatcherConfig{
		Target:     testTarget,
		Credential: "ghp_test",
		Mode:       entities.DispatchModeLive,
		Timeout:    20 * time.Millisecond,
	}, nil)

	result := dispatcher.Trigger(context.Background(), "tests/ui/auth/test_login.py")
	assert.False(t, result.Success)
	assert.Contains(t, result.Detail, context.DeadlineExceeded.Error())
}

func TestDispatcher_RepeatedCallsAreIndependent(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, DispatcherConfig{
		Target:     testTarget,
		Credential: "ghp_test",
		Mode:       entities.DispatchModeLive,
	}, nil)

	first := dispatcher.Trigger(context.Background(), "a.py")
	second := dispatcher.Trigger(context.Background(), "a.py")

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.NotEqual(t, first.RequestID, second.RequestID)
	assert.Len(t, gateway.calls, 2)
}
