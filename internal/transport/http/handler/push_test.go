package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medimate-api/internal/application/push"
	"github.com/medimate-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPushSvc struct{ mock.Mock }

func (m *mockPushSvc) CheckStatus(ctx context.Context, userID string, obs push.Observed) (*push.Result, error) {
	args := m.Called(ctx, userID, obs)
	if res, _ := args.Get(0).(*push.Result); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPushSvc) Register(ctx context.Context, userID string, obs push.Observed) (*push.Result, error) {
	args := m.Called(ctx, userID, obs)
	if res, _ := args.Get(0).(*push.Result); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPushSvc) GetPreferences(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*domain.NotificationPreference); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPushSvc) UpdatePreferences(ctx context.Context, userID string, req domain.UpdatePreferenceRequest, obs push.Observed) (*domain.NotificationPreference, *push.Result, error) {
	args := m.Called(ctx, userID, req, obs)
	p, _ := args.Get(0).(*domain.NotificationPreference)
	res, _ := args.Get(1).(*push.Result)
	return p, res, args.Error(2)
}

func TestCheckStatus_ReturnsReconcileOutcome(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPushSvc{}
	svc.On("CheckStatus", mock.Anything, "u1",
		push.Observed{Permission: domain.PermissionGranted, Handle: "h1"}).
		Return(&push.Result{TokenPresent: true, Token: "arn:ep/1"}, nil)
	h := NewPushHandler(svc)

	body, _ := json.Marshal(push.Observed{Permission: domain.PermissionGranted, Handle: "h1"})
	r := bearerReq(t, p, http.MethodPost, "/v1/push/status", "u1", body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.CheckStatus), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp PushStatusEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.TokenPresent)
	assert.Equal(t, "arn:ep/1", resp.Token)
	svc.AssertExpectations(t)
}

func TestCheckStatus_InvalidBody(t *testing.T) {
	p := newTestJWTProvider(t)
	h := NewPushHandler(&mockPushSvc{})

	r := bearerReq(t, p, http.MethodPost, "/v1/push/status", "u1", []byte("{"))
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.CheckStatus), rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterPush_Denied_SurfacesGuidance(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPushSvc{}
	svc.On("Register", mock.Anything, "u1", mock.Anything).
		Return(&push.Result{NeedsPrompt: true, Guidance: "Notifications are blocked at the browser level. Re-enable them in site settings, then reload."}, nil)
	h := NewPushHandler(svc)

	body, _ := json.Marshal(push.Observed{Permission: domain.PermissionDenied})
	r := bearerReq(t, p, http.MethodPost, "/v1/push/register", "u1", body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Register), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp PushStatusEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.NeedsPrompt)
	assert.NotEmpty(t, resp.Guidance)
}

func TestRegisterPush_PlatformUnavailable(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPushSvc{}
	svc.On("Register", mock.Anything, "u1", mock.Anything).
		Return(nil, domain.ErrRegistrationUnavailable)
	h := NewPushHandler(svc)

	body, _ := json.Marshal(push.Observed{Permission: domain.PermissionGranted})
	r := bearerReq(t, p, http.MethodPost, "/v1/push/register", "u1", body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Register), rr, r)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestGetPreferences(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPushSvc{}
	svc.On("GetPreferences", mock.Anything, "u1").
		Return(&domain.NotificationPreference{UserID: "u1", EnableStockAlerts: true}, nil)
	h := NewPushHandler(svc)

	r := bearerReq(t, p, http.MethodGet, "/v1/preferences", "u1", nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.GetPreferences), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp PreferencesEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotNil(t, resp.Preferences)
	assert.True(t, resp.Preferences.EnableStockAlerts)
}

func TestUpdatePreferences_DefaultsObservedPermission(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockPushSvc{}
	no := false
	svc.On("UpdatePreferences", mock.Anything, "u1",
		domain.UpdatePreferenceRequest{EnableNotifications: &no},
		push.Observed{Permission: domain.PermissionDefault}).
		Return(&domain.NotificationPreference{UserID: "u1", EnableNotifications: &no},
			&push.Result{NeedsPrompt: false}, nil)
	h := NewPushHandler(svc)

	body := []byte(`{"enable_notifications": false}`)
	r := bearerReq(t, p, http.MethodPut, "/v1/preferences", "u1", body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.UpdatePreferences), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
