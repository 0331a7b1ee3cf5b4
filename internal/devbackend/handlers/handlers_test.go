package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/capsule"
	clientauth "github.com/dmitrijs2005/timecapsule/internal/client/auth"
	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/auth"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/config"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/handlers"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/service"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/storage"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/dmitrijs2005/timecapsule/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

type memObjects struct {
	mu      sync.Mutex
	objects map[string]storage.ObjectInfo
}

func (m *memObjects) PresignPut(_ context.Context, key, _ string) (string, error) {
	return "http://s3.test/" + key, nil
}

func (m *memObjects) PresignGet(_ context.Context, key string) (string, error) {
	return "http://s3.test/" + key + "?signed", nil
}

func (m *memObjects) Head(_ context.Context, key string) (storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return info, nil
}

func (m *memObjects) put(key string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = storage.ObjectInfo{Size: size, ContentType: "image/jpeg"}
}

type testServer struct {
	*httptest.Server
	objects *memObjects
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	var router http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	var c config.Config
	c.LoadDefaults()
	c.PublicURL = srv.URL

	objects := &memObjects{objects: map[string]storage.ObjectInfo{}}
	backend := service.New(objects, &c)
	router = handlers.NewRouter(logging.Nop(), handlers.NewHandler(backend, logging.Nop(), secret, time.Hour))

	return &testServer{Server: srv, objects: objects}
}

func (s *testServer) token(t *testing.T, userID, nickname string) string {
	t.Helper()
	body, err := json.Marshal(handlers.TokenRequest{UserID: userID, Nickname: nickname})
	require.NoError(t, err)

	resp, err := s.Client().Post(s.URL+"/dev/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr handlers.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	assert.Equal(t, userID, tr.UserID)
	return tr.AccessToken
}

func (s *testServer) apiClient(token string) *client.HTTPClient {
	return client.NewHTTPClient(s.URL, s.Client(), clientauth.NewStatic(token), nil)
}

func pgToken(t *testing.T, hc *http.Client, redirectURL string) string {
	t.Helper()
	resp, err := hc.Get(redirectURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if v, ok := strings.CutPrefix(sc.Text(), "pg_token: "); ok {
			return v
		}
	}
	t.Fatal("payment page without pg_token")
	return ""
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.Client().Get(s.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var hr handlers.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hr))
	assert.Equal(t, "ok", hr.Status)
}

func TestAPI_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	expired, err := auth.GenerateToken("u1", "", secret, -time.Minute)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("u1", "", []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "missing", header: "", want: "no access token"},
		{name: "not bearer", header: "Basic abc", want: "no access token"},
		{name: "expired", header: "Bearer " + expired, want: "token expired"},
		{name: "wrong secret", header: "Bearer " + foreign, want: "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, s.URL+"/api/rooms/r1", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := s.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			var er handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&er))
			assert.Equal(t, tt.want, er.Message)
		})
	}
}

func TestClientAgainstBackend_FullFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	api := s.apiClient(s.token(t, "host-1", "Host"))

	presigned, err := api.Presign(ctx, client.PresignRequest{Type: media.Image, Filename: "a.jpg", ContentType: "image/jpeg", Size: 100})
	require.NoError(t, err)
	assert.Equal(t, "http://s3.test/"+presigned.ObjectKey, presigned.UploadURL)

	_, err = api.CompleteUpload(ctx, client.CompleteRequest{ObjectKey: presigned.ObjectKey, Size: 100})
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "file has not been uploaded", client.UserMessage(err))

	s.objects.put(presigned.ObjectKey, 100)
	done, err := api.CompleteUpload(ctx, client.CompleteRequest{ObjectKey: presigned.ObjectKey, Size: 100})
	require.NoError(t, err)

	url, err := api.MediaURL(ctx, done.MediaID)
	require.NoError(t, err)
	assert.Equal(t, "http://s3.test/"+presigned.ObjectKey+"?signed", url)

	form := capsule.DefaultFormData(capsule.DefaultLimits())
	form.Name = "Graduation"
	form.Storage = 2
	form.Attachments = []capsule.Attachment{{
		ID:       "att-1",
		Category: media.Image,
		Upload:   &capsule.UploadResult{MediaID: done.MediaID},
	}}
	orderReq, err := client.NewOrderRequest(form, time.Now())
	require.NoError(t, err)

	order, err := api.CreateOrder(ctx, orderReq)
	require.NoError(t, err)
	assert.Equal(t, int64(1000+2*500), order.TotalPrice)

	ready, err := api.KakaoReady(ctx, client.KakaoReadyRequest{OrderID: order.OrderID})
	require.NoError(t, err)
	token := pgToken(t, s.Client(), ready.RedirectURL)

	approved, err := api.KakaoApprove(ctx, client.KakaoApproveRequest{OrderID: order.OrderID, TID: ready.TID, PGToken: token})
	require.NoError(t, err)
	assert.Equal(t, order.TotalPrice, approved.Amount)

	room, err := api.GetRoom(ctx, approved.RoomID)
	require.NoError(t, err)
	assert.True(t, room.IsHost)
	assert.Equal(t, "Graduation", room.Name)
	require.Len(t, room.Participants, 1)
	assert.Equal(t, "Host", room.Participants[0].Nickname)

	room, err = api.FinalizeRoom(ctx, approved.RoomID)
	require.NoError(t, err)
	assert.True(t, room.Finalized)
}

func TestClientAgainstBackend_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	api := s.apiClient(s.token(t, "u-1", ""))

	_, err := api.CreateOrder(ctx, client.OrderRequest{DateOption: capsule.OpenInWeek, OpenAt: time.Now().Add(time.Hour), Personnel: 1, Storage: 1})
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "name is required", client.UserMessage(err))

	product := "capsule-gold"
	_, err = api.CreateCapsule(ctx, client.CapsuleRequest{Title: "t", MediaURLs: []string{"u"}, MediaTypes: []string{"IMAGE"}, ProductID: &product})
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, client.MessageNotFound, client.UserMessage(err))

	_, err = api.GetRoom(ctx, "missing")
	assert.ErrorIs(t, err, client.ErrNotFound)

	_, err = api.MediaURL(ctx, "missing")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestRooms_JoinCompleteAndSlots(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	hostAPI := s.apiClient(s.token(t, "host", "Host"))
	guestToken := s.token(t, "guest", "Guest")

	form := capsule.DefaultFormData(capsule.DefaultLimits())
	form.Name = "Team"
	form.Personnel = 2
	orderReq, err := client.NewOrderRequest(form, time.Now())
	require.NoError(t, err)
	order, err := hostAPI.CreateOrder(ctx, orderReq)
	require.NoError(t, err)
	ready, err := hostAPI.KakaoReady(ctx, client.KakaoReadyRequest{OrderID: order.OrderID})
	require.NoError(t, err)
	approved, err := hostAPI.KakaoApprove(ctx, client.KakaoApproveRequest{
		OrderID: order.OrderID, TID: ready.TID, PGToken: pgToken(t, s.Client(), ready.RedirectURL),
	})
	require.NoError(t, err)

	post := func(token, action string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, s.URL+"/api/rooms/"+approved.RoomID+"/"+action, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := s.Client().Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	assert.Equal(t, http.StatusForbidden, post(guestToken, "finalize").StatusCode)
	assert.Equal(t, http.StatusOK, post(guestToken, "join").StatusCode)
	assert.Equal(t, http.StatusConflict, post(s.token(t, "late", ""), "join").StatusCode)

	_, err = hostAPI.FinalizeRoom(ctx, approved.RoomID)
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "not every participant has completed", client.UserMessage(err))

	assert.Equal(t, http.StatusOK, post(guestToken, "complete").StatusCode)

	room, err := hostAPI.FinalizeRoom(ctx, approved.RoomID)
	require.NoError(t, err)
	assert.True(t, room.Finalized)
	assert.True(t, room.AllCompleted())
}

type brokenBackend struct {
	handlers.Backend
	panics bool
}

func (b brokenBackend) GetRoom(context.Context, service.User, string) (*client.Room, error) {
	if b.panics {
		panic("boom")
	}
	return nil, errors.New("store exploded")
}

func TestHandlers_InternalFailures(t *testing.T) {
	token, err := auth.GenerateToken("u1", "", secret, time.Hour)
	require.NoError(t, err)

	for _, panics := range []bool{false, true} {
		h := handlers.NewRouter(logging.Nop(), handlers.NewHandler(brokenBackend{panics: panics}, logging.Nop(), secret, time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/api/rooms/r1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code, "panics=%v", panics)
	}
}

func TestDecode_BadBody(t *testing.T) {
	token, err := auth.GenerateToken("u1", "", secret, time.Hour)
	require.NoError(t, err)
	h := handlers.NewRouter(logging.Nop(), handlers.NewHandler(brokenBackend{}, logging.Nop(), secret, time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/api/order", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"invalid request body"}`, w.Body.String())
}
