package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/zynq/backend/internal/middleware"
	"github.com/anonto42/zynq/backend/internal/models"
	"github.com/anonto42/zynq/backend/internal/repositories"
	"github.com/anonto42/zynq/backend/internal/repositories/memory"
	"github.com/anonto42/zynq/backend/pkg/media"
	"github.com/anonto42/zynq/backend/pkg/metrics"
	"github.com/anonto42/zynq/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fakeMedia struct {
	mu        sync.Mutex
	uploads   []string
	sizes     []int64
	deleted   []string
	disabled  bool
	deleteErr error
}

func (f *fakeMedia) Upload(_ context.Context, r io.Reader, size int64, filename string, kind media.Kind) (*media.Asset, error) {
	if f.disabled {
		return nil, media.ErrDisabled
	}
	_, _ = io.Copy(io.Discard, r)
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "zynq_media/" + strings.TrimSuffix(filename, path.Ext(filename))
	f.uploads = append(f.uploads, id)
	f.sizes = append(f.sizes, size)
	return &media.Asset{URL: "https://cdn.example/" + id, PublicID: id, Kind: kind}, nil
}

func (f *fakeMedia) Delete(_ context.Context, ref string, _ media.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ref)
	return nil
}

type fakeVerifier struct {
	claims map[string]interface{}
	err    error
}

func (f fakeVerifier) VerifyIDToken(_ context.Context, _ string) (*auth.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.Token{Claims: f.claims}, nil
}

type testServer struct {
	e       *echo.Echo
	store   *memory.Store
	repos   *repositories.Repositories
	media   *fakeMedia
	metrics *metrics.Metrics
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, verifier TokenVerifier) *testServer {
	t.Helper()

	logger := quietLogger()
	store := memory.New()
	repos := store.Repositories()
	files := &fakeMedia{}
	m := metrics.New()

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)
	e.GET("/health", HealthCheck)

	api := e.Group("/api")
	NewAuthHandler(repos.Users, verifier, testSecret, time.Hour).RegisterAuthRoutes(api)

	secured := api.Group("", middleware.JWTAuthMiddleware(testSecret, false))
	notifier := NewNotifier(repos.Notifications, m, logger)
	NewUserHandler(repos.Users, repos.Posts).RegisterProfileRoutes(secured)
	NewPostHandler(repos.Posts, repos.Users, repos.Notifications, files, logger).RegisterPostRoutes(secured)
	NewFeedHandler(repos.Posts, repos.Users).RegisterFeedRoutes(secured)
	NewLikeHandler(repos.Posts, notifier, m).RegisterLikeRoutes(secured)
	NewCommentHandler(repos.Posts, repos.Users, notifier).RegisterCommentRoutes(secured)
	NewSavedPostHandler(repos.Users, repos.Posts, m).RegisterSavedPostRoutes(secured)
	NewFriendshipHandler(repos.Users).RegisterFriendshipRoutes(secured)
	NewNotificationHandler(repos.Notifications, repos.Users, repos.Posts).RegisterNotificationRoutes(secured)
	NewMessageHandler(repos.Messages, repos.Users, files, logger).RegisterMessageRoutes(secured)
	NewStoryHandler(repos.Stories, repos.Users, files, 24*time.Hour, logger).RegisterStoryRoutes(secured)

	return &testServer{e: e, store: store, repos: repos, media: files, metrics: m}
}

type response struct {
	Code int
	Body map[string]interface{}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) response {
	t.Helper()
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	out := response{Code: rec.Code, Body: map[string]interface{}{}}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out.Body), rec.Body.String())
	}
	return out
}

type upload struct {
	filename    string
	contentType string
	data        string
}

func (s *testServer) multipart(t *testing.T, path string, fields map[string]string, file *upload) response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+file.filename+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(file.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return s.serve(t, req)
}

// createUser stores a user directly, with password "secret1"
func (s *testServer) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Age:      25,
	}
	require.NoError(t, s.repos.Users.CreateUser(context.Background(), u))
	return u
}

func (s *testServer) createPost(t *testing.T, author *models.User, content string) string {
	t.Helper()
	res := s.multipart(t, "/api/posts", map[string]string{"userId": author.ID.Hex(), "content": content}, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	post := res.Body["post"].(map[string]interface{})
	return post["id"].(string)
}

func (s *testServer) user(t *testing.T, id primitive.ObjectID) *models.User {
	t.Helper()
	u, err := s.repos.Users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (s *testServer) notificationsFor(t *testing.T, id primitive.ObjectID) []models.Notification {
	t.Helper()
	list, err := s.repos.Notifications.ListNotificationsFor(context.Background(), id)
	require.NoError(t, err)
	return list
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	res := s.do(t, http.MethodPost, "/api/login", echo.Map{"username": username, "password": "secret1"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	return res.Body["token"].(string)
}

func (s *testServer) metricsText(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	s.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func list(t *testing.T, v interface{}) []interface{} {
	t.Helper()
	out, ok := v.([]interface{})
	require.True(t, ok, "expected a JSON array, got %T", v)
	return out
}

var errBoom = errors.New("boom")
