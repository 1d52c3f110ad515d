package test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"lostfound/internal/config"
	handlers "lostfound/internal/handler"
	"lostfound/internal/lifecycle"
	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/service"
	"lostfound/internal/sweeper"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

// ValidateToken accepts tokens of the form "token-<userID>".
func (m *MockAuthService) ValidateToken(tokenString string) (string, error) {
	if userID, ok := strings.CutPrefix(tokenString, "token-"); ok && userID != "" {
		return userID, nil
	}
	return "", errors.New("invalid token")
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, req service.UpdateUserRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID, requesterID string) error {
	args := m.Called(ctx, userID, requesterID)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfilePhoto(ctx context.Context, userID, requesterID string, upload service.Upload) (string, error) {
	args := m.Called(ctx, userID, requesterID, upload)
	return args.String(0), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, req service.CreatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, postID string) (*models.PostView, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostView), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context, req service.ListPostsRequest) ([]models.PostView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockPostService) ListUserPosts(ctx context.Context, userID string) ([]models.PostView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostView), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, req service.UpdatePostRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockPostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	args := m.Called(ctx, postID, requesterID)
	return args.Error(0)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) UploadPostImage(ctx context.Context, upload service.Upload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) PostCounts(ctx context.Context) (map[lifecycle.Status]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[lifecycle.Status]int), args.Error(1)
}

type MockSweeper struct {
	mock.Mock
}

func (m *MockSweeper) Run(ctx context.Context) (sweeper.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(sweeper.Result), args.Error(1)
}

type MockDB struct {
	mock.Mock
}

func (m *MockDB) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPostRepository and friends back the real post service in end-to-end
// handler tests.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post, imageURLs []string) error {
	args := m.Called(ctx, post, imageURLs)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID string) (*models.PostWithOwner, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostWithOwner), args.Error(1)
}

func (m *MockPostRepository) ListActive(ctx context.Context, filter repository.ListFilter, now time.Time) ([]models.PostWithOwner, error) {
	args := m.Called(ctx, filter, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostWithOwner), args.Error(1)
}

func (m *MockPostRepository) ListByUser(ctx context.Context, userID string, now time.Time) ([]models.PostWithOwner, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostWithOwner), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, postID string, fields repository.UpdatePostFields, now time.Time) error {
	args := m.Called(ctx, postID, fields, now)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) GetByPostID(ctx context.Context, postID string) ([]models.PostImage, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PostImage), args.Error(1)
}

func (m *MockImageRepository) GetURLsByPostIDs(ctx context.Context, postIDs []string) (map[string][]string, error) {
	args := m.Called(ctx, postIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetSocialProfiles(ctx context.Context, userID string) ([]models.SocialProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SocialProfile), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, userID string, fields repository.UpdateUserFields, now time.Time) error {
	args := m.Called(ctx, userID, fields, now)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type testEnv struct {
	auth   *MockAuthService
	users  *MockUserService
	posts  *MockPostService
	upload *MockUploadService
	stats  *MockStatsService
	sweep  *MockSweeper
	db     *MockDB
	router *mux.Router
}

func newTestEnv() *testEnv {
	env := &testEnv{
		auth:   new(MockAuthService),
		users:  new(MockUserService),
		posts:  new(MockPostService),
		upload: new(MockUploadService),
		stats:  new(MockStatsService),
		sweep:  new(MockSweeper),
		db:     new(MockDB),
	}

	h := &handlers.Handlers{
		UserService:   env.users,
		AuthService:   env.auth,
		PostService:   env.posts,
		UploadService: env.upload,
		StatsService:  env.stats,
		Sweeper:       env.sweep,
		DB:            env.db,
		Cfg:           &config.Config{MaxUploadSize: 1 << 20},
		Validate:      validator.New(),
	}
	env.router = handlers.NewRouter(h, middleware.AuthMiddleware(env.auth))
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	return httpDo(e.router, req)
}

func httpDo(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func newRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer token-"+userID)
	}
	return req
}
