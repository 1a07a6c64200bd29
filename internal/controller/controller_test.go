package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"skillup_backend/internal/config"
	"skillup_backend/internal/middleware"
	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/service"
	"skillup_backend/internal/testutil"
	"skillup_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

type server struct {
	t      *testing.T
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.OpenDB(t)
	testutil.SeedCourse(t, db, testutil.NewCourse("go-101", 2, 1))

	cfg := &config.Config{
		Identity: config.IdentityConfig{Secret: testSecret},
		Storage:  config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Certificate: config.CertificateConfig{
			VerifyBaseURL:   "https://skillup.example.com",
			CodeLength:      12,
			MaxCodeAttempts: 5,
		},
	}

	courseRepo := repository.NewCourseRepository(db, repository.NewMemoryCourseCache())
	learnerRepo := repository.NewLearnerRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	certRepo := repository.NewCertificateRepository(db)

	catalog := service.NewCatalogService(courseRepo)
	learners := service.NewLearnerService(learnerRepo)
	enrollments := service.NewEnrollmentService(enrollmentRepo, catalog)
	certs := service.NewCertificateService(db, certRepo, enrollmentRepo, learnerRepo, catalog,
		service.NewStorageService(cfg), service.NewPNGQRRenderer(128), cfg.Certificate)

	courseCtl := NewCourseController(catalog)
	learnerCtl := NewLearnerController(learners)
	enrollmentCtl := NewEnrollmentController(enrollments)
	certCtl := NewCertificateController(certs)

	r := gin.New()
	r.GET("/api/health", NewHealthController(db, nil).HealthCheck)
	r.GET("/api/courses", courseCtl.ListCourses)
	r.GET("/api/courses/:id", courseCtl.GetCourse)
	r.POST("/api/verify", certCtl.VerifyPayload)
	r.GET("/api/verify/:code", certCtl.VerifyCode)
	r.GET("/api/verify/:code/qr", certCtl.QRImage)

	auth := r.Group("/api", middleware.IdentityMiddleware(&cfg.Identity, learners))
	auth.GET("/me", learnerCtl.GetMe)
	auth.PUT("/me", learnerCtl.UpdateMe)
	auth.GET("/enrollments", enrollmentCtl.ListEnrollments)
	auth.GET("/certificates", certCtl.ListMine)
	auth.GET("/certificates/:id", certCtl.GetByID)
	auth.POST("/courses/:id/enroll", enrollmentCtl.Enroll)
	auth.GET("/courses/:id/progress", enrollmentCtl.GetProgress)
	auth.POST("/courses/:id/lessons/:lesson/sub-lessons/:sub/complete", enrollmentCtl.CompleteSubLesson)
	auth.POST("/courses/:id/certificate", certCtl.Issue)
	auth.GET("/courses/:id/certificate", certCtl.GetMine)

	return &server{t: t, router: r}
}

func token(t *testing.T, subject, name string) string {
	t.Helper()
	tok, err := util.GenerateIdentityToken(util.IdentityClaims{
		Name:             name,
		Email:            subject + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *server) do(method, path, tok string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != util.MimePNG {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func TestPublicCatalog(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		List  []model.CourseSummary `json:"list"`
		Total int64                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 3, page.List[0].TotalSubLessons)

	w, _ = s.do(http.MethodGet, "/api/courses/go-101", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/courses/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t)
	w, _ := s.do(http.MethodPost, "/api/courses/go-101/enroll", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLearningFlowAndVerification(t *testing.T) {
	s := newServer(t)
	alice := token(t, "alice", "Alice Doe")

	w, _ := s.do(http.MethodPost, "/api/courses/go-101/enroll", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api/courses/go-101/lessons/1/sub-lessons/0/complete", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "second lesson is locked")

	w, _ = s.do(http.MethodPost, "/api/courses/go-101/lessons/0/sub-lessons/9/complete", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(http.MethodPost, "/api/courses/go-101/lessons/x/sub-lessons/0/complete", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/courses/go-101/certificate", alice, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "not completed yet")

	w, env := s.do(http.MethodPost, "/api/courses/go-101/lessons/0/sub-lessons/0/complete", alice, gin.H{"score": 88})
	require.Equal(t, http.StatusOK, w.Code)
	var progress model.EnrollmentProgress
	require.NoError(t, json.Unmarshal(env.Data, &progress))
	assert.Equal(t, 33, progress.Enrollment.Progress)
	assert.Equal(t, 88, progress.OverallScore)

	w, _ = s.do(http.MethodPost, "/api/courses/go-101/lessons/0/sub-lessons/1/complete", alice, gin.H{"score": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/courses/go-101/lessons/0/sub-lessons/1/complete", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/api/courses/go-101/lessons/1/sub-lessons/0/complete", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodPost, "/api/courses/go-101/certificate", alice, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var issued service.IssueResult
	require.NoError(t, json.Unmarshal(env.Data, &issued))
	code := issued.Certificate.Code
	require.Len(t, code, 12)

	w, env = s.do(http.MethodPost, "/api/courses/go-101/certificate", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var again service.IssueResult
	require.NoError(t, json.Unmarshal(env.Data, &again))
	assert.True(t, again.AlreadyIssued)
	assert.Equal(t, code, again.Certificate.Code)

	w, _ = s.do(http.MethodPut, "/api/me", alice, gin.H{"fullname": "Alice Smith"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/verify/"+code, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view model.CertificateView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Alice Doe", view.Learner.Fullname)
	assert.Equal(t, "Course go-101", view.Course.Title)

	w, _ = s.do(http.MethodPost, "/api/verify", "", gin.H{"payload": issued.Certificate.Payload})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/verify/"+code+"/qr", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, util.MimePNG, w.Header().Get("Content-Type"))

	w, env = s.do(http.MethodGet, "/api/certificates", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []model.CertificateView
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, issued.Certificate.ID, mine[0].ID)

	w, _ = s.do(http.MethodGet, "/api/courses/go-101/certificate", alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/certificates/"+issued.Certificate.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var byID model.CertificateView
	require.NoError(t, json.Unmarshal(env.Data, &byID))
	assert.Equal(t, code, byID.Code)

	bob := token(t, "bob", "Bob")
	w, _ = s.do(http.MethodGet, "/api/certificates/"+issued.Certificate.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "other learner's certificate")
	w, _ = s.do(http.MethodGet, "/api/certificates/missing", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyErrors(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(http.MethodGet, "/api/verify/ZZZZZZZZZZZZ", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/verify", "", gin.H{"payload": "https://evil.example.com/verify/ZZZZZZZZZZZZ"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(http.MethodPost, "/api/verify", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/verify/ZZZZZZZZZZZZ/qr", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgressWithoutEnrollment(t *testing.T) {
	s := newServer(t)
	bob := token(t, "bob", "Bob")

	w, _ := s.do(http.MethodGet, "/api/courses/go-101/progress", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := s.do(http.MethodGet, "/api/me", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.Learner
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Bob", me.Fullname)
	assert.Equal(t, "bob", me.Username)
}
