package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nhatminh-le/prepquest/internal/dto"
	"github.com/nhatminh-le/prepquest/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAttemptService returns canned values so handler tests only exercise
// binding, routing and error mapping.
type stubAttemptService struct {
	attempt *dto.AttemptResponse
	detail  *dto.AttemptDetailResponse
	state   *dto.QuestionStateResponse
	summary *dto.ScoreSummaryResponse
	err     error
}

func (s *stubAttemptService) Create(dto.CreateAttemptRequest) (*dto.AttemptResponse, error) {
	return s.attempt, s.err
}

func (s *stubAttemptService) List() ([]dto.AttemptResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []dto.AttemptResponse{*s.attempt}, nil
}

func (s *stubAttemptService) GetDetail(uuid.UUID) (*dto.AttemptDetailResponse, error) {
	return s.detail, s.err
}

func (s *stubAttemptService) SaveAnswer(uuid.UUID, dto.SaveAnswerRequest) (*dto.QuestionStateResponse, error) {
	return s.state, s.err
}

func (s *stubAttemptService) BulkSaveAnswers(uuid.UUID, dto.BulkSaveAnswersRequest) (*dto.ScoreSummaryResponse, error) {
	return s.summary, s.err
}

func (s *stubAttemptService) SaveNote(uuid.UUID, string, dto.SaveNoteRequest) (string, error) {
	return "noted", s.err
}

func (s *stubAttemptService) SaveMark(uuid.UUID, string, dto.SaveMarkRequest) (bool, error) {
	return true, s.err
}

func (s *stubAttemptService) Complete(uuid.UUID, dto.CompleteAttemptRequest) (*dto.AttemptResponse, error) {
	return s.attempt, s.err
}

func newTestRouter(svc service.TestAttemptService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewTestAttemptController(svc)
	r := gin.New()
	group := r.Group("/api/v1/test-attempts")
	group.POST("/create", ctrl.CreateAttempt)
	group.GET("/list", ctrl.ListAttempts)
	group.GET("/getDetail/:id", ctrl.GetAttemptDetail)
	group.PATCH("/complete/:attemptId", ctrl.CompleteAttempt)
	group.PATCH("/questions/answer/:attemptId", ctrl.SaveAnswer)
	group.PATCH("/questions/bulk/:attemptId", ctrl.BulkSaveAnswers)
	group.PATCH("/questions/note/:attemptId/:questionId", ctrl.SaveNote)
	group.PATCH("/questions/mark/:attemptId/:questionId", ctrl.SaveMark)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestCreateAttemptHandler(t *testing.T) {
	svc := &stubAttemptService{attempt: &dto.AttemptResponse{ID: uuid.NewString(), Status: "in_progress"}}
	r := newTestRouter(svc)

	body := `{"mode":"timed","total_questions":2,"started_at":"2024-06-01T10:00:00Z","question_ids":["q1","q2"]}`
	w := doRequest(t, r, http.MethodPost, "/api/v1/test-attempts/create", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	assert.NotNil(t, envelope["data"])
}

func TestCreateAttemptHandler_BindingFailure(t *testing.T) {
	r := newTestRouter(&stubAttemptService{})

	// mode outside the enum is rejected before the service runs.
	body := `{"mode":"marathon","total_questions":1,"started_at":"2024-06-01T10:00:00Z","question_ids":["q1"]}`
	w := doRequest(t, r, http.MethodPost, "/api/v1/test-attempts/create", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
}

func TestCreateAttemptHandler_ValidationError(t *testing.T) {
	svc := &stubAttemptService{err: &service.ValidationError{Reason: "total_questions (3) must equal the number of question_ids (2)"}}
	r := newTestRouter(svc)

	body := `{"mode":"timed","total_questions":3,"started_at":"2024-06-01T10:00:00Z","question_ids":["q1","q2"]}`
	w := doRequest(t, r, http.MethodPost, "/api/v1/test-attempts/create", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
	assert.Contains(t, envelope["message"], "total_questions")
}

func TestGetAttemptDetailHandler_InvalidID(t *testing.T) {
	r := newTestRouter(&stubAttemptService{})

	w := doRequest(t, r, http.MethodGet, "/api/v1/test-attempts/getDetail/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "Invalid attempt ID format", envelope["message"])
}

func TestGetAttemptDetailHandler_NotFound(t *testing.T) {
	svc := &stubAttemptService{err: service.ErrAttemptNotFound}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/api/v1/test-attempts/getDetail/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, service.ErrAttemptNotFound.Error(), envelope["message"])
}

func TestSaveAnswerHandler_CompletedAttempt(t *testing.T) {
	svc := &stubAttemptService{err: service.ErrAttemptCompleted}
	r := newTestRouter(svc)

	body := `{"question_id":"q1","selected_option":"A"}`
	w := doRequest(t, r, http.MethodPatch, "/api/v1/test-attempts/questions/answer/"+uuid.NewString(), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, service.ErrAttemptCompleted.Error(), envelope["message"])
}

func TestBulkSaveAnswersHandler_EmptyBatchRejected(t *testing.T) {
	r := newTestRouter(&stubAttemptService{summary: &dto.ScoreSummaryResponse{}})

	w := doRequest(t, r, http.MethodPatch, "/api/v1/test-attempts/questions/bulk/"+uuid.NewString(), `{"answers":[]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveNoteHandler(t *testing.T) {
	r := newTestRouter(&stubAttemptService{})

	w := doRequest(t, r, http.MethodPatch, "/api/v1/test-attempts/questions/note/"+uuid.NewString()+"/q1", `{"note":""}`)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])

	// Missing note field fails binding.
	w = doRequest(t, r, http.MethodPatch, "/api/v1/test-attempts/questions/note/"+uuid.NewString()+"/q1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveMarkHandler(t *testing.T) {
	r := newTestRouter(&stubAttemptService{})

	w := doRequest(t, r, http.MethodPatch, "/api/v1/test-attempts/questions/mark/"+uuid.NewString()+"/q1", `{"is_marked":false}`)

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, true, envelope["data"], "stub reports the mark it set")
}

func TestCompleteAttemptHandler_MissingCounts(t *testing.T) {
	r := newTestRouter(&stubAttemptService{attempt: &dto.AttemptResponse{}})

	w := doRequest(t, r, http.MethodPatch, "/api/v1/test-attempts/complete/"+uuid.NewString(), `{"per_question":[]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAttemptsHandler(t *testing.T) {
	svc := &stubAttemptService{attempt: &dto.AttemptResponse{ID: uuid.NewString()}}
	r := newTestRouter(svc)

	w := doRequest(t, r, http.MethodGet, "/api/v1/test-attempts/list", "")

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	assert.Equal(t, true, envelope["success"])
}
