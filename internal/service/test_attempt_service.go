package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/nhatminh-le/prepquest/internal/dto"
	"github.com/nhatminh-le/prepquest/internal/model"
	"github.com/nhatminh-le/prepquest/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TestAttemptService owns the attempt lifecycle: creation, per-question
// mutation while in progress, aggregate recomputation, merge-completion and
// detail retrieval with question hydration.
type TestAttemptService interface {
	Create(req dto.CreateAttemptRequest) (*dto.AttemptResponse, error)
	List() ([]dto.AttemptResponse, error)
	GetDetail(attemptID uuid.UUID) (*dto.AttemptDetailResponse, error)
	SaveAnswer(attemptID uuid.UUID, req dto.SaveAnswerRequest) (*dto.QuestionStateResponse, error)
	BulkSaveAnswers(attemptID uuid.UUID, req dto.BulkSaveAnswersRequest) (*dto.ScoreSummaryResponse, error)
	SaveNote(attemptID uuid.UUID, questionID string, req dto.SaveNoteRequest) (string, error)
	SaveMark(attemptID uuid.UUID, questionID string, req dto.SaveMarkRequest) (bool, error)
	Complete(attemptID uuid.UUID, req dto.CompleteAttemptRequest) (*dto.AttemptResponse, error)
}

type testAttemptService struct {
	attemptRepo  repository.TestAttemptRepository
	questionRepo repository.QuestionRepository
	demoRepo     repository.DemoQuestionRepository
	// allowRecomplete permits Complete on an already-completed attempt,
	// re-merging and overwriting the previous completion.
	allowRecomplete bool
	now             func() time.Time
}

func NewTestAttemptService(
	attemptRepo repository.TestAttemptRepository,
	questionRepo repository.QuestionRepository,
	demoRepo repository.DemoQuestionRepository,
	allowRecomplete bool,
) TestAttemptService {
	return &testAttemptService{
		attemptRepo:     attemptRepo,
		questionRepo:    questionRepo,
		demoRepo:        demoRepo,
		allowRecomplete: allowRecomplete,
		now:             time.Now,
	}
}

func (s *testAttemptService) Create(req dto.CreateAttemptRequest) (*dto.AttemptResponse, error) {
	if req.TotalQuestions != len(req.QuestionIDs) {
		return nil, validationf("total_questions (%d) must equal the number of question_ids (%d)", req.TotalQuestions, len(req.QuestionIDs))
	}

	attempt := model.TestAttempt{
		Mode:           model.AttemptMode(req.Mode),
		Subjects:       req.Subjects,
		Chapters:       req.Chapters,
		TotalQuestions: req.TotalQuestions,
		QuestionIDs:    req.QuestionIDs,
		StartedAt:      req.StartedAt,
		Status:         model.StatusInProgress,
		Questions:      model.QuestionStateMap{},
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		log.Error().Err(err).Msg("Failed to create test attempt")
		return nil, err
	}
	log.Info().Str("attemptID", attempt.ID.String()).Str("mode", req.Mode).Int("totalQuestions", attempt.TotalQuestions).Msg("Test attempt created")
	return toAttemptResponse(&attempt), nil
}

func (s *testAttemptService) List() ([]dto.AttemptResponse, error) {
	attempts, err := s.attemptRepo.FindAllNewestFirst()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list test attempts")
		return nil, err
	}
	out := make([]dto.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		out = append(out, *toAttemptResponse(&attempts[i]))
	}
	return out, nil
}

func (s *testAttemptService) GetDetail(attemptID uuid.UUID) (*dto.AttemptDetailResponse, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		return nil, mapAttemptErr(err)
	}

	questions, err := s.hydrateQuestions(attempt.QuestionIDs)
	if err != nil {
		log.Error().Err(err).Str("attemptID", attemptID.String()).Msg("Failed to hydrate questions for attempt detail")
		return nil, err
	}

	return &dto.AttemptDetailResponse{
		AttemptResponse: *toAttemptResponse(attempt),
		Questions:       questions,
	}, nil
}

// hydrateQuestions resolves question ids against the primary source, falls
// back to the demo source for the remainder, and returns the resolved content
// in the input order. Ids found in neither source are dropped.
func (s *testAttemptService) hydrateQuestions(questionIDs []string) ([]dto.QuestionResponse, error) {
	parsed := make([]uuid.UUID, 0, len(questionIDs))
	for _, raw := range questionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		parsed = append(parsed, id)
	}

	resolved := make(map[string]dto.QuestionResponse, len(parsed))

	primary, err := s.questionRepo.FindByIDs(parsed)
	if err != nil {
		return nil, err
	}
	for i := range primary {
		resolved[primary[i].ID.String()] = toQuestionResponse(&primary[i])
	}

	var missing []uuid.UUID
	for _, id := range parsed {
		if _, ok := resolved[id.String()]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		demo, err := s.demoRepo.FindByIDs(missing)
		if err != nil {
			return nil, err
		}
		for i := range demo {
			resolved[demo[i].ID.String()] = toDemoQuestionResponse(&demo[i])
		}
	}

	out := make([]dto.QuestionResponse, 0, len(questionIDs))
	for _, raw := range questionIDs {
		if q, ok := resolved[raw]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *testAttemptService) SaveAnswer(attemptID uuid.UUID, req dto.SaveAnswerRequest) (*dto.QuestionStateResponse, error) {
	now := s.now()
	var saved model.QuestionState
	_, err := s.attemptRepo.UpdateLocked(attemptID, func(a *model.TestAttempt) error {
		if a.Status == model.StatusCompleted {
			return ErrAttemptCompleted
		}
		saved = a.Questions.Upsert(buildAnswerEntry(a, req), now)
		if req.IsCorrect != nil {
			recomputeAggregates(a, a.AnsweredCount())
		}
		return nil
	})
	if err != nil {
		return nil, mapAttemptErr(err)
	}
	resp := toStateResponse(saved)
	return &resp, nil
}

func (s *testAttemptService) BulkSaveAnswers(attemptID uuid.UUID, req dto.BulkSaveAnswersRequest) (*dto.ScoreSummaryResponse, error) {
	now := s.now()
	var summary dto.ScoreSummaryResponse
	_, err := s.attemptRepo.UpdateLocked(attemptID, func(a *model.TestAttempt) error {
		if a.Status == model.StatusCompleted {
			return ErrAttemptCompleted
		}
		for _, item := range req.Answers {
			entry := buildAnswerEntry(a, item)
			// Every item in a bulk save represents an answer action.
			entry.IsAnswered = true
			a.Questions.Upsert(entry, now)
		}
		recomputeAggregates(a, a.SelectedCount())
		summary = dto.ScoreSummaryResponse{
			CorrectCount:   a.CorrectCount,
			IncorrectCount: a.IncorrectCount,
			OmittedCount:   a.OmittedCount,
		}
		return nil
	})
	if err != nil {
		return nil, mapAttemptErr(err)
	}
	return &summary, nil
}

func (s *testAttemptService) SaveNote(attemptID uuid.UUID, questionID string, req dto.SaveNoteRequest) (string, error) {
	now := s.now()
	var note string
	_, err := s.attemptRepo.UpdateLocked(attemptID, func(a *model.TestAttempt) error {
		if a.Status == model.StatusCompleted {
			return ErrAttemptCompleted
		}
		entry, _ := a.Questions.Get(questionID)
		entry.Note = *req.Note
		a.Questions.Upsert(entry, now)
		note = entry.Note
		return nil
	})
	if err != nil {
		return "", mapAttemptErr(err)
	}
	return note, nil
}

func (s *testAttemptService) SaveMark(attemptID uuid.UUID, questionID string, req dto.SaveMarkRequest) (bool, error) {
	now := s.now()
	var marked bool
	_, err := s.attemptRepo.UpdateLocked(attemptID, func(a *model.TestAttempt) error {
		if a.Status == model.StatusCompleted {
			return ErrAttemptCompleted
		}
		entry, _ := a.Questions.Get(questionID)
		entry.IsMarked = *req.IsMarked
		a.Questions.Upsert(entry, now)
		marked = entry.IsMarked
		return nil
	})
	if err != nil {
		return false, mapAttemptErr(err)
	}
	return marked, nil
}

func (s *testAttemptService) Complete(attemptID uuid.UUID, req dto.CompleteAttemptRequest) (*dto.AttemptResponse, error) {
	now := s.now()
	attempt, err := s.attemptRepo.UpdateLocked(attemptID, func(a *model.TestAttempt) error {
		if a.Status == model.StatusCompleted && !s.allowRecomplete {
			return ErrAttemptCompleted
		}
		for _, item := range req.PerQuestion {
			entry, _ := a.Questions.Get(item.QuestionID)
			if item.SelectedOption != nil {
				entry.SelectedOption = *item.SelectedOption
			}
			// A completion item is a full snapshot: a null grade here means
			// ungraded, not "keep the previous grade".
			entry.Grade = model.GradeFromBool(item.IsCorrect)
			if item.IsAnswered != nil {
				entry.IsAnswered = *item.IsAnswered
			}
			if item.TimeSpentSeconds != nil {
				entry.TimeSpentSeconds = *item.TimeSpentSeconds
			}
			if item.Note != nil {
				entry.Note = *item.Note
			}
			if item.IsMarked != nil {
				entry.IsMarked = *item.IsMarked
			}
			a.Questions.Upsert(entry, now)
		}

		recomputeAggregates(a, a.AnsweredCount())
		if *req.CorrectCount != a.CorrectCount || *req.IncorrectCount != a.IncorrectCount || *req.OmittedCount != a.OmittedCount {
			log.Warn().
				Str("attemptID", a.ID.String()).
				Ints("submitted", []int{*req.CorrectCount, *req.IncorrectCount, *req.OmittedCount}).
				Ints("recomputed", []int{a.CorrectCount, a.IncorrectCount, a.OmittedCount}).
				Msg("Client-submitted score counts diverge from server tally, keeping server tally")
		}

		completedAt := now
		if req.CompletedAt != nil {
			completedAt = *req.CompletedAt
		}
		a.CompletedAt = &completedAt
		a.Status = model.StatusCompleted
		return nil
	})
	if err != nil {
		return nil, mapAttemptErr(err)
	}
	log.Info().Str("attemptID", attempt.ID.String()).Int("correct", attempt.CorrectCount).Int("incorrect", attempt.IncorrectCount).Int("omitted", attempt.OmittedCount).Msg("Test attempt completed")
	return toAttemptResponse(attempt), nil
}

// buildAnswerEntry patches the existing per-question entry (or a fresh one)
// with the request fields. Fields absent from the request keep the entry's
// previous value; is_answered is derived from this request's selected option
// alone. The caller upserts the result.
func buildAnswerEntry(a *model.TestAttempt, req dto.SaveAnswerRequest) model.QuestionState {
	entry, _ := a.Questions.Get(req.QuestionID)
	if req.SelectedOption != nil {
		entry.SelectedOption = *req.SelectedOption
	}
	entry.IsAnswered = req.SelectedOption != nil && *req.SelectedOption != ""
	if req.IsCorrect != nil {
		entry.Grade = model.GradeFromBool(req.IsCorrect)
	}
	if req.TimeSpentSeconds != nil {
		entry.TimeSpentSeconds = *req.TimeSpentSeconds
	}
	if req.Note != nil {
		entry.Note = *req.Note
	}
	if req.IsMarked != nil {
		entry.IsMarked = *req.IsMarked
	}
	return entry
}

// recomputeAggregates refreshes the three counters from the full state map.
// answeredBasis is the count subtracted from the total for omissions; single
// saves use answered entries, bulk saves use entries with a selected option.
func recomputeAggregates(a *model.TestAttempt, answeredBasis int) {
	correct, incorrect := a.GradedCounts()
	a.CorrectCount = correct
	a.IncorrectCount = incorrect
	omitted := a.TotalQuestions - answeredBasis
	if omitted < 0 {
		omitted = 0
	}
	a.OmittedCount = omitted
}

func mapAttemptErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAttemptNotFound
	}
	return err
}

func toStateResponse(st model.QuestionState) dto.QuestionStateResponse {
	return dto.QuestionStateResponse{
		QuestionID:       st.QuestionID,
		SelectedOption:   st.SelectedOption,
		IsCorrect:        st.Grade.Bool(),
		IsAnswered:       st.IsAnswered,
		TimeSpentSeconds: st.TimeSpentSeconds,
		Note:             st.Note,
		IsMarked:         st.IsMarked,
		LastUpdatedAt:    st.LastUpdatedAt,
	}
}

func toAttemptResponse(a *model.TestAttempt) *dto.AttemptResponse {
	var resp dto.AttemptResponse
	if err := copier.Copy(&resp, a); err != nil {
		log.Error().Err(err).Msg("Failed to copy TestAttempt to response DTO")
	}
	resp.ID = a.ID.String()
	states := a.OrderedStates()
	resp.PerQuestion = make([]dto.QuestionStateResponse, 0, len(states))
	for _, st := range states {
		resp.PerQuestion = append(resp.PerQuestion, toStateResponse(st))
	}
	return &resp
}

func toQuestionResponse(q *model.Question) dto.QuestionResponse {
	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, q); err != nil {
		log.Error().Err(err).Msg("Failed to copy Question to response DTO")
	}
	resp.ID = q.ID.String()
	return resp
}

func toDemoQuestionResponse(q *model.DemoQuestion) dto.QuestionResponse {
	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, q); err != nil {
		log.Error().Err(err).Msg("Failed to copy DemoQuestion to response DTO")
	}
	resp.ID = q.ID.String()
	return resp
}
