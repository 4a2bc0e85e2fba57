package service

import (
	"github.com/nhatminh-le/prepquest/internal/dto"
	"github.com/nhatminh-le/prepquest/internal/model"
	"github.com/nhatminh-le/prepquest/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionService is the admin surface over the two question sources.
type QuestionService interface {
	CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	CreateDemoQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	ListQuestions(subjectID, chapterID string) ([]dto.QuestionResponse, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	demoRepo     repository.DemoQuestionRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, demoRepo repository.DemoQuestionRepository) QuestionService {
	return &questionService{questionRepo: questionRepo, demoRepo: demoRepo}
}

func (s *questionService) CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := validateCorrectOption(req); err != nil {
		return nil, err
	}
	question := model.Question{
		SubjectID:     req.SubjectID,
		ChapterID:     req.ChapterID,
		TopicID:       req.TopicID,
		Text:          req.Text,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
	}
	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		return nil, err
	}
	resp := toQuestionResponse(&question)
	return &resp, nil
}

func (s *questionService) CreateDemoQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	if err := validateCorrectOption(req); err != nil {
		return nil, err
	}
	question := model.DemoQuestion{
		SubjectID:     req.SubjectID,
		ChapterID:     req.ChapterID,
		TopicID:       req.TopicID,
		Text:          req.Text,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
	}
	if err := s.demoRepo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create demo question")
		return nil, err
	}
	resp := toDemoQuestionResponse(&question)
	return &resp, nil
}

func (s *questionService) ListQuestions(subjectID, chapterID string) ([]dto.QuestionResponse, error) {
	questions, err := s.questionRepo.FindAll(subjectID, chapterID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list questions")
		return nil, err
	}
	out := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, toQuestionResponse(&questions[i]))
	}
	return out, nil
}

func validateCorrectOption(req dto.CreateQuestionRequest) error {
	for _, opt := range req.Options {
		if opt == req.CorrectOption {
			return nil
		}
	}
	return validationf("correct_option %q is not one of the provided options", req.CorrectOption)
}
