package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
)

func questionID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("qid"))
	if err != nil {
		return uuid.Nil, repository.ErrQuestionNotFound
	}
	return id, nil
}

func (s *Server) nextQuestion(c echo.Context) error {
	id, err := topicID(c)
	if err != nil {
		return err
	}

	state, err := s.reviews.NextQuestion(c.Request().Context(), currentUser(c), id, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nextQuestionResponse{
		ActiveQuestionsCount: state.ActiveQuestionsCount,
		Question:             newQuizQuestionResponse(state.Question),
		AnsweredToday:        state.AnsweredToday,
	})
}

func (s *Server) answer(c echo.Context) error {
	tid, err := topicID(c)
	if err != nil {
		return err
	}
	qid, err := questionID(c)
	if err != nil {
		return err
	}

	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	outcome, err := s.reviews.Answer(c.Request().Context(), currentUser(c), tid, qid, req.SelectedOption, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, answerResponse{
		QuestionID:           outcome.QuestionID.String(),
		SelectedOption:       outcome.SelectedOption,
		CorrectOption:        outcome.CorrectOption,
		IsCorrect:            outcome.IsCorrect,
		ActiveQuestionsCount: outcome.ActiveQuestionsCount,
		NextQuestion:         newQuizQuestionResponse(outcome.NextQuestion),
	})
}

func (s *Server) generateQuestion(c echo.Context) error {
	id, err := topicID(c)
	if err != nil {
		return err
	}

	var req generateRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return err
		}
	}

	q, err := s.reviews.Generate(c.Request().Context(), currentUser(c), id, req.Summary, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newQuizQuestionResponse(q))
}

func (s *Server) createQuestion(c echo.Context) error {
	id, err := topicID(c)
	if err != nil {
		return err
	}

	var req createQuestionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	q, err := s.reviews.CreateQuestion(c.Request().Context(), currentUser(c), id, req.Question, req.Options, req.CorrectOption, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newQuestionResponse(q))
}

func (s *Server) setQuestionStatus(c echo.Context) error {
	tid, err := topicID(c)
	if err != nil {
		return err
	}
	qid, err := questionID(c)
	if err != nil {
		return err
	}

	var req questionStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	q, err := s.reviews.SetQuestionStatus(c.Request().Context(), currentUser(c), tid, qid, req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newQuizQuestionResponse(q))
}

func (s *Server) listAIQuestions(c echo.Context) error {
	questions, err := s.reviews.ListAIQuestions(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}

	questions = paginate(c, questions)
	out := make([]*questionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, newQuizQuestionResponse(q))
	}

	return c.JSON(http.StatusOK, out)
}
