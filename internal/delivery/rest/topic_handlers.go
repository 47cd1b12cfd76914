package rest

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
	"github.com/aliskhannn/brain-recall/internal/importer"
	"github.com/aliskhannn/brain-recall/internal/infra/postgres/repository"
)

// topicID accepts either a bare uuid or a topic slug ending in one.
func topicID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(entities.ExtractIDFromSlug(c.Param("id")))
	if err != nil {
		return uuid.Nil, repository.ErrTopicNotFound
	}
	return id, nil
}

func (s *Server) listTopics(c echo.Context) error {
	topics, err := s.topics.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTopicResponses(paginate(c, topics)))
}

func (s *Server) dashboard(c echo.Context) error {
	split, err := s.topics.Dashboard(c.Request().Context(), currentUser(c), s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		NeedsReview: newTopicResponses(split.NeedsReview),
		Upcoming:    newTopicResponses(split.Upcoming),
	})
}

func (s *Server) getTopic(c echo.Context) error {
	id, err := topicID(c)
	if err != nil {
		return err
	}

	topic, err := s.topics.Get(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTopicResponse(topic))
}

func (s *Server) createTopic(c echo.Context) error {
	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	topic, err := s.topics.Create(c.Request().Context(), currentUser(c), req.Title, req.Description, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newTopicResponse(topic))
}

func (s *Server) updateTopic(c echo.Context) error {
	id, err := topicID(c)
	if err != nil {
		return err
	}

	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	topic, err := s.topics.Update(c.Request().Context(), currentUser(c), id, req.Title, req.Description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTopicResponse(topic))
}

func (s *Server) deleteTopic(c echo.Context) error {
	id, err := topicID(c)
	if err != nil {
		return err
	}

	if err := s.topics.Delete(c.Request().Context(), currentUser(c), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) completeReview(c echo.Context) error {
	id, err := topicID(c)
	if err != nil {
		return err
	}

	topic, err := s.topics.CompleteReview(c.Request().Context(), currentUser(c), id, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newTopicResponse(topic))
}

func (s *Server) byCycle(c echo.Context) error {
	groups, err := s.topics.ByCycle(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newGroupResponses(groups))
}

func (s *Server) byTheme(c echo.Context) error {
	groups, err := s.topics.ByTheme(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newGroupResponses(paginate(c, groups)))
}

func (s *Server) themeTopics(c echo.Context) error {
	group, err := s.topics.ThemeTopics(c.Request().Context(), currentUser(c), c.Param("slug"))
	if err != nil {
		return err
	}

	resp := newGroupResponse(*group)
	resp.Topics = newTopicResponses(paginate(c, group.Topics))

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) importTopics(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := importer.Parse(fh.Filename, f)
	if err != nil {
		return err
	}

	summary, err := s.topics.Import(c.Request().Context(), currentUser(c), parsed, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newImportResponse(summary))
}

func newGroupResponses(groups []entities.TopicGroup) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, newGroupResponse(g))
	}
	return out
}
