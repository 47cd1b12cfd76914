package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aliskhannn/brain-recall/internal/service"
)

const tokenTypeBearer = "bearer"

func (s *Server) signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	token, err := s.auth.Signup(c.Request().Context(), req.Name, req.Email, req.Password, req.Timezone, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tokenResponse{AccessToken: token, TokenType: tokenTypeBearer})
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	token, err := s.auth.Login(c.Request().Context(), req.Email, req.Password, s.now())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: tokenTypeBearer})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := s.auth.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"detail": "password updated"})
}

func (s *Server) me(c echo.Context) error {
	user, err := s.auth.Me(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

func (s *Server) updateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, err := s.auth.UpdateProfile(c.Request().Context(), currentUser(c), service.ProfileUpdate{
		Name:           req.Name,
		Timezone:       req.Timezone,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newUserResponse(user))
}

func (s *Server) deleteAccount(c echo.Context) error {
	if err := s.auth.DeleteAccount(c.Request().Context(), currentUser(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
