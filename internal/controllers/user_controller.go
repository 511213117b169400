package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"usermgmt/internal/models"
	"usermgmt/internal/repository"
	"usermgmt/internal/service"
)

type UserController struct {
	userService service.UserService
	logger      zerolog.Logger
}

func NewUserController(userService service.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// List handles GET / - renders every user
func (uc *UserController) List(c *gin.Context) {
	users, err := uc.userService.ListUsers(c.Request.Context())
	if err != nil {
		uc.internalError(c, "Error listing users", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"users": users,
	})
}

// Create handles POST / - validates, hashes and stores a new user
func (uc *UserController) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid form data")
		return
	}

	user, err := uc.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			uc.renderViolations(c, &req, validationErr.Violations)
			return
		}
		uc.internalError(c, "Error creating user", err)
		return
	}

	uc.logger.Info().Str("user_id", user.ID).Msg("user created")
	c.Redirect(http.StatusFound, "/")
}

// Edit handles GET /edit/:id - renders the edit form for one user
func (uc *UserController) Edit(c *gin.Context) {
	user, err := uc.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.String(http.StatusNotFound, "User not found")
			return
		}
		uc.internalError(c, "Error loading user", err)
		return
	}

	c.HTML(http.StatusOK, "edit.html", gin.H{
		"user": user,
	})
}

// Update handles POST /update/:id - merges the submitted fields into the user
func (uc *UserController) Update(c *gin.Context) {
	var req models.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid form data")
		return
	}

	err := uc.userService.UpdateUser(c.Request.Context(), c.Param("id"), req.ToUserUpdate())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.String(http.StatusNotFound, "User not found")
			return
		}
		uc.internalError(c, "Error updating user", err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Delete handles GET /delete/:id - removes the user if it exists
func (uc *UserController) Delete(c *gin.Context) {
	if err := uc.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		uc.internalError(c, "Error deleting user", err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (uc *UserController) renderViolations(c *gin.Context, req *models.CreateUserRequest, violations []models.Violation) {
	uc.logger.Debug().Int("violations", len(violations)).Msg("user input rejected")

	users, err := uc.userService.ListUsers(c.Request.Context())
	if err != nil {
		uc.internalError(c, "Error listing users", err)
		return
	}

	c.HTML(http.StatusBadRequest, "index.html", gin.H{
		"users":  users,
		"errors": violations,
		"form":   req,
	})
}

func (uc *UserController) internalError(c *gin.Context, message string, err error) {
	uc.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	c.String(http.StatusInternalServerError, message)
}
