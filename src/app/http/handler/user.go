package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"madjoke/src/app/http/dto"
	"madjoke/src/app/http/response"
	"madjoke/src/app/middleware"
	"madjoke/src/core/domain"
	"madjoke/src/core/usecase"
)

// UserHandler handles the /api/user endpoints.
type UserHandler struct {
	userService *usecase.UserService
	jokeService *usecase.JokeService
}

func NewUserHandler(userService *usecase.UserService, jokeService *usecase.JokeService) *UserHandler {
	return &UserHandler{userService: userService, jokeService: jokeService}
}

// Profile returns the caller's normalized profile view. Password hash and
// internal id are excluded.
// GET /api/user/
func (h *UserHandler) Profile(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"parsedUser": response.Profile(user)})
}

// Jokes returns every joke authored by the caller, unmasked.
// GET /api/user/jokes
func (h *UserHandler) Jokes(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	jokes, err := h.jokeService.ByAuthor(c.Request.Context(), user.ID)
	if err != nil {
		c.Error(err)
		response.Fail(c, http.StatusInternalServerError, "Failed to get jokes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jokes": response.FullJokes(jokes)})
}

// Update applies a partial update to the caller's own record. An empty or
// missing payload fails with the historical message.
// PUT /api/user/
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusInternalServerError, "Update failed")
		return
	}

	upd := domain.UserUpdate{
		FirstName: req.UserUpdates.FirstName,
		LastName:  req.UserUpdates.LastName,
		UserName:  req.UserUpdates.UserName,
		Email:     req.UserUpdates.Email,
	}

	updated, err := h.userService.Update(c.Request.Context(), user.ID, upd)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, "Update failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"parsedUser": response.Profile(updated)})
}

// ChangePassword verifies the old password and replaces the stored hash.
// A mismatch leaves the stored password untouched.
// PATCH /api/user/pwchange
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.PasswordChangeRequest
	// A missing body degrades to empty passwords, which fail the old
	// password check below.
	_ = c.ShouldBindJSON(&req)

	err := h.userService.ChangePassword(c.Request.Context(), user, req.PwS.OldPw, req.PwS.NewPw)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, "Failed to update password")
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "Password updated!"})
}

// Register creates a new account. Every field is required.
// POST /api/user/register
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	// An unparseable body degrades to empty fields, rejected by the service.
	_ = c.ShouldBindJSON(&req)

	_, err := h.userService.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserName:  req.UserName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, response.Message{Message: "User created"})
}

// Login checks the credentials and returns a freshly issued bearer token.
// POST /api/user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	_ = c.ShouldBindJSON(&req)

	_, token, err := h.userService.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User authenticated",
		"token":   token,
	})
}
