// Package handler contains HTTP handlers for the API.
// Handlers are responsible for:
// - Parsing and validating HTTP requests
// - Calling use case methods
// - Converting results to HTTP responses
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"madjoke/src/app/http/dto"
	"madjoke/src/app/http/response"
	"madjoke/src/app/middleware"
	"madjoke/src/core/usecase"
)

// JokeHandler handles the /api/jokes endpoints.
type JokeHandler struct {
	jokeService *usecase.JokeService
}

func NewJokeHandler(jokeService *usecase.JokeService) *JokeHandler {
	return &JokeHandler{jokeService: jokeService}
}

// List returns all jokes, filtered by exact type match when ?type= is set.
// The same jokes are returned to everyone; only punchline masking and
// likedByUser depend on the caller's identity.
// GET /api/jokes
func (h *JokeHandler) List(c *gin.Context) {
	jokes, err := h.jokeService.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		c.Error(err)
		response.Fail(c, http.StatusInternalServerError, "Failed to get jokes")
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, response.ShapeJokes(jokes, viewer))
}

// Types returns every distinct joke type exactly once.
// GET /api/jokes/types
func (h *JokeHandler) Types(c *gin.Context) {
	types, err := h.jokeService.Types(c.Request.Context())
	if err != nil {
		c.Error(err)
		response.Fail(c, http.StatusInternalServerError, "Failed to get types")
		return
	}
	c.JSON(http.StatusOK, types)
}

// Random returns one joke chosen pseudo-uniformly, shaped like the list case.
// GET /api/jokes/random
func (h *JokeHandler) Random(c *gin.Context) {
	joke, err := h.jokeService.Random(c.Request.Context())
	if err != nil {
		c.Error(err)
		response.Fail(c, http.StatusInternalServerError, "Failed to get joke")
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, response.ShapeJoke(*joke, viewer))
}

// Update overwrites setup, punchline and type on an existing joke.
// A malformed or unknown id keeps the historical 500 contract.
// PUT /api/jokes/:id
func (h *JokeHandler) Update(c *gin.Context) {
	if _, ok := middleware.RequireUser(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Failed to update joke")
		return
	}

	var req dto.JokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusInternalServerError, "Failed to update joke")
		return
	}

	joke, err := h.jokeService.Update(c.Request.Context(), id, req.ToUpdate())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, "Failed to update joke")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedJoke": response.FullJoke(*joke)})
}

// Create stores a new joke authored by the caller with an empty like set.
// POST /api/jokes/new
func (h *JokeHandler) Create(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req dto.JokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusInternalServerError, "Failed to create joke")
		return
	}

	joke, err := h.jokeService.Create(c.Request.Context(), user.ID, req.ToUpdate())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, "Failed to create joke")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"newJoke": response.FullJoke(*joke)})
}

// Delete removes a joke by id.
// DELETE /api/jokes/:id
func (h *JokeHandler) Delete(c *gin.Context) {
	if _, ok := middleware.RequireUser(c); !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Failed to delete joke")
		return
	}

	if err := h.jokeService.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		response.FromDomainError(c, err, "Failed to delete joke")
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "Joke deleted"})
}

// ToggleLike flips the caller's like on a joke. The toggle is atomic at the
// store layer, so concurrent likes never lose updates.
// POST /api/jokes/:id/like
func (h *JokeHandler) ToggleLike(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "Failed to like joke")
		return
	}

	joke, err := h.jokeService.ToggleLike(c.Request.Context(), id, user.ID)
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, "Failed to like joke")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedJoke": response.FullJoke(*joke)})
}
