package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/mixtape-labs/mixtape/internal/library"
	"github.com/mixtape-labs/mixtape/internal/services"
	"github.com/mixtape-labs/mixtape/internal/shared"
)

// envelope is the standard response shape for library reads and
// mutations. Body is omitted for error and confirmation responses.
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Body    any    `json:"body,omitempty"`
}

// userInfo is the public projection of a user returned by the account
// endpoints. The password never leaves the server.
type userInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// API exposes the REST surface over a [library.Library].
type API struct {
	library *library.Library
	logger  *log.Logger
}

// NewAPI creates the handler set for the given library.
func NewAPI(lib *library.Library, logger *log.Logger) *API {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &API{library: lib, logger: logger}
}

// Register wires every route onto the echo instance.
func (a *API) Register(e *echo.Echo) {
	e.GET("/health", a.Health)
	e.GET("/song/:id", a.GetSong)
	e.GET("/search", a.SearchSong)
	e.POST("/signup", a.Signup)
	e.POST("/login", a.Login)
	e.POST("/:userId/recommendations", a.CreateRecommendations)
	e.GET("/:userId/likes", a.ListLikes)
	e.GET("/:userId/batches", a.ListBatches)
	e.GET("/:userId/batches/:batchId", a.GetBatch)
	e.POST("/:userId/:songId/like", a.LikeSong)
	e.DELETE("/:userId/:songId/like", a.UnlikeSong)
	e.DELETE("/:userId/batch/:batchId", a.DeleteBatch)
}

// respond writes the standard {status, message, body} envelope.
func (a *API) respond(c echo.Context, status int, message string, body any) error {
	return c.JSON(status, envelope{Status: status, Message: message, Body: body})
}

// internalError logs the failure and returns the generic 500 envelope.
// Upstream and store detail stays server-side.
func (a *API) internalError(c echo.Context, err error) error {
	a.logger.Error("request failed", "path", c.Request().URL.Path, "error", err)
	return a.respond(c, http.StatusInternalServerError, "Internal Server Error", nil)
}

// Health reports service liveness.
func (a *API) Health(c echo.Context) error {
	return a.respond(c, http.StatusOK, "ok", nil)
}

// GetSong returns a stored song by its internal id.
func (a *API) GetSong(c echo.Context) error {
	song, err := a.library.GetSong(c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrSongNotFound) {
			return a.respond(c, http.StatusNotFound, "No song found with that ID", nil)
		}
		return a.internalError(c, err)
	}

	return a.respond(c, http.StatusOK, "Successfully retrieved song", song)
}

// SearchSong searches the catalog for one track by artist and song name,
// upserts it into the song collection, and returns the raw track fields.
func (a *API) SearchSong(c echo.Context) error {
	artist := c.QueryParam("artist")
	song := c.QueryParam("song")

	track, err := a.library.SearchSong(c.Request().Context(), artist, song)
	if err != nil {
		if errors.Is(err, shared.ErrSongNotFound) {
			return c.String(http.StatusNotFound, "No songs found.")
		}
		a.logger.Error("search failed", "artist", artist, "song", song, "error", err)
		return c.String(http.StatusInternalServerError, "Something went wrong.")
	}

	return c.JSON(http.StatusOK, track)
}

// CreateRecommendations builds one recommendation batch for the user
// from the seed query parameters and returns the raw track array.
func (a *API) CreateRecommendations(c echo.Context) error {
	seeds := services.Seeds{
		Artists: splitSeeds(c.QueryParam("seed_artists")),
		Tracks:  splitSeeds(c.QueryParam("seed_tracks")),
		Genres:  splitSeeds(c.QueryParam("seed_genres")),
	}
	maxPopularity, _ := strconv.Atoi(c.QueryParam("max_popularity"))

	tracks, err := a.library.Recommend(c.Request().Context(), c.Param("userId"), seeds, maxPopularity)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrMissingSeeds):
			return c.String(http.StatusBadRequest, "You must provide at least one of seed_artists, seed_tracks, or seed_genres.")
		case errors.Is(err, shared.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
		default:
			a.logger.Error("recommendations failed", "user", c.Param("userId"), "error", err)
			return c.String(http.StatusInternalServerError, "Something went wrong.")
		}
	}

	return c.JSON(http.StatusOK, tracks)
}

// splitSeeds splits a comma-joined seed parameter, dropping empty
// entries.
func splitSeeds(param string) []string {
	if param == "" {
		return nil
	}

	var seeds []string
	for _, s := range strings.Split(param, ",") {
		if s = strings.TrimSpace(s); s != "" {
			seeds = append(seeds, s)
		}
	}
	return seeds
}

// Signup registers a new account.
func (a *API) Signup(c echo.Context) error {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	user, err := a.library.Signup(payload.Username, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, shared.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "User already exists"})
		}
		a.logger.Error("signup failed", "email", payload.Email, "error", err)
		return c.String(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "User successfully registered",
		"user":    userInfo{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// Login checks an email and password pair and returns the account.
func (a *API) Login(c echo.Context) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	user, err := a.library.Login(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid email or password"})
		}
		a.logger.Error("login failed", "email", payload.Email, "error", err)
		return c.String(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "User successfully logged in",
		"user":    userInfo{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// ListLikes returns every like held by the user. An empty collection is
// a 404.
func (a *API) ListLikes(c echo.Context) error {
	likes, err := a.library.ListLikes(c.Param("userId"))
	if err != nil {
		if errors.Is(err, shared.ErrLikeNotFound) {
			return a.respond(c, http.StatusNotFound, "No likes found", nil)
		}
		return a.internalError(c, err)
	}

	return a.respond(c, http.StatusOK, "Successfully retrieved likes", likes)
}

// ListBatches returns every batch owned by the user. An empty collection
// is a 404.
func (a *API) ListBatches(c echo.Context) error {
	batches, err := a.library.ListBatches(c.Param("userId"))
	if err != nil {
		if errors.Is(err, shared.ErrBatchNotFound) {
			return a.respond(c, http.StatusNotFound, "No batches found", nil)
		}
		return a.internalError(c, err)
	}

	return a.respond(c, http.StatusOK, "Successfully retrieved batches", batches)
}

// GetBatch returns one batch scoped to its owning user.
func (a *API) GetBatch(c echo.Context) error {
	batch, err := a.library.GetBatch(c.Param("userId"), c.Param("batchId"))
	if err != nil {
		if errors.Is(err, shared.ErrBatchNotFound) {
			return a.respond(c, http.StatusNotFound, "No batches found", nil)
		}
		return a.internalError(c, err)
	}

	return a.respond(c, http.StatusOK, "Successfully retrieved batch", batch)
}

// LikeSong snapshots a stored song into the user's likes.
func (a *API) LikeSong(c echo.Context) error {
	like, err := a.library.LikeSong(c.Param("userId"), c.Param("songId"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrSongNotFound):
			return a.respond(c, http.StatusNotFound, "No song found with that ID", nil)
		case errors.Is(err, shared.ErrUserNotFound):
			return a.respond(c, http.StatusNotFound, "User not found", nil)
		default:
			return a.internalError(c, err)
		}
	}

	return a.respond(c, http.StatusOK, "Successfully added song to likes", like)
}

// UnlikeSong detaches a like from the user and deletes its record. The
// songId path segment carries the like's identifier.
func (a *API) UnlikeSong(c echo.Context) error {
	err := a.library.UnlikeSong(c.Param("userId"), c.Param("songId"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrUserNotFound):
			return a.respond(c, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, shared.ErrLikeNotOwned):
			return a.respond(c, http.StatusNotFound, "Like not found for this user", nil)
		case errors.Is(err, shared.ErrLikeNotFound):
			return a.respond(c, http.StatusNotFound, "No like found with that ID", nil)
		default:
			return a.internalError(c, err)
		}
	}

	return a.respond(c, http.StatusOK, "Successfully removed entry from likes", nil)
}

// DeleteBatch removes a batch, its songs, and the user's reference.
func (a *API) DeleteBatch(c echo.Context) error {
	err := a.library.DeleteBatch(c.Param("userId"), c.Param("batchId"))
	if err != nil {
		if errors.Is(err, shared.ErrBatchNotFound) {
			return a.respond(c, http.StatusNotFound, "No batch found with that ID", nil)
		}
		return a.internalError(c, err)
	}

	return a.respond(c, http.StatusOK, "Successfully removed batch and associated songs", nil)
}
