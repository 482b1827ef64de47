package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madjoke/src/app/server"
	"madjoke/src/infra/config"
	"madjoke/src/infra/logger"
	"madjoke/src/infra/repo"
)

func newTestServer(t *testing.T) (*server.Server, *repo.MemoryRepository) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Auth:   config.AuthConfig{TokenSecret: "test-secret"},
		Log:    config.LogConfig{Level: "error", Format: "text"},
	}
	log := logger.NewWithWriter(cfg.Log, io.Discard)
	store := repo.NewMemoryRepository()

	return server.New(cfg, log, store), store
}

// do performs a request against the router. A non-empty token is sent as a
// bearer credential; a non-empty body is sent as JSON.
func do(t *testing.T, srv *server.Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// registerAndLogin creates an account and returns its bearer token.
func registerAndLogin(t *testing.T, srv *server.Server, userName string) string {
	t.Helper()

	w := do(t, srv, http.MethodPost, "/api/user/register", "", `{
		"firstName": "Test", "lastName": "User",
		"userName": "`+userName+`", "email": "`+userName+`@example.com",
		"password": "secret"
	}`)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	w = do(t, srv, http.MethodPost, "/api/user/login", "", `{
		"userName": "`+userName+`", "password": "secret"
	}`)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

// createJoke posts a new joke and returns its id.
func createJoke(t *testing.T, srv *server.Server, token, setup, jokeType string) string {
	t.Helper()

	w := do(t, srv, http.MethodPost, "/api/jokes/new", token, `{
		"setup": "`+setup+`", "punchline": "the punchline", "type": "`+jokeType+`"
	}`)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	joke := decode(t, w)["newJoke"].(map[string]any)
	return joke["id"].(string)
}

func TestListJokesMasking(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")

	jokeID := createJoke(t, srv, token, "masked?", "test")
	w := do(t, srv, http.MethodPost, "/api/jokes/"+jokeID+"/like", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	// authenticated: real punchline, own like state
	w = do(t, srv, http.MethodGet, "/api/jokes?type=test", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	authJokes := decodeList(t, w)
	require.Len(t, authJokes, 1)
	assert.Equal(t, "the punchline", authJokes[0]["punchline"])
	assert.Equal(t, true, authJokes[0]["likedByUser"])
	assert.Equal(t, float64(1), authJokes[0]["likes"])

	// anonymous: masked punchline, never liked, same joke
	w = do(t, srv, http.MethodGet, "/api/jokes?type=test", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	anonJokes := decodeList(t, w)
	require.Len(t, anonJokes, 1)
	assert.Equal(t, "Really funny punchline", anonJokes[0]["punchline"])
	assert.Equal(t, false, anonJokes[0]["likedByUser"])
	assert.Equal(t, float64(1), anonJokes[0]["likes"])
	assert.Equal(t, authJokes[0]["id"], anonJokes[0]["id"])
}

func TestListedAuthorIsUserName(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")
	jokeID := createJoke(t, srv, token, "who wrote this?", "test")

	// listings carry the author's userName for every caller
	w := do(t, srv, http.MethodGet, "/api/jokes?type=test", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymus", decodeList(t, w)[0]["author"])

	w = do(t, srv, http.MethodGet, "/api/jokes?type=test", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymus", decodeList(t, w)[0]["author"])

	w = do(t, srv, http.MethodGet, "/api/jokes/random", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymus", decode(t, w)["author"])

	// the full shape keeps the internal id
	w = do(t, srv, http.MethodGet, "/api/user/jokes", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode(t, w)["jokes"].([]any)
	require.Len(t, mine, 1)
	full := mine[0].(map[string]any)
	assert.Equal(t, jokeID, full["id"])
	_, err := uuid.Parse(full["author"].(string))
	assert.NoError(t, err)
}

func TestListJokesFilterByType(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")

	createJoke(t, srv, token, "a", "general")
	createJoke(t, srv, token, "b", "dad")
	createJoke(t, srv, token, "c", "general")

	w := do(t, srv, http.MethodGet, "/api/jokes?type=general", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = do(t, srv, http.MethodGet, "/api/jokes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 3)
}

func TestJokeTypes(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")

	createJoke(t, srv, token, "a", "general")
	createJoke(t, srv, token, "b", "dad")
	createJoke(t, srv, token, "c", "general")

	w := do(t, srv, http.MethodGet, "/api/jokes/types", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var types []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &types))
	assert.ElementsMatch(t, []string{"general", "dad"}, types)
}

func TestRandomJoke(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")
	createJoke(t, srv, token, "only one", "general")

	w := do(t, srv, http.MethodGet, "/api/jokes/random", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "the punchline", decode(t, w)["punchline"])

	w = do(t, srv, http.MethodGet, "/api/jokes/random", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Really funny punchline", decode(t, w)["punchline"])
}

func TestUpdateJoke(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")
	jokeID := createJoke(t, srv, token, "before", "general")

	w := do(t, srv, http.MethodPut, "/api/jokes/"+jokeID, token, `{
		"setup": "after", "punchline": "after", "type": "after"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode(t, w)["updatedJoke"].(map[string]any)
	assert.Equal(t, "after", updated["setup"])
	assert.Equal(t, "after", updated["punchline"])
	assert.Equal(t, "after", updated["type"])

	// malformed id keeps the historical 500 contract
	w = do(t, srv, http.MethodPut, "/api/jokes/invalidjokeid", token, `{
		"setup": "x", "punchline": "x", "type": "x"
	}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to update joke", decode(t, w)["message"])
}

func TestCreateJoke(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")

	w := do(t, srv, http.MethodPost, "/api/jokes/new", token, `{
		"setup": "new", "punchline": "new", "type": "new"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	joke := decode(t, w)["newJoke"].(map[string]any)
	assert.Equal(t, "new", joke["setup"])
	assert.Equal(t, []any{}, joke["likes"])
	assert.NotEmpty(t, joke["author"])
}

func TestDeleteJoke(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")
	jokeID := createJoke(t, srv, token, "doomed", "general")

	w := do(t, srv, http.MethodDelete, "/api/jokes/"+jokeID, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Joke deleted", decode(t, w)["message"])

	// deleting again fails: the record is gone
	w = do(t, srv, http.MethodDelete, "/api/jokes/"+jokeID, token, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to delete joke", decode(t, w)["message"])

	w = do(t, srv, http.MethodDelete, "/api/jokes/invalidjokeid", token, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to delete joke", decode(t, w)["message"])
}

func TestWriteRoutesRequireAuthentication(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")
	jokeID := createJoke(t, srv, token, "untouchable", "general")

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/jokes/" + jokeID},
		{http.MethodPost, "/api/jokes/new"},
		{http.MethodPost, "/api/jokes/" + jokeID + "/like"},
		{http.MethodDelete, "/api/jokes/" + jokeID},
		{http.MethodGet, "/api/user/"},
		{http.MethodGet, "/api/user/jokes"},
		{http.MethodPut, "/api/user/"},
		{http.MethodPatch, "/api/user/pwchange"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := do(t, srv, r.method, r.path, "", `{"setup":"x","punchline":"x","type":"x"}`)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Authentication failed", decode(t, w)["message"])
		})
	}

	// none of the rejected writes mutated the store
	w := do(t, srv, http.MethodGet, "/api/jokes", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	jokes := decodeList(t, w)
	require.Len(t, jokes, 1)
	assert.Equal(t, "untouchable", jokes[0]["setup"])
	assert.Equal(t, "the punchline", jokes[0]["punchline"])
}

func TestUserProfile(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")

	w := do(t, srv, http.MethodGet, "/api/user/", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	parsed := decode(t, w)["parsedUser"].(map[string]any)
	info := parsed["userInfo"].(map[string]any)
	assert.Equal(t, "anonymus", info["userName"])
	assert.Equal(t, "anonymus@example.com", info["email"])
	assert.NotEmpty(t, parsed["createdAt"])
	// no credential or id leakage
	assert.NotContains(t, info, "password")
	assert.NotContains(t, info, "passwordHash")
	assert.NotContains(t, info, "id")
}

func TestUserJokesAreUnmasked(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")
	other := registerAndLogin(t, srv, "someoneelse")

	createJoke(t, srv, token, "mine", "general")
	createJoke(t, srv, other, "theirs", "general")

	w := do(t, srv, http.MethodGet, "/api/user/jokes", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	jokes := decode(t, w)["jokes"].([]any)
	require.Len(t, jokes, 1)
	joke := jokes[0].(map[string]any)
	assert.Equal(t, "mine", joke["setup"])
	assert.Equal(t, "the punchline", joke["punchline"])
	// full shape carries the raw like set
	assert.Equal(t, []any{}, joke["likes"])
}

func TestUserUpdate(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")

	w := do(t, srv, http.MethodPut, "/api/user/", token, `{
		"userUpdates": {"userName": "anonymus2"}
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	parsed := decode(t, w)["parsedUser"].(map[string]any)
	info := parsed["userInfo"].(map[string]any)
	assert.Equal(t, "anonymus2", info["userName"])
	assert.Equal(t, "anonymus@example.com", info["email"])

	// empty payload fails
	w = do(t, srv, http.MethodPut, "/api/user/", token, `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Update failed", decode(t, w)["message"])
}

func TestPasswordChange(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")

	// wrong old password
	w := do(t, srv, http.MethodPatch, "/api/user/pwchange", token, `{
		"pwS": {"oldPw": "wrong", "newPw": "next"}
	}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect password", decode(t, w)["message"])

	// the old password still works
	w = do(t, srv, http.MethodPost, "/api/user/login", "", `{
		"userName": "anonymus", "password": "secret"
	}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// correct old password rotates the credential
	w = do(t, srv, http.MethodPatch, "/api/user/pwchange", token, `{
		"pwS": {"oldPw": "secret", "newPw": "next"}
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password updated!", decode(t, w)["message"])

	w = do(t, srv, http.MethodPost, "/api/user/login", "", `{
		"userName": "anonymus", "password": "next"
	}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodPost, "/api/user/login", "", `{
		"userName": "anonymus", "password": "secret"
	}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect password", decode(t, w)["message"])
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/user/register", "", `{
		"firstName": "", "lastName": "", "userName": "", "email": "", "password": ""
	}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Fields are missing", decode(t, w)["message"])

	w = do(t, srv, http.MethodPost, "/api/user/register", "", `{
		"firstName": "Test", "lastName": "User",
		"userName": "fresh", "email": "fresh@example.com", "password": "pw"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created", decode(t, w)["message"])
}

func TestLoginErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	registerAndLogin(t, srv, "anonymus")

	w := do(t, srv, http.MethodPost, "/api/user/login", "", `{
		"userName": "nobody", "password": "secret"
	}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect username", decode(t, w)["message"])

	w = do(t, srv, http.MethodPost, "/api/user/login", "", `{
		"userName": "anonymus", "password": "wrong"
	}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect password", decode(t, w)["message"])
}

func TestLoginReturnsWorkingToken(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerAndLogin(t, srv, "anonymus")

	w := do(t, srv, http.MethodGet, "/api/user/", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/health/detailed", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}
