package command_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"libraryconsole/cmd/cli/command"
	"libraryconsole/internal/console/consoletest"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	out    string
	errOut string
	err    error
}

func run(t *testing.T, backend *consoletest.Backend, stdin string, args ...string) result {
	t.Helper()
	color.NoColor = true

	var out, errOut bytes.Buffer
	cmd := command.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{
		"--users-api", backend.Endpoint("/users/"),
		"--books-api", backend.Endpoint("/books/"),
		"--loans-api", backend.Endpoint("/loans/"),
	}, args...))

	err := cmd.Execute()
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestUsersList(t *testing.T) {
	backend := consoletest.NewBackend(t)
	backend.SetList("/users/", `[{"id":1,"name":"Ana","email":"a@x.com"}]`)

	res := run(t, backend, "", "users", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Users (1)")
	assert.Contains(t, res.out, "ID: 1, Name: Ana, Email: a@x.com")
}

func TestListFailure(t *testing.T) {
	backend := consoletest.NewBackend(t)
	backend.Respond(http.MethodGet, "/books/", http.StatusServiceUnavailable, "")

	res := run(t, backend, "", "books", "list")
	require.Error(t, res.err)
	assert.Contains(t, res.out, "Error loading data: HTTP error: 503")
}

func TestUsersCreate(t *testing.T) {
	backend := consoletest.NewBackend(t)

	res := run(t, backend, "", "users", "create", "--name", "Bob", "--email", "b@x.com")
	require.NoError(t, res.err)

	reqs := backend.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/users/", reqs[0].Path)
	assert.JSONEq(t, `{"name":"Bob","email":"b@x.com"}`, reqs[0].Body)
	assert.Equal(t, http.MethodGet, reqs[1].Method)
	assert.Contains(t, res.out, "Created user")
}

func TestCreateRequiresFields(t *testing.T) {
	backend := consoletest.NewBackend(t)

	res := run(t, backend, "", "users", "create", "--name", "Bob")
	require.Error(t, res.err)
	assert.Empty(t, backend.Requests())
}

func TestBooksUpdateKeepsUnchangedFields(t *testing.T) {
	backend := consoletest.NewBackend(t)
	backend.SetList("/books/", `[{"id":5,"title":"Dune","author":"Herbert"}]`)

	res := run(t, backend, "", "books", "update", "5", "--author", "Frank Herbert")
	require.NoError(t, res.err)

	assert.Equal(t, 1, backend.Count(http.MethodPut, "/books/5/"))
	for _, r := range backend.Requests() {
		if r.Method == http.MethodPut {
			assert.JSONEq(t, `{"title":"Dune","author":"Frank Herbert"}`, r.Body)
		}
	}
}

func TestUpdateUnknownID(t *testing.T) {
	backend := consoletest.NewBackend(t)

	res := run(t, backend, "", "users", "update", "9", "--name", "X")
	require.Error(t, res.err)
	assert.EqualError(t, res.err, "user 9 not found")
	assert.Equal(t, 0, backend.Count(http.MethodPut, "/users/9/"))
}

func TestSaveFailurePrintsAlert(t *testing.T) {
	backend := consoletest.NewBackend(t)
	backend.Respond(http.MethodPost, "/users/", http.StatusBadRequest, `{"email":["Enter a valid email address."]}`)

	res := run(t, backend, "", "users", "create", "--name", "Bob", "--email", "nope")
	require.Error(t, res.err)
	assert.Contains(t, res.errOut, `Error saving: {"email":["Enter a valid email address."]}`)
	assert.Equal(t, 0, backend.Count(http.MethodGet, "/users/"))
}

func TestDelete(t *testing.T) {
	t.Run("Declined", func(t *testing.T) {
		backend := consoletest.NewBackend(t)
		backend.SetList("/users/", `[{"id":1,"name":"Ana","email":"a@x.com"}]`)

		res := run(t, backend, "n\n", "users", "delete", "1")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "Are you sure you want to delete Ana? [y/N]")
		assert.Contains(t, res.out, "Cancelled")
		assert.Equal(t, 0, backend.Count(http.MethodDelete, "/users/1/"))
	})

	t.Run("Confirmed", func(t *testing.T) {
		backend := consoletest.NewBackend(t)
		backend.SetList("/users/", `[{"id":1,"name":"Ana","email":"a@x.com"}]`)

		res := run(t, backend, "y\n", "users", "delete", "1")
		require.NoError(t, res.err)
		assert.Equal(t, 1, backend.Count(http.MethodDelete, "/users/1/"))
		assert.Equal(t, 2, backend.Count(http.MethodGet, "/users/"))
	})

	t.Run("YesFlagAndServerError", func(t *testing.T) {
		backend := consoletest.NewBackend(t)
		backend.SetList("/books/", `[{"id":5,"title":"Dune","author":"Herbert"}]`)
		backend.Respond(http.MethodDelete, "/books/5/", http.StatusInternalServerError, "")

		res := run(t, backend, "", "books", "delete", "5", "--yes")
		require.Error(t, res.err)
		assert.Contains(t, res.errOut, "Error deleting: HTTP error: 500")
		assert.Equal(t, 1, backend.Count(http.MethodGet, "/books/"), "no reload after a failed delete")
	})
}

func TestLoans(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		backend := consoletest.NewBackend(t)

		res := run(t, backend, "", "loans", "create", "--user-id", "1", "--book-id", "5")
		require.NoError(t, res.err)
		assert.Equal(t, 1, backend.Count(http.MethodPost, "/loans/"))
		assert.JSONEq(t, `{"user_id":1,"book_id":5}`, backend.Requests()[0].Body)
	})

	t.Run("NoDeleteCommand", func(t *testing.T) {
		backend := consoletest.NewBackend(t)

		res := run(t, backend, "", "loans", "delete", "3")
		require.Error(t, res.err)
		assert.Empty(t, backend.Requests())
	})
}
