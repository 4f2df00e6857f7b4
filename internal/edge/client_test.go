package edge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centraldesktop/fattailsync/pkg/errors"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type fakeEdge struct {
	mu       sync.Mutex
	requests []capturedRequest
	handler  func(w http.ResponseWriter, r *http.Request, body string)
}

func (f *fakeEdge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
	f.mu.Unlock()
	f.handler(w, r, string(body))
}

func newFakeEdge(t *testing.T, pageSize int, handler func(w http.ResponseWriter, r *http.Request, body string)) (*Client, *fakeEdge) {
	t.Helper()
	fake := &fakeEdge{handler: handler}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return NewClient(Config{URL: server.URL + "/", Token: "tok", PageSize: pageSize}), fake
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestPaginationFollowsCursor(t *testing.T) {
	client, fake := newFakeEdge(t, 2, func(w http.ResponseWriter, r *http.Request, _ string) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Query().Get("lastRecord") {
		case "":
			_, _ = io.WriteString(w, `{"items":[{"id":"a1"},{"id":"a2"}],"lastRecord":"a2"}`)
		case "a2":
			_, _ = io.WriteString(w, `{"items":[{"id":"a3"},{"id":"a4"}],"lastRecord":"a4"}`)
		default:
			_, _ = io.WriteString(w, `{"items":[{"id":"a5"}]}`)
		}
	})

	accounts, err := client.Accounts(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5"}, ids)
	require.Len(t, fake.requests, 3)
	assert.Equal(t, "limit=2", fake.requests[0].Query)
	assert.Equal(t, "lastRecord=a2&limit=2", fake.requests[1].Query)
}

func TestPaginationContinuesPastShortPages(t *testing.T) {
	client, fake := newFakeEdge(t, 3, func(w http.ResponseWriter, r *http.Request, _ string) {
		switch r.URL.Query().Get("lastRecord") {
		case "":
			_, _ = io.WriteString(w, `{"items":[{"id":"a1"},{"id":"a2"}],"lastRecord":"a2"}`)
		case "a2":
			_, _ = io.WriteString(w, `{"items":[{"id":"a3"},{"id":"a4"}],"lastRecord":"a4"}`)
		default:
			_, _ = io.WriteString(w, `{"items":[{"id":"a5"}]}`)
		}
	})

	accounts, err := client.Accounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 5)
	require.Len(t, fake.requests, 3)
	assert.Equal(t, "lastRecord=a4&limit=3", fake.requests[2].Query)
}

func TestPaginationEndsOnAbsentOrEmptyCursor(t *testing.T) {
	bodies := map[string]string{
		"absent": `{"items":[{"id":"u1"},{"id":"u2"}]}`,
		"null":   `{"items":[{"id":"u1"},{"id":"u2"}],"lastRecord":null}`,
		"empty":  `{"items":[{"id":"u1"},{"id":"u2"}],"lastRecord":""}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client, fake := newFakeEdge(t, 2, func(w http.ResponseWriter, _ *http.Request, _ string) {
				_, _ = io.WriteString(w, body)
			})

			users, err := client.Users(context.Background())
			require.NoError(t, err)
			assert.Len(t, users, 2)
			assert.Len(t, fake.requests, 1)
		})
	}
}

func TestPaginationEndsOnEmptyPage(t *testing.T) {
	client, fake := newFakeEdge(t, 2, func(w http.ResponseWriter, _ *http.Request, _ string) {
		_, _ = io.WriteString(w, `{"items":[],"lastRecord":"x"}`)
	})

	workspaces, err := client.Workspaces(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Empty(t, workspaces)
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "/accounts/acct-1/workspaces", fake.requests[0].Path)
}

func TestPaginationStopsOnRepeatedCursor(t *testing.T) {
	client, fake := newFakeEdge(t, 1, func(w http.ResponseWriter, _ *http.Request, _ string) {
		_, _ = io.WriteString(w, `{"items":[{"id":"m1"}],"lastRecord":"m1"}`)
	})

	milestones, err := client.Milestones(context.Background(), "ws-1")
	require.NoError(t, err)
	assert.Len(t, milestones, 2)
	assert.Len(t, fake.requests, 2)
}

func TestListErrorStatus(t *testing.T) {
	client, _ := newFakeEdge(t, 2, func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "forbidden")
	})

	_, err := client.Accounts(context.Background())
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "edge", apiErr.System)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "forbidden", apiErr.Message)
}

func TestCreateReturnsHandle(t *testing.T) {
	client, fake := newFakeEdge(t, 2, func(w http.ResponseWriter, r *http.Request, _ string) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `"acct-9"`)
	})

	handle, err := client.CreateAccount(context.Background(), NewAccountRequest("Acme", F("c_client_id", "42")))
	require.NoError(t, err)
	assert.Equal(t, "acct-9", handle)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodPost, fake.requests[0].Method)
	assert.Equal(t, "/accounts", fake.requests[0].Path)
	assert.JSONEq(t, `{"accountName":"Acme","customFields":[{"fieldApiId":"c_client_id","value":"42"}]}`, fake.requests[0].Body)
}

func TestCreateRequires201(t *testing.T) {
	client, fake := newFakeEdge(t, 2, func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ws-1")
	})

	_, err := client.CreateWorkspace(context.Background(), "acct-1", NewWorkspaceRequest("Spring", ""))
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Equal(t, "POST accounts/acct-1/workspaces", apiErr.Operation)
	assert.Len(t, fake.requests, 1)
}

func TestCreateIsNotRetried(t *testing.T) {
	client, fake := newFakeEdge(t, 2, func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.CreateMilestone(context.Background(), "ws-1", NewMilestoneRequest("t", "d", "s", "e"))
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
	assert.Len(t, fake.requests, 1)
}

func TestUpdateMilestoneAndAddUsers(t *testing.T) {
	client, fake := newFakeEdge(t, 2, func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	require.NoError(t, client.UpdateMilestone(ctx, "m-1", NewMilestoneRequest("t", "d", "s", "e")))
	require.NoError(t, client.AddUsersToRole(ctx, "ws-1", "role-2", []string{"u-1"}))

	require.Len(t, fake.requests, 2)
	assert.Equal(t, "/milestones/m-1/updateDetail", fake.requests[0].Path)
	assert.Equal(t, "/workspaces/ws-1/roles/role-2/addUsers", fake.requests[1].Path)
	assert.JSONEq(t, `{"users":["u-1"],"clearExisting":false}`, fake.requests[1].Body)
}

func TestUpdateMilestoneRejected(t *testing.T) {
	client, _ := newFakeEdge(t, 2, func(w http.ResponseWriter, _ *http.Request, _ string) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, "bad dates")
	})

	err := client.UpdateMilestone(context.Background(), "m-1", MilestoneRequest{})
	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad dates", apiErr.Message)
}

func TestUserFullName(t *testing.T) {
	client, _ := newFakeEdge(t, 10, func(w http.ResponseWriter, _ *http.Request, _ string) {
		writeJSON(t, w, map[string]any{
			"items": []map[string]string{{"id": "u-1", "firstName": "John", "lastName": "Smith"}},
		})
	})

	users, err := client.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "John Smith", users[0].FullName())
}
