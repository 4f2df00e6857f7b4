// Package edge is a client for the Central Desktop Edge REST API.
package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/centraldesktop/fattailsync/internal/transport"
	"github.com/centraldesktop/fattailsync/pkg/constants"
	"github.com/centraldesktop/fattailsync/pkg/errors"
	"github.com/centraldesktop/fattailsync/pkg/logging"
)

// System identifies this client in errors and logs.
const System = "edge"

// Config configures a Client.
type Config struct {
	URL        string
	Token      string
	RateLimit  float64
	PageSize   int
	HTTPClient *http.Client
}

// Client talks to the Edge REST API.
type Client struct {
	baseURL   string
	pageSize  int
	transport *transport.Client
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		pageSize: pageSize,
		transport: transport.New(
			&transport.BearerAuth{Token: cfg.Token},
			transport.WithHTTPClient(cfg.HTTPClient),
			transport.WithRateLimit(cfg.RateLimit, constants.BurstSize),
		),
	}
}

// Accounts lists every account.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	return listAll[Account](ctx, c, "accounts")
}

// Workspaces lists the workspaces of an account.
func (c *Client) Workspaces(ctx context.Context, accountID string) ([]Workspace, error) {
	return listAll[Workspace](ctx, c, "accounts/"+url.PathEscape(accountID)+"/workspaces")
}

// Milestones lists the milestones of a workspace.
func (c *Client) Milestones(ctx context.Context, workspaceID string) ([]Milestone, error) {
	return listAll[Milestone](ctx, c, "workspaces/"+url.PathEscape(workspaceID)+"/milestones")
}

// Users lists every user visible to the token.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	return listAll[User](ctx, c, "users")
}

// CreateAccount creates an account and returns its handle.
func (c *Client) CreateAccount(ctx context.Context, req AccountRequest) (string, error) {
	return c.create(ctx, "accounts", req)
}

// CreateWorkspace creates a workspace under an account and returns its handle.
func (c *Client) CreateWorkspace(ctx context.Context, accountID string, req WorkspaceRequest) (string, error) {
	return c.create(ctx, "accounts/"+url.PathEscape(accountID)+"/workspaces", req)
}

// CreateMilestone creates a milestone under a workspace and returns its handle.
func (c *Client) CreateMilestone(ctx context.Context, workspaceID string, req MilestoneRequest) (string, error) {
	return c.create(ctx, "workspaces/"+url.PathEscape(workspaceID)+"/milestones", req)
}

// UpdateMilestone replaces the details of an existing milestone.
func (c *Client) UpdateMilestone(ctx context.Context, milestoneID string, req MilestoneRequest) error {
	path := "milestones/" + url.PathEscape(milestoneID) + "/updateDetail"
	status, body, err := c.post(ctx, path, req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return errors.NewAPIError(System, "POST "+path, status, body)
	}
	return nil
}

// AddUsersToRole adds users to a workspace role without removing existing members.
func (c *Client) AddUsersToRole(ctx context.Context, workspaceID, roleID string, userIDs []string) error {
	path := "workspaces/" + url.PathEscape(workspaceID) + "/roles/" + url.PathEscape(roleID) + "/addUsers"
	status, body, err := c.post(ctx, path, AddUsersRequest{Users: userIDs, ClearExisting: false})
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return errors.NewAPIError(System, "POST "+path, status, body)
	}
	return nil
}

// create posts payload and returns the new entity's handle. Only 201 counts as success.
func (c *Client) create(ctx context.Context, path string, payload any) (string, error) {
	status, body, err := c.post(ctx, path, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", errors.NewAPIError(System, "POST "+path, status, body)
	}
	handle := strings.Trim(strings.TrimSpace(body), `"`)
	if handle == "" {
		return "", errors.NewAPIError(System, "POST "+path, status, "empty handle in create response")
	}
	logging.FromContext(ctx).Debug().Str("path", path).Str("handle", handle).Msg("Created entity")
	return handle, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, "", errors.WrapParse("json", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+path, bytes.NewReader(data))
	if err != nil {
		return 0, "", errors.WrapResource("create", "request", "POST "+path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return 0, "", errors.WrapAPI(System, "POST "+path, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", errors.WrapIO("read", path+" response", err)
	}
	return resp.StatusCode, string(body), nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.WrapResource("create", "request", "GET "+path, err)
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return errors.WrapAPI(System, "GET "+path, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", path+" response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.NewAPIError(System, "GET "+path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapParse("json", path, err)
	}
	return nil
}
