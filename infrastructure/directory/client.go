// Package directory is the client for the external users/roles REST API.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"adminconsole/models"
)

// ErrNotFound matches a 404 from the directory API.
var ErrNotFound = errors.New("directory: not found")

// maxLookupPages bounds AllRoles against a server whose next token never ends.
const maxLookupPages = 1000

// StatusError is a non-2xx answer from the directory API. Message is what the
// console shows the operator.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// RolePatch is the PATCH /roles/:id body.
type RolePatch struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDefault   bool   `json:"isDefault"`
}

type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse directory url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("directory url must be http(s), got %q", baseURL)
	}
	return &Client{base: u, http: &http.Client{Timeout: timeout}}, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func listQuery(page int, search string) url.Values {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(page))
	return q
}

// ListUsers fetches GET /users?search=&page=.
func (c *Client) ListUsers(ctx context.Context, page int, search string) (models.Paged[models.User], error) {
	var out models.Paged[models.User]
	err := c.getJSON(ctx, c.endpoint("/users", listQuery(page, search)), "Users", &out)
	return normalize(out), err
}

// ListRoles fetches GET /roles?search=&page=.
func (c *Client) ListRoles(ctx context.Context, page int, search string) (models.Paged[models.Role], error) {
	var out models.Paged[models.Role]
	err := c.getJSON(ctx, c.endpoint("/roles", listQuery(page, search)), "Roles", &out)
	return normalize(out), err
}

// AllRoles pages through GET /roles following next until it is absent and
// returns every role by id.
func (c *Client) AllRoles(ctx context.Context) (map[string]models.Role, error) {
	lookup := make(map[string]models.Role)
	seen := make(map[int]bool)
	page := 1
	for i := 0; i < maxLookupPages; i++ {
		seen[page] = true
		var out models.Paged[models.Role]
		if err := c.getJSON(ctx, c.endpoint("/roles", listQuery(page, "")), "Roles", &out); err != nil {
			return nil, err
		}
		for _, role := range out.Data {
			lookup[role.ID] = role
		}
		if out.Next == nil {
			return lookup, nil
		}
		if seen[*out.Next] {
			return nil, fmt.Errorf("roles: page %d repeats in next chain", *out.Next)
		}
		page = *out.Next
	}
	return nil, fmt.Errorf("roles: more than %d pages", maxLookupPages)
}

// DeleteUser issues DELETE /users/:id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint("/users/"+url.PathEscape(id), nil), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: fmt.Sprintf("Delete failed: %d", resp.StatusCode)}
	}
	return nil
}

// UpdateRole issues PATCH /roles/:id and returns the updated role.
func (c *Client) UpdateRole(ctx context.Context, id string, patch RolePatch) (models.Role, error) {
	var role models.Role
	body, err := json.Marshal(patch)
	if err != nil {
		return role, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint("/roles/"+url.PathEscape(id), nil), bytes.NewReader(body))
	if err != nil {
		return role, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return role, err
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		msg := strings.TrimSpace(failure.Message)
		if msg == "" {
			msg = fmt.Sprintf("Update failed: %d", resp.StatusCode)
		}
		return role, &StatusError{Status: resp.StatusCode, Message: msg}
	}
	if err := json.NewDecoder(resp.Body).Decode(&role); err != nil {
		return role, fmt.Errorf("decode role: %w", err)
	}
	return role, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, label string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: fmt.Sprintf("%s %d", label, resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", strings.ToLower(label), err)
	}
	return nil
}

func normalize[T any](p models.Paged[T]) models.Paged[T] {
	if p.Data == nil {
		p.Data = []T{}
	}
	return p
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
