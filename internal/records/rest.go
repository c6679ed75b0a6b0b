package records

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/models"
	"github.com/go-resty/resty/v2"
)

// RESTSource talks to a PostgREST backend (the managed Supabase project)
// with the public API key.
type RESTSource struct {
	http *resty.Client
}

// postgrestError is the error body returned by PostgREST.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// NewRESTSource creates a source for baseURL (the project URL, without /rest/v1).
func NewRESTSource(baseURL, apiKey string, timeout time.Duration) *RESTSource {
	client := resty.New().
		SetBaseURL(baseURL+"/rest/v1").
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// only reads are retried on server errors
			return r != nil && r.Request.Method == http.MethodGet && r.StatusCode() >= 500
		}).
		SetHeader("apikey", apiKey).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")
	return &RESTSource{http: client}
}

func (s *RESTSource) Apartments(ctx context.Context) ([]*models.Apartment, error) {
	var list []*models.Apartment
	if err := s.list(ctx, catalog.Apartments.Table(), &list, nil); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *RESTSource) Clients(ctx context.Context) ([]*models.Client, error) {
	var list []*models.Client
	if err := s.list(ctx, catalog.Clients.Table(), &list, nil); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *RESTSource) Client(ctx context.Context, id string) (*models.Client, error) {
	var list []*models.Client
	if err := s.list(ctx, catalog.Clients.Table(), &list, map[string]string{"id": "eq." + id}); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

func (s *RESTSource) list(ctx context.Context, table string, out any, filter map[string]string) error {
	var perr postgrestError
	req := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"select": "*", "order": "created_at.desc"}).
		SetResult(out).
		SetError(&perr)
	for k, v := range filter {
		req.SetQueryParam(k, v)
	}
	resp, err := req.Get("/" + table)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", table, err)
	}
	return check(resp, &perr, "fetch "+table)
}

func (s *RESTSource) UpdateField(ctx context.Context, entity catalog.Entity, id, field string, value any) error {
	if err := checkEditable(entity, field); err != nil {
		return err
	}
	var perr postgrestError
	var updated []map[string]any
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetBody(map[string]any{field: value}).
		SetResult(&updated).
		SetError(&perr).
		Patch("/" + entity.Table())
	op := "update " + entity.Table() + "." + field
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := check(resp, &perr, op); err != nil {
		return err
	}
	if len(updated) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RESTSource) InsertClient(ctx context.Context, c *models.Client) error {
	body, err := insertBody(c)
	if err != nil {
		return err
	}
	var perr postgrestError
	var created []*models.Client
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody([]map[string]any{body}).
		SetResult(&created).
		SetError(&perr).
		Post("/" + catalog.Clients.Table())
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	if err := check(resp, &perr, "insert client"); err != nil {
		return err
	}
	if len(created) > 0 {
		c.ID, c.CreatedAt, c.UpdatedAt = created[0].ID, created[0].CreatedAt, created[0].UpdatedAt
	}
	return nil
}

// insertBody drops the server-managed columns so the backend fills them in.
func insertBody(c *models.Client) (map[string]any, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode client: %w", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("encode client: %w", err)
	}
	delete(body, "created_at")
	delete(body, "updated_at")
	if c.ID == "" {
		delete(body, "id")
	}
	return body, nil
}

func check(resp *resty.Response, perr *postgrestError, op string) error {
	if !resp.IsError() {
		return nil
	}
	if perr.Code == "23505" || resp.StatusCode() == http.StatusConflict {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	msg := perr.Message
	if msg == "" {
		msg = resp.Status()
	}
	return fmt.Errorf("%s: backend returned %d: %s", op, resp.StatusCode(), msg)
}
