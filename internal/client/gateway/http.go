package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/arthlor/yeser/internal/client/models"
	"github.com/arthlor/yeser/internal/client/validation"
	"github.com/arthlor/yeser/internal/logging"
)

// HTTPGateway speaks the backend's JSON surface: row reads under /rest/v1/
// and the transactional functions under /rest/v1/rpc/. Every response body
// passes the validation layer before it becomes a domain value.
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	tokens     TokenSource
	validator  *validation.Validator
	log        logging.Logger
	httpClient *http.Client
}

func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration, tokens TokenSource, va *validation.Validator, log logging.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    baseURL,
		apiKey:     apiKey,
		tokens:     tokens,
		validator:  va,
		log:        log.With("component", "gateway"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	token := g.tokens.AccessToken()
	if token == "" {
		return nil, ErrUnauthenticated
	}

	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding request: %v", ErrRemote, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrRemote, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrRemote, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthenticated
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 400:
		g.log.Warn(ctx, "backend returned error status", "method", method, "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRemote, resp.StatusCode, truncate(data, 200))
	}

	return data, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

func (g *HTTPGateway) decodeRows(data []byte) ([]validation.EntryRow, error) {
	var rows []validation.EntryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &validation.Error{Stage: validation.StageShape, Detail: "entry rows payload", Err: err}
	}
	return rows, nil
}

func (g *HTTPGateway) FetchEntry(ctx context.Context, date string) (*models.Entry, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("entry_date", "eq."+date)

	data, err := g.do(ctx, http.MethodGet, "/rest/v1/gratitude_entries", q, nil)
	if err != nil {
		return nil, err
	}

	rows, err := g.decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	entry, err := g.validator.EntryFromRow(ctx, rows[0])
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (g *HTTPGateway) FetchAllEntries(ctx context.Context) ([]models.Entry, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "entry_date.desc")

	data, err := g.do(ctx, http.MethodGet, "/rest/v1/gratitude_entries", q, nil)
	if err != nil {
		return nil, err
	}

	rows, err := g.decodeRows(data)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := g.validator.EntryFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (g *HTTPGateway) AppendStatement(ctx context.Context, date, text string) (models.Entry, error) {
	body := map[string]any{"entry_date": date, "statement_text": text}

	data, err := g.do(ctx, http.MethodPost, "/rest/v1/rpc/add_gratitude_statement", nil, body)
	if err != nil {
		return models.Entry{}, err
	}

	var row validation.EntryRow
	if err := json.Unmarshal(data, &row); err != nil {
		return models.Entry{}, &validation.Error{Stage: validation.StageShape, Detail: "append response payload", Err: err}
	}
	return g.validator.EntryFromRow(ctx, row)
}

func (g *HTTPGateway) EditStatementAt(ctx context.Context, date string, index int, text string) error {
	body := map[string]any{"entry_date": date, "statement_index": index, "statement_text": text}
	_, err := g.do(ctx, http.MethodPost, "/rest/v1/rpc/edit_gratitude_statement", nil, body)
	return err
}

func (g *HTTPGateway) RemoveStatementAt(ctx context.Context, date string, index int) error {
	body := map[string]any{"entry_date": date, "statement_index": index}
	_, err := g.do(ctx, http.MethodPost, "/rest/v1/rpc/delete_gratitude_statement", nil, body)
	return err
}

func (g *HTTPGateway) DeleteEntry(ctx context.Context, date string) error {
	q := url.Values{}
	q.Set("entry_date", "eq."+date)
	_, err := g.do(ctx, http.MethodDelete, "/rest/v1/gratitude_entries", q, nil)
	return err
}

func (g *HTTPGateway) FetchStreak(ctx context.Context) (models.Streak, error) {
	data, err := g.do(ctx, http.MethodPost, "/rest/v1/rpc/calculate_streak", nil, map[string]any{})
	if err != nil {
		return models.Streak{}, err
	}

	var row validation.StreakRow
	if err := json.Unmarshal(data, &row); err != nil {
		return models.Streak{}, &validation.Error{Stage: validation.StageShape, Detail: "streak payload", Err: err}
	}
	return g.validator.StreakFromRow(ctx, row)
}

func (g *HTTPGateway) FetchProfile(ctx context.Context) (models.Profile, error) {
	uid := g.tokens.UserID()
	if uid == "" {
		return models.Profile{}, ErrUnauthenticated
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+uid)

	data, err := g.do(ctx, http.MethodGet, "/rest/v1/profiles", q, nil)
	if err != nil {
		return models.Profile{}, err
	}

	var rows []validation.ProfileRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return models.Profile{}, &validation.Error{Stage: validation.StageShape, Detail: "profile payload", Err: err}
	}
	if len(rows) == 0 {
		return models.Profile{}, ErrNotFound
	}
	return g.validator.ProfileFromRow(ctx, rows[0])
}
