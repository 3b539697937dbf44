package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// LLMRequest is one logged call to an LLM provider.
type LLMRequest struct {
	ID           int64
	RequestID    string
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// QueryOpts configures request queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = any)
}

// UsageStats aggregates token usage for one purpose or model.
type UsageStats struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// RequestRepo records and queries LLM requests.
type RequestRepo interface {
	// Append records a request. ID, RequestID and Timestamp are filled in
	// when zero.
	Append(ctx context.Context, req *LLMRequest) error

	// Recent returns the newest requests first.
	Recent(ctx context.Context, opts QueryOpts) ([]LLMRequest, error)

	// Get returns a request by ID, or nil if it does not exist.
	Get(ctx context.Context, id int64) (*LLMRequest, error)

	// UsageByPurpose aggregates usage per purpose, sorted by purpose.
	UsageByPurpose(ctx context.Context) ([]UsageStats, error)

	// UsageByModel aggregates usage per model, sorted by model.
	UsageByModel(ctx context.Context) ([]UsageStats, error)
}

type requestRepo struct {
	drv *entsql.Driver
}

var requestColumns = []string{
	"id", "request_id", "created_at", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body",
}

func (r *requestRepo) Append(ctx context.Context, req *LLMRequest) error {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(LlmRequestsTable.Name).
		Columns(requestColumns[1:]...).
		Values(req.RequestID, req.Timestamp.UTC(), req.Provider, req.Model, req.Purpose,
			req.InputTokens, req.OutputTokens, req.LatencyMs, req.Success, req.ErrorMessage,
			req.RequestBody, req.ResponseBody).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return eris.Wrap(err, "insert llm request")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "llm request id")
	}
	req.ID = id
	return nil
}

func (r *requestRepo) Recent(ctx context.Context, opts QueryOpts) ([]LLMRequest, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(LlmRequestsTable.Name)
	sel := b.Select(t.Columns(requestColumns...)...).From(t).OrderBy(entsql.Desc(t.C("id")))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ(t.C("purpose"), opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return r.query(ctx, sel)
}

func (r *requestRepo) Get(ctx context.Context, id int64) (*LLMRequest, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(LlmRequestsTable.Name)
	out, err := r.query(ctx, b.Select(t.Columns(requestColumns...)...).
		From(t).
		Where(entsql.EQ(t.C("id"), id)))
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r *requestRepo) query(ctx context.Context, sel *entsql.Selector) ([]LLMRequest, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, eris.Wrap(err, "query llm requests")
	}
	defer rows.Close()

	var out []LLMRequest
	for rows.Next() {
		var req LLMRequest
		err := rows.Scan(&req.ID, &req.RequestID, &req.Timestamp, &req.Provider, &req.Model, &req.Purpose,
			&req.InputTokens, &req.OutputTokens, &req.LatencyMs, &req.Success, &req.ErrorMessage,
			&req.RequestBody, &req.ResponseBody)
		if err != nil {
			return nil, eris.Wrap(err, "scan llm request")
		}
		out = append(out, req)
	}
	return out, eris.Wrap(rows.Err(), "iterate llm requests")
}

func (r *requestRepo) UsageByPurpose(ctx context.Context) ([]UsageStats, error) {
	return r.usage(ctx, "purpose")
}

func (r *requestRepo) UsageByModel(ctx context.Context) ([]UsageStats, error) {
	return r.usage(ctx, "model")
}

// usage aggregates by a fixed column name; column is never user input.
func (r *requestRepo) usage(ctx context.Context, column string) ([]UsageStats, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(LlmRequestsTable.Name)
	key := t.C(column)
	query, args := b.Select(
		key,
		entsql.Count("*"),
		fmt.Sprintf("SUM(CASE WHEN %s THEN 0 ELSE 1 END)", t.C("success")),
		fmt.Sprintf("COALESCE(%s, 0)", entsql.Sum(t.C("input_tokens"))),
		fmt.Sprintf("COALESCE(%s, 0)", entsql.Sum(t.C("output_tokens"))),
		fmt.Sprintf("CAST(COALESCE(%s, 0) AS INTEGER)", entsql.Avg(t.C("latency_ms"))),
	).
		From(t).
		GroupBy(key).
		OrderBy(key).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, eris.Wrapf(err, "aggregate usage by %s", column)
	}
	defer rows.Close()

	var out []UsageStats
	for rows.Next() {
		var u UsageStats
		if err := rows.Scan(&u.Key, &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, eris.Wrap(err, "scan usage")
		}
		out = append(out, u)
	}
	return out, eris.Wrap(rows.Err(), "iterate usage")
}
