package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres connect", Run: checkPostgres},
		{Name: "Env: Redis connect", Run: checkRedis},
		{Name: "Migration: tables exist", Run: checkTables},
		{Name: "API: health", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/health", "", nil, http.StatusOK)
		}},
		{Name: "API: durations", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodGet, "/api/durations", "", nil, http.StatusOK)
		}},
		{Name: "API: invalid plan rejected", Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, http.MethodPost, "/api/itineraries", "", map[string]any{"destination": "", "duration": "1d"}, http.StatusBadRequest)
		}},
		{Name: "Flow: plan, read back, export guard", Run: planFlow},
		{Name: "Concurrency: parallel plans keep newest", Run: concurrentPlans},
		{Name: "Perf: durations throughput", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, "/api/durations")
		}},
	}
}

func checkPostgres(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: statusSkip, Note: "dsn not set"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass}
}

func checkRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: statusSkip, Note: "redis not set"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass}
}

func checkTables(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: statusSkip, Note: "dsn not set"}
	}
	tables, err := extractTables(r.cfg.MigrationPath)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	for _, t := range tables {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", t,
		).Scan(&exists)
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		if !exists {
			return Result{Status: statusFail, Note: "missing table: " + t}
		}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
}

func planFlow(ctx context.Context, r *Runner) Result {
	sid := uuid.NewString()
	start := time.Now()

	status, body, err := r.do(ctx, http.MethodPost, "/api/itineraries", sid, r.planBody())
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	latency := time.Since(start)
	if status != http.StatusOK {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("plan status=%d", status)}
	}
	var plan struct {
		Stage string `json:"stage"`
	}
	_ = json.Unmarshal(body, &plan)

	if res := r.expect(ctx, http.MethodGet, "/api/itineraries/current", sid, nil, http.StatusOK); res.Status != statusPass {
		return res
	}
	if res := r.expect(ctx, http.MethodPost, "/api/itineraries/current/email", sid, nil, http.StatusUnauthorized); res.Status != statusPass {
		return res
	}
	return Result{Status: statusPass, Latency: latency, Note: "stage=" + plan.Stage}
}

func concurrentPlans(ctx context.Context, r *Runner) Result {
	sid := uuid.NewString()
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok         int
		superseded int
		maxSeq     uint64
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, body, err := r.do(ctx, http.MethodPost, "/api/itineraries", sid, r.planBody())
			if err != nil {
				return
			}
			var res struct {
				Seq uint64 `json:"seq"`
			}
			_ = json.Unmarshal(body, &res)
			mu.Lock()
			defer mu.Unlock()
			switch status {
			case http.StatusOK:
				ok++
				if res.Seq > maxSeq {
					maxSeq = res.Seq
				}
			case http.StatusConflict:
				superseded++
			}
		}()
	}
	wg.Wait()

	status, body, err := r.do(ctx, http.MethodGet, "/api/itineraries/current", sid, nil)
	if err != nil || status != http.StatusOK {
		return Result{Status: statusFail, Note: fmt.Sprintf("read back status=%d err=%v", status, err)}
	}
	var cur struct {
		Seq uint64 `json:"seq"`
	}
	_ = json.Unmarshal(body, &cur)
	note := fmt.Sprintf("ok=%d superseded=%d stored_seq=%d", ok, superseded, cur.Seq)
	if ok == 0 || cur.Seq != maxSeq {
		return Result{Status: statusFail, Note: note}
	}
	return Result{Status: statusPass, Note: note}
}

func perfLoad(ctx context.Context, r *Runner, path string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		count    int64
		errCount int64
		mu       sync.Mutex
		wg       sync.WaitGroup
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				_, _, err := r.do(ctx, http.MethodGet, path, "", nil)
				mu.Lock()
				if err != nil {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func (r *Runner) planBody() map[string]any {
	return map[string]any{
		"destination":    r.cfg.Destination,
		"duration":       "1d",
		"interests":      []string{"food", "history"},
		"include_snacks": true,
	}
}

func (r *Runner) expect(ctx context.Context, method, path, sid string, body any, want int) Result {
	start := time.Now()
	status, _, err := r.do(ctx, method, path, sid, body)
	latency := time.Since(start)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	if status != want {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("%s %s: status=%d want=%d", method, path, status, want)}
	}
	return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
}

func (r *Runner) do(ctx context.Context, method, path, sid string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set("X-Session-ID", sid)
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}

var createTablePattern = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	matches := createTablePattern.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}
