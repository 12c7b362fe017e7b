package runtime

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/blackcoderx/postmaiden/pkg/project"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one execution when no client is given.
const DefaultTimeout = 30 * time.Second

// Executor sends request specs.
type Executor struct {
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewExecutor creates an executor with its own client bounded by timeout
// (DefaultTimeout if zero).
func NewExecutor(timeout time.Duration, logger *zap.Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewExecutorWithClient(&http.Client{Timeout: timeout}, logger)
}

// NewExecutorWithClient creates an executor over an existing client.
func NewExecutorWithClient(client *http.Client, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{client: client, logger: logger.Named("runtime"), now: time.Now}
}

// Prepare resolves spec against env into the request that would be sent:
// variables substituted, only enabled headers, and a body only when the
// method can carry one.
func Prepare(spec project.RequestSpec, env map[string]string) RequestSnapshot {
	enabled := spec.EnabledHeaders()
	headers := make([]KeyValue, 0, len(enabled))
	for _, h := range enabled {
		headers = append(headers, KeyValue{Key: h.Key, Value: SubstituteVariables(h.Value, env)})
	}

	body := ""
	if project.CanMethodHaveBody(spec.Method) {
		body = SubstituteVariables(spec.Body, env)
	}

	return RequestSnapshot{
		URL:     SubstituteVariables(spec.URL, env),
		Method:  strings.ToUpper(string(spec.Method)),
		Body:    body,
		Headers: headers,
	}
}

// Run executes spec and returns the finished state. Failing to reach the
// server is not an error of Run: it is reported as StepError in the state.
func (e *Executor) Run(ctx context.Context, spec project.RequestSpec, env map[string]string) RuntimeState {
	state := Idle()
	state.Step = StepRunning
	state.Request = Prepare(spec, env)
	state.StartedAt = e.now()

	fail := func(err error) RuntimeState {
		state.Step = StepError
		state.ErrorMessage = err.Error()
		state.FinishedAt = e.now()
		e.logger.Debug("request failed", zap.String("url", state.Request.URL), zap.Error(err))
		return state
	}

	var body io.Reader
	if state.Request.Body != "" {
		body = strings.NewReader(state.Request.Body)
	}

	req, err := http.NewRequestWithContext(ctx, state.Request.Method, state.Request.URL, body)
	if err != nil {
		return fail(err)
	}
	for _, h := range state.Request.Headers {
		req.Header.Set(h.Key, h.Value)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(err)
	}

	state.Response = ResponseSnapshot{
		Status:  resp.StatusCode,
		Body:    string(respBody),
		Headers: flattenHeaders(resp.Header),
	}
	state.FinishedAt = e.now()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		state.Step = StepSuccess
	} else {
		state.Step = StepUnsuccess
	}

	e.logger.Debug("request finished",
		zap.String("method", state.Request.Method),
		zap.String("url", state.Request.URL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", state.Duration()))
	return state
}

// flattenHeaders joins repeated values and sorts by key so output is stable.
func flattenHeaders(h http.Header) []KeyValue {
	headers := make([]KeyValue, 0, len(h))
	for key, values := range h {
		headers = append(headers, KeyValue{Key: key, Value: strings.Join(values, ", ")})
	}
	sort.Slice(headers, func(i, j int) bool { return headers[i].Key < headers[j].Key })
	return headers
}
