package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Client talks to a remote task service over HTTP. It exposes the same
// Create signature as Service so callers can swap between the in-process
// store and a deployed instance. Calls go through a circuit breaker so a
// down task service fails fast instead of piling up requests.
type Client struct {
	logger     *zap.Logger
	tracer     trace.Tracer
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(logger *zap.Logger, baseURL string) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "task-service",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		logger:     logger,
		tracer:     otel.Tracer("task/client"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    breaker,
	}
}

type createTaskPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Priority    string   `json:"priority"`
	AssignedTo  []string `json:"assignedTo"`
	CreatedBy   string   `json:"createdBy"`
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (Task, error) {
	traceCtx, span := c.tracer.Start(ctx, "Create")
	defer span.End()

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	payload := createTaskPayload{
		Title:       req.Title,
		Description: req.Description,
		Priority:    string(priority),
		AssignedTo:  make([]string, 0, len(req.AssignedTo)),
		CreatedBy:   req.CreatedBy.String(),
	}
	if req.DueDate != nil {
		payload.DueDate = req.DueDate.Format(time.RFC3339)
	}
	for _, id := range req.AssignedTo {
		payload.AssignedTo = append(payload.AssignedTo, id.String())
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("marshal create task payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/groups/%s/tasks", c.baseURL, req.GroupID)
	result, err := c.breaker.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(traceCtx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("task service returned %d: %s", resp.StatusCode, detail)
		}

		var created Response
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return nil, fmt.Errorf("decode task service response: %w", err)
		}
		return created, nil
	})
	if err != nil {
		span.RecordError(err)
		c.logger.Error("Failed to create task on remote service",
			zap.Error(err),
			zap.String("group_id", req.GroupID.String()))
		return Task{}, err
	}

	return fromResponse(result.(Response))
}
