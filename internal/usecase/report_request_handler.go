package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	"github.com/fslick/fundamentals-yf/pkg/logger"
)

// ErrInvalidRequest marks a request message that can never succeed.
var ErrInvalidRequest = errors.New("invalid report request")

// ReportRequest is the payload on the request topic.
type ReportRequest struct {
	Symbol string `json:"symbol"`
}

// ReportRequestHandler builds a report for every request message and
// publishes the result.
type ReportRequestHandler struct {
	topic     string
	builder   Builder
	publisher domrepo.ReportPublisher
	log       *logger.Logger
}

func NewReportRequestHandler(topic string, builder Builder, publisher domrepo.ReportPublisher, log *logger.Logger) *ReportRequestHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportRequestHandler{topic: topic, builder: builder, publisher: publisher, log: log}
}

func (h *ReportRequestHandler) Topic() string { return h.topic }

// Handle accepts {"symbol":"AAPL"} or a bare symbol string.
func (h *ReportRequestHandler) Handle(ctx context.Context, payload []byte) error {
	req, err := parseReportRequest(payload)
	if err != nil {
		return err
	}

	report, err := h.builder.Build(ctx, req.Symbol)
	if err != nil {
		return fmt.Errorf("build %s: %w", req.Symbol, err)
	}
	if err := h.publisher.Publish(ctx, report); err != nil {
		return err
	}
	h.log.Debug("report request served", logger.Symbol(req.Symbol))
	return nil
}

func parseReportRequest(payload []byte) (ReportRequest, error) {
	var req ReportRequest
	trimmed := strings.TrimSpace(string(payload))
	switch {
	case trimmed == "":
		return req, fmt.Errorf("%w: empty payload", ErrInvalidRequest)
	case strings.HasPrefix(trimmed, "{"):
		if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
			return req, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	default:
		req.Symbol = trimmed
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		return req, fmt.Errorf("%w: symbol required", ErrInvalidRequest)
	}
	return req, nil
}
