package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"atscore/internal/ai"
	"atscore/internal/observability"
	"atscore/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// requireField validates that a request field is non-empty, writing the error
// response itself when it is not.
func requireField(w http.ResponseWriter, span trace.Span, value, jsonField, label string) bool {
	if strings.TrimSpace(value) != "" {
		return true
	}
	err := fmt.Errorf("missing %s", label)
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", "validation"))
	writeErrorResponse(w, "Missing "+label, jsonField+" field is required", http.StatusBadRequest)
	return false
}

// checkFieldSize enforces the per-field size limit, writing the error response
// itself when the field is too large.
func (s *Server) checkFieldSize(w http.ResponseWriter, span trace.Span, value, label string) bool {
	limit := int(s.MaxRequestSize / 2)
	if limit <= 0 || len(value) <= limit {
		return true
	}
	err := fmt.Errorf("%s too large: %d chars", label, len(value))
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", "validation"))
	writeErrorResponse(w, strings.ToUpper(label[:1])+label[1:]+" too large",
		fmt.Sprintf("%s exceeds recommended size limit of %d characters", label, limit), http.StatusBadRequest)
	return false
}

// aiEndpoint describes one AI-backed HTTP operation. validate returns
// false after writing its own error response; invoke runs the provider
// call; successAttrs annotates the span and the success metric.
type aiEndpoint[Req, Out any] struct {
	operation string
	metric    string
	failTitle string

	validate     func(s *Server, w http.ResponseWriter, span trace.Span, req *Req) bool
	requestAttrs func(req *Req) []attribute.KeyValue
	invoke       func(ctx context.Context, provider ai.AIProvider, req *Req) (Out, *ai.TokenUsage, error)
	successAttrs func(out *Out) []attribute.KeyValue
}

// handler builds the http.HandlerFunc for the endpoint: decode,
// validate, run through the metrics tracker, and encode the result.
func (e aiEndpoint[Req, Out]) handler(s *Server, om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer("atscore.api").Start(r.Context(), "api."+e.operation)
		defer span.End()

		var req Req
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if !e.validate(s, w, span, &req) {
			return
		}

		span.SetAttributes(e.requestAttrs(&req)...)
		span.SetAttributes(attribute.String("operation", e.operation))

		aiService, err := s.newOperationService(e.operation)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result Out
		err = metrics.TrackAIOperationWithTokens(ctx, e.operation, func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := e.invoke(ctx, aiService.Provider, &req)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, e.metric, false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, e.failTitle, err.Error(), http.StatusInternalServerError)
			return
		}

		okAttrs := e.successAttrs(&result)
		metrics.RecordBusinessMetric(ctx, e.metric, true, om, okAttrs...)
		span.SetAttributes(attribute.Bool("success", true))
		span.SetAttributes(okAttrs...)

		writeJSONResponse(w, span, result)
	}
}

func (s *Server) createTailorHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	endpoint := aiEndpoint[TailorRequest, types.TailorResumeOutput]{
		operation: "tailor",
		metric:    "resume_tailored",
		failTitle: "Failed to tailor resume",
		validate: func(s *Server, w http.ResponseWriter, span trace.Span, req *TailorRequest) bool {
			return requireField(w, span, req.BaseResume, "baseResume", "base resume") &&
				requireField(w, span, req.JobDescription, "jobDescription", "job description") &&
				s.checkFieldSize(w, span, req.BaseResume, "base resume") &&
				s.checkFieldSize(w, span, req.JobDescription, "job description")
		},
		requestAttrs: func(req *TailorRequest) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.Int("request.resume_length", len(req.BaseResume)),
				attribute.Int("request.job_length", len(req.JobDescription)),
			}
		},
		invoke: func(ctx context.Context, provider ai.AIProvider, req *TailorRequest) (types.TailorResumeOutput, *ai.TokenUsage, error) {
			return provider.TailorResume(ctx, types.TailorResumeInput{
				BaseResume:     req.BaseResume,
				JobDescription: req.JobDescription,
			})
		},
		successAttrs: func(out *types.TailorResumeOutput) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.Int("output.tailored_length", len(out.TailoredResume)),
				attribute.Int("output.key_changes", len(out.KeyChanges)),
			}
		},
	}
	return endpoint.handler(s, om)
}

func (s *Server) createCoverLetterHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	endpoint := aiEndpoint[CoverLetterRequest, types.CoverLetterOutput]{
		operation: "coverletter",
		metric:    "cover_letter_generated",
		failTitle: "Failed to generate cover letter",
		validate: func(s *Server, w http.ResponseWriter, span trace.Span, req *CoverLetterRequest) bool {
			return requireField(w, span, req.Resume, "resume", "resume") &&
				requireField(w, span, req.JobDescription, "jobDescription", "job description") &&
				s.checkFieldSize(w, span, req.Resume, "resume") &&
				s.checkFieldSize(w, span, req.JobDescription, "job description")
		},
		requestAttrs: func(req *CoverLetterRequest) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.Int("request.resume_length", len(req.Resume)),
				attribute.Int("request.job_length", len(req.JobDescription)),
			}
		},
		invoke: func(ctx context.Context, provider ai.AIProvider, req *CoverLetterRequest) (types.CoverLetterOutput, *ai.TokenUsage, error) {
			return provider.GenerateCoverLetter(ctx, types.CoverLetterInput{
				Resume:         req.Resume,
				JobDescription: req.JobDescription,
				UserName:       req.UserName,
			})
		},
		successAttrs: func(out *types.CoverLetterOutput) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.Int("output.letter_length", len(out.CoverLetter)),
			}
		},
	}
	return endpoint.handler(s, om)
}

func (s *Server) createAnswerHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	endpoint := aiEndpoint[AnswerRequest, types.AnswerQuestionOutput]{
		operation: "answer",
		metric:    "question_answered",
		failTitle: "Failed to answer question",
		validate: func(s *Server, w http.ResponseWriter, span trace.Span, req *AnswerRequest) bool {
			return requireField(w, span, req.Question, "question", "question") &&
				requireField(w, span, req.JobDescription, "jobDescription", "job description") &&
				requireField(w, span, req.Resume, "resume", "resume")
		},
		requestAttrs: func(req *AnswerRequest) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.Int("request.question_length", len(req.Question)),
				attribute.Int("request.resume_length", len(req.Resume)),
				attribute.Int("request.job_length", len(req.JobDescription)),
			}
		},
		invoke: func(ctx context.Context, provider ai.AIProvider, req *AnswerRequest) (types.AnswerQuestionOutput, *ai.TokenUsage, error) {
			return provider.AnswerQuestion(ctx, types.AnswerQuestionInput{
				Question:       req.Question,
				JobDescription: req.JobDescription,
				Resume:         req.Resume,
			})
		},
		successAttrs: func(out *types.AnswerQuestionOutput) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.Int("output.answer_length", len(out.Answer)),
			}
		},
	}
	return endpoint.handler(s, om)
}

// writeJSONResponse encodes the result, recording encode failures on the span.
func writeJSONResponse(w http.ResponseWriter, span trace.Span, result any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createRateLimitMiddleware layers a rate limit hit metric over the
// plain limiter middleware by sniffing the response status.
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	limit := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return limit(func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				om.GetMetrics().RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
