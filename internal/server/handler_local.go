package server

import (
	"net/http"

	"atscore/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// matchRequestFrom parses and validates the request body shared by the match,
// report, and questions endpoints. The returned bool reports whether the
// request is usable; the error response has already been written when not.
func (s *Server) matchRequestFrom(w http.ResponseWriter, r *http.Request, om *observability.ObservabilityManager, operation string) (MatchRequest, bool) {
	ctx := r.Context()
	_, span := om.Tracer("atscore.api").Start(ctx, "api."+operation+".parse")
	defer span.End()

	var req MatchRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return req, false
	}

	if !requireField(w, span, req.Resume, "resume", "resume") {
		return req, false
	}
	if !requireField(w, span, req.JobDescription, "jobDescription", "job description") {
		return req, false
	}
	if !s.checkFieldSize(w, span, req.Resume, "resume") {
		return req, false
	}
	if !s.checkFieldSize(w, span, req.JobDescription, "job description") {
		return req, false
	}

	return req, true
}

// createMatchHandler scores a resume against a job description locally
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscore.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		req, ok := s.matchRequestFrom(w, r, om, "match")
		if !ok {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "match"),
		)

		result, err := s.Engine.Match(req.Resume, req.JobDescription)
		metrics := om.GetMetrics()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "scoring"))
			metrics.RecordBusinessMetric(ctx, "match_scored", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to score resume", err.Error(), http.StatusUnprocessableEntity)
			return
		}

		metrics.RecordBusinessMetric(ctx, "match_scored", true, om,
			attribute.Float64("score.ats", result.ATSOptimizationScore),
			attribute.Float64("score.match", result.MatchPercentage))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.ats_score", result.ATSOptimizationScore),
			attribute.Float64("response.match_percentage", result.MatchPercentage),
		)

		writeJSONResponse(w, span, result)
	}
}

// createReportHandler generates a full ATS report locally
func (s *Server) createReportHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscore.api")
		ctx, span := tracer.Start(ctx, "api.report")
		defer span.End()

		req, ok := s.matchRequestFrom(w, r, om, "report")
		if !ok {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "report"),
		)

		report, err := s.Engine.Report(req.Resume, req.JobDescription)
		metrics := om.GetMetrics()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "scoring"))
			metrics.RecordBusinessMetric(ctx, "report_generated", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to generate report", err.Error(), http.StatusUnprocessableEntity)
			return
		}

		metrics.RecordBusinessMetric(ctx, "report_generated", true, om,
			attribute.Float64("score.ats", report.ResumePerformance.ATSScore))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.ats_score", report.ResumePerformance.ATSScore),
		)

		writeJSONResponse(w, span, report)
	}
}

// createQuestionsHandler suggests likely interview questions locally
func (s *Server) createQuestionsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("atscore.api")
		ctx, span := tracer.Start(ctx, "api.questions")
		defer span.End()

		req, ok := s.matchRequestFrom(w, r, om, "questions")
		if !ok {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "questions"),
		)

		questions, err := s.Engine.SuggestQuestions(req.JobDescription, req.Resume)
		metrics := om.GetMetrics()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "scoring"))
			metrics.RecordBusinessMetric(ctx, "questions_suggested", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to suggest questions", err.Error(), http.StatusUnprocessableEntity)
			return
		}

		metrics.RecordBusinessMetric(ctx, "questions_suggested", true, om,
			attribute.Int("output.count", len(questions)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.count", len(questions)),
		)

		writeJSONResponse(w, span, struct {
			Questions []string `json:"questions"`
		}{Questions: questions})
	}
}
