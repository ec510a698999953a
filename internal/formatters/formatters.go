package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"atscore/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "MatchResult", &MatchTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchResult", &MatchMarkdownFormatter{})
	registry.RegisterFormatter("text", "ATSReport", &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", "ATSReport", &ReportMarkdownFormatter{})
	registry.RegisterFormatter("text", "TailorResumeOutput", &TailorTextFormatter{})
	registry.RegisterFormatter("markdown", "TailorResumeOutput", &TailorMarkdownFormatter{})
	registry.RegisterFormatter("text", "CoverLetterOutput", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "CoverLetterOutput", &CoverLetterMarkdownFormatter{})
	registry.RegisterFormatter("text", "AnswerQuestionOutput", &AnswerTextFormatter{})
	registry.RegisterFormatter("markdown", "AnswerQuestionOutput", &AnswerMarkdownFormatter{})
	registry.RegisterFormatter("text", "QuestionList", &QuestionListTextFormatter{})
	registry.RegisterFormatter("markdown", "QuestionList", &QuestionListMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.MatchResult:
		return "MatchResult"
	case types.ATSReport:
		return "ATSReport"
	case types.TailorResumeOutput:
		return "TailorResumeOutput"
	case types.CoverLetterOutput:
		return "CoverLetterOutput"
	case types.AnswerQuestionOutput:
		return "AnswerQuestionOutput"
	case []string:
		return "QuestionList"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func sortedMatchKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeList(output *strings.Builder, items []string) {
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
}

// MatchTextFormatter handles text formatting for match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS MATCH ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("ATS Optimization Score: %.1f/100\n", result.ATSOptimizationScore))
	output.WriteString(fmt.Sprintf("Keyword Match: %.1f%%\n", result.MatchPercentage))
	output.WriteString(fmt.Sprintf("Action Verb Alignment: %.1f%%\n", result.ActionVerbScore))
	output.WriteString(fmt.Sprintf("Quantification Strength: %.1f%%\n\n", result.QuantificationScore))

	if len(result.TechnicalMatches) > 0 {
		output.WriteString("Matched Technical Keywords:\n")
		for _, term := range sortedMatchKeys(result.TechnicalMatches) {
			match := result.TechnicalMatches[term]
			output.WriteString(fmt.Sprintf("- %s (importance %d, mentions %d)\n",
				term, match.Importance, match.Mentions))
		}
		output.WriteString("\n")
	}

	if len(result.MissingHighPriority) > 0 {
		output.WriteString("Missing High-Priority Keywords:\n")
		writeList(&output, result.MissingHighPriority)
		output.WriteString("\n")
	}

	if len(result.MissingMediumPriority) > 0 {
		output.WriteString("Missing Medium-Priority Keywords:\n")
		writeList(&output, result.MissingMediumPriority)
		output.WriteString("\n")
	}

	if len(result.IrrelevantContent) > 0 {
		output.WriteString("Content to Consider Removing:\n")
		writeList(&output, result.IrrelevantContent)
		output.WriteString("\n")
	}

	if len(result.ATSOptimizationTips) > 0 {
		output.WriteString("Optimization Tips:\n")
		for i, tip := range result.ATSOptimizationTips {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, tip))
		}
	}

	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "MatchResult"
}

// MatchMarkdownFormatter handles markdown formatting for match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MatchResult)
	if !ok {
		return "", fmt.Errorf("expected MatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Match Analysis\n\n")
	output.WriteString(fmt.Sprintf("**ATS Optimization Score:** %.1f/100\n\n", result.ATSOptimizationScore))
	output.WriteString(fmt.Sprintf("**Keyword Match:** %.1f%%\n\n", result.MatchPercentage))
	output.WriteString(fmt.Sprintf("**Action Verb Alignment:** %.1f%%\n\n", result.ActionVerbScore))
	output.WriteString(fmt.Sprintf("**Quantification Strength:** %.1f%%\n\n", result.QuantificationScore))

	if len(result.TechnicalMatches) > 0 {
		output.WriteString("## Matched Technical Keywords\n\n")
		for _, term := range sortedMatchKeys(result.TechnicalMatches) {
			match := result.TechnicalMatches[term]
			output.WriteString(fmt.Sprintf("- **%s** (importance %d, mentions %d)\n",
				term, match.Importance, match.Mentions))
		}
		output.WriteString("\n")
	}

	if len(result.MissingHighPriority) > 0 {
		output.WriteString("## Missing High-Priority Keywords\n\n")
		writeList(&output, result.MissingHighPriority)
		output.WriteString("\n")
	}

	if len(result.MissingMediumPriority) > 0 {
		output.WriteString("## Missing Medium-Priority Keywords\n\n")
		writeList(&output, result.MissingMediumPriority)
		output.WriteString("\n")
	}

	if len(result.IrrelevantContent) > 0 {
		output.WriteString("## Content to Consider Removing\n\n")
		writeList(&output, result.IrrelevantContent)
		output.WriteString("\n")
	}

	if len(result.ATSOptimizationTips) > 0 {
		output.WriteString("## Optimization Tips\n\n")
		for i, tip := range result.ATSOptimizationTips {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, tip))
		}
	}

	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "MatchResult"
}

// ReportTextFormatter handles text formatting for full ATS reports
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS REPORT ===\n\n")

	output.WriteString("=== JOB ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Total Keywords Identified: %d\n", report.JobAnalysis.TotalKeywordsIdentified))
	output.WriteString(fmt.Sprintf("Critical Technical Skills: %d\n", report.JobAnalysis.CriticalTechnicalSkills))
	output.WriteString(fmt.Sprintf("Action Verbs in Job: %d\n", report.JobAnalysis.ActionVerbsInJob))
	if len(report.JobAnalysis.MetricsExpectations) > 0 {
		output.WriteString("Metrics Expectations:\n")
		writeList(&output, report.JobAnalysis.MetricsExpectations)
	}
	output.WriteString("\n")

	output.WriteString("=== RESUME PERFORMANCE ===\n")
	output.WriteString(fmt.Sprintf("ATS Score: %.1f/100\n", report.ResumePerformance.ATSScore))
	output.WriteString(fmt.Sprintf("Keyword Match: %.1f%%\n", report.ResumePerformance.KeywordMatchPercentage))
	output.WriteString(fmt.Sprintf("Technical Keywords Matched: %d\n", report.ResumePerformance.TechnicalKeywordsMatched))
	output.WriteString(fmt.Sprintf("Missing Critical Keywords: %d\n", report.ResumePerformance.MissingCriticalKeywords))
	output.WriteString(fmt.Sprintf("Action Verb Alignment: %.1f%%\n", report.ResumePerformance.ActionVerbAlignment))
	output.WriteString(fmt.Sprintf("Quantification Strength: %.1f%%\n\n", report.ResumePerformance.QuantificationStrength))

	output.WriteString("=== IMPROVEMENT OPPORTUNITIES ===\n")
	output.WriteString(fmt.Sprintf("Keyword Density: %s\n", report.ImprovementOpportunities.KeywordDensityStatus))
	if len(report.ImprovementOpportunities.HighPriorityAdditions) > 0 {
		output.WriteString("High-Priority Additions:\n")
		writeList(&output, report.ImprovementOpportunities.HighPriorityAdditions)
	}
	if len(report.ImprovementOpportunities.ContentToConsiderRemoval) > 0 {
		output.WriteString("Content to Consider Removing:\n")
		writeList(&output, report.ImprovementOpportunities.ContentToConsiderRemoval)
	}
	if len(report.ImprovementOpportunities.OptimizationTips) > 0 {
		output.WriteString("Optimization Tips:\n")
		for i, tip := range report.ImprovementOpportunities.OptimizationTips {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, tip))
		}
	}
	output.WriteString("\n")

	output.WriteString("=== COMPETITIVE ADVANTAGES ===\n")
	output.WriteString(fmt.Sprintf("Leadership Indicators: %d\n", report.CompetitiveAdvantages.LeadershipIndicators))
	output.WriteString(fmt.Sprintf("Scale Experience Highlighted: %t\n", report.CompetitiveAdvantages.ScaleExperienceHighlighted))
	if len(report.CompetitiveAdvantages.UniqueTechnicalCombinations) > 0 {
		output.WriteString("Technical Strengths:\n")
		writeList(&output, report.CompetitiveAdvantages.UniqueTechnicalCombinations)
	}

	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return "ATSReport"
}

// ReportMarkdownFormatter handles markdown formatting for full ATS reports
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ATSReport)
	if !ok {
		return "", fmt.Errorf("expected ATSReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Report\n\n")

	output.WriteString("## Job Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Total Keywords Identified:** %d\n\n", report.JobAnalysis.TotalKeywordsIdentified))
	output.WriteString(fmt.Sprintf("**Critical Technical Skills:** %d\n\n", report.JobAnalysis.CriticalTechnicalSkills))
	output.WriteString(fmt.Sprintf("**Action Verbs in Job:** %d\n\n", report.JobAnalysis.ActionVerbsInJob))
	if len(report.JobAnalysis.MetricsExpectations) > 0 {
		output.WriteString("### Metrics Expectations\n\n")
		writeList(&output, report.JobAnalysis.MetricsExpectations)
		output.WriteString("\n")
	}

	output.WriteString("## Resume Performance\n\n")
	output.WriteString(fmt.Sprintf("**ATS Score:** %.1f/100\n\n", report.ResumePerformance.ATSScore))
	output.WriteString(fmt.Sprintf("**Keyword Match:** %.1f%%\n\n", report.ResumePerformance.KeywordMatchPercentage))
	output.WriteString(fmt.Sprintf("**Technical Keywords Matched:** %d\n\n", report.ResumePerformance.TechnicalKeywordsMatched))
	output.WriteString(fmt.Sprintf("**Missing Critical Keywords:** %d\n\n", report.ResumePerformance.MissingCriticalKeywords))
	output.WriteString(fmt.Sprintf("**Action Verb Alignment:** %.1f%%\n\n", report.ResumePerformance.ActionVerbAlignment))
	output.WriteString(fmt.Sprintf("**Quantification Strength:** %.1f%%\n\n", report.ResumePerformance.QuantificationStrength))

	output.WriteString("## Improvement Opportunities\n\n")
	output.WriteString(fmt.Sprintf("**Keyword Density:** %s\n\n", report.ImprovementOpportunities.KeywordDensityStatus))
	if len(report.ImprovementOpportunities.HighPriorityAdditions) > 0 {
		output.WriteString("### High-Priority Additions\n\n")
		writeList(&output, report.ImprovementOpportunities.HighPriorityAdditions)
		output.WriteString("\n")
	}
	if len(report.ImprovementOpportunities.ContentToConsiderRemoval) > 0 {
		output.WriteString("### Content to Consider Removing\n\n")
		writeList(&output, report.ImprovementOpportunities.ContentToConsiderRemoval)
		output.WriteString("\n")
	}
	if len(report.ImprovementOpportunities.OptimizationTips) > 0 {
		output.WriteString("### Optimization Tips\n\n")
		for i, tip := range report.ImprovementOpportunities.OptimizationTips {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, tip))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Competitive Advantages\n\n")
	output.WriteString(fmt.Sprintf("**Leadership Indicators:** %d\n\n", report.CompetitiveAdvantages.LeadershipIndicators))
	output.WriteString(fmt.Sprintf("**Scale Experience Highlighted:** %t\n\n", report.CompetitiveAdvantages.ScaleExperienceHighlighted))
	if len(report.CompetitiveAdvantages.UniqueTechnicalCombinations) > 0 {
		output.WriteString("### Technical Strengths\n\n")
		writeList(&output, report.CompetitiveAdvantages.UniqueTechnicalCombinations)
	}

	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return "ATSReport"
}

// TailorTextFormatter handles text formatting for tailor results
type TailorTextFormatter struct{}

func (ttf *TailorTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TailorResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected TailorResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== TAILORED RESUME ===\n\n")
	output.WriteString(result.TailoredResume)
	output.WriteString("\n\n")

	if len(result.KeyChanges) > 0 {
		output.WriteString("=== KEY CHANGES ===\n")
		for i, change := range result.KeyChanges {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, change))
		}
	}

	return output.String(), nil
}

func (ttf *TailorTextFormatter) SupportedType() string {
	return "TailorResumeOutput"
}

// TailorMarkdownFormatter handles markdown formatting for tailor results
type TailorMarkdownFormatter struct{}

func (tmf *TailorMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TailorResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected TailorResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Tailored Resume\n\n")
	output.WriteString(result.TailoredResume)
	output.WriteString("\n\n")

	if len(result.KeyChanges) > 0 {
		output.WriteString("## Key Changes\n\n")
		for i, change := range result.KeyChanges {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, change))
		}
	}

	return output.String(), nil
}

func (tmf *TailorMarkdownFormatter) SupportedType() string {
	return "TailorResumeOutput"
}

// CoverLetterTextFormatter handles text formatting for cover letter results
type CoverLetterTextFormatter struct{}

func (clf *CoverLetterTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CoverLetterOutput)
	if !ok {
		return "", fmt.Errorf("expected CoverLetterOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== COVER LETTER ===\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	return output.String(), nil
}

func (clf *CoverLetterTextFormatter) SupportedType() string {
	return "CoverLetterOutput"
}

// CoverLetterMarkdownFormatter handles markdown formatting for cover letter results
type CoverLetterMarkdownFormatter struct{}

func (clmf *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CoverLetterOutput)
	if !ok {
		return "", fmt.Errorf("expected CoverLetterOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	return output.String(), nil
}

func (clmf *CoverLetterMarkdownFormatter) SupportedType() string {
	return "CoverLetterOutput"
}

// AnswerTextFormatter handles text formatting for question answers
type AnswerTextFormatter struct{}

func (atf *AnswerTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnswerQuestionOutput)
	if !ok {
		return "", fmt.Errorf("expected AnswerQuestionOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SUGGESTED ANSWER ===\n\n")
	output.WriteString(result.Answer)
	output.WriteString("\n")

	return output.String(), nil
}

func (atf *AnswerTextFormatter) SupportedType() string {
	return "AnswerQuestionOutput"
}

// AnswerMarkdownFormatter handles markdown formatting for question answers
type AnswerMarkdownFormatter struct{}

func (amf *AnswerMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnswerQuestionOutput)
	if !ok {
		return "", fmt.Errorf("expected AnswerQuestionOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Suggested Answer\n\n")
	output.WriteString(result.Answer)
	output.WriteString("\n")

	return output.String(), nil
}

func (amf *AnswerMarkdownFormatter) SupportedType() string {
	return "AnswerQuestionOutput"
}

// QuestionListTextFormatter handles text formatting for interview question lists
type QuestionListTextFormatter struct{}

func (qlf *QuestionListTextFormatter) Format(data any) (string, error) {
	questions, ok := data.([]string)
	if !ok {
		return "", fmt.Errorf("expected []string, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== LIKELY INTERVIEW QUESTIONS ===\n\n")
	if len(questions) == 0 {
		output.WriteString("No questions suggested.\n")
		return output.String(), nil
	}
	for i, question := range questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, question))
	}

	return output.String(), nil
}

func (qlf *QuestionListTextFormatter) SupportedType() string {
	return "QuestionList"
}

// QuestionListMarkdownFormatter handles markdown formatting for interview question lists
type QuestionListMarkdownFormatter struct{}

func (qlmf *QuestionListMarkdownFormatter) Format(data any) (string, error) {
	questions, ok := data.([]string)
	if !ok {
		return "", fmt.Errorf("expected []string, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Likely Interview Questions\n\n")
	if len(questions) == 0 {
		output.WriteString("No questions suggested.\n")
		return output.String(), nil
	}
	for i, question := range questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, question))
	}

	return output.String(), nil
}

func (qlmf *QuestionListMarkdownFormatter) SupportedType() string {
	return "QuestionList"
}

// GlobalRegistry is the default formatter registry
var GlobalRegistry = NewFormatterRegistry()
