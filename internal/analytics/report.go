package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dermtrack/dermtrack/internal/models"
)

// SummaryProvider generates a plain-text summary from a prompt. The report
// never fails on a provider error; the summary is simply omitted.
type SummaryProvider interface {
	GenerateSummary(ctx context.Context, prompt string) (string, error)
}

// summaryTimeout bounds the external summary call.
const summaryTimeout = 15 * time.Second

// maxSummaryBullets caps how many bullet lines of the raw summary are kept.
const maxSummaryBullets = 5

// trendDirectionThreshold is the +-0.5 slope band around stable.
const trendDirectionThreshold = 0.5

// minReliableScore is the reliability floor for the filtered timeline.
const minReliableScore = 0.5

// ReportInput is everything the generator reads. Analyses are keyed by
// analysis id; History optionally extends seasonality beyond the session.
type ReportInput struct {
	Session  models.TrackingSession
	Analyses map[uuid.UUID]models.SkinAnalysis
	History  []models.DatedAnalysis
}

// Generator composes the statistical components into one report. It holds
// no state of its own; both collaborators are optional.
type Generator struct {
	Summaries   SummaryProvider
	Ingredients IngredientHistory
}

// Generate builds the full report, degrading section by section on missing
// optional signals. Returns nil when fewer than 2 check-ins have resolved
// analyses.
func (g *Generator) Generate(ctx context.Context, in ReportInput) *models.EnhancedTrackingReport {
	resolved := resolveCheckIns(in.Session.CheckIns, in.Analyses)
	if len(resolved) < 2 {
		return nil
	}

	timeline := buildTimeline(resolved, in.Analyses)
	first, last := timeline[0], timeline[len(timeline)-1]

	trend := computeTrend(timeline)
	dimensions := dimensionChanges(first, last)
	usage := productUsageSummary(resolved, in.Analyses)

	overallPts := metricPoints(timeline, func(p models.ScorePoint) float64 { return float64(p.Overall) })
	acnePts := metricPoints(timeline, func(p models.ScorePoint) float64 { return float64(p.Issues.Acne) })
	rednessPts := metricPoints(timeline, func(p models.ScorePoint) float64 { return float64(p.Issues.Redness) })
	agePts := metricPoints(timeline, func(p models.ScorePoint) float64 { return float64(p.SkinAge) })

	var anomalies []models.AnomalyDetectionResult
	anomalies = append(anomalies, DetectAnomalies(MetricOverallScore, overallPts, models.AnomalyMethodMAD, 0)...)
	anomalies = append(anomalies, DetectAnomalies(MetricAcne, acnePts, models.AnomalyMethodMAD, 0)...)
	anomalies = append(anomalies, DetectAnomalies(MetricRedness, rednessPts, models.AnomalyMethodMAD, 0)...)

	var forecasts []models.TrendForecast
	if fc := Forecast(MetricOverallScore, overallPts, 7, 0.95); fc != nil {
		forecasts = append(forecasts, *fc)
	}
	acneFc, acneRisk := PredictAcneTrend(acnePts, 7)
	if acneFc != nil {
		forecasts = append(forecasts, *acneFc)
	}
	if fc := Forecast(MetricSkinAge, agePts, 14, 0.95); fc != nil {
		forecasts = append(forecasts, *fc)
	}

	heatmap := buildHeatmap(timeline)

	history := make([]models.DatedAnalysis, 0, len(resolved)+len(in.History))
	for _, c := range resolved {
		if a, ok := lookupAnalysis(c, in.Analyses); ok {
			history = append(history, models.DatedAnalysis{Analysis: a, Date: c.CaptureDate})
		}
	}
	history = append(history, in.History...)
	seasonal := AnalyzeSeasonalPatterns(history)
	comparison := CompareSeasons(seasonal)

	reliability := resolveReliability(in.Session, in.Analyses)

	reliableTimeline := make([]models.ScorePoint, 0, len(timeline))
	for _, p := range timeline {
		if r, ok := reliability[p.CheckInID]; ok && r.Score >= minReliableScore {
			reliableTimeline = append(reliableTimeline, p)
		}
	}
	policy := models.NewTimelineDisplayPolicy(len(timeline), len(reliableTimeline))

	scores := make(map[uuid.UUID]float64, len(timeline))
	for _, p := range timeline {
		scores[p.CheckInID] = float64(p.Overall)
	}
	lifestyle := AnalyzeLifestyleCorrelations(resolved, scores, reliability)
	products := EvaluateProducts(ctx, resolved, scores, g.Ingredients)

	quality := AssessDataQuality(pointValues(overallPts))
	confidence := quality.Score - minFloat(0.3, float64(len(anomalies))*0.1)
	confidence = clamp(confidence, 0, 1)

	scoreChange := last.Overall - first.Overall
	improvement := float64(scoreChange)

	severe := 0
	for _, a := range anomalies {
		if a.Severity == models.AnomalySeveritySevere {
			severe++
		}
	}

	withLifestyle := 0
	for _, c := range resolved {
		if c.Lifestyle != nil {
			withLifestyle++
		}
	}

	report := &models.EnhancedTrackingReport{
		ID:          uuid.New(),
		SessionID:   in.Session.ID,
		GeneratedAt: time.Now().UTC(),

		Timeline:         timeline,
		TimelineReliable: reliableTimeline,
		DisplayPolicy:    policy,
		Reliability:      reliability,

		Trend:            trend,
		DimensionChanges: dimensions,
		ProductUsage:     usage,
		Heatmap:          heatmap,

		Anomalies:         anomalies,
		Forecasts:         forecasts,
		SeasonalPatterns:  seasonal,
		SeasonComparison:  comparison,
		LifestyleInsights: lifestyle,
		ProductInsights:   products,

		ScoreChange:               scoreChange,
		OverallImprovement:        improvement,
		HasSignificantImprovement: improvement > 10,
		ImprovementLabel:          models.ImprovementLabelFor(improvement),
		CompletionRate:            float64(len(resolved)) / float64(models.TotalCheckInCount),
		TopImprovements:           topImprovements(dimensions),
		NeedsAttention:            needsAttention(dimensions, last),
		LifestyleCoverage:         float64(withLifestyle) / float64(len(resolved)),
		SevereAnomalyCount:        severe,

		DataQuality:    quality,
		DataConfidence: confidence,
	}
	report.Recommendations = buildRecommendations(report, acneRisk, seasonal)
	report.AISummary = g.requestSummary(ctx, report)
	return report
}

// resolveCheckIns returns the session's check-ins with resolvable analyses,
// sorted by day.
func resolveCheckIns(checkIns []models.CheckIn, analyses map[uuid.UUID]models.SkinAnalysis) []models.CheckIn {
	out := make([]models.CheckIn, 0, len(checkIns))
	for _, c := range checkIns {
		if _, ok := lookupAnalysis(c, analyses); ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

func lookupAnalysis(c models.CheckIn, analyses map[uuid.UUID]models.SkinAnalysis) (models.SkinAnalysis, bool) {
	if c.AnalysisID == nil {
		return models.SkinAnalysis{}, false
	}
	a, ok := analyses[*c.AnalysisID]
	return a, ok
}

func buildTimeline(resolved []models.CheckIn, analyses map[uuid.UUID]models.SkinAnalysis) []models.ScorePoint {
	out := make([]models.ScorePoint, 0, len(resolved))
	for _, c := range resolved {
		a, _ := lookupAnalysis(c, analyses)
		out = append(out, models.ScorePoint{
			CheckInID: c.ID,
			Day:       c.Day,
			Date:      c.CaptureDate,
			Overall:   a.OverallScore,
			SkinAge:   a.SkinAge,
			Issues:    a.Issues,
			Regions:   a.Regions,
		})
	}
	return out
}

func computeTrend(timeline []models.ScorePoint) models.TrendData {
	overall := make([]float64, len(timeline))
	age := make([]float64, len(timeline))
	for i, p := range timeline {
		overall[i] = float64(p.Overall)
		age[i] = float64(p.SkinAge)
	}

	overallSlope := Slope(overall)
	ageSlope := Slope(age)

	return models.TrendData{
		OverallSlope:     overallSlope,
		OverallDirection: directionFor(overallSlope, false),
		SkinAgeSlope:     ageSlope,
		SkinAgeDirection: directionFor(ageSlope, true),
		MovingAverage:    MovingAverage(overall, 3),
	}
}

// directionFor bands a slope into improving/stable/worsening. Inverted
// metrics (skin age) improve when the slope is negative.
func directionFor(slope float64, inverted bool) models.TrendDirection {
	if inverted {
		slope = -slope
	}
	switch {
	case slope > trendDirectionThreshold:
		return models.TrendImproving
	case slope < -trendDirectionThreshold:
		return models.TrendWorsening
	default:
		return models.TrendStable
	}
}

// issueDimensions is the fixed dimension order used by deltas and heatmaps.
var issueDimensions = []string{"spots", "acne", "pores", "wrinkles", "redness", "evenness", "texture"}

func issueValue(issues models.IssueScores, dimension string) int {
	switch dimension {
	case "spots":
		return issues.Spots
	case "acne":
		return issues.Acne
	case "pores":
		return issues.Pores
	case "wrinkles":
		return issues.Wrinkles
	case "redness":
		return issues.Redness
	case "evenness":
		return issues.Evenness
	default:
		return issues.Texture
	}
}

// dimensionChanges computes before-after per issue dimension. Positive
// change is improvement since issue scores measure badness.
func dimensionChanges(first, last models.ScorePoint) []models.DimensionChange {
	out := make([]models.DimensionChange, 0, len(issueDimensions))
	for _, dim := range issueDimensions {
		before := issueValue(first.Issues, dim)
		after := issueValue(last.Issues, dim)
		out = append(out, models.DimensionChange{
			Dimension: dim,
			Before:    before,
			After:     after,
			Change:    before - after,
		})
	}
	return out
}

// gapWeight discounts adjacent-check-in deltas by their spacing: too close
// and the product had no time to act, too far and attribution is weak.
func gapWeight(gapDays int) float64 {
	switch {
	case gapDays < 3:
		return 0.5
	case gapDays <= 10:
		return 1.0
	default:
		return 0.7
	}
}

func productUsageSummary(resolved []models.CheckIn, analyses map[uuid.UUID]models.SkinAnalysis) []models.ProductUsage {
	type obs struct {
		day   int
		score float64
	}
	byProduct := map[string][]obs{}
	feelings := map[string][]float64{}

	for _, c := range resolved {
		a, _ := lookupAnalysis(c, analyses)
		for _, pid := range c.Products {
			byProduct[pid] = append(byProduct[pid], obs{day: c.Day, score: float64(a.OverallScore)})
			if c.Feeling != nil {
				feelings[pid] = append(feelings[pid], c.Feeling.Score())
			}
		}
	}

	var out []models.ProductUsage
	for pid, usages := range byProduct {
		if len(usages) < 2 {
			continue
		}
		sort.Slice(usages, func(i, j int) bool { return usages[i].day < usages[j].day })

		weighted := make([]float64, 0, len(usages)-1)
		for i := 1; i < len(usages); i++ {
			delta := usages[i].score - usages[i-1].score
			weighted = append(weighted, delta*gapWeight(usages[i].day-usages[i-1].day))
		}
		effect := Mean(weighted)
		feeling := Mean(feelings[pid])
		combined := effect + feeling

		class := models.ProductNeutral
		switch {
		case combined > 1.5:
			class = models.ProductEffective
		case combined < -1.5:
			class = models.ProductIneffective
		}

		out = append(out, models.ProductUsage{
			ProductID:      pid,
			UsageCount:     len(usages),
			WeightedEffect: effect,
			FeelingScore:   feeling,
			Classification: class,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func metricPoints(timeline []models.ScorePoint, value func(models.ScorePoint) float64) []MetricPoint {
	out := make([]MetricPoint, len(timeline))
	for i, p := range timeline {
		out[i] = MetricPoint{Day: p.Day, Date: p.Date, Value: value(p)}
	}
	return out
}

// buildHeatmap normalizes each 0-10 issue score to 0-1 across the day x
// dimension grid.
func buildHeatmap(timeline []models.ScorePoint) models.HeatmapData {
	days := make([]int, len(timeline))
	cells := make([]models.HeatmapCell, 0, len(timeline)*len(issueDimensions))
	for i, p := range timeline {
		days[i] = p.Day
		for _, dim := range issueDimensions {
			cells = append(cells, models.HeatmapCell{
				Day:       p.Day,
				Dimension: dim,
				Value:     float64(issueValue(p.Issues, dim)) / 10,
			})
		}
	}
	return models.HeatmapData{Cells: cells, Days: days, Dimensions: issueDimensions}
}

// resolveReliability prefers a stored reliability value and computes one
// otherwise, keyed by check-in id.
func resolveReliability(s models.TrackingSession, analyses map[uuid.UUID]models.SkinAnalysis) map[uuid.UUID]models.ReliabilityMetadata {
	modal := ModalCameraPosition(s.CheckIns)
	out := make(map[uuid.UUID]models.ReliabilityMetadata, len(s.CheckIns))
	for _, c := range s.CheckIns {
		if c.Reliability != nil {
			out[c.ID] = *c.Reliability
			continue
		}
		var analysis *models.SkinAnalysis
		if a, ok := lookupAnalysis(c, analyses); ok {
			analysis = &a
		}
		out[c.ID] = ScoreCheckIn(c, analysis, s.StartDate, modal)
	}
	return out
}

func topImprovements(changes []models.DimensionChange) []string {
	sorted := make([]models.DimensionChange, len(changes))
	copy(sorted, changes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Change > sorted[j].Change })

	var out []string
	for _, c := range sorted {
		if c.Change < 2 || len(out) == 3 {
			break
		}
		out = append(out, c.Dimension)
	}
	return out
}

func needsAttention(changes []models.DimensionChange, last models.ScorePoint) []string {
	var out []string
	for _, c := range changes {
		if issueValue(last.Issues, c.Dimension) >= 6 || c.Change < 0 {
			out = append(out, c.Dimension)
		}
	}
	return out
}

func buildRecommendations(r *models.EnhancedTrackingReport, acneRisk models.RiskLevel, seasonal []models.SeasonalPattern) []string {
	var out []string
	if acneRisk == models.RiskLevelHigh {
		out = append(out, "Acne risk is elevated; simplify your routine and consider consulting a dermatologist.")
	}
	for _, fc := range r.Forecasts {
		if fc.RiskAlert != nil && fc.RiskAlert.Severity != models.RiskLevelLow {
			out = append(out, fc.RiskAlert.Action)
		}
	}
	if r.SevereAnomalyCount > 0 {
		out = append(out, "Several readings deviated sharply; review the flagged check-ins before trusting the trend.")
	}
	if r.DataQuality.Score < 0.4 {
		out = append(out, "Data quality is limited; more regular check-ins will sharpen these conclusions.")
	}
	out = append(out, SeasonalRecommendations(seasonal)...)
	return dedupeStrings(out)
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// requestSummary asks the external provider for a text summary. Any failure
// or cancellation yields a nil summary, never a failed report.
func (g *Generator) requestSummary(ctx context.Context, r *models.EnhancedTrackingReport) *string {
	if g.Summaries == nil || ctx.Err() != nil {
		return nil
	}
	sctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	raw, err := g.Summaries.GenerateSummary(sctx, BuildSummaryPrompt(r))
	if err != nil {
		return nil
	}
	bullets := ParseSummaryBullets(raw)
	if len(bullets) == 0 {
		return nil
	}
	s := strings.Join(bullets, "\n")
	return &s
}

// BuildSummaryPrompt renders the computed signals into the prompt for the
// external text generator.
func BuildSummaryPrompt(r *models.EnhancedTrackingReport) string {
	var b strings.Builder
	b.WriteString("Summarize this skin tracking report as up to 5 short bullet points, each starting with \"- \".\n")
	b.WriteString("Be factual and non-causal about correlations.\n\n")

	fmt.Fprintf(&b, "Overall score changed by %d (%s), trend %s.\n",
		r.ScoreChange, r.ImprovementLabel, r.Trend.OverallDirection)
	fmt.Fprintf(&b, "Check-in completion %.0f%%, data quality %s, confidence %.2f.\n",
		r.CompletionRate*100, r.DataQuality.Label, r.DataConfidence)
	if len(r.TopImprovements) > 0 {
		fmt.Fprintf(&b, "Improved dimensions: %s.\n", strings.Join(r.TopImprovements, ", "))
	}
	if len(r.NeedsAttention) > 0 {
		fmt.Fprintf(&b, "Needs attention: %s.\n", strings.Join(r.NeedsAttention, ", "))
	}
	for _, a := range r.Anomalies {
		fmt.Fprintf(&b, "Anomaly: %s day %d (%s).\n", a.Metric, a.Day, a.Severity)
	}
	for _, fc := range r.Forecasts {
		if len(fc.Points) == 0 {
			continue
		}
		fmt.Fprintf(&b, "Forecast %s over %d days: %.1f.\n",
			fc.Metric, fc.HorizonDays, fc.Points[len(fc.Points)-1].Predicted)
		if fc.RiskAlert != nil {
			fmt.Fprintf(&b, "Risk (%s): %s\n", fc.RiskAlert.Severity, fc.RiskAlert.Message)
		}
	}
	for _, li := range r.LifestyleInsights {
		fmt.Fprintf(&b, "Correlation: %s vs score delta r=%.2f (%s).\n",
			li.Factor.DisplayName(), li.Correlation, li.Direction)
	}
	for _, pi := range r.ProductInsights {
		fmt.Fprintf(&b, "Product %s effectiveness %.2f over %d usages.\n",
			pi.ProductID, pi.Effectiveness, pi.UsageCount)
	}
	return b.String()
}

// summaryBulletMarkers are the line prefixes recognized as bullets.
var summaryBulletMarkers = []string{"- ", "• ", "· "}

// ParseSummaryBullets keeps only lines starting with a recognized bullet
// marker, stripped of the marker, capped at 5.
func ParseSummaryBullets(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range summaryBulletMarkers {
			if strings.HasPrefix(line, marker) {
				text := strings.TrimSpace(strings.TrimPrefix(line, marker))
				if text != "" {
					out = append(out, text)
				}
				break
			}
		}
		if len(out) == maxSummaryBullets {
			break
		}
	}
	return out
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
