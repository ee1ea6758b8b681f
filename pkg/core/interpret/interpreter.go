package interpret

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"finsight/pkg/core/flags"
	"finsight/pkg/core/health"
	"finsight/pkg/core/narrate"
	"finsight/pkg/core/ratios"
	"finsight/pkg/core/trends"
	"finsight/pkg/models"
)

// Options tunes the interpreter without reaching into its collaborators.
type Options struct {
	DefaultTaxRate         float64
	MinAnnualPeriods       int
	PreferredAnnualPeriods int
	MaxRecommendations     int
}

// Interpreter runs the full pipeline: validate, fan out the four analyzers,
// score, narrate, assemble. Analyzers are pure, so the fan-out needs no
// locking beyond the join.
type Interpreter struct {
	validator *StatementValidator
	ratios    *ratios.Analyzer
	trends    *trends.Analyzer
	red       *flags.RedAnalyzer
	green     *flags.GreenAnalyzer
	scorer    *health.Scorer
	translate *narrate.Translator
	insights  *narrate.InsightGenerator
	log       zerolog.Logger
}

func NewInterpreter(opts Options, log zerolog.Logger) *Interpreter {
	if opts.DefaultTaxRate <= 0 || opts.DefaultTaxRate >= 1 {
		opts.DefaultTaxRate = ratios.DefaultTaxRate
	}
	return &Interpreter{
		validator: NewStatementValidator(opts.MinAnnualPeriods, opts.PreferredAnnualPeriods),
		ratios:    ratios.NewAnalyzer(opts.DefaultTaxRate),
		trends:    trends.NewAnalyzer(),
		red:       flags.NewRedAnalyzer(),
		green:     flags.NewGreenAnalyzer(),
		scorer:    health.NewScorer(),
		translate: narrate.NewTranslator(),
		insights:  narrate.NewInsightGenerator(opts.MaxRecommendations),
		log:       log,
	}
}

// Interpret produces a full report for one company. The context is checked
// at stage boundaries; a cancelled context aborts before the next stage.
func (i *Interpreter) Interpret(ctx context.Context, s *models.FinancialStatements) (*Report, error) {
	start := time.Now()

	dq, err := i.validator.Validate(s)
	if err != nil {
		i.log.Warn().Err(err).Str("symbol", symbolOf(s)).Msg("statements rejected")
		return nil, err
	}
	log := i.log.With().Str("symbol", s.Symbol).Logger()
	log.Info().
		Int("annual_periods", dq.AnnualIncomePeriods).
		Int("warnings", len(dq.Warnings)).
		Msg("statements validated")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		ratioList  []ratios.FinancialRatio
		trendList  []trends.TrendAnalysis
		redFlags   []flags.Flag
		greenFlags []flags.Flag
	)
	wg.Add(4)
	go func() { defer wg.Done(); ratioList = i.ratios.Analyze(s) }()
	go func() { defer wg.Done(); trendList = i.trends.Analyze(s) }()
	go func() { defer wg.Done(); redFlags = i.red.Analyze(s) }()
	go func() { defer wg.Done(); greenFlags = i.green.Analyze(s) }()
	wg.Wait()

	log.Debug().
		Int("ratios", len(ratioList)).
		Int("trends", len(trendList)).
		Int("red_flags", len(redFlags)).
		Int("green_flags", len(greenFlags)).
		Msg("analyzers complete")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := health.Input{
		Ratios:     ratioList,
		Trends:     trendList,
		RedFlags:   redFlags,
		GreenFlags: greenFlags,
	}
	hs := i.scorer.Score(in)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:              uuid.NewString(),
		Symbol:          s.Symbol,
		GeneratedAt:     time.Now().UTC(),
		DataQuality:     dq,
		Health:          hs,
		RedFlags:        redFlags,
		GreenFlags:      greenFlags,
		Ratios:          ratioList,
		Trends:          trendList,
		Summary:         i.translate.Translate(hs, in),
		Recommendations: i.insights.Generate(hs, in),
	}

	log.Info().
		Int("overall", hs.Overall).
		Str("grade", hs.Grade).
		Dur("elapsed", time.Since(start)).
		Msg("interpretation complete")
	return report, nil
}

func symbolOf(s *models.FinancialStatements) string {
	if s == nil {
		return ""
	}
	return s.Symbol
}
