// Package scan orchestrates one batch run: discover trending tickers
// across the feeds, enrich the universe with price history, run the
// targeted per-ticker passes, and score everything through the long
// and short aggregation engines.
package scan

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/etfflows"
	"github.com/wonny/trendscan/internal/external/finviz"
	"github.com/wonny/trendscan/internal/external/perplexity"
	"github.com/wonny/trendscan/internal/external/quiver"
	"github.com/wonny/trendscan/internal/external/reddit"
	"github.com/wonny/trendscan/internal/external/rssnews"
	"github.com/wonny/trendscan/internal/external/yahoo"
	"github.com/wonny/trendscan/internal/momentum"
	"github.com/wonny/trendscan/internal/scanconfig"
	"github.com/wonny/trendscan/internal/scoring"
	"github.com/wonny/trendscan/internal/sources"
	"github.com/wonny/trendscan/internal/themes"
	"github.com/wonny/trendscan/pkg/logger"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultConcurrency = 5
	themeHistoryDays   = 40
)

// Deps are the constructed external clients. A nil client disables
// the sources that depend on it.
type Deps struct {
	Logger     *logger.Logger
	Yahoo      *yahoo.Client
	Finviz     *finviz.Client
	Reddit     *reddit.Client
	News       *rssnews.Client
	Perplexity *perplexity.Client
	Quiver     *quiver.Client
}

// Pipeline runs batch scans. Safe for repeated Runs; each run builds
// fresh state.
type Pipeline struct {
	cfg    *scanconfig.Config
	logger *logger.Logger

	yahoo      *yahoo.Client
	finviz     *finviz.Client
	reddit     *reddit.Client
	news       *rssnews.Client
	perplexity *perplexity.Client
	quiver     *quiver.Client

	momentum *momentum.Engine
	bearish  *momentum.BearishExtractor
	long     *scoring.LongEngine
	short    *scoring.ShortEngine
}

// New wires a pipeline from validated config and constructed clients.
func New(cfg *scanconfig.Config, deps Deps) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     deps.Logger,
		yahoo:      deps.Yahoo,
		finviz:     deps.Finviz,
		reddit:     deps.Reddit,
		news:       deps.News,
		perplexity: deps.Perplexity,
		quiver:     deps.Quiver,
		momentum:   momentum.NewEngine(deps.Logger),
		bearish:    momentum.NewBearishExtractor(deps.Logger),
		long:       scoring.NewLongEngine(deps.Logger, cfg.Weights.LongWeights()),
		short:      scoring.NewShortEngine(deps.Logger, cfg.Weights.Short, cfg.Short.SqueezePenalty, cfg.Short.MinScore),
	}
}

func (p *Pipeline) concurrency() int {
	if p.cfg.Scan.Concurrency > 0 {
		return p.cfg.Scan.Concurrency
	}
	return defaultConcurrency
}

// sourceCtx bounds one external call.
func (p *Pipeline) sourceCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(p.cfg.Scan.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// Run executes one full scan. It never fails on source errors: a run
// with every feed down still returns a (possibly empty) ranking.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	p.logger.WithField("strategy", p.cfg.Meta.StrategyID).Info("Scan started")

	d := p.discover(ctx)

	themeResults, hotTickers := p.scanThemes(ctx)

	universe := p.buildUniverse(d, hotTickers)

	profiles, benchmark := p.enrich(ctx, universe)

	targeted := p.targetedPasses(ctx, universe)

	flows, holdings, sentiment := p.etfFlows(ctx)

	result := &Result{
		StrategyID:         p.cfg.Meta.StrategyID,
		RanAt:              started.UTC(),
		Universe:           universe,
		Themes:             themeResults,
		HotThemeTickers:    hotTickers,
		SectorPerformance:  d.sectorPerf,
		SectorFlows:        flows,
		HotHoldings:        holdings,
		LeveragedSentiment: sentiment,
		SourceErrors:       d.errors,
	}

	p.score(result, d, profiles, targeted, hotTickers, holdings)

	result.Duration = time.Since(started).Round(time.Millisecond).String()
	p.logger.WithFields(map[string]interface{}{
		"universe":  len(universe),
		"rankings":  len(result.Rankings),
		"shorts":    len(result.ShortCandidates),
		"benchmark": benchmark,
		"duration":  result.Duration,
		"degraded":  len(d.errors),
	}).Info("Scan complete")

	return result, nil
}

// scanThemes evaluates thematic ETF momentum and collects hot-theme
// tickers for universe injection.
func (p *Pipeline) scanThemes(ctx context.Context) ([]contracts.Theme, []string) {
	if p.yahoo == nil || len(p.cfg.Themes) == 0 {
		return nil, nil
	}

	etfs := themes.ETFUniverse(p.cfg.Themes)
	series := p.yahoo.FetchDailyBarsBatch(ctx, etfs, themeHistoryDays, p.concurrency())

	evaluated := themes.Evaluate(p.cfg.Themes, series)
	hot := themes.HotTickers(evaluated)

	p.logger.WithFields(map[string]interface{}{
		"themes":      len(evaluated),
		"hot_tickers": len(hot),
	}).Info("Theme scan complete")
	return evaluated, hot
}

// buildUniverse merges the baseline watchlist, every discovered
// ticker, and hot-theme tickers, capped at the configured maximum.
// Watchlist order is preserved; discovered tickers follow sorted so
// the cap cuts deterministically.
func (p *Pipeline) buildUniverse(d *discovery, hotTickers []string) []string {
	seen := make(map[string]bool)
	var universe []string

	add := func(ticker string) {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" || seen[ticker] {
			return
		}
		seen[ticker] = true
		universe = append(universe, ticker)
	}

	for _, t := range p.cfg.Universe.Watchlist {
		add(t)
	}

	var discovered []string
	collect := func(ticker string) {
		discovered = append(discovered, ticker)
	}
	for _, e := range d.screens.Gainers {
		collect(e.Ticker)
	}
	for _, e := range d.screens.UnusualVolume {
		collect(e.Ticker)
	}
	for _, e := range d.screens.NewHighs {
		collect(e.Ticker)
	}
	for _, e := range d.screens.Oversold {
		collect(e.Ticker)
	}
	for _, m := range d.mentions {
		collect(m.Ticker)
	}
	for _, n := range d.news {
		collect(n.Ticker)
	}
	for _, a := range d.aiPicks {
		collect(a.Ticker)
	}
	for _, c := range d.congress {
		collect(c.Ticker)
	}
	for _, t := range d.insiders {
		if t.IsBuy {
			collect(t.Ticker)
		}
	}
	sort.Strings(discovered)
	for _, t := range discovered {
		add(t)
	}
	for _, t := range hotTickers {
		add(t)
	}

	if max := p.cfg.Universe.MaxTickers; max > 0 && len(universe) > max {
		universe = universe[:max]
	}
	return universe
}

// enrich fetches OHLCV history for the universe and computes momentum
// profiles. The benchmark return is resolved once per run; on failure
// relative strength degrades to absolute.
func (p *Pipeline) enrich(ctx context.Context, universe []string) (map[string]*contracts.MomentumProfile, float64) {
	if p.yahoo == nil || len(universe) == 0 {
		return nil, 0
	}

	// History is fetched in fixed-size batches so one request burst
	// never covers the whole universe.
	batch := p.cfg.Scan.BatchSize
	if batch <= 0 {
		batch = len(universe)
	}
	series := make(map[string]*contracts.Series, len(universe))
	for start := 0; start < len(universe); start += batch {
		end := start + batch
		if end > len(universe) {
			end = len(universe)
		}
		for ticker, s := range p.yahoo.FetchDailyBarsBatch(ctx, universe[start:end], p.cfg.Scan.HistoryDays, p.concurrency()) {
			series[ticker] = s
		}
	}

	var benchmark float64
	if symbol := p.cfg.Sources.Benchmark; symbol != "" {
		callCtx, cancel := p.sourceCtx(ctx)
		defer cancel()
		ret, err := p.yahoo.MonthReturn(callCtx, symbol)
		if err != nil {
			p.logger.WithError(err).WithField("benchmark", symbol).Warn("Benchmark return unavailable")
		} else {
			benchmark = ret
		}
	}

	profiles := make(map[string]*contracts.MomentumProfile, len(series))
	for ticker, s := range series {
		profile, err := p.momentum.Compute(s, benchmark)
		if err != nil {
			p.logger.WithError(err).WithField("ticker", ticker).Debug("Momentum profile skipped")
			continue
		}
		profiles[ticker] = profile
	}

	p.logger.WithFields(map[string]interface{}{
		"universe": len(universe),
		"profiles": len(profiles),
	}).Info("Enrichment complete")
	return profiles, benchmark
}

// targeted holds the per-ticker deep passes.
type targeted struct {
	shortInterest []sources.ShortInterest
	options       []*yahoo.OptionsActivity
	fundamentals  []*yahoo.Fundamentals
}

// targetedPasses runs the short-interest, options, and fundamentals
// fetches over the universe with bounded concurrency. Any individual
// miss is silent; these feeds cover a minority of tickers by nature.
func (p *Pipeline) targetedPasses(ctx context.Context, universe []string) *targeted {
	out := &targeted{}
	if p.yahoo == nil || len(universe) == 0 {
		return out
	}

	wantShort := p.cfg.SourceEnabled(contracts.SourceShortInterest)
	wantOptions := p.cfg.SourceEnabled(contracts.SourceOptions)

	var mu sync.Mutex
	sem := make(chan struct{}, p.concurrency())
	var wg sync.WaitGroup

	for _, ticker := range universe {
		ticker := ticker
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			callCtx, cancel := p.sourceCtx(ctx)
			defer cancel()

			var si *sources.ShortInterest
			if wantShort {
				si = p.fetchShortInterest(callCtx, ticker)
			}

			var opts *yahoo.OptionsActivity
			if wantOptions {
				if activity, err := p.yahoo.FetchOptionsActivity(callCtx, ticker); err == nil {
					opts = activity
				}
			}

			// Fundamentals feed only the short engine; always fetched.
			var funds *yahoo.Fundamentals
			if f, err := p.yahoo.FetchFundamentals(callCtx, ticker); err == nil {
				funds = f
			}

			mu.Lock()
			if si != nil {
				out.shortInterest = append(out.shortInterest, *si)
			}
			if opts != nil {
				out.options = append(out.options, opts)
			}
			if funds != nil {
				out.fundamentals = append(out.fundamentals, funds)
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	p.logger.WithFields(map[string]interface{}{
		"short_interest": len(out.shortInterest),
		"options":        len(out.options),
		"fundamentals":   len(out.fundamentals),
	}).Info("Targeted passes complete")
	return out
}

// fetchShortInterest reads Yahoo key statistics, falling back to the
// finviz quote snapshot when Yahoo has nothing.
func (p *Pipeline) fetchShortInterest(ctx context.Context, ticker string) *sources.ShortInterest {
	stats, err := p.yahoo.FetchKeyStats(ctx, ticker)
	if err == nil && stats.ShortFloat > 0 {
		return &sources.ShortInterest{
			Ticker:      ticker,
			ShortFloat:  stats.ShortFloat,
			DaysToCover: stats.ShortRatio,
		}
	}

	if p.finviz == nil {
		return nil
	}
	snapshot, err := p.finviz.FetchQuoteSnapshot(ctx, ticker)
	if err != nil || !snapshot.HasShortFloat {
		return nil
	}
	return &sources.ShortInterest{
		Ticker:      ticker,
		ShortFloat:  snapshot.ShortFloat,
		DaysToCover: snapshot.ShortRatio,
	}
}

// etfFlows reads sector rotation from the configured ETF map and
// retail sentiment from the leveraged pair.
func (p *Pipeline) etfFlows(ctx context.Context) ([]etfflows.SectorFlow, []contracts.HotHolding, string) {
	if p.finviz == nil || len(p.cfg.ETFs.SectorMap) == 0 {
		return nil, nil, ""
	}

	etfs := make([]string, 0, len(p.cfg.ETFs.SectorMap))
	for etf := range p.cfg.ETFs.SectorMap {
		etfs = append(etfs, etf)
	}
	sort.Strings(etfs)

	var mu sync.Mutex
	quotes := make([]etfflows.ETFQuote, 0, len(etfs))
	volumes := make(map[string]float64, 2)

	fetch := func(etf string) *finviz.QuoteSnapshot {
		callCtx, cancel := p.sourceCtx(ctx)
		defer cancel()
		snapshot, err := p.finviz.FetchQuoteSnapshot(callCtx, etf)
		if err != nil {
			p.logger.WithError(err).WithField("etf", etf).Debug("ETF snapshot failed")
			return nil
		}
		return snapshot
	}

	sem := make(chan struct{}, p.concurrency())
	var wg sync.WaitGroup
	for _, etf := range etfs {
		etf := etf
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			snapshot := fetch(etf)
			if snapshot == nil {
				return
			}
			quote := etfflows.ETFQuote{
				ETF:       etf,
				Sector:    p.cfg.ETFs.SectorMap[etf],
				Holdings:  p.cfg.ETFs.Holdings[etf],
				Change1D:  snapshot.Change,
				Change1W:  snapshot.PerfWeek,
				Change1M:  snapshot.PerfMonth,
				Volume:    snapshot.Volume,
				AvgVolume: snapshot.AvgVolume,
			}
			mu.Lock()
			quotes = append(quotes, quote)
			mu.Unlock()
		}()
	}

	pair := p.cfg.ETFs.Leveraged
	for _, etf := range []string{pair.Bull, pair.Bear} {
		if etf == "" {
			continue
		}
		etf := etf
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if snapshot := fetch(etf); snapshot != nil {
				mu.Lock()
				volumes[etf] = snapshot.Volume
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	flows := etfflows.AnalyzeSectorFlows(quotes)
	holdings := etfflows.HotHoldings(flows)
	sentiment := etfflows.LeveragedSentiment(volumes[pair.Bull], volumes[pair.Bear])

	p.logger.WithFields(map[string]interface{}{
		"sectors":   len(flows),
		"holdings":  len(holdings),
		"sentiment": sentiment,
	}).Info("ETF flow scan complete")
	return flows, holdings, sentiment
}

// score normalizes every source's records and runs both aggregation
// engines.
func (p *Pipeline) score(result *Result, d *discovery, profiles map[string]*contracts.MomentumProfile, t *targeted, hotTickers []string, holdings []contracts.HotHolding) {
	snapshot := scoring.Snapshot{}
	add := func(src contracts.Source, records []contracts.SourceSignal) {
		if len(records) == 0 || !p.cfg.SourceEnabled(src) {
			return
		}
		snapshot[src] = scoring.Normalize(records)
	}

	bestRatings := sources.BestRatings(d.ratings)
	insiderActivity := sources.AggregateInsider(d.insiders)

	add(contracts.SourceMomentum, sources.MomentumSignals(profiles))
	add(contracts.SourceFinviz, sources.FinvizSignals(d.screens))
	add(contracts.SourceReddit, sources.RedditSignals(d.mentions))
	add(contracts.SourceNews, sources.NewsSignals(d.news))
	add(contracts.SourceShortInterest, sources.ShortInterestSignals(t.shortInterest))
	add(contracts.SourceOptions, sources.OptionsSignals(t.options))
	add(contracts.SourcePerplexity, sources.PerplexitySignals(d.aiPicks))
	add(contracts.SourceInsider, sources.InsiderSignals(insiderActivity))
	add(contracts.SourceAnalyst, sources.AnalystSignals(bestRatings))
	add(contracts.SourceCongress, sources.CongressSignals(d.congress))
	// google_trends and institutional have no connector and stay absent.

	bear := scoring.BearishSnapshot{}
	addSub := func(sub string, records []contracts.SourceSignal) {
		if len(records) == 0 {
			return
		}
		bear[sub] = scoring.Normalize(records)
	}
	addSub(scoring.SubBearishMomentum, sources.BearishMomentumSignals(p.bearish, profiles))
	addSub(scoring.SubFundamentals, sources.FundamentalsSignals(t.fundamentals))
	addSub(scoring.SubAnalystDowngrades, sources.AnalystDowngradeSignals(bestRatings))
	addSub(scoring.SubBearishOptions, sources.BearishOptionsSignals(t.options))
	addSub(scoring.SubInsiderSelling, sources.InsiderSellingSignals(insiderActivity))
	addSub(scoring.SubFinvizBearish, sources.FinvizBearishSignals(d.losers, d.overbought))
	addSub(scoring.SubCongressSelling, sources.CongressSellingSignals(d.congress))
	addSub(scoring.SubNegativeNews, sources.NegativeNewsSignals(d.news))

	themeSet := make(map[string]bool, len(hotTickers))
	for _, t := range hotTickers {
		themeSet[t] = true
	}

	result.Rankings = p.long.Combine(snapshot, themeSet, etfflows.HotHoldingMap(holdings))
	result.ShortCandidates = p.short.Combine(bear, sources.ShortFloatMap(t.shortInterest))
}
