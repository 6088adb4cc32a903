package scan

import (
	"context"
	"strings"
	"sync"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/external/finviz"
	"github.com/wonny/trendscan/internal/external/perplexity"
	"github.com/wonny/trendscan/internal/external/quiver"
	"github.com/wonny/trendscan/internal/external/reddit"
	"github.com/wonny/trendscan/internal/external/rssnews"
	"github.com/wonny/trendscan/internal/sources"
)

// discovery holds everything the discovery phase fetched. A nil or
// empty field means that source produced nothing this run.
type discovery struct {
	screens    sources.ScreenResults
	losers     []finviz.ScreenEntry
	overbought []finviz.ScreenEntry
	sectorPerf []contracts.SectorPerformance
	mentions   []reddit.Mention
	news       []rssnews.TickerNews
	aiPicks    []perplexity.Discovery
	congress   []quiver.Activity
	insiders   []finviz.InsiderTrade
	ratings    []finviz.Rating

	mu     sync.Mutex
	errors map[string]string
}

func (d *discovery) fail(source string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.errors == nil {
		d.errors = make(map[string]string)
	}
	d.errors[source] = err.Error()
}

// screenFromName maps config screen names to screener presets.
func screenFromName(name string) (finviz.Screen, bool) {
	switch strings.ToLower(name) {
	case "gainers":
		return finviz.ScreenTopGainers, true
	case "losers":
		return finviz.ScreenTopLosers, true
	case "unusual_volume":
		return finviz.ScreenUnusualVolume, true
	case "new_highs":
		return finviz.ScreenNewHigh, true
	case "oversold":
		return finviz.ScreenOversold, true
	case "overbought":
		return finviz.ScreenOverbought, true
	default:
		return "", false
	}
}

// discover runs every enabled discovery source concurrently in a
// bounded worker pool. Each call carries its own timeout; a failed
// source is recorded and the run continues without it.
func (p *Pipeline) discover(ctx context.Context) *discovery {
	d := &discovery{}

	type task struct {
		name string
		run  func(context.Context) error
	}
	var tasks []task

	if p.finviz != nil && p.cfg.SourceEnabled(contracts.SourceFinviz) {
		rows := p.cfg.Sources.Finviz.RowsPerScreen
		if rows <= 0 {
			rows = 20
		}
		for _, name := range p.cfg.Sources.Finviz.Screens {
			screen, ok := screenFromName(name)
			if !ok {
				p.logger.WithField("screen", name).Warn("Unknown screen name skipped")
				continue
			}
			name := name
			tasks = append(tasks, task{"finviz_" + name, func(ctx context.Context) error {
				entries, err := p.finviz.FetchScreen(ctx, screen, rows)
				if err != nil {
					return err
				}
				switch screen {
				case finviz.ScreenTopGainers:
					d.screens.Gainers = entries
				case finviz.ScreenUnusualVolume:
					d.screens.UnusualVolume = entries
				case finviz.ScreenNewHigh:
					d.screens.NewHighs = entries
				case finviz.ScreenOversold:
					d.screens.Oversold = entries
				case finviz.ScreenTopLosers:
					d.losers = entries
				case finviz.ScreenOverbought:
					d.overbought = entries
				}
				return nil
			}})
		}
		tasks = append(tasks, task{"finviz_buy_rated", func(ctx context.Context) error {
			entries, err := p.finviz.FetchBuyRated(ctx, rows)
			d.screens.BuyRated = entries
			return err
		}})
		tasks = append(tasks, task{"finviz_sectors", func(ctx context.Context) error {
			perf, err := p.finviz.FetchSectorPerformance(ctx)
			d.sectorPerf = perf
			return err
		}})
	}

	if p.reddit != nil && p.cfg.SourceEnabled(contracts.SourceReddit) {
		tasks = append(tasks, task{"reddit", func(ctx context.Context) error {
			d.mentions = p.reddit.Scan(ctx, p.cfg.Sources.Reddit.Subreddits, p.cfg.Sources.Reddit.PostsPerSubreddit)
			return nil
		}})
	}

	if p.news != nil && p.cfg.SourceEnabled(contracts.SourceNews) {
		feeds := rssnews.DefaultFeeds
		if len(p.cfg.Sources.News.Feeds) > 0 {
			feeds = make([]rssnews.Feed, 0, len(p.cfg.Sources.News.Feeds))
			for _, url := range p.cfg.Sources.News.Feeds {
				feeds = append(feeds, rssnews.Feed{URL: url, Name: url})
			}
		}
		tasks = append(tasks, task{"news", func(ctx context.Context) error {
			d.news = p.news.Scan(ctx, feeds)
			return nil
		}})
	}

	if p.perplexity != nil && p.cfg.SourceEnabled(contracts.SourcePerplexity) {
		tasks = append(tasks, task{"perplexity", func(ctx context.Context) error {
			d.aiPicks = p.perplexity.Scan(ctx, nil)
			return nil
		}})
	}

	if p.quiver != nil && p.cfg.SourceEnabled(contracts.SourceCongress) {
		tasks = append(tasks, task{"congress", func(ctx context.Context) error {
			activities, err := p.quiver.ScanCongress(ctx)
			d.congress = activities
			return err
		}})
	}

	if p.finviz != nil && p.cfg.SourceEnabled(contracts.SourceInsider) {
		tasks = append(tasks, task{"insider", func(ctx context.Context) error {
			trades, err := p.finviz.FetchInsiderTrades(ctx, false)
			d.insiders = trades
			return err
		}})
	}

	if p.finviz != nil && p.cfg.SourceEnabled(contracts.SourceAnalyst) {
		tasks = append(tasks, task{"analyst", func(ctx context.Context) error {
			ratings, err := p.finviz.FetchRatingHeadlines(ctx)
			d.ratings = ratings
			return err
		}})
	}

	sem := make(chan struct{}, p.concurrency())
	var wg sync.WaitGroup
	for _, t := range tasks {
		t := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			callCtx, cancel := p.sourceCtx(ctx)
			defer cancel()

			if err := t.run(callCtx); err != nil {
				p.logger.WithError(err).WithField("source", t.name).Warn("Discovery source failed")
				d.fail(t.name, err)
			}
		}()
	}
	wg.Wait()

	return d
}
