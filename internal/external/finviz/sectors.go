package finviz

import (
	"context"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/trendscan/internal/contracts"
)

// FetchSectorPerformance scrapes the sector groups page and returns
// one row per sector, sorted by 1-month performance descending.
func (c *Client) FetchSectorPerformance(ctx context.Context) ([]contracts.SectorPerformance, error) {
	doc, err := c.fetchDocument(ctx, "/groups.ashx?g=sector&v=140&o=-perf1w")
	if err != nil {
		return nil, err
	}

	var sectors []contracts.SectorPerformance

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 8 {
			return
		}

		link := cells.Eq(0).Find("a").First()
		href, _ := link.Attr("href")
		if !strings.Contains(href, "g=sector") {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			return
		}

		// Performance columns follow the name cell in 1D/1W/1M order.
		var perfs []float64
		cells.Slice(1, cells.Length()).Each(func(j int, cell *goquery.Selection) {
			if v, ok := parsePercent(cell.Text()); ok {
				perfs = append(perfs, v)
			}
		})
		if len(perfs) < 3 {
			return
		}

		sectors = append(sectors, contracts.SectorPerformance{
			Sector: name,
			Perf1D: perfs[0],
			Perf1W: perfs[1],
			Perf1M: perfs[2],
		})
	})

	sort.Slice(sectors, func(i, j int) bool {
		if sectors[i].Perf1M != sectors[j].Perf1M {
			return sectors[i].Perf1M > sectors[j].Perf1M
		}
		return sectors[i].Sector < sectors[j].Sector
	})

	c.logger.WithField("sectors", len(sectors)).Debug("Finviz sector performance fetched")
	return sectors, nil
}
