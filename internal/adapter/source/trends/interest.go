// internal/adapter/source/trends/interest.go

package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/metrics"
)

const (
	timelineLimit = 30
	regionLimit   = 15
	queryLimit    = 6
	breakoutLimit = 5
)

// Search terms compared on the trends service, in YSRCP, TDP order
var compareKeywords = []string{"YSRCP", "TDP"}

type timelineResponse struct {
	Default struct {
		TimelineData []struct {
			Time          string `json:"time"`
			FormattedTime string `json:"formattedTime"`
			Value         []int  `json:"value"`
		} `json:"timelineData"`
	} `json:"default"`
}

type geoResponse struct {
	Default struct {
		GeoMapData []struct {
			GeoName string `json:"geoName"`
			Value   []int  `json:"value"`
		} `json:"geoMapData"`
	} `json:"default"`
}

type rankedKeyword struct {
	Query          string `json:"query"`
	Value          int    `json:"value"`
	FormattedValue string `json:"formattedValue"`
}

type relatedResponse struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []rankedKeyword `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

// InterestOverTime compares search interest in both parties over timeframe
func (c *Client) InterestOverTime(ctx context.Context, timeframe string) source.Result[source.Interest] {
	if timeframe == "" {
		timeframe = defaultTimeframe
	}

	res, err := c.interest.GetOrCompute(ctx, timeframe, func(ctx context.Context) (source.Result[source.Interest], error) {
		widgets, err := c.explore(ctx, compareKeywords, timeframe)
		if err != nil {
			return source.Result[source.Interest]{}, err
		}
		w, ok := findWidget(widgets, func(id string) bool { return id == "TIMESERIES" })
		if !ok {
			return source.Result[source.Interest]{}, fmt.Errorf("no timeseries widget")
		}

		var resp timelineResponse
		if err := c.widgetData(ctx, "multiline", w, &resp); err != nil {
			return source.Result[source.Interest]{}, err
		}

		points := make([]source.InterestPoint, 0, len(resp.Default.TimelineData))
		for _, d := range resp.Default.TimelineData {
			points = append(points, source.InterestPoint{
				Date:  pointDate(d.Time, d.FormattedTime),
				YSRCP: valueAt(d.Value, 0),
				TDP:   valueAt(d.Value, 1),
			})
		}
		if len(points) == 0 {
			return source.Result[source.Interest]{}, errEmpty
		}
		return source.Live(summarizeInterest(points), c.now()), nil
	})
	if err != nil {
		c.degraded("interest", err)
		return source.Fallback(FallbackInterest(), source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

// summarizeInterest derives current values, weekly trend and averages from a timeline
func summarizeInterest(points []source.InterestPoint) source.Interest {
	var ysrcpSum, tdpSum float64
	for _, p := range points {
		ysrcpSum += float64(p.YSRCP)
		tdpSum += float64(p.TDP)
	}
	n := float64(len(points))
	last := points[len(points)-1]

	var trend float64
	if len(points) >= 14 {
		recent := meanYSRCP(points[len(points)-7:])
		previous := meanYSRCP(points[len(points)-14 : len(points)-7])
		if previous > 0 {
			trend = (recent - previous) / previous * 100
		}
	}

	timeline := points
	if len(timeline) > timelineLimit {
		timeline = timeline[len(timeline)-timelineLimit:]
	}

	return source.Interest{
		SearchInterest: source.SearchInterest{
			YSRCP: last.YSRCP,
			TDP:   last.TDP,
			Trend: formatTrend(trend),
		},
		SearchTimeline: timeline,
		Averages: source.Averages{
			YSRCP: round1(ysrcpSum / n),
			TDP:   round1(tdpSum / n),
		},
	}
}

// RegionalInterest splits interest per region into shares summing to 100
func (c *Client) RegionalInterest(ctx context.Context) source.Result[[]source.RegionInterest] {
	res, err := c.regional.GetOrCompute(ctx, "regional", func(ctx context.Context) (source.Result[[]source.RegionInterest], error) {
		widgets, err := c.explore(ctx, compareKeywords, c.cfg.RegionalTimeframe)
		if err != nil {
			return source.Result[[]source.RegionInterest]{}, err
		}
		w, ok := findWidget(widgets, func(id string) bool { return id == "GEO_MAP" })
		if !ok {
			return source.Result[[]source.RegionInterest]{}, fmt.Errorf("no geo widget")
		}
		w.Request = withResolution(w.Request, "REGION")

		var resp geoResponse
		if err := c.widgetData(ctx, "comparedgeo", w, &resp); err != nil {
			return source.Result[[]source.RegionInterest]{}, err
		}

		regions := make([]source.RegionInterest, 0, len(resp.Default.GeoMapData))
		for _, g := range resp.Default.GeoMapData {
			regions = append(regions, normalizeRegion(g.GeoName, valueAt(g.Value, 0), valueAt(g.Value, 1)))
		}
		if len(regions) == 0 {
			return source.Result[[]source.RegionInterest]{}, errEmpty
		}

		sort.SliceStable(regions, func(i, j int) bool {
			return regions[i].YSRCP > regions[j].YSRCP
		})
		if len(regions) > regionLimit {
			regions = regions[:regionLimit]
		}
		return source.Live(regions, c.now()), nil
	})
	if err != nil {
		c.degraded("regional", err)
		return source.Fallback(FallbackRegional(), source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

func normalizeRegion(name string, ysrcp, tdp int) source.RegionInterest {
	total := ysrcp + tdp
	if total == 0 {
		return source.RegionInterest{District: name, YSRCP: 50, TDP: 50}
	}
	share := int(float64(ysrcp) / float64(total) * 100)
	return source.RegionInterest{District: name, YSRCP: share, TDP: 100 - share}
}

// RelatedQueries lists rising and top related queries per party. A party
// without live queries gets its sample list.
func (c *Client) RelatedQueries(ctx context.Context) source.Result[source.RelatedQueries] {
	res, err := c.related.GetOrCompute(ctx, "related", func(ctx context.Context) (source.Result[source.RelatedQueries], error) {
		var out source.RelatedQueries
		live := false

		for i, p := range party.Tracked {
			queries, err := c.partyQueries(ctx, compareKeywords[i])
			if err != nil {
				c.log.Debug("related queries failed", logger.String("party", string(p)), logger.Error(err))
			}
			if len(queries) == 0 {
				queries = FallbackQueries(p)
			} else {
				live = true
			}
			if p == party.TDP {
				out.TDP = queries
			} else {
				out.YSRCP = queries
			}
		}

		if !live {
			return source.Result[source.RelatedQueries]{}, errEmpty
		}
		return source.Live(out, c.now()), nil
	})
	if err != nil {
		c.degraded("related", err)
		return source.Fallback(source.RelatedQueries{
			YSRCP: FallbackQueries(party.YSRCP),
			TDP:   FallbackQueries(party.TDP),
		}, source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

func (c *Client) partyQueries(ctx context.Context, keyword string) ([]source.RelatedQuery, error) {
	widgets, err := c.explore(ctx, []string{keyword}, defaultTimeframe)
	if err != nil {
		return nil, err
	}
	w, ok := findWidget(widgets, func(id string) bool { return strings.HasPrefix(id, "RELATED_QUERIES") })
	if !ok {
		return nil, fmt.Errorf("no related queries widget")
	}

	var resp relatedResponse
	if err := c.widgetData(ctx, "relatedsearches", w, &resp); err != nil {
		return nil, err
	}

	var top, rising []rankedKeyword
	if lists := resp.Default.RankedList; len(lists) > 0 {
		top = lists[0].RankedKeyword
		if len(lists) > 1 {
			rising = lists[1].RankedKeyword
		}
	}
	return mergeQueries(rising, top), nil
}

// mergeQueries takes up to six rising queries, then fills from the top list
func mergeQueries(rising, top []rankedKeyword) []source.RelatedQuery {
	queries := make([]source.RelatedQuery, 0, queryLimit)
	for _, k := range rising {
		if len(queries) == queryLimit {
			break
		}
		queries = append(queries, source.RelatedQuery{
			Query:      k.Query,
			Interest:   min(100, k.Value),
			Change:     fmt.Sprintf("+%d%%", k.Value),
			Growth:     k.Value,
			IsBreakout: k.Value > 200,
		})
	}

	if room := queryLimit - len(queries); room > 0 {
		if len(top) > room {
			top = top[:room]
		}
		for _, k := range top {
			if containsQuery(queries, k.Query) {
				continue
			}
			queries = append(queries, source.RelatedQuery{
				Query:    k.Query,
				Interest: k.Value,
				Change:   "+0%",
			})
		}
	}
	return queries
}

// BreakoutTopics returns related queries with breakout or triple-digit growth
func (c *Client) BreakoutTopics(ctx context.Context) source.Result[[]source.Breakout] {
	related := c.RelatedQueries(ctx)

	type candidate struct {
		breakout source.Breakout
		growth   int
	}
	var candidates []candidate
	for _, p := range party.Tracked {
		queries := related.Data.YSRCP
		if p == party.TDP {
			queries = related.Data.TDP
		}
		for _, q := range queries {
			if q.IsBreakout || q.Growth > 100 {
				candidates = append(candidates, candidate{source.Breakout{Topic: q.Query, Growth: q.Change, Party: p}, q.Growth})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].growth > candidates[j].growth })

	out := make([]source.Breakout, 0, breakoutLimit)
	for _, cand := range candidates {
		if len(out) == breakoutLimit {
			break
		}
		out = append(out, cand.breakout)
	}

	return source.Result[[]source.Breakout]{
		Data:      out,
		IsLive:    related.IsLive,
		Source:    related.Source,
		FetchedAt: related.FetchedAt,
	}
}

func containsQuery(queries []source.RelatedQuery, q string) bool {
	for _, existing := range queries {
		if existing.Query == q {
			return true
		}
	}
	return false
}

func valueAt(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// pointDate renders a timeline sample as "Jan 02", preferring the unix timestamp
func pointDate(unix, formatted string) string {
	if secs, err := strconv.ParseInt(unix, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC().Format("Jan 02")
	}
	return formatted
}

func meanYSRCP(points []source.InterestPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += float64(p.YSRCP)
	}
	return sum / float64(len(points))
}

func formatTrend(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// withResolution sets the geographic resolution on a widget request
func withResolution(request json.RawMessage, resolution string) json.RawMessage {
	var req map[string]interface{}
	if err := json.Unmarshal(request, &req); err != nil {
		return request
	}
	req["resolution"] = resolution
	req["includeLowSearchVolumeGeos"] = false
	out, err := json.Marshal(req)
	if err != nil {
		return request
	}
	return out
}
