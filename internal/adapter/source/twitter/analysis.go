// internal/adapter/source/twitter/analysis.go

package twitter

import (
	"sort"
	"strings"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
)

var (
	ysrcpTagHints = []string{"ysrcp", "ysjagan", "jagan", "jagananna", "jaganmohan", "ysrcongress"}
	tdpTagHints   = []string{"tdp", "chandrababu", "naidu", "lokesh", "naralokesh", "telugudesam"}
	negativeHints = []string{"fail", "scam", "corrupt", "arrest", "against", "protest", "fraud"}
)

// ExtractTopics counts hashtags across tweets and labels each with a party,
// a sentiment and a trending flag. Topics are ranked by count.
func ExtractTopics(tweets []party.Post, limit int) []source.Topic {
	type tally struct {
		topic    source.Topic
		positive int
		negative int
	}

	index := make(map[string]*tally)
	var order []string

	for _, tw := range tweets {
		likes := tw.Engagement.Likes
		engagement := likes + tw.Engagement.Shares
		negative := containsAny(strings.ToLower(tw.Text), negativeHints)

		for _, word := range strings.Fields(tw.Text) {
			if !strings.HasPrefix(word, "#") || len(word) < 2 {
				continue
			}
			tag := strings.TrimRight(word, ".,!?:;")
			key := strings.ToLower(tag)

			t, ok := index[key]
			if !ok {
				t = &tally{topic: source.Topic{Tag: tag, Party: tagParty(key)}}
				index[key] = t
				order = append(order, key)
			}
			t.topic.Count++
			t.topic.Engagement += engagement
			if likes > 100 {
				t.positive++
			}
			if negative {
				t.negative++
			}
		}
	}

	topics := make([]source.Topic, 0, len(order))
	for _, key := range order {
		t := index[key]
		threshold := float64(t.topic.Count) * 0.3
		switch {
		case float64(t.negative) > threshold:
			t.topic.Sentiment = "negative"
		case float64(t.positive) > threshold:
			t.topic.Sentiment = "positive"
		default:
			t.topic.Sentiment = "neutral"
		}
		t.topic.Trending = t.topic.Count >= 3 || t.topic.Engagement > 500
		topics = append(topics, t.topic)
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

func tagParty(tagLower string) party.Party {
	bare := strings.ReplaceAll(tagLower, "#", "")
	if containsAny(bare, ysrcpTagHints) {
		return party.YSRCP
	}
	if containsAny(bare, tdpTagHints) {
		return party.TDP
	}
	return party.General
}

// RankInfluencers aggregates tweet authors and keeps the top accounts by followers.
// Leaning counts cover every author; reach and mention totals cover the top list.
func RankInfluencers(tweets []party.Post, top int) source.InfluencerReport {
	index := make(map[string]*source.Influencer)
	var order []string

	for _, tw := range tweets {
		u := tw.Author
		if u.ID == "" {
			continue
		}
		inf, ok := index[u.ID]
		if !ok {
			inf = &source.Influencer{
				ID:        u.ID,
				Name:      u.Name,
				Handle:    "@" + u.Handle,
				Avatar:    u.Avatar,
				Verified:  u.Verified,
				Followers: u.Followers,
				Platform:  sourceName,
			}
			index[u.ID] = inf
			order = append(order, u.ID)
		}
		inf.RecentMentions++
		inf.Engagement += tw.Engagement.Likes + tw.Engagement.Shares
		switch tw.Party {
		case party.YSRCP:
			inf.YSRCPMentions++
		case party.TDP:
			inf.TDPMentions++
		}
	}

	var report source.InfluencerReport
	all := make([]source.Influencer, 0, len(order))
	for _, id := range order {
		inf := index[id]
		switch {
		case float64(inf.YSRCPMentions) > float64(inf.TDPMentions)*1.5:
			inf.Sentiment = "pro-ysrcp"
			report.Stats.ProYSRCP++
		case float64(inf.TDPMentions) > float64(inf.YSRCPMentions)*1.5:
			inf.Sentiment = "pro-tdp"
			report.Stats.ProTDP++
		default:
			inf.Sentiment = "neutral"
			report.Stats.Neutral++
		}
		all = append(all, *inf)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Followers > all[j].Followers
	})
	if len(all) > top {
		all = all[:top]
	}

	for _, inf := range all {
		report.Stats.TotalReach += inf.Followers
		report.Stats.TotalMentions += inf.RecentMentions
	}
	report.Influencers = all
	return report
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
