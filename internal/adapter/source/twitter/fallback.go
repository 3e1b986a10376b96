// internal/adapter/source/twitter/fallback.go

package twitter

import (
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
)

// FallbackTweets returns the sample tweets served when search is unavailable
func FallbackTweets() []party.Post {
	return []party.Post{
		{
			ID:         "sample-ysrcp-1",
			Platform:   sourceName,
			Text:       "Navaratnalu welfare schemes reaching every household in Andhra Pradesh #YSRCP",
			Author:     party.Author{ID: "sample-1", Name: "YSR Congress Party", Handle: "YSRCParty", Verified: true, Followers: 2800000},
			Engagement: party.Engagement{Likes: 4200, Shares: 1300, Comments: 380},
			Media:      []party.Media{},
			Timestamp:  source.FallbackTime,
			URL:        "https://twitter.com/YSRCParty",
			Party:      party.YSRCP,
			Lang:       "en",
		},
		{
			ID:         "sample-tdp-1",
			Platform:   sourceName,
			Text:       "Chandrababu Naidu reviews Amaravati capital works #TDP",
			Author:     party.Author{ID: "sample-2", Name: "Telugu Desam Party", Handle: "JaiTDP", Verified: true, Followers: 2100000},
			Engagement: party.Engagement{Likes: 3600, Shares: 1100, Comments: 290},
			Media:      []party.Media{},
			Timestamp:  source.FallbackTime,
			URL:        "https://twitter.com/JaiTDP",
			Party:      party.TDP,
			Lang:       "en",
		},
	}
}

// FallbackTopics returns the hashtag list served when no tweets could be analyzed
func FallbackTopics() []source.Topic {
	return []source.Topic{
		{Tag: "#YSRCPForPeople", Count: 45200, Sentiment: "positive", Party: party.YSRCP, Trending: true},
		{Tag: "#JaganWelfareSchemes", Count: 38400, Sentiment: "positive", Party: party.YSRCP, Trending: true},
		{Tag: "#APPolitics", Count: 32100, Sentiment: "neutral", Party: party.General, Trending: true},
		{Tag: "#TDPFails", Count: 28900, Sentiment: "negative", Party: party.TDP, Trending: true},
	}
}

// FallbackStats returns the published account figures for both parties
func FallbackStats() source.PlatformStats {
	return source.PlatformStats{
		YSRCP: source.PlatformParty{
			Followers: 2800000,
			Accounts:  []source.Account{{Handle: "YSRCParty", Name: "YSR Congress Party", Verified: true, Followers: 2800000, Type: "party"}},
		},
		TDP: source.PlatformParty{
			Followers: 2100000,
			Accounts:  []source.Account{{Handle: "JaiTDP", Name: "Telugu Desam Party", Verified: true, Followers: 2100000, Type: "party"}},
		},
	}
}

// FallbackInfluencers returns an empty report
func FallbackInfluencers() source.InfluencerReport {
	return source.InfluencerReport{Influencers: []source.Influencer{}}
}

func fallbackTrending(only party.Party) source.TrendingPosts {
	tweets := FallbackTweets()
	out := source.TrendingPosts{
		YSRCP:    source.PartyPosts{Posts: []party.Post{}},
		TDP:      source.PartyPosts{Posts: []party.Post{}},
		Combined: []party.Post{},
	}
	for _, t := range tweets {
		if only != "" && t.Party != only {
			continue
		}
		bucket := &out.YSRCP
		if t.Party == party.TDP {
			bucket = &out.TDP
		}
		bucket.Posts = append(bucket.Posts, t)
		bucket.TotalEngagement += t.Engagement.Likes + t.Engagement.Shares
		out.Combined = append(out.Combined, t)
	}
	return out
}
