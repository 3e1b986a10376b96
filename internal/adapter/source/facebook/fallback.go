// internal/adapter/source/facebook/fallback.go

package facebook

import "partypulse/internal/domain/source"

// FallbackStats returns the published page figures for both parties
func FallbackStats() source.PlatformStats {
	return source.PlatformStats{
		YSRCP: source.PlatformParty{
			Followers: 3200000,
			Accounts:  []source.Account{{Handle: "ysrcpofficial", Name: "YSR Congress Party", Verified: true, Followers: 3200000, Type: "party"}},
		},
		TDP: source.PlatformParty{
			Followers: 2400000,
			Accounts:  []source.Account{{Handle: "TDP.Official", Name: "Telugu Desam Party", Verified: true, Followers: 2400000, Type: "party"}},
		},
	}
}
