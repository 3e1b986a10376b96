// internal/adapter/source/instagram/fallback.go

package instagram

import "partypulse/internal/domain/source"

// FallbackStats returns the published account figures for both parties
func FallbackStats() source.PlatformStats {
	return source.PlatformStats{
		YSRCP: source.PlatformParty{
			Followers: 1500000,
			Accounts:  []source.Account{{Handle: "ysrcongress", Name: "YSR Congress Party", Verified: true, Followers: 1500000, Type: "party"}},
		},
		TDP: source.PlatformParty{
			Followers: 980000,
			Accounts:  []source.Account{{Handle: "jai_tdp", Name: "Telugu Desam Party", Verified: true, Followers: 980000, Type: "party"}},
		},
	}
}
