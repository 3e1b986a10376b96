// internal/domain/source/result.go

package source

import "time"

// Origin says where a result came from
type Origin string

const (
	OriginLive     Origin = "live"
	OriginFallback Origin = "fallback"
)

// Result wraps adapter output with an explicit live/fallback flag
type Result[T any] struct {
	Data      T         `json:"data"`
	IsLive    bool      `json:"isLive"`
	Source    Origin    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Live wraps freshly fetched data
func Live[T any](data T, at time.Time) Result[T] {
	return Result[T]{Data: data, IsLive: true, Source: OriginLive, FetchedAt: at}
}

// Fallback wraps a fixed sample dataset
func Fallback[T any](data T, at time.Time) Result[T] {
	return Result[T]{Data: data, IsLive: false, Source: OriginFallback, FetchedAt: at}
}

// FallbackTime is the fixed timestamp stamped on every fallback dataset
var FallbackTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
