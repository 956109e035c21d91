// Package mocks provides mock implementations for testing the routing game engine.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our core ports.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	planner := mocks.NewMockRoutePlanner(ctrl)
//	planner.EXPECT().ShortestPath(gomock.Any(), origin, dest).Return(route, nil)
package mocks

// Generate mock for RoutePlanner interface from internal/core package.
// This creates MockRoutePlanner with methods for all RoutePlanner interface methods:
// ShortestPath
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=route_planner_mock.go github.com/RikVoorhaar/routing-game-sub002/internal/core RoutePlanner

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with methods for all CacheRepository interface methods:
// Set, Get, Delete, Health
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/RikVoorhaar/routing-game-sub002/internal/core CacheRepository
