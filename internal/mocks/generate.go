// Package mocks provides mock implementations for testing labelboard services and handlers.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockBackendAPI(ctrl)
//	api.EXPECT().GetAuthUser(gomock.Any()).Return(user, nil)
package mocks

// Generate mock for BackendAPI interface from internal/ports package.
// This creates MockBackendAPI with methods for all BackendAPI interface methods:
// Login, GetAuthUser, GetLabels, GetCategories, CreateLabel, DeleteLabel, Logout
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_api_mock.go github.com/target/labelboard/internal/ports BackendAPI
