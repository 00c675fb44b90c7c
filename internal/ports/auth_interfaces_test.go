package ports_test

import (
	"testing"

	"github.com/target/labelboard/internal/apiclient"
	"github.com/target/labelboard/internal/mocks"
	mockauth "github.com/target/labelboard/internal/mocks/auth"
	"github.com/target/labelboard/internal/ports"
)

// This test only verifies that implementations conform to the ports at compile time.
func TestImplementationsConformToPorts(t *testing.T) {
	t.Helper()

	var _ ports.BackendAPI = (*apiclient.Client)(nil)
	var _ ports.BackendAPI = (*mocks.MockBackendAPI)(nil)
	var _ ports.BackendAPI = (*mockauth.FakeBackend)(nil)
	var _ ports.TokenStore = (*mockauth.MemoryTokenStore)(nil)
	var _ ports.SessionCache = (*mockauth.MemorySessionCache)(nil)
}
