package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/kapal-registry/internal/dependencies/mocks"
	"github.com/mcoot/kapal-registry/internal/services/auth"
	"github.com/mcoot/kapal-registry/internal/services/token"
	"github.com/mcoot/kapal-registry/internal/storage/memory"
	"github.com/mcoot/kapal-registry/internal/testutil"
)

// TestSecret signs tokens issued by a TestApp
const TestSecret = "test-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Memory    *memory.Storage
}

// NewTestApp creates an App configured for testing with in-memory storage,
// a mock clock and the cheapest bcrypt cost
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app, err := newWithDependencies(
		store,
		mockClock,
		token.Config{Secret: []byte(TestSecret), TTL: token.DefaultTTL},
		auth.NewBcryptHasher(bcrypt.MinCost),
		testutil.NopLogger(),
	)
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		Memory:    store,
	}
}
