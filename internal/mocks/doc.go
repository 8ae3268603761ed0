// Package mocks provides centralized mock implementations for testing.
//
// The mocks are built on testify's mock.Mock, so expectations are declared
// with On(...).Return(...) and checked with AssertExpectations.
//
// Usage:
//
//	import "github.com/phrazzld/courier/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    gen := &mocks.MockGenerator{}
//	    gen.On("GenerateUsernames", mock.Anything, "space", mock.Anything, 3).
//	        Return([]string{"astro_kid"}, nil)
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package, create a new file named after the
// interface being mocked.
package mocks
