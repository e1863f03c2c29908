package rictest

import (
	"context"
	"fmt"
	"testing"

	"github.com/ruffel/ric"
)

// Standard categories for grouping tests.
const (
	CategoryCore      = "core"
	CategoryLifecycle = "lifecycle"
	CategoryExec      = "exec"
	CategoryErrors    = "errors"
)

// ContractImage is the image every contract runs against. It is pulled on demand.
const ContractImage ric.ImageRef = "alpine:latest"

// T is the minimal interface required for testify/assert and require.
type T interface {
	Errorf(format string, args ...any)
	FailNow()
	Skipf(format string, args ...any)
	Context() context.Context
	Cleanup(fn func())
	Name() string
}

// TestCase defines a single behavioral contract requirement.
type TestCase struct {
	Category    string
	Name        string
	Description string
	Prereq      func(t T, engine ric.Engine) (ok bool, reason string)
	Run         func(t T, engine ric.Engine)
}

// ID returns the stable, globally unique contract identifier.
func (tc TestCase) ID() string {
	return fmt.Sprintf("%s/%s", tc.Category, tc.Name)
}

// Verify is the standard Go test entry point for engine implementations.
func Verify(t *testing.T, engine ric.Engine) {
	t.Helper()

	for _, tc := range AllContracts() {
		t.Run(tc.ID(), func(t *testing.T) {
			if tc.Prereq != nil {
				ok, reason := tc.Prereq(t, engine)
				if !ok {
					t.Skipf("prereq unmet: %s", reason)
				}
			}

			tc.Run(t, engine)
		})
	}
}
