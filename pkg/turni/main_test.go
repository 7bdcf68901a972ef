package turni

import (
	"testing"

	"go.uber.org/goleak"
)

// Document loading fans out; every run must leave no goroutine behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
