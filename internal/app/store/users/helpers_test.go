package userstore_test

import (
	"context"
	"testing"

	"github.com/dalemusser/influencehub/internal/testutil"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)
	return ctx
}
