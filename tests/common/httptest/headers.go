//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AnyValue in AssertHeaders only requires the header to be present.
const AnyValue = "*"

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for name, want := range expected {
		got := w.Header().Get(name)
		if want == AnyValue {
			assert.NotEmpty(t, got, "header %s missing", name)
			continue
		}
		assert.Equal(t, want, got, "header %s", name)
	}
}
