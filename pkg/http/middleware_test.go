/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestCommonMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		method string
		want   int
	}{
		{name: "preflight short-circuits", method: http.MethodOptions, want: http.StatusOK},
		{name: "request passes through", method: http.MethodGet, want: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			CommonMiddleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/nodes", http.NoBody))

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	rec := httptest.NewRecorder()
	LoggingMiddleware(zap.New(core))(okHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", http.NoBody))

	require.Equal(t, 1, logs.Len())

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/stats", fields["path"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(rate.NewLimiter(rate.Limit(0.001), 2))(okHandler())

	codes := make([]int, 0, 3)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/check", http.NoBody))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusTeapot, http.StatusTeapot, http.StatusTooManyRequests}, codes)
}

func TestStatusRecorderHijackUnsupported(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}

	_, _, err := rec.Hijack()
	assert.ErrorIs(t, err, errHijackUnsupported)
}
