// Nutrimaster - Nutrition Master Data and Calculation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nutrimaster

package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		errType   string
	}{
		{"successful select", "select", "nutrients", nil, ""},
		{"failed insert", "insert", "raw_materials", errors.New("constraint"), "query"},
		{"timeout", "select", "units", fmt.Errorf("list: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", "update", "recipes", context.Canceled, "canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before float64
			if tt.errType != "" {
				before = testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, tt.errType))
			}

			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)

			if tt.errType == "" {
				return
			}
			after := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, tt.errType))
			if after != before+1 {
				t.Errorf("error counter = %v, want %v", after, before+1)
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("GET", "/api/v1/nutrients", "200")
	before := testutil.ToFloat64(counter)

	RecordAPIRequest("GET", "/api/v1/nutrients", "200", 12*time.Millisecond)

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("api_requests_total = %v, want %v", got, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+2 {
		t.Errorf("active = %v, want %v", got, before+2)
	}
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestRecordCalculation(t *testing.T) {
	ok := CalculationsTotal.WithLabelValues("bmr", "success")
	failed := CalculationsTotal.WithLabelValues("recipe", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordCalculation("bmr", time.Millisecond, nil)
	RecordCalculation("recipe", time.Millisecond, errors.New("unit"))

	if got := testutil.ToFloat64(ok); got != okBefore+1 {
		t.Errorf("bmr success = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(failed); got != failedBefore+1 {
		t.Errorf("recipe error = %v, want %v", got, failedBefore+1)
	}

	var m io_prometheus_client.Metric
	hist, ok2 := CalculationDuration.WithLabelValues("bmr").(interface {
		Write(*io_prometheus_client.Metric) error
	})
	if !ok2 {
		t.Fatal("histogram does not expose Write")
	}
	if err := hist.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Error("expected duration samples for bmr")
	}
}

func TestRecordImportAndAuth(t *testing.T) {
	importErr := ImportsTotal.WithLabelValues("error")
	authOK := AuthAttempts.WithLabelValues("session", "success")
	authFail := AuthAttempts.WithLabelValues("session", "failure")
	b1, b2, b3 := testutil.ToFloat64(importErr), testutil.ToFloat64(authOK), testutil.ToFloat64(authFail)

	RecordImport(errors.New("remote down"))
	RecordAuthAttempt("session", true)
	RecordAuthAttempt("session", false)

	if testutil.ToFloat64(importErr) != b1+1 {
		t.Error("import error counter not incremented")
	}
	if testutil.ToFloat64(authOK) != b2+1 || testutil.ToFloat64(authFail) != b3+1 {
		t.Error("auth counters not incremented")
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("POST", "/api/v1/calculate/recipe", "200")
	before := testutil.ToFloat64(counter)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordAPIRequest("POST", "/api/v1/calculate/recipe", "200", time.Millisecond)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(counter); got != before+50 {
		t.Errorf("counter = %v, want %v", got, before+50)
	}
}

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("select", "nutrients", time.Millisecond, nil)
	}
}
