package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.attempts.WithLabelValues("hit").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_attempts_total")
			})
		})

		Convey("When two managers share a registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When an attempt is recorded", func() {
			before := testutil.ToFloat64(globalManager.attempts.WithLabelValues("hit"))
			RecordAttempt(true, 1500)

			Convey("Then the hit counter increases by one", func() {
				So(testutil.ToFloat64(globalManager.attempts.WithLabelValues("hit")), ShouldEqual, before+1)
			})
		})

		Convey("When history operations are recorded", func() {
			before := testutil.ToFloat64(globalManager.historyErrors.WithLabelValues("file", "append"))
			RecordHistoryOperation("file", "append", 0.4)
			RecordHistoryError("file", "append")
			RecordHistoryCorrupted("file")

			Convey("Then the error counter increases", func() {
				So(testutil.ToFloat64(globalManager.historyErrors.WithLabelValues("file", "append")), ShouldEqual, before+1)
			})
		})

		Convey("When the remaining recorders are called", func() {
			So(func() {
				RecordValidationRejection("x", "out_of_range")
				RecordSessionMinted()
				RecordSessionCleared()
				RecordHistoryLength(3)
				UpdateHistoryLocks(2)
				RecordHTTPRequest("area_check", "POST", "200")
				RecordHTTPRequestDuration("area_check", "POST", "200", 1.2)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("area_check", "POST", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
