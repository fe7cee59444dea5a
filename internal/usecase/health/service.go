package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	feed     FeedProber
	notifier NotifierChecker
}

// New creates a Service. notifier can be nil (no external alert destination).
func New(feed FeedProber, notifier NotifierChecker) *Service {
	return &Service{feed: feed, notifier: notifier}
}

// Check runs health checks against all components. Any failing check
// degrades the report; the service itself keeps running on stale data.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["feed"] = result(s.feed.Probe(ctx))

	if s.notifier != nil {
		checks["notifier"] = result(s.notifier.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
