package riskfeed

import (
	"context"

	"github.com/kailas-cloud/riskfeed/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/riskfeed/internal/usecase/health"
)

// --- dashboardUseCase mock ---

type mockDashboard struct {
	refreshFn func(ctx context.Context) error
	viewFn    func() dashboard.View
	selectFn  func(id int64) (dashboard.Inspection, error)
	inspectFn func(id int64) (dashboard.Inspection, error)

	term       string
	deselected bool
	dismissed  bool
}

func (m *mockDashboard) Refresh(ctx context.Context) error { return m.refreshFn(ctx) }

func (m *mockDashboard) View() dashboard.View {
	if m.viewFn == nil {
		return dashboard.View{SearchTerm: m.term}
	}
	return m.viewFn()
}

func (m *mockDashboard) SetSearchTerm(term string) { m.term = term }

func (m *mockDashboard) Select(id int64) (dashboard.Inspection, error) { return m.selectFn(id) }

func (m *mockDashboard) Deselect() { m.deselected = true }

func (m *mockDashboard) Inspect(id int64) (dashboard.Inspection, error) { return m.inspectFn(id) }

func (m *mockDashboard) DismissError() { m.dismissed = true }

// --- healthUseCase mock ---

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }
