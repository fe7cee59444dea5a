package chi

import "github.com/kailas-cloud/riskfeed/internal/usecase/dashboard"

// Dashboard is the view state the server renders and mutates.
type Dashboard interface {
	View() dashboard.View
	SetSearchTerm(term string)
	Trigger() uint64
	Select(id int64) (dashboard.Inspection, error)
	Deselect()
	Inspect(id int64) (dashboard.Inspection, error)
	DismissError()
}
