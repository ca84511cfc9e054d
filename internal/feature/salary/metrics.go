package salary

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salary_submissions_total",
		Help: "Accepted salary submissions (insert or overwrite by email)",
	})
	amountUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "salary_amount_updates_total",
		Help: "Accepted admin amount updates",
	})
	rejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "salary_rejected_total",
		Help: "Requests rejected before touching the store",
	}, []string{"operation", "reason"})
)

func init() { prometheus.MustRegister(submissionsTotal, amountUpdatesTotal, rejectedTotal) }
