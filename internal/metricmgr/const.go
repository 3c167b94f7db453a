package metricmgr

type Metric string

const (
	TotalInvocations  Metric = "totalInvocations"
	TotalCompliant    Metric = "totalCompliant"
	TotalNonCompliant Metric = "totalNonCompliant"
	TotalEvaluations  Metric = "totalEvaluations"
	TotalExports      Metric = "totalExports"

	TotalFailedEvaluations Metric = "totalFailedEvaluations"
	TotalFailedExports     Metric = "totalFailedExports"

	namespace string = "tag_check"
)

var allMetrics = []Metric{
	TotalInvocations,
	TotalCompliant,
	TotalNonCompliant,
	TotalEvaluations,
	TotalExports,
	TotalFailedEvaluations,
	TotalFailedExports,
}

var metricHelp = map[Metric]string{
	TotalInvocations:       "Config events handled by this container",
	TotalCompliant:         "Configuration items evaluated as COMPLIANT",
	TotalNonCompliant:      "Configuration items evaluated as NON_COMPLIANT",
	TotalEvaluations:       "Evaluations sent to AWS Config",
	TotalExports:           "Execution log records exported to S3",
	TotalFailedEvaluations: "Evaluations AWS Config rejected or that failed to send",
	TotalFailedExports:     "Execution log records that failed to export",
}
