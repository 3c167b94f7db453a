package handle

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"github.com/outofoffice3/tag-check/internal/evaluator"
	"github.com/outofoffice3/tag-check/internal/metricmgr"
	"github.com/outofoffice3/tag-check/internal/shared"
	"github.com/pkg/errors"
)

// HandleConfigEvent evaluates the configuration item carried by event, reports
// the verdict to AWS Config under the event's result token and returns the
// fixed completion response. Parse errors, missing fields and submission
// failures are returned as is; nothing is retried.
func HandleConfigEvent(ctx context.Context, event events.ConfigEvent, complianceEvaluator evaluator.ComplianceEvaluator) (shared.Response, error) {
	sos := complianceEvaluator.GetLogger()
	incrementMetric(complianceEvaluator, metricmgr.TotalInvocations)
	sos.Debugf("event received [%+v]", event)

	invokingEvent, err := shared.ParseInvokingEvent(event.InvokingEvent)
	if err != nil {
		return shared.Response{}, err
	}
	configurationItem, err := shared.ExtractConfigurationItem(invokingEvent)
	if err != nil {
		return shared.Response{}, errors.WithMessage(err, "message type ["+string(invokingEvent.MessageType)+"]")
	}
	ruleParameters, err := shared.ParseRuleParameters(event.RuleParameters)
	if err != nil {
		return shared.Response{}, err
	}

	tagKey := complianceEvaluator.RequiredTagKey(ruleParameters)
	compliance := complianceEvaluator.EvaluateWithParameters(configurationItem, ruleParameters)
	now := complianceEvaluator.Now()
	result := shared.EvaluationResult{
		ResourceType:   configurationItem.ResourceType,
		ResourceId:     configurationItem.ResourceId,
		ComplianceType: compliance,
		Annotation:     complianceEvaluator.Annotate(compliance, tagKey),
		Timestamp:      now,
		TimestampISO:   shared.FormatTimestamp(now),
	}
	if compliance == configServiceTypes.ComplianceTypeCompliant {
		incrementMetric(complianceEvaluator, metricmgr.TotalCompliant)
	} else {
		incrementMetric(complianceEvaluator, metricmgr.TotalNonCompliant)
	}
	sos.Infof("evaluation result [%+v]", result)

	output, err := complianceEvaluator.GetEvaluationMgr().SendEvaluations(ctx, event.ResultToken, []configServiceTypes.Evaluation{
		shared.CreateAWSConfigEvaluation(result),
	})
	if err != nil {
		return shared.Response{}, errors.Wrap(err, "failed to put evaluations")
	}

	failedEvaluations := 0
	if output != nil {
		failedEvaluations = len(output.FailedEvaluations)
	}
	sos.Infof("config result : failed evaluations [%d]", failedEvaluations)
	sos.Infof("resourceId [%s] compliance status [%s]", result.ResourceId, result.ComplianceType)

	exportExecutionLog(ctx, event, result, tagKey, complianceEvaluator)
	return shared.NewCompletedResponse(), nil
}

// the execution log is best effort.  the evaluation is already reported when this runs
func exportExecutionLog(ctx context.Context, event events.ConfigEvent, result shared.EvaluationResult, tagKey string, complianceEvaluator evaluator.ComplianceEvaluator) {
	w := complianceEvaluator.GetWriter()
	if w == nil {
		return
	}
	sos := complianceEvaluator.GetLogger()

	accountId := event.AccountID
	if accountId == "" {
		accountId = complianceEvaluator.GetAccountId()
	}
	key, err := w.ExportExecutionLog(ctx, shared.ExecutionLogEntry{
		Timestamp:      result.TimestampISO,
		Compliance:     string(result.ComplianceType),
		ResourceId:     result.ResourceId,
		ResourceType:   result.ResourceType,
		Annotation:     result.Annotation,
		ConfigRuleName: event.ConfigRuleName,
		AccountId:      accountId,
		RequiredTagKey: tagKey,
	})
	if err != nil {
		sos.Errorf("failed to export execution log : %v", err)
		incrementMetric(complianceEvaluator, metricmgr.TotalFailedExports)
		return
	}
	incrementMetric(complianceEvaluator, metricmgr.TotalExports)
	sos.Debugf("execution log exported to [%s]", key)
}

// metrics never fail an invocation
func incrementMetric(complianceEvaluator evaluator.ComplianceEvaluator, metric metricmgr.Metric) {
	if err := complianceEvaluator.GetMetricMgr().IncrementMetric(metric, 1); err != nil {
		complianceEvaluator.GetLogger().Debugf("failed to increment metric [%s] : %v", metric, err)
	}
}
