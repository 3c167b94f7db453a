package handle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-check/internal/evaluationmgr"
	"github.com/outofoffice3/tag-check/internal/evaluator"
	"github.com/outofoffice3/tag-check/internal/metricmgr"
	"github.com/outofoffice3/tag-check/internal/shared"
	"github.com/outofoffice3/tag-check/internal/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	compliantInvokingEvent    = `{"configurationItem":{"resourceType":"AWS::Lambda::Function","resourceId":"fn-1","tags":{"application":"x"}}}`
	nonCompliantInvokingEvent = `{"configurationItem":{"resourceType":"AWS::Lambda::Function","resourceId":"fn-1","tags":{"owner":"x"}}}`
)

type mockConfigClient struct {
	mock.Mock
}

func (m *mockConfigClient) PutEvaluations(ctx context.Context, params *configservice.PutEvaluationsInput, optFns ...func(*configservice.Options)) (*configservice.PutEvaluationsOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*configservice.PutEvaluationsOutput)
	return output, args.Error(1)
}

type mockWriter struct {
	writer.Writer
	mock.Mock
}

func (m *mockWriter) ExportExecutionLog(ctx context.Context, entry shared.ExecutionLogEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

type testHarness struct {
	client    *mockConfigClient
	metricMgr metricmgr.MetricMgr
	evaluator evaluator.ComplianceEvaluator
	now       time.Time
}

func newHarness(t *testing.T, w writer.Writer) testHarness {
	client := new(mockConfigClient)
	mm := metricmgr.Init()
	evalMgr, err := evaluationmgr.Init(evaluationmgr.EvaluationMgrInitConfig{
		Client:    client,
		MetricMgr: mm,
	})
	assert.NoError(t, err)
	now := time.Now()
	config := evaluator.ComplianceEvaluatorInitConfig{
		AccountId:     "123456789012",
		Clock:         func() time.Time { return now },
		Logger:        logger.NewConsoleLogger(logger.LogLevelDebug),
		EvaluationMgr: evalMgr,
		MetricMgr:     mm,
	}
	if w != nil {
		config.Writer = w
	}
	complianceEvaluator, err := evaluator.Init(config)
	assert.NoError(t, err)
	return testHarness{
		client:    client,
		metricMgr: mm,
		evaluator: complianceEvaluator,
		now:       now,
	}
}

func matchEvaluation(token string, compliance configServiceTypes.ComplianceType, resourceId string) interface{} {
	return mock.MatchedBy(func(input *configservice.PutEvaluationsInput) bool {
		if input.ResultToken == nil || *input.ResultToken != token || len(input.Evaluations) != 1 {
			return false
		}
		evaluation := input.Evaluations[0]
		return evaluation.ComplianceType == compliance &&
			*evaluation.ComplianceResourceId == resourceId &&
			*evaluation.ComplianceResourceType == string(shared.AwsLambdaFunction) &&
			evaluation.Annotation != nil &&
			evaluation.OrderingTimestamp != nil
	})
}

func TestHandleConfigEventCompliant(t *testing.T) {
	assertion := assert.New(t)
	h := newHarness(t, nil)

	h.client.On("PutEvaluations", mock.Anything, matchEvaluation("tok1", configServiceTypes.ComplianceTypeCompliant, "fn-1")).
		Return(&configservice.PutEvaluationsOutput{}, nil).Once()

	response, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: compliantInvokingEvent,
		ResultToken:   "tok1",
	}, h.evaluator)
	assertion.NoError(err)
	assertion.Equal(shared.Response{StatusCode: 200, Body: `"Evaluation completed."`}, response)
	h.client.AssertExpectations(t)

	compliant, _ := h.metricMgr.GetMetric(metricmgr.TotalCompliant)
	assertion.Equal(float64(1), compliant)
	invocations, _ := h.metricMgr.GetMetric(metricmgr.TotalInvocations)
	assertion.Equal(float64(1), invocations)
}

func TestHandleConfigEventNonCompliant(t *testing.T) {
	assertion := assert.New(t)
	h := newHarness(t, nil)

	h.client.On("PutEvaluations", mock.Anything, matchEvaluation("tok1", configServiceTypes.ComplianceTypeNonCompliant, "fn-1")).
		Return(&configservice.PutEvaluationsOutput{}, nil).Once()

	response, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: nonCompliantInvokingEvent,
		ResultToken:   "tok1",
	}, h.evaluator)
	assertion.NoError(err)
	assertion.Equal(200, response.StatusCode)
	h.client.AssertExpectations(t)

	nonCompliant, _ := h.metricMgr.GetMetric(metricmgr.TotalNonCompliant)
	assertion.Equal(float64(1), nonCompliant)
}

func TestHandleConfigEventTimestamp(t *testing.T) {
	assertion := assert.New(t)
	h := newHarness(t, nil)

	var submitted *configservice.PutEvaluationsInput
	h.client.On("PutEvaluations", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(*configservice.PutEvaluationsInput)
		}).
		Return(&configservice.PutEvaluationsOutput{}, nil).Once()

	_, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: compliantInvokingEvent,
		ResultToken:   "tok1",
	}, h.evaluator)
	assertion.NoError(err)
	if assertion.NotNil(submitted) {
		ts := *submitted.Evaluations[0].OrderingTimestamp
		assertion.True(h.now.Equal(ts))
		_, err := time.Parse(time.RFC3339Nano, shared.FormatTimestamp(ts))
		assertion.NoError(err)
	}
}

func TestHandleConfigEventMissingConfigurationItem(t *testing.T) {
	assertion := assert.New(t)
	h := newHarness(t, nil)

	response, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: `{"messageType":"ScheduledNotification"}`,
		ResultToken:   "tok1",
	}, h.evaluator)
	assertion.Error(err)
	assertion.True(shared.IsMissingField(err))
	assertion.ErrorIs(err, shared.ErrMissingConfigurationItem)
	assertion.NotEqual(200, response.StatusCode)
	h.client.AssertNotCalled(t, "PutEvaluations", mock.Anything, mock.Anything)

	// missing resource id
	_, err = HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: `{"configurationItem":{"resourceType":"AWS::Lambda::Function"}}`,
		ResultToken:   "tok1",
	}, h.evaluator)
	assertion.True(shared.IsMissingField(err))
	h.client.AssertNotCalled(t, "PutEvaluations", mock.Anything, mock.Anything)
}

func TestHandleConfigEventMalformed(t *testing.T) {
	assertion := assert.New(t)
	h := newHarness(t, nil)

	_, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: `not json`,
		ResultToken:   "tok1",
	}, h.evaluator)
	assertion.Error(err)
	assertion.False(shared.IsMissingField(err))

	_, err = HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent:  compliantInvokingEvent,
		RuleParameters: `{"requiredTagKey":`,
		ResultToken:    "tok1",
	}, h.evaluator)
	assertion.Error(err)
	h.client.AssertNotCalled(t, "PutEvaluations", mock.Anything, mock.Anything)
}

func TestHandleConfigEventSubmissionError(t *testing.T) {
	assertion := assert.New(t)
	h := newHarness(t, nil)

	sendErr := errors.New("InvalidResultTokenException")
	h.client.On("PutEvaluations", mock.Anything, mock.Anything).Return(nil, sendErr).Once()

	response, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: compliantInvokingEvent,
		ResultToken:   "tok1",
	}, h.evaluator)
	assertion.ErrorIs(err, sendErr)
	assertion.Equal(shared.Response{}, response)

	failed, _ := h.metricMgr.GetMetric(metricmgr.TotalFailedEvaluations)
	assertion.Equal(float64(1), failed)
}

func TestHandleConfigEventFailedEvaluationsStillComplete(t *testing.T) {
	assertion := assert.New(t)
	h := newHarness(t, nil)

	h.client.On("PutEvaluations", mock.Anything, mock.Anything).Return(&configservice.PutEvaluationsOutput{
		FailedEvaluations: []configServiceTypes.Evaluation{{}},
	}, nil).Once()

	response, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: compliantInvokingEvent,
		ResultToken:   "tok1",
	}, h.evaluator)
	assertion.NoError(err)
	assertion.Equal(shared.NewCompletedResponse(), response)
}

func TestHandleConfigEventRuleParameters(t *testing.T) {
	assertion := assert.New(t)
	h := newHarness(t, nil)

	h.client.On("PutEvaluations", mock.Anything, matchEvaluation("tok1", configServiceTypes.ComplianceTypeNonCompliant, "fn-1")).
		Return(&configservice.PutEvaluationsOutput{}, nil).Once()

	_, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent:  compliantInvokingEvent,
		RuleParameters: `{"requiredTagKey":"cost-center"}`,
		ResultToken:    "tok1",
	}, h.evaluator)
	assertion.NoError(err)
	h.client.AssertExpectations(t)
}

func TestHandleConfigEventExecutionLog(t *testing.T) {
	assertion := assert.New(t)
	w := new(mockWriter)
	h := newHarness(t, w)

	h.client.On("PutEvaluations", mock.Anything, mock.Anything).Return(&configservice.PutEvaluationsOutput{}, nil)
	w.On("ExportExecutionLog", mock.Anything, mock.MatchedBy(func(entry shared.ExecutionLogEntry) bool {
		return entry.ResourceId == "fn-1" &&
			entry.Compliance == string(configServiceTypes.ComplianceTypeCompliant) &&
			entry.ConfigRuleName == "lambda-tag-check" &&
			entry.AccountId == "123456789012" &&
			entry.RequiredTagKey == shared.DefaultRequiredTagKey
	})).Return("tag-check/2023-11-20/lambda-tag-check.csv", nil).Once()

	event := events.ConfigEvent{
		InvokingEvent:  compliantInvokingEvent,
		ResultToken:    "tok1",
		ConfigRuleName: "lambda-tag-check",
	}
	response, err := HandleConfigEvent(context.Background(), event, h.evaluator)
	assertion.NoError(err)
	assertion.Equal(200, response.StatusCode)
	exports, _ := h.metricMgr.GetMetric(metricmgr.TotalExports)
	assertion.Equal(float64(1), exports)

	// export failures do not fail the invocation
	w.On("ExportExecutionLog", mock.Anything, mock.Anything).Return("", errors.New("NoSuchBucket")).Once()
	response, err = HandleConfigEvent(context.Background(), event, h.evaluator)
	assertion.NoError(err)
	assertion.Equal(200, response.StatusCode)
	failedExports, _ := h.metricMgr.GetMetric(metricmgr.TotalFailedExports)
	assertion.Equal(float64(1), failedExports)
	w.AssertExpectations(t)
}

func TestHandleConfigEventMetricFailuresDoNotFailInvocation(t *testing.T) {
	assertion := assert.New(t)
	client := new(mockConfigClient)
	// no counters registered, every increment errors
	mm := metricmgr.NewMetricMgr()
	evalMgr, err := evaluationmgr.Init(evaluationmgr.EvaluationMgrInitConfig{
		Client:    client,
		MetricMgr: mm,
	})
	assertion.NoError(err)
	complianceEvaluator, err := evaluator.Init(evaluator.ComplianceEvaluatorInitConfig{
		Logger:        logger.NewConsoleLogger(logger.LogLevelDebug),
		EvaluationMgr: evalMgr,
		MetricMgr:     mm,
	})
	assertion.NoError(err)
	assertion.Error(mm.IncrementMetric(metricmgr.TotalInvocations, 1))

	client.On("PutEvaluations", mock.Anything, matchEvaluation("tok1", configServiceTypes.ComplianceTypeCompliant, "fn-1")).
		Return(&configservice.PutEvaluationsOutput{}, nil).Once()

	response, err := HandleConfigEvent(context.Background(), events.ConfigEvent{
		InvokingEvent: compliantInvokingEvent,
		ResultToken:   "tok1",
	}, complianceEvaluator)
	assertion.NoError(err)
	assertion.Equal(shared.NewCompletedResponse(), response)
	client.AssertExpectations(t)
}
