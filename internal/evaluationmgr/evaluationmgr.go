package evaluationmgr

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"github.com/outofoffice3/tag-check/internal/metricmgr"
)

// PutEvaluationsAPI is the part of the AWS Config client used to report results.
type PutEvaluationsAPI interface {
	PutEvaluations(ctx context.Context, params *configservice.PutEvaluationsInput, optFns ...func(*configservice.Options)) (*configservice.PutEvaluationsOutput, error)
}

// EvaluationMgr reports evaluations to AWS Config
type EvaluationMgr interface {
	// send evaluations
	SendEvaluations(ctx context.Context, resultToken string, evaluations []configServiceTypes.Evaluation) (*configservice.PutEvaluationsOutput, error)
	// get test mode
	GetTestMode() bool
}

type _EvaluationMgr struct {
	testMode  bool
	client    PutEvaluationsAPI
	metricMgr metricmgr.MetricMgr
}

type EvaluationMgrInitConfig struct {
	TestMode  bool
	Client    PutEvaluationsAPI
	MetricMgr metricmgr.MetricMgr
}

func Init(config EvaluationMgrInitConfig) (EvaluationMgr, error) {
	if config.Client == nil {
		return nil, errors.New("aws config client is not set")
	}
	if config.MetricMgr == nil {
		config.MetricMgr = metricmgr.Init()
	}
	em := &_EvaluationMgr{
		testMode:  config.TestMode,
		client:    config.Client,
		metricMgr: config.MetricMgr,
	}
	log.Println("evaluation manager initialized")
	return em, nil
}

// send evaluations
func (em *_EvaluationMgr) SendEvaluations(ctx context.Context, resultToken string, evaluations []configServiceTypes.Evaluation) (*configservice.PutEvaluationsOutput, error) {
	output, err := em.client.PutEvaluations(ctx, &configservice.PutEvaluationsInput{
		ResultToken: aws.String(resultToken),
		Evaluations: evaluations,
		TestMode:    em.testMode,
	})
	em.incrementMetric(metricmgr.TotalEvaluations, len(evaluations))
	if err != nil {
		em.incrementMetric(metricmgr.TotalFailedEvaluations, len(evaluations))
		return nil, err
	}
	// aws config accepted the call but may still reject individual evaluations
	if output != nil && len(output.FailedEvaluations) > 0 {
		em.incrementMetric(metricmgr.TotalFailedEvaluations, len(output.FailedEvaluations))
	}
	log.Printf("sent %d evaluations\n", len(evaluations))
	return output, nil
}

// get test mode
func (em *_EvaluationMgr) GetTestMode() bool {
	return em.testMode
}

func (em *_EvaluationMgr) incrementMetric(metric metricmgr.Metric, value int) {
	if err := em.metricMgr.IncrementMetric(metric, int32(value)); err != nil {
		log.Printf("failed to increment metric [%s] : %v\n", metric, err)
	}
}
