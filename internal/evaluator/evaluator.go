package evaluator

import (
	"errors"
	"time"

	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-check/internal/evaluationmgr"
	"github.com/outofoffice3/tag-check/internal/metricmgr"
	"github.com/outofoffice3/tag-check/internal/shared"
	"github.com/outofoffice3/tag-check/internal/writer"
)

/*

ComplianceEvaluator is responsible for the following :

- Deciding whether a configuration item carries the required tag
- Building the annotation reported with the verdict
- Handing out the collaborators an invocation needs (logger, aws config
  reporting, execution log writer, metrics)

*/

type ComplianceEvaluator interface {

	// ###############################################################################################################
	// EVALUATION METHODS
	// ###############################################################################################################

	// evaluate configuration item against the default required tag key
	Evaluate(item shared.ConfigurationItem) configServiceTypes.ComplianceType
	// evaluate configuration item against the tag key resolved from rule parameters
	EvaluateWithParameters(item shared.ConfigurationItem, params shared.RuleParameters) configServiceTypes.ComplianceType
	// resolve the tag key to check for
	RequiredTagKey(params shared.RuleParameters) string
	// build annotation for a verdict
	Annotate(compliance configServiceTypes.ComplianceType, tagKey string) string

	// ###############################################################################################################
	// GETTER METHODS
	// ###############################################################################################################

	// get logger
	GetLogger() logger.Logger
	// get evaluation mgr
	GetEvaluationMgr() evaluationmgr.EvaluationMgr
	// get writer.  nil when execution log export is disabled
	GetWriter() writer.Writer
	// get metric mgr
	GetMetricMgr() metricmgr.MetricMgr
	// get account id
	GetAccountId() string
	// current wall clock time
	Now() time.Time
}

type _ComplianceEvaluator struct {
	defaultTagKey string
	accountId     string
	clock         func() time.Time
	logger        logger.Logger
	evaluationMgr evaluationmgr.EvaluationMgr
	writer        writer.Writer
	metricMgr     metricmgr.MetricMgr
}

type ComplianceEvaluatorInitConfig struct {
	DefaultTagKey string
	AccountId     string
	Clock         func() time.Time
	Logger        logger.Logger
	EvaluationMgr evaluationmgr.EvaluationMgr
	Writer        writer.Writer
	MetricMgr     metricmgr.MetricMgr
}

// ###############################################################################################################
// INTERFACE INITIALIZATION
// ###############################################################################################################

// returns an instance of compliance evaluator
func Init(config ComplianceEvaluatorInitConfig) (ComplianceEvaluator, error) {
	if config.EvaluationMgr == nil {
		return nil, errors.New("evaluation mgr is not set")
	}
	if config.Logger == nil {
		config.Logger = logger.NewConsoleLogger(logger.LogLevelInfo)
	}
	if config.MetricMgr == nil {
		config.MetricMgr = metricmgr.Init()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.DefaultTagKey == "" {
		config.DefaultTagKey = shared.DefaultRequiredTagKey
	}
	if !shared.IsValidTagKey(config.DefaultTagKey) {
		return nil, errors.New("invalid default tag key [" + config.DefaultTagKey + "]")
	}
	complianceEvaluator := &_ComplianceEvaluator{
		defaultTagKey: config.DefaultTagKey,
		accountId:     config.AccountId,
		clock:         config.Clock,
		logger:        config.Logger,
		evaluationMgr: config.EvaluationMgr,
		writer:        config.Writer,
		metricMgr:     config.MetricMgr,
	}
	complianceEvaluator.logger.Infof("compliance evaluator initialized, required tag key [%s]", complianceEvaluator.defaultTagKey)
	return complianceEvaluator, nil
}

// ###############################################################################################################
// EVALUATION METHODS
// ###############################################################################################################

func (e *_ComplianceEvaluator) Evaluate(item shared.ConfigurationItem) configServiceTypes.ComplianceType {
	return evaluateTags(item.Tags, e.defaultTagKey)
}

func (e *_ComplianceEvaluator) EvaluateWithParameters(item shared.ConfigurationItem, params shared.RuleParameters) configServiceTypes.ComplianceType {
	return evaluateTags(item.Tags, e.RequiredTagKey(params))
}

func (e *_ComplianceEvaluator) RequiredTagKey(params shared.RuleParameters) string {
	if params.RequiredTagKey != "" {
		return params.RequiredTagKey
	}
	return e.defaultTagKey
}

func (e *_ComplianceEvaluator) Annotate(compliance configServiceTypes.ComplianceType, tagKey string) string {
	var annotation string
	switch compliance {
	case configServiceTypes.ComplianceTypeCompliant:
		annotation = "required tag [" + tagKey + "] is present"
	case configServiceTypes.ComplianceTypeNonCompliant:
		annotation = "required tag [" + tagKey + "] is missing"
	}
	return shared.ValidateAnnotation(annotation, shared.MaxAnnotationLength)
}

// a tag mapping is compliant when it has the key, whatever the value.  a nil
// mapping never is.
func evaluateTags(tags map[string]string, tagKey string) configServiceTypes.ComplianceType {
	if _, ok := tags[tagKey]; ok {
		return configServiceTypes.ComplianceTypeCompliant
	}
	return configServiceTypes.ComplianceTypeNonCompliant
}

// ###############################################################################################################
// GETTER METHODS
// ###############################################################################################################

func (e *_ComplianceEvaluator) GetLogger() logger.Logger {
	return e.logger
}

func (e *_ComplianceEvaluator) GetEvaluationMgr() evaluationmgr.EvaluationMgr {
	return e.evaluationMgr
}

func (e *_ComplianceEvaluator) GetWriter() writer.Writer {
	return e.writer
}

func (e *_ComplianceEvaluator) GetMetricMgr() metricmgr.MetricMgr {
	return e.metricMgr
}

func (e *_ComplianceEvaluator) GetAccountId() string {
	return e.accountId
}

func (e *_ComplianceEvaluator) Now() time.Time {
	return e.clock()
}
