package shared

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"github.com/pkg/errors"
)

// decode the invokingEvent json string
func ParseInvokingEvent(raw string) (InvokingEvent, error) {
	var invokingEvent InvokingEvent
	if err := json.Unmarshal([]byte(raw), &invokingEvent); err != nil {
		return InvokingEvent{}, errors.Wrap(err, "failed to unmarshal invoking event")
	}
	return invokingEvent, nil
}

// return the configuration item of an invoking event, or a missing field error
func ExtractConfigurationItem(invokingEvent InvokingEvent) (ConfigurationItem, error) {
	if invokingEvent.ConfigurationItem == nil {
		return ConfigurationItem{}, ErrMissingConfigurationItem
	}
	item := *invokingEvent.ConfigurationItem
	if err := item.Validate(); err != nil {
		return ConfigurationItem{}, err
	}
	return item, nil
}

// decode rule parameters.  an empty string means no parameters were set on the rule
func ParseRuleParameters(raw string) (RuleParameters, error) {
	var params RuleParameters
	if raw == "" {
		return params, nil
	}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return RuleParameters{}, errors.Wrap(err, "failed to unmarshal rule parameters")
	}
	if params.RequiredTagKey != "" && !IsValidTagKey(params.RequiredTagKey) {
		return RuleParameters{}, errors.New("invalid requiredTagKey [" + params.RequiredTagKey + "] in rule parameters")
	}
	return params, nil
}

// format t as an ISO-8601 timestamp in UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func CreateAWSConfigEvaluation(result EvaluationResult) configServiceTypes.Evaluation {
	return configServiceTypes.Evaluation{
		ComplianceResourceType: aws.String(result.ResourceType),
		ComplianceResourceId:   aws.String(result.ResourceId),
		ComplianceType:         result.ComplianceType,
		Annotation:             aws.String(ValidateAnnotation(result.Annotation, MaxAnnotationLength)),
		OrderingTimestamp:      aws.Time(result.Timestamp),
	}
}

// fixed acknowledgement returned for every completed evaluation
func NewCompletedResponse() Response {
	body, _ := json.Marshal(CompletedMessage)
	return Response{
		StatusCode: 200,
		Body:       string(body),
	}
}

func (e ExecutionLogEntry) Header() []string {
	return []string{TIMESTAMP, COMPLIANCE, RESOURCE_ID, RESOURCE_TYPE, ANNOTATION, RULE_NAME, ACCOUNT_ID, REQUIRED_TAG}
}

func (e ExecutionLogEntry) Record() []string {
	return []string{e.Timestamp, e.Compliance, e.ResourceId, e.ResourceType, e.Annotation, e.ConfigRuleName, e.AccountId, e.RequiredTagKey}
}
