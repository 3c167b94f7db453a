package shared

import (
	"time"

	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
)

type ResourceType string
type MessageType string
type EnvVar string
type S3BucketName string
type S3ObjectKey string

// InvokingEvent is the decoded form of the invokingEvent string AWS Config
// places in the lambda payload.
type InvokingEvent struct {
	ConfigurationItem        *ConfigurationItem `json:"configurationItem"`
	MessageType              MessageType        `json:"messageType"`
	NotificationCreationTime string             `json:"notificationCreationTime"`
}

// ConfigurationItem is the snapshot of one recorded resource. Only the tags
// take part in the compliance decision.
type ConfigurationItem struct {
	ResourceType                 string            `json:"resourceType"`
	ResourceId                   string            `json:"resourceId"`
	ResourceName                 string            `json:"resourceName"`
	Tags                         map[string]string `json:"tags"`
	ARN                          string            `json:"ARN"`
	AwsAccountId                 string            `json:"awsAccountId"`
	AwsRegion                    string            `json:"awsRegion"`
	ConfigurationItemStatus      string            `json:"configurationItemStatus"`
	ConfigurationItemCaptureTime string            `json:"configurationItemCaptureTime"`
}

// RuleParameters holds the optional input parameters of the config rule.
type RuleParameters struct {
	RequiredTagKey string `json:"requiredTagKey"`
}

// EvaluationResult is the verdict for one configuration item. It only lives
// for the duration of an invocation.
type EvaluationResult struct {
	ResourceType   string                            `json:"resourceType"`
	ResourceId     string                            `json:"resourceId"`
	ComplianceType configServiceTypes.ComplianceType `json:"complianceType"`
	Annotation     string                            `json:"annotation"`
	Timestamp      time.Time                         `json:"-"`
	TimestampISO   string                            `json:"timestamp"`
}

// Response is what the lambda hands back to its invoker.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type ExecutionLogEntry struct {
	Timestamp      string `json:"timestamp"`
	Compliance     string `json:"compliance"`
	ResourceId     string `json:"resourceId"`
	ResourceType   string `json:"resourceType"`
	Annotation     string `json:"annotation"`
	ConfigRuleName string `json:"configRuleName"`
	AccountId      string `json:"accountId"`
	RequiredTagKey string `json:"requiredTagKey"`
}
