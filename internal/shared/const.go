package shared

const (
	EnvLogLevel           EnvVar = "LOG_LEVEL"
	EnvTestMode           EnvVar = "TEST_MODE"
	EnvAssumeRoleArn      EnvVar = "ASSUME_ROLE_ARN"
	EnvExecutionLogBucket EnvVar = "EXECUTION_LOG_BUCKET"
	EnvExecutionLogPrefix EnvVar = "EXECUTION_LOG_PREFIX"
	EnvAWSAccountID       EnvVar = "AWS_ACCOUNT_ID"

	DefaultExecutionLogPrefix S3ObjectKey = "tag-check"
	DefaultAccountId          string      = "self"
	DefaultRequiredTagKey     string      = "application"
	CompletedMessage          string      = "Evaluation completed."

	// AWS Config rejects annotations longer than this
	MaxAnnotationLength int = 256

	AwsLambdaFunction ResourceType = "AWS::Lambda::Function"

	ScheduledNotification                        MessageType = "ScheduledNotification"
	ConfigurationItemChangeNotification          MessageType = "ConfigurationItemChangeNotification"
	OversizedConfigurationItemChangeNotification MessageType = "OversizedConfigurationItemChangeNotification"
)

// execution log csv columns
const (
	TIMESTAMP     string = "Timestamp"
	COMPLIANCE    string = "Compliance"
	RESOURCE_ID   string = "ResourceId"
	RESOURCE_TYPE string = "ResourceType"
	ANNOTATION    string = "Annotation"
	RULE_NAME     string = "ConfigRuleName"
	ACCOUNT_ID    string = "AccountId"
	REQUIRED_TAG  string = "RequiredTagKey"
)
