package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsconfig"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type DeploymentStackProps struct {
	awscdk.StackProps
	FunctionArn    string
	RequiredTagKey string
}

func TagCheckStack(scope constructs.Construct, id string, props *DeploymentStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope, &id, &sprops)

	requiredTagKey := "application"
	functionArn := ""
	if props != nil {
		functionArn = props.FunctionArn
		if props.RequiredTagKey != "" {
			requiredTagKey = props.RequiredTagKey
		}
	}

	// A custom rule that runs whenever a lambda function's configuration changes
	_ = awsconfig.NewCustomRule(stack, jsii.String("tag-check AWS Config Rule"), &awsconfig.CustomRuleProps{
		ConfigRuleName:       jsii.String("lambda-tag-check"),
		Description:          jsii.String("Rule to ensure lambda functions carry the tag required by Security / Compliance team"),
		LambdaFunction:       awslambda.Function_FromFunctionArn(stack, jsii.String("tag-check lambda"), jsii.String(functionArn)),
		ConfigurationChanges: jsii.Bool(true),
		Periodic:             jsii.Bool(false),
		RuleScope: awsconfig.RuleScope_FromResources(&[]awsconfig.ResourceType{
			awsconfig.ResourceType_LAMBDA_FUNCTION(),
		}),
		InputParameters: &map[string]interface{}{
			"requiredTagKey": requiredTagKey,
		},
	})

	return stack
}

func main() {
	defer jsii.Close()

	app := awscdk.NewApp(nil)

	TagCheckStack(app, "tag-check-configRule", &DeploymentStackProps{
		StackProps: awscdk.StackProps{
			Env: env(),
		},
		FunctionArn:    os.Getenv("TAG_CHECK_FUNCTION_ARN"),
		RequiredTagKey: os.Getenv("TAG_CHECK_REQUIRED_TAG_KEY"),
	})

	app.Synth(nil)
}

func env() *awscdk.Environment {
	return &awscdk.Environment{
		Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
		Region:  jsii.String(os.Getenv("CDK_DEFAULT_REGION")),
	}
}
