package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-check/handle"
	"github.com/outofoffice3/tag-check/internal/awsclientmgr"
	"github.com/outofoffice3/tag-check/internal/evaluationmgr"
	"github.com/outofoffice3/tag-check/internal/evaluator"
	"github.com/outofoffice3/tag-check/internal/metricmgr"
	"github.com/outofoffice3/tag-check/internal/shared"
	"github.com/outofoffice3/tag-check/internal/writer"
)

var (
	complianceEvaluator evaluator.ComplianceEvaluator
)

func handler(ctx context.Context, event events.ConfigEvent) (shared.Response, error) {
	sos := complianceEvaluator.GetLogger()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		sos.Debugf("aws request id [%s]", lc.AwsRequestID)
	}
	response, err := handle.HandleConfigEvent(ctx, event, complianceEvaluator)
	if err != nil {
		sos.Errorf("evaluation failed : %v", err)
		return response, err
	}
	sos.Debugf("metrics [%v]", complianceEvaluator.GetMetricMgr().Snapshot())
	return response, nil
}

func main() {
	lambda.Start(handler)
}

func init() {
	sos := logger.NewConsoleLogger(logger.LogLevelInfo)
	if strings.ToLower(os.Getenv(string(shared.EnvLogLevel))) == "debug" {
		sos = logger.NewConsoleLogger(logger.LogLevelDebug)
	}
	sos.Infof("main init started")
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		sos.Errorf("failed to load SDK config, %v", err)
		panic("failed to load sdk config")
	}
	sos.Infof("SDK config loaded for region [%s]", cfg.Region)

	// read env vars
	accountId := os.Getenv(string(shared.EnvAWSAccountID))
	if accountId == "" {
		accountId = shared.DefaultAccountId
	}
	sos.Debugf("account id : [%s]", accountId)
	testMode := false
	if rawTestMode := os.Getenv(string(shared.EnvTestMode)); rawTestMode != "" {
		testMode, err = strconv.ParseBool(rawTestMode)
		if err != nil {
			sos.Errorf("invalid test mode [%s], %v", rawTestMode, err)
			panic("invalid test mode")
		}
	}
	sos.Debugf("test mode : [%v]", testMode)
	assumeRoleArn := os.Getenv(string(shared.EnvAssumeRoleArn))
	sos.Debugf("assume role arn : [%s]", assumeRoleArn)
	executionLogBucket := os.Getenv(string(shared.EnvExecutionLogBucket))
	executionLogPrefix := os.Getenv(string(shared.EnvExecutionLogPrefix))
	sos.Debugf("execution log bucket : [%s] prefix : [%s]", executionLogBucket, executionLogPrefix)

	awscm, err := awsclientmgr.Init(awsclientmgr.AWSClientMgrInitConfig{
		Ctx:           context.Background(),
		Cfg:           cfg,
		AccountId:     accountId,
		AssumeRoleArn: assumeRoleArn,
	})
	if err != nil {
		sos.Errorf("failed to init aws client mgr, %v", err)
		panic("failed to init aws client mgr")
	}
	configClient, ok := awscm.GetConfigClient(accountId)
	if !ok {
		sos.Errorf("aws config client not loaded for account [%s]", accountId)
		panic("aws config client not loaded")
	}

	mm := metricmgr.Init()
	evalMgr, err := evaluationmgr.Init(evaluationmgr.EvaluationMgrInitConfig{
		TestMode:  testMode,
		Client:    configClient,
		MetricMgr: mm,
	})
	if err != nil {
		sos.Errorf("failed to init evaluation mgr, %v", err)
		panic("failed to init evaluation mgr")
	}

	evaluatorConfig := evaluator.ComplianceEvaluatorInitConfig{
		AccountId:     accountId,
		Logger:        sos,
		EvaluationMgr: evalMgr,
		MetricMgr:     mm,
	}
	// execution log export is optional
	if executionLogBucket != "" {
		s3Client, ok := awscm.GetS3Client(accountId)
		if !ok {
			sos.Errorf("s3 client not loaded for account [%s]", accountId)
			panic("s3 client not loaded")
		}
		w, err := writer.Init(writer.WriterInitConfig{
			Client: s3Client,
			Bucket: executionLogBucket,
			Prefix: executionLogPrefix,
		})
		if err != nil {
			sos.Errorf("failed to init writer, %v", err)
			panic("failed to init writer")
		}
		evaluatorConfig.Writer = w
	}

	complianceEvaluator, err = evaluator.Init(evaluatorConfig)
	if err != nil {
		sos.Errorf("failed to init compliance evaluator, %v", err)
		panic("failed to init compliance evaluator")
	}
	sos.Infof("main init completed")
}
