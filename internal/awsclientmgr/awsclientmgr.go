package awsclientmgr

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type AWSClientMgr interface {
	// set aws sdk client
	SetSDKClient(accountId string, name AWSServiceName, client interface{}) error
	// get aws sdk client
	GetSDKClient(accountId string, name AWSServiceName) (interface{}, bool)
	// get aws config client
	GetConfigClient(accountId string) (*configservice.Client, bool)
	// get s3 client
	GetS3Client(accountId string) (*s3.Client, bool)
	// return account ids with a loaded aws config client
	GetAccountIds() []string
}

type _AWSClientMgr struct {
	ctx             context.Context
	s3ClientMap     map[string]*s3.Client
	configClientMap map[string]*configservice.Client
}

type AWSClientMgrInitConfig struct {
	Ctx           context.Context
	Cfg           aws.Config
	AccountId     string
	AssumeRoleArn string
}

func Init(pkgConfig AWSClientMgrInitConfig) (AWSClientMgr, error) {
	log.Printf("init aws client")
	if pkgConfig.AccountId == "" {
		return nil, errors.New("account id is not set")
	}
	awsclient := NewAWSClientMgr(pkgConfig.Ctx)
	accountId := pkgConfig.AccountId
	sdkConfig := pkgConfig.Cfg.Copy()

	// swap in assumed role credentials when a role is configured
	if pkgConfig.AssumeRoleArn != "" {
		stsClient := sts.NewFromConfig(pkgConfig.Cfg.Copy())
		creds := stscreds.NewAssumeRoleProvider(stsClient, pkgConfig.AssumeRoleArn)
		sdkConfig.Credentials = aws.NewCredentialsCache(creds)
		log.Printf("assuming role [%s]", pkgConfig.AssumeRoleArn)
	}

	configClient := configservice.NewFromConfig(sdkConfig)
	if err := awsclient.SetSDKClient(accountId, CONFIG, configClient); err != nil {
		return nil, errors.New("error loading config client : [" + err.Error() + "]")
	}
	log.Printf("config client loaded with account id [%v]\n", accountId)

	s3Client := s3.NewFromConfig(sdkConfig)
	if err := awsclient.SetSDKClient(accountId, S3, s3Client); err != nil {
		return nil, errors.New("error loading s3 client : [" + err.Error() + "]")
	}
	log.Printf("s3 client loaded for account id [%v]\n", accountId)

	return awsclient, nil
}

func NewAWSClientMgr(ctx context.Context) AWSClientMgr {
	return &_AWSClientMgr{
		ctx:             ctx,
		s3ClientMap:     make(map[string]*s3.Client),
		configClientMap: make(map[string]*configservice.Client),
	}
}

// set aws sdk client
func (a *_AWSClientMgr) SetSDKClient(accountId string, serviceName AWSServiceName, client interface{}) error {
	log.Printf("setting [%s] client for account id [%s]", serviceName, accountId)
	if client == nil {
		return errors.New("client is nil")
	}
	switch serviceName {
	case S3: // S3 - Simple Storage Service
		{
			clientAssert, ok := client.(*s3.Client)
			if !ok {
				return errors.New("client is not an s3 client")
			}
			a.s3ClientMap[accountId] = clientAssert
		}
	case CONFIG: // CONFIG - AWS Config
		{
			clientAssert, ok := client.(*configservice.Client)
			if !ok {
				return errors.New("client is not an aws config client")
			}
			a.configClientMap[accountId] = clientAssert
		}
	default:
		{
			return errors.New("invalid service name")
		}
	}
	return nil
}

// get aws sdk client
func (a *_AWSClientMgr) GetSDKClient(accountId string, serviceName AWSServiceName) (interface{}, bool) {
	log.Printf("getting [%s] client for account id [%s]", serviceName, accountId)
	switch serviceName {
	case S3: // S3 - Simple Storage Service
		{
			client, ok := a.s3ClientMap[accountId]
			return client, ok
		}
	case CONFIG:
		{
			client, ok := a.configClientMap[accountId]
			return client, ok
		}
	default:
		{
			log.Printf("default service name case")
		}
	}
	return nil, false
}

func (a *_AWSClientMgr) GetConfigClient(accountId string) (*configservice.Client, bool) {
	client, ok := a.configClientMap[accountId]
	return client, ok
}

func (a *_AWSClientMgr) GetS3Client(accountId string) (*s3.Client, bool) {
	client, ok := a.s3ClientMap[accountId]
	return client, ok
}

// get account ids
func (a *_AWSClientMgr) GetAccountIds() []string {
	accountIds := make([]string, 0)
	for accountId := range a.configClientMap {
		accountIds = append(accountIds, accountId)
	}
	return accountIds
}
