package awsclientmgr

type AWSServiceName string

const (
	S3     AWSServiceName = "S3"
	CONFIG AWSServiceName = "AWS Config"
)
