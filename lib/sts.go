package lib

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

var stsClient *sts.Client
var stsClientLock sync.Mutex

func STSClient() *sts.Client {
	stsClientLock.Lock()
	defer stsClientLock.Unlock()
	if stsClient == nil {
		stsClient = sts.NewFromConfig(*Session())
	}
	return stsClient
}

var stsAccount *string
var stsAccountLock sync.Mutex

func StsAccount(ctx context.Context) (string, error) {
	stsAccountLock.Lock()
	defer stsAccountLock.Unlock()
	if stsAccount == nil {
		out, err := STSClient().GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return "", err
		}
		stsAccount = out.Account
	}
	return *stsAccount, nil
}

var stsArn *string
var stsArnLock sync.Mutex

func StsArn(ctx context.Context) (string, error) {
	stsArnLock.Lock()
	defer stsArnLock.Unlock()
	if stsArn == nil {
		out, err := STSClient().GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
		if err != nil {
			return "", err
		}
		stsArn = out.Arn
	}
	return *stsArn, nil
}

func StsUser(ctx context.Context) (string, error) {
	arn, err := StsArn(ctx)
	if err != nil {
		return "", err
	}
	return Last(strings.Split(arn, "/")), nil
}
