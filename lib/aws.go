package lib

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

var sess *aws.Config
var sessLock sync.Mutex

func Session() *aws.Config {
	sessLock.Lock()
	defer sessLock.Unlock()
	if sess == nil {
		cfg, err := config.LoadDefaultConfig(context.Background(),
			config.WithRetryer(func() aws.Retryer {
				return retry.AddWithMaxAttempts(retry.NewStandard(), 5)
			}),
		)
		if err != nil {
			panic(err)
		}
		sess = &cfg
	}
	return sess
}

func Region() string {
	return Session().Region
}

func Zones(ctx context.Context) ([]ec2types.AvailabilityZone, error) {
	out, err := EC2Client().DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return out.AvailabilityZones, nil
}
