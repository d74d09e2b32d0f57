package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["iam-ensure-instance-profile"] = iamEnsureInstanceProfile
	lib.Args["iam-ensure-instance-profile"] = iamEnsureInstanceProfileArgs{}
}

type iamEnsureInstanceProfileArgs struct {
	Name     string   `arg:"positional,required"`
	Policies []string `arg:"--policy,separate" help:"extra managed policy names, repeatable"`
	Preview  bool     `arg:"-p,--preview" default:"false"`
}

func (iamEnsureInstanceProfileArgs) Description() string {
	return "\nensure the dev host instance profile: ssm, s3 read, gamelift\n"
}

func iamEnsureInstanceProfile() {
	var args iamEnsureInstanceProfileArgs
	arg.MustParse(&args)
	ctx := context.Background()
	policies := append([]string{}, lib.DevHostPolicies...)
	policies = append(policies, args.Policies...)
	err := lib.IamEnsureInstanceProfile(ctx, args.Name, policies, args.Preview)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	if !args.Preview {
		arn, err := lib.IamRoleArn(ctx, args.Name)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		fmt.Println(arn)
	}
}
