package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["aws-whoami"] = awsWhoami
	lib.Args["aws-whoami"] = awsWhoamiArgs{}
}

type awsWhoamiArgs struct {
}

func (awsWhoamiArgs) Description() string {
	return "\nprint account, arn, and region for the current credentials\n"
}

func awsWhoami() {
	var args awsWhoamiArgs
	arg.MustParse(&args)
	ctx := context.Background()
	account, err := lib.StsAccount(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	arn, err := lib.StsArn(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	user, err := lib.StsUser(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(account)
	fmt.Println(arn)
	fmt.Println(user)
	fmt.Println(lib.Region())
}
