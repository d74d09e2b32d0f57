package uectl

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["logs-ls"] = logsLs
	lib.Args["logs-ls"] = logsLsArgs{}
}

type logsLsArgs struct {
	Prefix string `arg:"positional"`
}

func (logsLsArgs) Description() string {
	return "\nlist log groups\n"
}

func logsLs() {
	var args logsLsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	groups, err := lib.LogsListGroups(ctx, args.Prefix)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	for _, group := range groups {
		fmt.Println(*group.LogGroupName)
	}
}
