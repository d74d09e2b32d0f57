package uectl

import (
	"context"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["logs-tail"] = logsTail
	lib.Args["logs-tail"] = logsTailArgs{}
}

type logsTailArgs struct {
	Group  string `arg:"positional,required"`
	Follow bool   `arg:"-f,--follow" default:"false"`
	Since  int    `arg:"-s,--since" default:"600" help:"seconds of history"`
}

func (logsTailArgs) Description() string {
	return "\ntail a cloudwatch log group\n"
}

func logsTail() {
	var args logsTailArgs
	arg.MustParse(&args)
	ctx := context.Background()
	err := lib.LogsTail(ctx, args.Group, args.Follow, time.Duration(args.Since)*time.Second)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
