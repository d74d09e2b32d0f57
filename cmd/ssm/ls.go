package uectl

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ssm-ls"] = ssmLs
	lib.Args["ssm-ls"] = ssmLsArgs{}
}

type ssmLsArgs struct {
}

func (ssmLsArgs) Description() string {
	return "\nlist instances registered with ssm\n"
}

func ssmLs() {
	var args ssmLsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	instances, err := lib.SSMListInstances(ctx)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 1, 8, 1, ' ', 0)
	for _, instance := range instances {
		status := instance.PingStatus
		if status == "Online" {
			status = lib.Green(status)
		} else {
			status = lib.Red(status)
		}
		fmt.Fprintln(w, strings.Join([]string{
			instance.InstanceID,
			status,
			instance.Platform,
			instance.AgentVersion,
		}, "\t"))
	}
	err = w.Flush()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
}
