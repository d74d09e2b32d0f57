package uectl

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/unrealops/uectl/lib"
)

func init() {
	lib.Commands["ssm-run"] = ssmRun
	lib.Args["ssm-run"] = ssmRunArgs{}
}

type ssmRunArgs struct {
	InstanceID string `arg:"positional,required"`
	Cmd        string `arg:"-c,--cmd" help:"script text, or - to read stdin"`
	Shell      bool   `arg:"--shell" default:"false" help:"AWS-RunShellScript instead of powershell"`
	Timeout    int    `arg:"-t,--timeout" default:"600" help:"seconds to monitor before abandoning"`
}

func (ssmRunArgs) Description() string {
	return "\nrun a script on an instance via ssm and wait for it\n"
}

func ssmRun() {
	var args ssmRunArgs
	arg.MustParse(&args)
	ctx := context.Background()
	script := args.Cmd
	if script == "-" || script == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		script = string(data)
	}
	var commandID string
	var err error
	if args.Shell {
		commandID, err = lib.SSMRunShell(ctx, args.InstanceID, script)
	} else {
		commandID, err = lib.SSMRunPowerShell(ctx, args.InstanceID, script)
	}
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	result, err := lib.SSMWaitCommand(ctx, commandID, args.InstanceID, time.Duration(args.Timeout)*time.Second)
	if err != nil {
		if result != nil && result.Stderr != "" {
			fmt.Fprint(os.Stderr, result.Stderr)
		}
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Print(result.Stdout)
}
