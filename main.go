package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/unrealops/uectl/lib"

	_ "github.com/unrealops/uectl/cmd/aws"
	_ "github.com/unrealops/uectl/cmd/dcv"
	_ "github.com/unrealops/uectl/cmd/deploy"
	_ "github.com/unrealops/uectl/cmd/ec2"
	_ "github.com/unrealops/uectl/cmd/gamelift"
	_ "github.com/unrealops/uectl/cmd/iam"
	_ "github.com/unrealops/uectl/cmd/installer"
	_ "github.com/unrealops/uectl/cmd/lambda"
	_ "github.com/unrealops/uectl/cmd/logs"
	_ "github.com/unrealops/uectl/cmd/s3"
	_ "github.com/unrealops/uectl/cmd/ssm"
)

func usage() {
	var fns []string
	maxLen := 0
	for k := range lib.Commands {
		fns = append(fns, k)
		if len(k) > maxLen {
			maxLen = len(k)
		}
	}
	sort.Strings(fns)
	fmtStr := "%-" + fmt.Sprint(maxLen) + "s - %s\n"
	for _, fn := range fns {
		args, ok := lib.Args[fn]
		if ok {
			fmt.Printf(fmtStr, fn, lib.ArgsDescription(args))
		} else {
			fmt.Println(fn)
		}
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	fn, ok := lib.Commands[cmd]
	if !ok {
		usage()
		os.Exit(1)
	}
	var args []string
	for _, a := range os.Args[1:] {
		if len(a) > 2 && a[0] == '-' && a[1] != '-' {
			for _, k := range a[1:] {
				args = append(args, fmt.Sprintf("-%s", string(k)))
			}
		} else {
			args = append(args, a)
		}
	}
	os.Args = args
	fn()
}
