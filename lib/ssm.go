package lib

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

const (
	ssmPollInterval = 5 * time.Second

	ssmDocPowerShell = "AWS-RunPowerShellScript"
	ssmDocShell      = "AWS-RunShellScript"
)

var ssmClient *ssm.Client
var ssmClientLock sync.Mutex

func SSMClient() *ssm.Client {
	ssmClientLock.Lock()
	defer ssmClientLock.Unlock()
	if ssmClient == nil {
		ssmClient = ssm.NewFromConfig(*Session())
	}
	return ssmClient
}

// SSMStatusTerminal reports whether a command invocation status will never
// change again.
func SSMStatusTerminal(status ssmtypes.CommandInvocationStatus) bool {
	switch status {
	case ssmtypes.CommandInvocationStatusSuccess,
		ssmtypes.CommandInvocationStatusFailed,
		ssmtypes.CommandInvocationStatusTimedOut,
		ssmtypes.CommandInvocationStatusCancelled:
		return true
	default:
		return false
	}
}

// SSMWaitOnline polls DescribeInstanceInformation until every instance id
// reports PingStatus Online. A stopped or agentless instance never shows up,
// so the timeout is the only exit in that case.
func SSMWaitOnline(ctx context.Context, instanceIDs []string, timeout time.Duration) error {
	if doDebug {
		d := &Debug{start: time.Now(), name: "SSMWaitOnline"}
		d.Start()
		defer d.End()
	}
	start := time.Now()
	for {
		online := make(map[string]bool)
		var nextToken *string
		for {
			var out *ssm.DescribeInstanceInformationOutput
			err := Retry(ctx, func() error {
				var err error
				out, err = SSMClient().DescribeInstanceInformation(ctx, &ssm.DescribeInstanceInformationInput{
					Filters: []ssmtypes.InstanceInformationStringFilter{
						{Key: aws.String("InstanceIds"), Values: instanceIDs},
					},
					NextToken: nextToken,
				})
				return err
			})
			if err != nil {
				Logger.Println("error:", err)
				return err
			}
			for _, info := range out.InstanceInformationList {
				if info.PingStatus == ssmtypes.PingStatusOnline {
					online[*info.InstanceId] = true
				}
			}
			if out.NextToken == nil {
				break
			}
			nextToken = out.NextToken
		}
		var pending []string
		for _, id := range instanceIDs {
			if !online[id] {
				pending = append(pending, id)
			}
		}
		if len(pending) == 0 {
			return nil
		}
		if time.Since(start) > timeout {
			err := fmt.Errorf("ssm wait online timed out after %s, still offline: %s",
				time.Since(start).Round(time.Second), strings.Join(pending, " "))
			Logger.Println("error:", err)
			return err
		}
		Logger.Println("waiting for ssm agent:", strings.Join(pending, " "))
		time.Sleep(ssmPollInterval)
	}
}

func SSMSendCommand(ctx context.Context, instanceID, document string, commands []string) (string, error) {
	var out *ssm.SendCommandOutput
	err := Retry(ctx, func() error {
		var err error
		out, err = SSMClient().SendCommand(ctx, &ssm.SendCommandInput{
			InstanceIds:  []string{instanceID},
			DocumentName: aws.String(document),
			Parameters: map[string][]string{
				"commands": commands,
			},
		})
		return err
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	commandID := *out.Command.CommandId
	Logger.Println("sent command:", commandID, "to:", instanceID)
	return commandID, nil
}

func SSMRunPowerShell(ctx context.Context, instanceID, script string) (string, error) {
	return SSMSendCommand(ctx, instanceID, ssmDocPowerShell, strings.Split(script, "\n"))
}

func SSMRunShell(ctx context.Context, instanceID, script string) (string, error) {
	return SSMSendCommand(ctx, instanceID, ssmDocShell, strings.Split(script, "\n"))
}

type SSMResult struct {
	Status ssmtypes.CommandInvocationStatus
	Stdout string
	Stderr string
}

// SSMWaitCommand polls the invocation every few seconds until a terminal
// status or the timeout. On timeout the command keeps running on the
// instance, monitoring is simply abandoned.
func SSMWaitCommand(ctx context.Context, commandID, instanceID string, timeout time.Duration) (*SSMResult, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "SSMWaitCommand"}
		d.Start()
		defer d.End()
	}
	start := time.Now()
	lastStatus := ssmtypes.CommandInvocationStatus("")
	for {
		var out *ssm.GetCommandInvocationOutput
		err := Retry(ctx, func() error {
			var err error
			out, err = SSMClient().GetCommandInvocation(ctx, &ssm.GetCommandInvocationInput{
				CommandId:  aws.String(commandID),
				InstanceId: aws.String(instanceID),
			})
			// InvocationDoesNotExist right after SendCommand resolves on retry
			return err
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		if out.Status != lastStatus {
			Logger.Println("command", commandID+":", out.Status)
			lastStatus = out.Status
		}
		if SSMStatusTerminal(out.Status) {
			result := &SSMResult{
				Status: out.Status,
				Stdout: StringOr(out.StandardOutputContent, ""),
				Stderr: StringOr(out.StandardErrorContent, ""),
			}
			if out.Status != ssmtypes.CommandInvocationStatusSuccess {
				err := fmt.Errorf("command %s on %s: %s\n%s", commandID, instanceID, out.Status, result.Stderr)
				Logger.Println("error:", err)
				return result, err
			}
			return result, nil
		}
		if time.Since(start) > timeout {
			err := fmt.Errorf("command %s on %s still %s after %s, abandoning monitor",
				commandID, instanceID, out.Status, time.Since(start).Round(time.Second))
			Logger.Println("error:", err)
			return nil, err
		}
		time.Sleep(ssmPollInterval)
	}
}

// SSMRunAndWait sends a powershell script and waits for it, returning stdout.
func SSMRunAndWait(ctx context.Context, instanceID, script string, timeout time.Duration) (string, error) {
	commandID, err := SSMRunPowerShell(ctx, instanceID, script)
	if err != nil {
		return "", err
	}
	result, err := SSMWaitCommand(ctx, commandID, instanceID, timeout)
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

type SSMInstance struct {
	InstanceID   string
	PingStatus   string
	Platform     string
	AgentVersion string
}

func SSMListInstances(ctx context.Context) ([]SSMInstance, error) {
	var instances []SSMInstance
	var nextToken *string
	for {
		var out *ssm.DescribeInstanceInformationOutput
		err := Retry(ctx, func() error {
			var err error
			out, err = SSMClient().DescribeInstanceInformation(ctx, &ssm.DescribeInstanceInformationInput{
				NextToken: nextToken,
			})
			return err
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		for _, info := range out.InstanceInformationList {
			instances = append(instances, SSMInstance{
				InstanceID:   StringOr(info.InstanceId, "-"),
				PingStatus:   string(info.PingStatus),
				Platform:     strings.TrimSpace(StringOr(info.PlatformName, "-") + " " + StringOr(info.PlatformVersion, "")),
				AgentVersion: StringOr(info.AgentVersion, "-"),
			})
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	return instances, nil
}
