package lib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

var logsClient *cloudwatchlogs.Client
var logsClientLock sync.Mutex

func LogsClient() *cloudwatchlogs.Client {
	logsClientLock.Lock()
	defer logsClientLock.Unlock()
	if logsClient == nil {
		logsClient = cloudwatchlogs.NewFromConfig(*Session())
	}
	return logsClient
}

func LogsListGroups(ctx context.Context, prefix string) ([]logstypes.LogGroup, error) {
	var groups []logstypes.LogGroup
	var token *string
	for {
		input := &cloudwatchlogs.DescribeLogGroupsInput{
			NextToken: token,
		}
		if prefix != "" {
			input.LogGroupNamePrefix = aws.String(prefix)
		}
		out, err := LogsClient().DescribeLogGroups(ctx, input)
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		groups = append(groups, out.LogGroups...)
		if out.NextToken == nil {
			break
		}
		token = out.NextToken
	}
	return groups, nil
}

// LogsTail prints events from a group, optionally following. The follow loop
// is the usual poll: remember the last timestamp, sleep, fetch newer.
func LogsTail(ctx context.Context, group string, follow bool, since time.Duration) error {
	start := time.Now().Add(-since).UnixMilli()
	seen := make(map[string]bool)
	for {
		var token *string
		for {
			out, err := LogsClient().FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
				LogGroupName: aws.String(group),
				StartTime:    aws.Int64(start),
				NextToken:    token,
			})
			if err != nil {
				Logger.Println("error:", err)
				return err
			}
			for _, event := range out.Events {
				if seen[*event.EventId] {
					continue
				}
				seen[*event.EventId] = true
				ts := time.UnixMilli(*event.Timestamp).UTC().Format(time.RFC3339)
				fmt.Println(ts, *event.Message)
				if *event.Timestamp > start {
					start = *event.Timestamp
				}
			}
			if out.NextToken == nil {
				break
			}
			token = out.NextToken
		}
		if !follow {
			return nil
		}
		time.Sleep(2 * time.Second)
	}
}
