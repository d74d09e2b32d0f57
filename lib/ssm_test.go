package lib

import (
	"testing"

	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

func TestSSMStatusTerminal(t *testing.T) {
	terminal := []ssmtypes.CommandInvocationStatus{
		ssmtypes.CommandInvocationStatusSuccess,
		ssmtypes.CommandInvocationStatusFailed,
		ssmtypes.CommandInvocationStatusTimedOut,
		ssmtypes.CommandInvocationStatusCancelled,
	}
	for _, status := range terminal {
		if !SSMStatusTerminal(status) {
			t.Fatalf("expected terminal: %s", status)
		}
	}
	pending := []ssmtypes.CommandInvocationStatus{
		ssmtypes.CommandInvocationStatusPending,
		ssmtypes.CommandInvocationStatusInProgress,
		ssmtypes.CommandInvocationStatusDelayed,
		ssmtypes.CommandInvocationStatusCancelling,
	}
	for _, status := range pending {
		if SSMStatusTerminal(status) {
			t.Fatalf("expected not terminal: %s", status)
		}
	}
}
