package lib

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

func TestEC2Kind(t *testing.T) {
	cases := map[string]Kind{
		"i-0123456789abcdef0":      KindInstanceID,
		"vpc-123":                  KindVpcId,
		"subnet-123":               KindSubnetID,
		"sg-123":                   KindSecurityGroupID,
		"54.12.34.56":              KindIPAddress,
		"10.0.0.5":                 KindPrivateIPAddress,
		"172.31.5.9":               KindPrivateIPAddress,
		"ec2-1-2-3-4.compute-1.amazonaws.com": KindDnsName,
		"ip-10-0-0-1.ec2.internal": KindPrivateDnsName,
		"env=dev":                  KindTags,
		"build-host":               KindTags,
	}
	for selector, kind := range cases {
		if ec2Kind(selector) != kind {
			t.Fatalf("%s: got %s, want %s", selector, ec2Kind(selector), kind)
		}
	}
}

func TestEC2NoInstancesError(t *testing.T) {
	err := EC2NoInstancesError([]string{"build-host", "env=dev"}, ec2types.InstanceStateNameStopped)
	if err.Error() != "no stopped instances matched selectors: build-host env=dev" {
		t.Fatalf("got %q", err.Error())
	}
	err = EC2NoInstancesError([]string{"i-123"}, "")
	if err.Error() != "no instances matched selectors: i-123" {
		t.Fatalf("got %q", err.Error())
	}
}

func TestEC2Name(t *testing.T) {
	tags := []ec2types.Tag{
		{Key: aws.String("env"), Value: aws.String("dev")},
		{Key: aws.String("Name"), Value: aws.String("build-host")},
	}
	if EC2Name(tags) != "build-host" {
		t.Fatalf("got %s", EC2Name(tags))
	}
	if EC2Name(nil) != "-" {
		t.Fatalf("got %s", EC2Name(nil))
	}
}

func TestEC2Tags(t *testing.T) {
	tags := []ec2types.Tag{
		{Key: aws.String("Name"), Value: aws.String("build-host")},
		{Key: aws.String("env"), Value: aws.String("dev")},
		{Key: aws.String("app"), Value: aws.String("shooter")},
	}
	if EC2Tags(tags) != "app=shooter,env=dev" {
		t.Fatalf("got %s", EC2Tags(tags))
	}
}

func TestSgRuleString(t *testing.T) {
	rule := EC2SgRule{Proto: "tcp", Port: 8443, Source: "1.2.3.4/32"}
	if rule.String() != "tcp:8443:1.2.3.4/32" {
		t.Fatalf("got %s", rule)
	}
	ranged := EC2SgRule{Proto: "udp", Port: 7777, PortLast: 7786, Source: "0.0.0.0/0"}
	if ranged.String() != "udp:7777-7786:0.0.0.0/0" {
		t.Fatalf("got %s", ranged)
	}
}

func TestDevHostSgRules(t *testing.T) {
	rules := DevHostSgRules("1.2.3.4/32")
	var rdp, game bool
	for _, rule := range rules {
		if rule.Port == PortRdp && rule.Source == "1.2.3.4/32" {
			rdp = true
		}
		if rule.Port == PortGameFirst && rule.PortLast == PortGameLast {
			game = true
		}
	}
	if !rdp || !game {
		t.Fatalf("rules %v", rules)
	}
}
