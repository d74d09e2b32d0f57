package lib

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const (
	// ports a UE5 dev host needs reachable: RDP, DCV, and the game server range
	PortRdp       = 3389
	PortDcv       = 8443
	PortGameFirst = 7777
	PortGameLast  = 7786
)

var ec2Client *ec2.Client
var ec2ClientLock sync.Mutex

func EC2Client() *ec2.Client {
	ec2ClientLock.Lock()
	defer ec2ClientLock.Unlock()
	if ec2Client == nil {
		ec2Client = ec2.NewFromConfig(*Session())
	}
	return ec2Client
}

type Kind string

const (
	KindTags             Kind = "tags"
	KindDnsName          Kind = "dns-name"
	KindVpcId            Kind = "vpc-id"
	KindSubnetID         Kind = "subnet-id"
	KindSecurityGroupID  Kind = "instance.group-id"
	KindPrivateDnsName   Kind = "private-dns-name"
	KindIPAddress        Kind = "ip-address"
	KindPrivateIPAddress Kind = "private-ip-address"
	KindInstanceID       Kind = "instance-id"
)

func isIPAddress(s string) bool {
	for _, c := range s {
		if c != '.' {
			_, err := strconv.Atoi(string(c))
			if err != nil {
				return false
			}
		}
	}
	return true
}

func ec2Kind(selector string) Kind {
	switch {
	case strings.HasPrefix(selector, "i-"):
		return KindInstanceID
	case strings.HasPrefix(selector, "vpc-"):
		return KindVpcId
	case strings.HasPrefix(selector, "subnet-"):
		return KindSubnetID
	case strings.HasPrefix(selector, "sg-"):
		return KindSecurityGroupID
	case isIPAddress(selector):
		// ip-address only matches public ips, vpc addresses need private-ip-address
		part := strings.Split(selector, ".")[0]
		if part == "10" || part == "172" {
			return KindPrivateIPAddress
		}
		return KindIPAddress
	case strings.HasSuffix(selector, ".amazonaws.com"):
		return KindDnsName
	case strings.HasSuffix(selector, ".internal"):
		return KindPrivateDnsName
	case strings.Contains(selector, "="):
		return KindTags
	default:
		// bare name matches the Name tag
		return KindTags
	}
}

// EC2ListInstances resolves instances by instance-id, tag k=v, bare Name tag,
// ip-address, dns-name, vpc-id, subnet-id, or security-group-id. All selectors
// in one call must resolve the same way.
func EC2ListInstances(ctx context.Context, selectors []string, state ec2types.InstanceStateName) ([]ec2types.Instance, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "EC2ListInstances"}
		d.Start()
		defer d.End()
	}
	var filters []ec2types.Filter
	if state != "" {
		filters = append(filters, ec2types.Filter{
			Name:   aws.String("instance-state-name"),
			Values: []string{string(state)},
		})
	}
	input := &ec2.DescribeInstancesInput{Filters: filters}
	if len(selectors) > 0 {
		kind := ec2Kind(selectors[0])
		for _, selector := range selectors[1:] {
			if ec2Kind(selector) != kind {
				err := fmt.Errorf("selectors must all be the same kind: %s != %s", kind, ec2Kind(selector))
				Logger.Println("error:", err)
				return nil, err
			}
		}
		switch kind {
		case KindInstanceID:
			input.InstanceIds = selectors
		case KindTags:
			for _, selector := range selectors {
				k, v, ok := strings.Cut(selector, "=")
				if !ok {
					k, v = "Name", selector
				}
				input.Filters = append(input.Filters, ec2types.Filter{
					Name:   aws.String("tag:" + k),
					Values: []string{v},
				})
			}
		default:
			input.Filters = append(input.Filters, ec2types.Filter{
				Name:   aws.String(string(kind)),
				Values: selectors,
			})
		}
	}
	var instances []ec2types.Instance
	var nextToken *string
	for {
		input.NextToken = nextToken
		var out *ec2.DescribeInstancesOutput
		err := Retry(ctx, func() error {
			var err error
			out, err = EC2Client().DescribeInstances(ctx, input)
			return err
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		for _, reservation := range out.Reservations {
			instances = append(instances, reservation.Instances...)
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].LaunchTime.After(*instances[j].LaunchTime)
	})
	return instances, nil
}

// EC2NoInstancesError names the selectors so a typo shows up in the message.
func EC2NoInstancesError(selectors []string, state ec2types.InstanceStateName) error {
	what := "instances"
	if state != "" {
		what = string(state) + " instances"
	}
	return fmt.Errorf("no %s matched selectors: %s", what, strings.Join(selectors, " "))
}

func EC2Name(tags []ec2types.Tag) string {
	for _, tag := range tags {
		if *tag.Key == "Name" {
			return *tag.Value
		}
	}
	return "-"
}

func EC2Tags(tags []ec2types.Tag) string {
	var res []string
	for _, tag := range tags {
		if !Contains([]string{"Name", "creation-date", "user"}, *tag.Key) {
			res = append(res, fmt.Sprintf("%s=%s", *tag.Key, *tag.Value))
		}
	}
	sort.Strings(res)
	return strings.Join(res, ",")
}

func EC2NameColored(instance ec2types.Instance) string {
	name := EC2Name(instance.Tags)
	switch instance.State.Name {
	case ec2types.InstanceStateNameRunning:
		name = Green(name)
	case ec2types.InstanceStateNamePending:
		name = Cyan(name)
	default:
		name = Red(name)
	}
	return name
}

// EC2WaitState polls until every instance reaches the state, or the timeout
// lapses. The underlying AWS operation continues either way.
func EC2WaitState(ctx context.Context, instanceIDs []string, state ec2types.InstanceStateName, timeout time.Duration) error {
	start := time.Now()
	for {
		instances, err := EC2ListInstances(ctx, instanceIDs, "")
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		pending := 0
		for _, instance := range instances {
			if instance.State.Name != state {
				pending++
			}
		}
		if len(instances) == len(instanceIDs) && pending == 0 {
			return nil
		}
		if time.Since(start) > timeout {
			err := fmt.Errorf("ec2 wait state %s timed out after %s: %v", state, time.Since(start).Round(time.Second), instanceIDs)
			Logger.Println("error:", err)
			return err
		}
		Logger.Println("waiting for", state+":", pending, "of", len(instanceIDs), "pending")
		time.Sleep(5 * time.Second)
	}
}

// EC2WaitStatusOk waits for running state plus both status checks passing,
// which is when a fresh Windows instance is actually usable.
func EC2WaitStatusOk(ctx context.Context, instanceIDs []string, timeout time.Duration) error {
	err := EC2WaitState(ctx, instanceIDs, ec2types.InstanceStateNameRunning, timeout)
	if err != nil {
		return err
	}
	start := time.Now()
	for {
		var out *ec2.DescribeInstanceStatusOutput
		err := Retry(ctx, func() error {
			var err error
			out, err = EC2Client().DescribeInstanceStatus(ctx, &ec2.DescribeInstanceStatusInput{
				InstanceIds: instanceIDs,
			})
			return err
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		pending := len(instanceIDs)
		for _, status := range out.InstanceStatuses {
			if status.InstanceStatus.Status == ec2types.SummaryStatusOk &&
				status.SystemStatus.Status == ec2types.SummaryStatusOk {
				pending--
			}
		}
		if pending == 0 {
			return nil
		}
		if time.Since(start) > timeout {
			err := fmt.Errorf("ec2 wait status-ok timed out after %s: %v", time.Since(start).Round(time.Second), instanceIDs)
			Logger.Println("error:", err)
			return err
		}
		Logger.Println("waiting for status checks:", pending, "of", len(instanceIDs), "pending")
		time.Sleep(15 * time.Second)
	}
}

// EC2WindowsPassword fetches and decrypts the initial Administrator password
// using the RSA keypair the instance was launched with.
func EC2WindowsPassword(ctx context.Context, instanceID, keyPath string) (string, error) {
	var out *ec2.GetPasswordDataOutput
	err := Retry(ctx, func() error {
		var err error
		out, err = EC2Client().GetPasswordData(ctx, &ec2.GetPasswordDataInput{
			InstanceId: aws.String(instanceID),
		})
		return err
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	if out.PasswordData == nil || *out.PasswordData == "" {
		err := fmt.Errorf("password not yet available for %s, windows instances take a few minutes after launch", instanceID)
		Logger.Println("error:", err)
		return "", err
	}
	encrypted, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*out.PasswordData))
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	pem, err := os.ReadFile(keyPath)
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	rawKey, err := ssh.ParseRawPrivateKey(pem)
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	rsaKey, ok := rawKey.(*rsa.PrivateKey)
	if !ok {
		err := fmt.Errorf("keypair must be rsa to decrypt windows passwords: %s", keyPath)
		Logger.Println("error:", err)
		return "", err
	}
	password, err := rsa.DecryptPKCS1v15(nil, rsaKey, encrypted)
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return string(password), nil
}

// EC2EnsureKeypair imports the local public key, replacing a remote keypair
// whose fingerprint no longer matches.
func EC2EnsureKeypair(ctx context.Context, name, pubKeyPath string, preview bool) error {
	pubKeyBytes, err := os.ReadFile(pubKeyPath)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	pubKey, _, _, _, err := ssh.ParseAuthorizedKey(pubKeyBytes)
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	localFingerprint := ssh.FingerprintLegacyMD5(pubKey)
	out, err := EC2Client().DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("key-name"), Values: []string{name}},
		},
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	if len(out.KeyPairs) == 1 {
		if *out.KeyPairs[0].KeyFingerprint == localFingerprint {
			return nil
		}
		if !preview {
			_, err := EC2Client().DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{
				KeyName: aws.String(name),
			})
			if err != nil {
				Logger.Println("error:", err)
				return err
			}
		}
		Logger.Println(PreviewString(preview)+"deleted stale keypair:", name, *out.KeyPairs[0].KeyFingerprint)
	}
	if !preview {
		_, err = EC2Client().ImportKeyPair(ctx, &ec2.ImportKeyPairInput{
			KeyName:           aws.String(name),
			PublicKeyMaterial: pubKeyBytes,
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
	}
	Logger.Println(PreviewString(preview)+"imported keypair:", name, localFingerprint)
	return nil
}

type EC2SgRule struct {
	Proto    string
	Port     int
	PortLast int
	Source   string
}

func (r EC2SgRule) String() string {
	if r.PortLast != 0 && r.PortLast != r.Port {
		return fmt.Sprintf("%s:%d-%d:%s", r.Proto, r.Port, r.PortLast, r.Source)
	}
	return fmt.Sprintf("%s:%d:%s", r.Proto, r.Port, r.Source)
}

// DevHostSgRules is the ingress set for a UE5 dev host: RDP and DCV over tcp,
// DCV QUIC over udp, and the dedicated server port range.
func DevHostSgRules(cidr string) []EC2SgRule {
	return []EC2SgRule{
		{Proto: "tcp", Port: PortRdp, Source: cidr},
		{Proto: "tcp", Port: PortDcv, Source: cidr},
		{Proto: "udp", Port: PortDcv, Source: cidr},
		{Proto: "udp", Port: PortGameFirst, PortLast: PortGameLast, Source: "0.0.0.0/0"},
		{Proto: "tcp", Port: PortGameFirst, PortLast: PortGameLast, Source: "0.0.0.0/0"},
	}
}

// EC2EnsureSg creates the security group if missing and authorizes any absent
// ingress rules. Already-present rules are left alone, extras are not revoked.
func EC2EnsureSg(ctx context.Context, vpcID, name string, rules []EC2SgRule, preview bool) (string, error) {
	out, err := EC2Client().DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("group-name"), Values: []string{name}},
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	var sgID string
	switch len(out.SecurityGroups) {
	case 0:
		if preview {
			Logger.Println(PreviewString(preview)+"create security group:", name, vpcID)
			return "", nil
		}
		created, err := EC2Client().CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
			GroupName:   aws.String(name),
			Description: aws.String(name),
			VpcId:       aws.String(vpcID),
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		sgID = *created.GroupId
		Logger.Println("created security group:", name, sgID)
	case 1:
		sgID = *out.SecurityGroups[0].GroupId
	default:
		err := fmt.Errorf("more than one security group named %s in %s", name, vpcID)
		Logger.Println("error:", err)
		return "", err
	}
	have := make(map[string]bool)
	if len(out.SecurityGroups) == 1 {
		for _, perm := range out.SecurityGroups[0].IpPermissions {
			for _, r := range perm.IpRanges {
				rule := EC2SgRule{
					Proto:    StringOr(perm.IpProtocol, ""),
					Port:     int(aws.ToInt32(perm.FromPort)),
					PortLast: int(aws.ToInt32(perm.ToPort)),
					Source:   StringOr(r.CidrIp, ""),
				}
				have[rule.String()] = true
			}
		}
	}
	for _, rule := range rules {
		if rule.PortLast == 0 {
			rule.PortLast = rule.Port
		}
		if have[rule.String()] {
			continue
		}
		if !preview {
			_, err := EC2Client().AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
				GroupId:    aws.String(sgID),
				IpProtocol: aws.String(rule.Proto),
				FromPort:   aws.Int32(int32(rule.Port)),
				ToPort:     aws.Int32(int32(rule.PortLast)),
				CidrIp:     aws.String(rule.Source),
			})
			if err != nil {
				Logger.Println("error:", err)
				return "", err
			}
		}
		Logger.Println(PreviewString(preview)+"authorized ingress:", rule)
	}
	return sgID, nil
}
