package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

var iamClient *iam.Client
var iamClientLock sync.Mutex

func IamClient() *iam.Client {
	iamClientLock.Lock()
	defer iamClientLock.Unlock()
	if iamClient == nil {
		iamClient = iam.NewFromConfig(*Session())
	}
	return iamClient
}

// managed policies for the dev host instance profile: ssm agent plus read on
// the installer bucket via s3 readonly, plus gamelift for register-compute
// from the host itself
var DevHostPolicies = []string{
	"AmazonSSMManagedInstanceCore",
	"AmazonS3ReadOnlyAccess",
	"GameLiftFullAccess",
}

var LambdaBasicPolicies = []string{
	"service-role/AWSLambdaBasicExecutionRole",
}

func iamAssumePolicyDocument(principal string) string {
	return fmt.Sprintf(`{"Version": "2012-10-17",
                         "Statement": [{"Effect": "Allow",
                                        "Principal": {"Service": "%s.amazonaws.com"},
                                        "Action": "sts:AssumeRole"}]}`, principal)
}

func iamPolicyEqual(a, b string) (bool, error) {
	var av, bv any
	err := json.Unmarshal([]byte(a), &av)
	if err != nil {
		return false, err
	}
	err = json.Unmarshal([]byte(b), &bv)
	if err != nil {
		return false, err
	}
	aj, _ := json.Marshal(av)
	bj, _ := json.Marshal(bv)
	return string(aj) == string(bj), nil
}

func IamRoleArn(ctx context.Context, roleName string) (string, error) {
	out, err := IamClient().GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return *out.Role.Arn, nil
}

// IamEnsureRole creates the role for the principal service if missing, and
// attaches any absent managed policies.
func IamEnsureRole(ctx context.Context, roleName, principal string, policies []string, preview bool) (string, error) {
	var arn string
	out, err := IamClient().GetRole(ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	switch {
	case err == nil:
		arn = *out.Role.Arn
	case strings.Contains(err.Error(), "NoSuchEntity"):
		if preview {
			Logger.Println(PreviewString(preview)+"create role:", roleName, principal)
			return "", nil
		}
		created, err := IamClient().CreateRole(ctx, &iam.CreateRoleInput{
			RoleName:                 aws.String(roleName),
			AssumeRolePolicyDocument: aws.String(iamAssumePolicyDocument(principal)),
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		arn = *created.Role.Arn
		Logger.Println("created role:", roleName, principal)
	default:
		Logger.Println("error:", err)
		return "", err
	}
	attached := make(map[string]bool)
	var marker *string
	for {
		list, err := IamClient().ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
			RoleName: aws.String(roleName),
			Marker:   marker,
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		for _, policy := range list.AttachedPolicies {
			attached[Last(strings.Split(*policy.PolicyArn, "/"))] = true
		}
		if list.Marker == nil {
			break
		}
		marker = list.Marker
	}
	for _, policy := range policies {
		if attached[Last(strings.Split(policy, "/"))] {
			continue
		}
		if !preview {
			_, err := IamClient().AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
				RoleName:  aws.String(roleName),
				PolicyArn: aws.String("arn:aws:iam::aws:policy/" + policy),
			})
			if err != nil {
				Logger.Println("error:", err)
				return "", err
			}
		}
		Logger.Println(PreviewString(preview)+"attached policy:", roleName, policy)
	}
	return arn, nil
}

// IamEnsureInstanceProfile ensures role + profile + membership, for attaching
// to dev host instances.
func IamEnsureInstanceProfile(ctx context.Context, profileName string, policies []string, preview bool) error {
	_, err := IamEnsureRole(ctx, profileName, "ec2", policies, preview)
	if err != nil {
		return err
	}
	out, err := IamClient().GetInstanceProfile(ctx, &iam.GetInstanceProfileInput{
		InstanceProfileName: aws.String(profileName),
	})
	var profile *iamtypes.InstanceProfile
	switch {
	case err == nil:
		profile = out.InstanceProfile
	case strings.Contains(err.Error(), "NoSuchEntity"):
		if preview {
			Logger.Println(PreviewString(preview)+"create instance profile:", profileName)
			return nil
		}
		created, err := IamClient().CreateInstanceProfile(ctx, &iam.CreateInstanceProfileInput{
			InstanceProfileName: aws.String(profileName),
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		profile = created.InstanceProfile
		Logger.Println("created instance profile:", profileName)
	default:
		Logger.Println("error:", err)
		return err
	}
	for _, role := range profile.Roles {
		if *role.RoleName == profileName {
			return nil
		}
	}
	if !preview {
		_, err = IamClient().AddRoleToInstanceProfile(ctx, &iam.AddRoleToInstanceProfileInput{
			InstanceProfileName: aws.String(profileName),
			RoleName:            aws.String(profileName),
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
	}
	Logger.Println(PreviewString(preview)+"added role to instance profile:", profileName)
	return nil
}
