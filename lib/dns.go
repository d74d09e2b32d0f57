package lib

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
)

var r53Client *route53.Client
var r53ClientLock sync.Mutex

func Route53Client() *route53.Client {
	r53ClientLock.Lock()
	defer r53ClientLock.Unlock()
	if r53Client == nil {
		r53Client = route53.NewFromConfig(*Session())
	}
	return r53Client
}

// DnsZoneID finds the hosted zone owning name, preferring the longest match.
func DnsZoneID(ctx context.Context, name string) (string, error) {
	name = strings.TrimSuffix(name, ".") + "."
	var best *r53types.HostedZone
	var marker *string
	for {
		out, err := Route53Client().ListHostedZones(ctx, &route53.ListHostedZonesInput{
			Marker: marker,
		})
		if err != nil {
			Logger.Println("error:", err)
			return "", err
		}
		for _, zone := range out.HostedZones {
			if strings.HasSuffix(name, *zone.Name) {
				if best == nil || len(*zone.Name) > len(*best.Name) {
					best = &zone
				}
			}
		}
		if !out.IsTruncated {
			break
		}
		marker = out.NextMarker
	}
	if best == nil {
		err := fmt.Errorf("no hosted zone found for: %s", name)
		Logger.Println("error:", err)
		return "", err
	}
	return Last(strings.Split(*best.Id, "/")), nil
}

// DnsUpsertA points name at ip, for reaching a dcv host by name instead of a
// fresh public ip every boot.
func DnsUpsertA(ctx context.Context, name, ip string, preview bool) error {
	zoneID, err := DnsZoneID(ctx, name)
	if err != nil {
		return err
	}
	if !preview {
		_, err = Route53Client().ChangeResourceRecordSets(ctx, &route53.ChangeResourceRecordSetsInput{
			HostedZoneId: aws.String(zoneID),
			ChangeBatch: &r53types.ChangeBatch{
				Changes: []r53types.Change{{
					Action: r53types.ChangeActionUpsert,
					ResourceRecordSet: &r53types.ResourceRecordSet{
						Name:            aws.String(name),
						Type:            r53types.RRTypeA,
						TTL:             aws.Int64(60),
						ResourceRecords: []r53types.ResourceRecord{{Value: aws.String(ip)}},
					},
				}},
			},
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
	}
	Logger.Println(PreviewString(preview)+"upserted:", name, "A", ip)
	return nil
}
