package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient wraps the official InfluxDB v2 client for the E2E suite. The
// planning sink does its own writes; this helper only provisions the bucket
// and reads back what the sink wrote.
type InfluxClient struct {
	org    string
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a client for an already-running server.
func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{
		org:    org,
		bucket: bucket,
		client: c,
		query:  c.QueryAPI(org),
	}
}

// Query runs a Flux query and returns the raw result iterator. The caller
// iterates and closes it.
func (c *InfluxClient) Query(ctx context.Context, flux string) (*api.QueryTableResult, error) {
	return c.query.Query(ctx, flux)
}

// SetupBucket ensures the organisation and bucket exist, creating them via
// the management API when missing. It is a no-op on a pre-provisioned server.
func (c *InfluxClient) SetupBucket(ctx context.Context) error {
	orgAPI := c.client.OrganizationsAPI()
	org, err := orgAPI.FindOrganizationByName(ctx, c.org)
	if err != nil || org == nil {
		org, err = orgAPI.CreateOrganizationWithName(ctx, c.org)
		if err != nil {
			return fmt.Errorf("create org: %w", err)
		}
	}

	bucketAPI := c.client.BucketsAPI()
	buckets, err := bucketAPI.FindBucketsByOrgName(ctx, c.org)
	if err != nil {
		return err
	}
	if buckets != nil {
		for _, b := range *buckets {
			if b.Name == c.bucket {
				return nil
			}
		}
	}
	if _, err := bucketAPI.CreateBucketWithName(ctx, org, c.bucket); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
