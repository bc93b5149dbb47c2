package aws

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/costwatch/ec2cost/internal/models"
	"github.com/costwatch/ec2cost/pkg/utils"
)

// LifecycleTag is the instance tag consulted for pricing models the
// EC2 API itself does not expose. DescribeInstances reports spot
// lifecycle directly, but reserved coverage is a billing construct, so
// fleets mark reserved-covered instances with this tag.
const LifecycleTag = "Lifecycle"

// EC2Client is the inventory provider for one region.
type EC2Client struct {
	client *ec2.Client
	region string
}

// NewEC2Client creates an EC2 inventory client for a region. An empty
// profile uses the default credential chain.
func NewEC2Client(ctx context.Context, region, profile string) (*EC2Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return &EC2Client{
		client: ec2.NewFromConfig(cfg),
		region: region,
	}, nil
}

// GetInstances returns a snapshot of every EC2 instance in the region,
// in all lifecycle states. Filtering to running instances is the cost
// aggregator's job, not the inventory's.
func (c *EC2Client) GetInstances(ctx context.Context) ([]models.Instance, error) {
	var instances []models.Instance

	paginator := ec2.NewDescribeInstancesPaginator(c.client, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				instances = append(instances, c.toModel(instance))
			}
		}
	}

	return instances, nil
}

// toModel maps one SDK instance to the inventory snapshot type.
func (c *EC2Client) toModel(instance types.Instance) models.Instance {
	tags := utils.GetTagsMap(instance.Tags)

	inst := models.Instance{
		InstanceID:   utils.SafeDeref(instance.InstanceId),
		Name:         utils.GetName(instance.Tags),
		InstanceType: string(instance.InstanceType),
		Model:        pricingModelOf(instance, tags),
		Tags:         tags,
		Region:       c.region,
	}

	if instance.State != nil {
		inst.State = string(instance.State.Name)
	}
	if instance.Placement != nil {
		inst.AvailabilityZone = utils.SafeDeref(instance.Placement.AvailabilityZone)
	}
	if instance.LaunchTime != nil {
		inst.LaunchTime = *instance.LaunchTime
	}

	return inst
}

// pricingModelOf determines how an instance is billed. The API-level
// lifecycle field wins (spot/scheduled); otherwise the Lifecycle tag
// decides. Unrecognized tag values are billed as on-demand with a
// warning, since an unknown model never gets a discount.
func pricingModelOf(instance types.Instance, tags map[string]string) models.PricingModel {
	if instance.InstanceLifecycle == types.InstanceLifecycleTypeSpot {
		return models.ModelSpot
	}

	tagValue := tags[LifecycleTag]
	model, known := models.ParsePricingModel(tagValue)
	if !known {
		log.Printf("Warning: unknown %s tag value %q on instance %s, pricing as on-demand",
			LifecycleTag, tagValue, utils.SafeDeref(instance.InstanceId))
	}
	return model
}
