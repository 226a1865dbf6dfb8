package aws

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwlTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/spatocode/preview"
	"github.com/spatocode/preview/internal/log"
)

const (
	InvocationMetric = "Invocations"
	ErrorMetric      = "Errors"
)

// CloudWatch is the AWS Cloudwatch operations
type CloudWatch struct {
	log      *cloudwatchlogs.Client
	client   *cloudwatch.Client
	interval time.Duration
}

// NewCloudWatch creates a new AWS Cloudwatch
func NewCloudWatch(awsConfig aws.Config) *CloudWatch {
	return &CloudWatch{
		log:      cloudwatchlogs.NewFromConfig(awsConfig),
		client:   cloudwatch.NewFromConfig(awsConfig),
		interval: time.Second,
	}
}

// LogGroup is the log group Lambda writes a function's output to.
func LogGroup(function string) string {
	return fmt.Sprintf("/aws/lambda/%s", function)
}

// Watch prints the events of a log group. With follow it keeps polling for
// new events until ctx is done.
func (c *CloudWatch) Watch(ctx context.Context, group string, follow bool) error {
	startTime := time.Now().Add(-24*time.Hour).UnixNano() / int64(time.Millisecond)
	prevStart := startTime - 1
	for {
		logsEvents, err := c.getLogs(ctx, group, startTime)
		if err != nil {
			return err
		}
		var filteredLogs []cwlTypes.FilteredLogEvent
		for _, event := range logsEvents {
			if *event.Timestamp > prevStart {
				filteredLogs = append(filteredLogs, event)
			}
		}
		c.printLogs(filteredLogs)
		if filteredLogs != nil {
			prevStart = *filteredLogs[len(filteredLogs)-1].Timestamp
		}
		if !follow {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.interval):
		}
	}
}

// printLogs prints the cloudwatch logs to stdout
func (c *CloudWatch) printLogs(logs []cwlTypes.FilteredLogEvent) {
	for _, l := range logs {
		message := l.Message
		time := time.Unix(*l.Timestamp/1000, 0)
		if strings.Contains(*message, "START RequestId") ||
			strings.Contains(*message, "REPORT RequestId") ||
			strings.Contains(*message, "END RequestId") {
			continue
		}
		log.PrintfInfo("[%s] %s\n", time, strings.TrimSpace(*message))
	}
}

// getLogs gets the events of the most recent log streams, oldest first. A
// group that does not exist yet has no events.
func (c *CloudWatch) getLogs(ctx context.Context, name string, startTime int64) ([]cwlTypes.FilteredLogEvent, error) {
	var (
		streamNames []string
		response    *cloudwatchlogs.FilterLogEventsOutput
		logEvents   []cwlTypes.FilteredLogEvent
	)

	streams, err := c.getLogStreams(ctx, name)
	if err != nil {
		var rnfErr *cwlTypes.ResourceNotFoundException
		if errors.As(err, &rnfErr) {
			log.Debug(fmt.Sprintf("log group %s not found", name))
			return nil, nil
		}
		return nil, err
	}
	if len(streams) == 0 {
		return nil, nil
	}

	for _, stream := range streams {
		streamNames = append(streamNames, *stream.LogStreamName)
	}

	for response == nil || response.NextToken != nil {
		response, err = c.filterLogEvents(ctx, name, streamNames, startTime, response)
		if err != nil {
			return nil, err
		}
		logEvents = append(logEvents, response.Events...)
	}
	sort.SliceStable(logEvents, func(i int, j int) bool {
		return *logEvents[i].Timestamp < *logEvents[j].Timestamp
	})
	return logEvents, nil
}

// filterLogEvents filters the necessary log events
func (c *CloudWatch) filterLogEvents(ctx context.Context, logName string, streamNames []string, startTime int64, logEvents *cloudwatchlogs.FilterLogEventsOutput) (*cloudwatchlogs.FilterLogEventsOutput, error) {
	logEventsInput := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName:   aws.String(logName),
		LogStreamNames: streamNames,
		StartTime:      aws.Int64(startTime),
		EndTime:        aws.Int64(time.Now().UnixNano() / int64(time.Millisecond)),
		Limit:          aws.Int32(10000),
	}
	if logEvents != nil && logEvents.NextToken != nil {
		logEventsInput.NextToken = logEvents.NextToken
	}
	return c.log.FilterLogEvents(ctx, logEventsInput)
}

// getLogStreams fetches the most recently written streams of a log group.
// FilterLogEvents accepts at most 100 stream names.
func (c *CloudWatch) getLogStreams(ctx context.Context, logName string) ([]cwlTypes.LogStream, error) {
	resp, err := c.log.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(logName),
		Descending:   aws.Bool(true),
		OrderBy:      cwlTypes.OrderByLastEventTime,
		Limit:        aws.Int32(50),
	})
	if err != nil {
		return nil, err
	}
	return resp.LogStreams, err
}

// Clear deletes a log group. A missing group is not an error.
func (c *CloudWatch) Clear(ctx context.Context, name string) error {
	_, err := c.log.DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{
		LogGroupName: aws.String(name),
	})
	var rnfErr *cwlTypes.ResourceNotFoundException
	if errors.As(err, &rnfErr) {
		return nil
	}
	return err
}

func (c *CloudWatch) getMetrics(ctx context.Context, function, name string) (float64, error) {
	end := time.Now().UTC()
	stats, err := c.client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/Lambda"),
		MetricName: aws.String(name),
		StartTime:  aws.Time(end.Add(-24 * time.Hour)),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(86400),
		Statistics: []cwTypes.Statistic{cwTypes.StatisticSum},
		Dimensions: []cwTypes.Dimension{
			{
				Name:  aws.String("FunctionName"),
				Value: aws.String(function),
			},
		},
	})
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, dp := range stats.Datapoints {
		sum += aws.ToFloat64(dp.Sum)
	}
	return sum, nil
}

// Metrics sums the function's invocations and errors over the last day.
func (c *CloudWatch) Metrics(ctx context.Context, function string) (*preview.Metrics, error) {
	invocations, err := c.getMetrics(ctx, function, InvocationMetric)
	if err != nil {
		return nil, err
	}
	errs, err := c.getMetrics(ctx, function, ErrorMetric)
	if err != nil {
		return nil, err
	}
	return &preview.Metrics{Function: function, Invocations: invocations, Errors: errs}, nil
}
