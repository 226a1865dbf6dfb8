package aws

import "fmt"

const awsAssumePolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": ["lambda.amazonaws.com"]},
      "Action": ["sts:AssumeRole"]
    }
  ]
}`

const awsAttachPolicyFormat = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": ["logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"],
      "Resource": "arn:aws:logs:*:*:*"
    },
    {
      "Effect": "Allow",
      "Action": ["s3:PutObject"],
      "Resource": "arn:aws:s3:::%s/*"
    }
  ]
}`

// awsAttachPolicy grants the functions their log streams and write access
// to the bucket previews are published to.
func awsAttachPolicy(bucket string) string {
	return fmt.Sprintf(awsAttachPolicyFormat, bucket)
}
