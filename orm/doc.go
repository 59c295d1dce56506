/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Keys are ordered by their bytes, so iteration over a bucket is
deterministic.
* Models serialize themselves. The codec helpers of this package write and
read the protobuf wire format, so stored values stay readable by any
protobuf client.
*/
package orm
