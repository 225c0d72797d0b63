package verifier

import "time"

const (
	defaultWorkerCount = 8
	fetchBatchSize     = 200

	sleepDuration     = 5 * time.Second
	longSleepDuration = 1 * time.Minute

	blockBatcherCapacity      = 1000
	blockBatcherFlushInterval = 10 * time.Second
	blockBatcherRPS           = 20
	blockBatcherRetries       = 3
	blockBatcherRetryInterval = 2 * time.Second
)
