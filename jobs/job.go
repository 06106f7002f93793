package jobs

import (
	"errors"
	"time"

	"github.com/zsmartex/mlm/config"
)

// Job is a long running unit started by the cron daemon. Process blocks while the job is
// scheduled.
type Job interface {
	Process()
}

var ErrAlreadyRunning = errors.New("job is already running")

// Fields are written as the metrics point of a run.
type Fields map[string]interface{}

const (
	lockTTL         = 6 * time.Hour
	measurementName = "mlm_jobs"
)

var locker = NewLocker()

// Run executes fn unless another run of the job named name holds the lock, then logs the
// outcome and writes it to InfluxDB when configured.
func Run(name string, fn func() (Fields, error)) error {
	release, ok, err := locker.TryLock(name, lockTTL)
	if err != nil {
		return err
	} else if !ok {
		config.Logger.Warnf("[cron] %s skipped: previous run still in progress", name)
		return ErrAlreadyRunning
	}
	defer release()

	started_at := time.Now()
	config.Logger.Infof("[cron] %s started", name)

	fields, err := fn()
	if fields == nil {
		fields = Fields{}
	}
	fields["duration_ms"] = time.Since(started_at).Milliseconds()

	status := "success"
	if err != nil {
		status = "failed"
		config.Logger.Errorf("[cron] %s failed: %v", name, err)
	} else {
		config.Logger.Infof("[cron] %s finished in %s: %v", name, time.Since(started_at), map[string]interface{}(fields))
	}

	if config.InfluxDB != nil {
		config.InfluxDB.NewPoint(measurementName, map[string]string{"job": name, "status": status}, fields)
	}

	return err
}
