package interfaces

import "time"

type SchedulerInterface interface {
	Init(interval time.Duration, job func() error)
	Stop()
}
