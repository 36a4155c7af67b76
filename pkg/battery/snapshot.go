package battery

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/battkit/battkit/pkg/units"
)

// Keys of the aggregate snapshot mapping. GetResult always returns every one
// of these plus KeyGenerated, whatever happens underneath.
const (
	KeyPercent           = "battery_percent"
	KeyPowerStatus       = "power_status"
	KeyDesignCapacity    = "design_capacity"
	KeyRemainingCapacity = "remaining_capacity"
	KeyChargeRate        = "charge_rate"
	KeyFastCharge        = "fast_charge"
	KeyManufacturer      = "manufacturer"
	KeyTechnology        = "technology"
	KeyCycleCount        = "cycle_count"
	KeyHealth            = "battery_health"
	KeyVoltage           = "battery_voltage"
	KeyTemperature       = "battery_temperature"
	KeyGenerated         = "report_generated"
)

// MetricKeys lists the twelve metric keys in display order.
var MetricKeys = []string{
	KeyPercent,
	KeyPowerStatus,
	KeyDesignCapacity,
	KeyRemainingCapacity,
	KeyChargeRate,
	KeyFastCharge,
	KeyManufacturer,
	KeyTechnology,
	KeyCycleCount,
	KeyHealth,
	KeyVoltage,
	KeyTemperature,
}

type metricTask struct {
	key   string
	fetch func() (string, error)
}

type taskResult struct {
	key   string
	value string
}

// GetResult collects all metrics into a formatted mapping. It never fails:
// individual read failures, timeouts and even panics degrade to the "n/a"
// placeholder for the affected metric only. With useCache, a snapshot
// younger than the cache TTL is returned (as a copy) without touching the
// sources. parallel selects pooled collection over sequential.
func (b *Battery) GetResult(useCache, parallel bool) map[string]string {
	b.mu.Lock()
	if useCache && b.cached != nil && b.now().Sub(b.cachedAt) < b.opts.CacheTTL {
		data := copyResult(b.cached)
		b.mu.Unlock()
		return data
	}
	b.mu.Unlock()

	data := func() (m map[string]string) {
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("snapshot collection panicked: %v", r)
				m = b.fallbackResult()
			}
		}()
		if parallel {
			return b.collectParallel()
		}
		return b.collectSequential()
	}()
	data[KeyGenerated] = b.now().Format("2006-01-02")

	b.mu.Lock()
	b.cached = copyResult(data)
	b.cachedAt = b.now()
	b.mu.Unlock()

	return data
}

// collectParallel runs all metric tasks on a bounded worker pool. Results
// are gathered until either all tasks report or the overall deadline (twice
// the per-call timeout) passes; stragglers are abandoned and their keys
// filled with the placeholder.
func (b *Battery) collectParallel() map[string]string {
	tasks := b.tasks()
	jobs := make(chan metricTask, len(tasks))
	results := make(chan taskResult, len(tasks))

	for i := 0; i < b.opts.Workers; i++ {
		go func() {
			for t := range jobs {
				results <- taskResult{key: t.key, value: b.runTask(t)}
			}
		}()
	}
	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)

	data := make(map[string]string, len(tasks)+1)
	overall := time.NewTimer(2 * b.opts.Timeout)
	defer overall.Stop()

collect:
	for i := 0; i < len(tasks); i++ {
		select {
		case r := <-results:
			data[r.key] = r.value
		case <-overall.C:
			logrus.Warnf("snapshot collection timed out with %d/%d metrics done", len(data), len(tasks))
			break collect
		}
	}

	for _, t := range tasks {
		if _, ok := data[t.key]; !ok {
			data[t.key] = units.Unavailable
		}
	}
	return data
}

func (b *Battery) collectSequential() map[string]string {
	tasks := b.tasks()
	data := make(map[string]string, len(tasks)+1)
	for _, t := range tasks {
		data[t.key] = b.runTask(t)
	}
	return data
}

// runTask executes one metric getter with the per-task timeout and the
// absence-on-failure discipline: errors, panics and timeouts all yield the
// placeholder, never an escaping failure.
func (b *Battery) runTask(t metricTask) string {
	done := make(chan string, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logMetricFailure(t.key, fmt.Errorf("panic: %v", r))
				done <- units.Unavailable
			}
		}()
		v, err := t.fetch()
		if err != nil {
			b.logMetricFailure(t.key, err)
			done <- units.Unavailable
			return
		}
		done <- v
	}()

	select {
	case v := <-done:
		return v
	case <-time.After(b.opts.TaskTimeout):
		b.logMetricFailure(t.key, fmt.Errorf("timed out after %v", b.opts.TaskTimeout))
		return units.Unavailable
	}
}

func (b *Battery) logMetricFailure(key string, err error) {
	entry := logrus.WithField("metric", key).WithError(err)
	if b.opts.Debug {
		entry.Warn("metric read failed")
	} else {
		entry.Debug("metric read failed")
	}
}

// tasks pairs each metric key with its getter and formatter.
func (b *Battery) tasks() []metricTask {
	p := b.provider
	return []metricTask{
		{KeyPercent, func() (string, error) {
			v, err := p.Percent()
			if err != nil {
				return "", err
			}
			return units.FormatPercent(&v), nil
		}},
		{KeyPowerStatus, func() (string, error) {
			v, err := p.IsPlugged()
			if err != nil {
				return "", err
			}
			return units.FormatPowerStatus(&v), nil
		}},
		{KeyDesignCapacity, func() (string, error) {
			v, err := p.DesignCapacity()
			if err != nil {
				return "", err
			}
			return units.FormatCapacity(&v), nil
		}},
		{KeyRemainingCapacity, func() (string, error) {
			v, err := p.RemainingCapacity()
			if err != nil {
				return "", err
			}
			return units.FormatCapacity(&v), nil
		}},
		{KeyChargeRate, func() (string, error) {
			v, err := p.ChargeRate()
			if err != nil {
				return "", err
			}
			return units.FormatChargeRate(&v), nil
		}},
		{KeyFastCharge, func() (string, error) {
			v, err := p.IsFastCharge()
			if err != nil {
				return "", err
			}
			return units.FormatBool(&v), nil
		}},
		{KeyManufacturer, func() (string, error) {
			v, err := p.Manufacturer()
			if err != nil {
				return "", err
			}
			return units.FormatString(&v), nil
		}},
		{KeyTechnology, func() (string, error) {
			v, err := p.Technology()
			if err != nil {
				return "", err
			}
			return units.FormatString(&v), nil
		}},
		{KeyCycleCount, func() (string, error) {
			v, err := p.CycleCount()
			if err != nil {
				return "", err
			}
			return units.FormatCount(&v), nil
		}},
		{KeyHealth, func() (string, error) {
			v, err := p.Health()
			if err != nil {
				return "", err
			}
			return units.FormatHealth(&v), nil
		}},
		{KeyVoltage, func() (string, error) {
			v, err := p.Voltage()
			if err != nil {
				return "", err
			}
			return units.FormatVoltage(&v), nil
		}},
		{KeyTemperature, func() (string, error) {
			v, err := p.Temperature()
			if err != nil {
				return "", err
			}
			return units.FormatTemperature(&v), nil
		}},
	}
}

// fallbackResult is the shape GetResult degrades to when collection itself
// breaks: every key present, every value the placeholder.
func (b *Battery) fallbackResult() map[string]string {
	data := make(map[string]string, len(MetricKeys)+1)
	for _, key := range MetricKeys {
		data[key] = units.Unavailable
	}
	return data
}

func copyResult(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
