package workers

import (
	"context"
	"log"
	"sync"
	"time"

	"vibepos/dispatch"
	"vibepos/models"

	"github.com/jinzhu/gorm"
)

// ReceiptJob is one fire-and-forget notification. Done (optional) receives the
// outcome so the caller's UI can show a warning without ever having blocked
// the sale on delivery.
type ReceiptJob struct {
	Request     dispatch.Request
	Transaction string
	Done        func(dispatch.Result)
}

// NotifyWorker drains a bounded queue of receipt sends on a single goroutine.
// The sale path only ever touches Enqueue, which never blocks.
type NotifyWorker struct {
	dispatcher *dispatch.Dispatcher
	db         *gorm.DB // nil: skip delivery logging
	jobs       chan ReceiptJob
	timeout    time.Duration
	wg         sync.WaitGroup
}

func StartNotifyWorker(d *dispatch.Dispatcher, db *gorm.DB, queueSize int, timeout time.Duration) *NotifyWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	w := &NotifyWorker{
		dispatcher: d,
		db:         db,
		jobs:       make(chan ReceiptJob, queueSize),
		timeout:    timeout,
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Enqueue hands the job to the worker. Returns false when the queue is full;
// the caller surfaces that as a delivery warning, the sale stays committed.
func (w *NotifyWorker) Enqueue(job ReceiptJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		log.Printf("notify worker: queue full, dropping %s to %s", job.Request.Kind, job.Request.To)
		return false
	}
}

// Stop drains pending jobs and waits for the worker to finish.
func (w *NotifyWorker) Stop() {
	close(w.jobs)
	w.wg.Wait()
}

func (w *NotifyWorker) run() {
	defer w.wg.Done()
	for job := range w.jobs {
		w.process(job)
	}
}

func (w *NotifyWorker) process(job ReceiptJob) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	res := w.dispatcher.Dispatch(ctx, job.Request)
	cancel()

	if res.Succeeded {
		log.Printf("notify worker: sent %s via %s to=%s tx=%s",
			job.Request.Kind, res.Provider, job.Request.To, job.Transaction)
	} else {
		log.Printf("notify worker: %s failed to=%s tx=%s diag=%s",
			job.Request.Kind, job.Request.To, job.Transaction, res.Diagnostic)
	}

	w.logDelivery(job, res)

	if job.Done != nil {
		job.Done(res)
	}
}

func (w *NotifyWorker) logDelivery(job ReceiptJob, res dispatch.Result) {
	if w.db == nil {
		return
	}
	status := models.DELIVERY_STATUS_SENT
	if !res.Succeeded {
		status = models.DELIVERY_STATUS_FAILED
	}
	row := models.DeliveryLog{
		Kind:        string(job.Request.Kind),
		Channel:     string(job.Request.Channel),
		Recipient:   job.Request.To,
		Provider:    res.Provider,
		Status:      status,
		Diagnostic:  res.Diagnostic,
		Transaction: job.Transaction,
	}
	if err := w.db.Create(&row).Error; err != nil {
		log.Printf("notify worker: delivery log write failed: %v", err)
	}
}
