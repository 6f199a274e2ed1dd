package workers

import (
	"log"
	"sync"
	"time"

	"github.com/camden-git/printprep/media"
	"github.com/camden-git/printprep/repository"
)

type BatchJob struct {
	InputPath string
}

// BatchProcessor dispatches one pipeline invocation per image across a fixed
// worker pool. The pipeline stages themselves are pure, so the only shared
// state here is the queue bookkeeping and the collected results.
type BatchProcessor struct {
	JobQueue  chan BatchJob
	Converter *media.Converter
	Repo      *repository.ResultRepository // nil disables persistence

	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex

	jobsWg    sync.WaitGroup
	resultsMu sync.Mutex
	results   []media.ConversionResult
}

func NewBatchProcessor(converter *media.Converter, repo *repository.ResultRepository, queueSize, numWorkers int) *BatchProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &BatchProcessor{
		JobQueue:  make(chan BatchJob, queueSize),
		Converter: converter,
		Repo:      repo,
		StopChan:  make(chan struct{}),
		Pending:   make(map[string]bool),
	}
	proc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	log.Printf("Started %d conversion worker(s) with queue size %d", numWorkers, queueSize)
	return proc
}

func (bp *BatchProcessor) worker(id int) {
	defer bp.Wg.Done()

	log.Printf("Conversion worker %d started", id)
	for {
		select {
		case job, ok := <-bp.JobQueue:
			if !ok {
				log.Printf("Conversion worker %d stopping: Job queue closed", id)
				return
			}
			log.Printf("Worker %d: Received job for: %s", id, job.InputPath)
			bp.processJob(job)

			bp.Mutex.Lock()
			delete(bp.Pending, job.InputPath)
			bp.Mutex.Unlock()
			bp.jobsWg.Done()

		case <-bp.StopChan:
			log.Printf("Conversion worker %d stopping: Stop signal received", id)
			return
		}
	}
}

func (bp *BatchProcessor) processJob(job BatchJob) {
	result := bp.Converter.Convert(job.InputPath)

	if bp.Repo != nil {
		if _, err := bp.Repo.SaveConversion(result); err != nil {
			log.Printf("Worker: ERROR persisting result for %s: %v", job.InputPath, err)
		}
	}

	bp.resultsMu.Lock()
	bp.results = append(bp.results, result)
	bp.resultsMu.Unlock()
}

// QueueJob queues a conversion if the same input is not already pending.
// The send blocks when the queue is full so a large batch cannot drop work.
func (bp *BatchProcessor) QueueJob(job BatchJob) bool {
	bp.Mutex.Lock()
	if bp.Pending[job.InputPath] {
		bp.Mutex.Unlock()
		return false
	}
	bp.Pending[job.InputPath] = true
	bp.Mutex.Unlock()

	bp.jobsWg.Add(1)
	bp.JobQueue <- job
	return true
}

// Run queues every path and blocks until all of them have been processed,
// returning the aggregated report. Paths already pending are counted as
// duplicates and dropped.
func (bp *BatchProcessor) Run(paths []string) media.BatchReport {
	start := time.Now()
	for _, p := range paths {
		if !bp.QueueJob(BatchJob{InputPath: p}) {
			log.Printf("Skipping duplicate batch entry: %s", p)
		}
	}
	bp.jobsWg.Wait()

	bp.resultsMu.Lock()
	results := make([]media.ConversionResult, len(bp.results))
	copy(results, bp.results)
	bp.results = bp.results[:0]
	bp.resultsMu.Unlock()

	report := media.BatchReport{
		Results:     results,
		TotalFiles:  len(results),
		TotalMillis: time.Since(start).Milliseconds(),
	}
	for _, r := range results {
		switch r.Status {
		case media.StatusSuccess:
			report.Successful++
		case media.StatusFailed:
			report.Failed++
		case media.StatusSkipped:
			report.Skipped++
		}
	}
	return report
}

func (bp *BatchProcessor) Stop() {
	log.Println("Stopping conversion workers...")
	close(bp.StopChan)
	bp.Wg.Wait()
	log.Println("All conversion workers stopped")
}
