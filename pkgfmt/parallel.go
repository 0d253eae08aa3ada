package pkgfmt

import (
	"fmt"
	"runtime"
	"sync"
)

// ExtractConfig controls ExtractAll's worker pool.
type ExtractConfig struct {
	// MaxWorkers is the maximum number of concurrent extraction
	// goroutines. 0 defaults to runtime.NumCPU().
	MaxWorkers int

	// MinEntriesForParallel is the smallest batch size ExtractAll will
	// fan out; below it, entries are extracted sequentially on the
	// calling goroutine to avoid paying worker-pool overhead on a
	// handful of files.
	MinEntriesForParallel int
}

// DefaultExtractConfig mirrors the teacher's DefaultParallelConfig
// sizing (parallel.go), adapted to archive entries instead of cipher
// chunks.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		MaxWorkers:            runtime.NumCPU(),
		MinEntriesForParallel: 4,
	}
}

// extractJob pairs one entry with the byte slice ExtractAll will fill
// in for it, so results land at the caller's index regardless of
// which worker handled them.
type extractJob struct {
	entry Entry
	data  []byte
	err   error
}

// ExtractAll extracts every entry's plaintext payload, fanning the
// work out across a bounded worker pool (spec §4.7; grounded on the
// teacher's parallelDecryptChunks). Each worker gets its own Decrypter
// by calling through Archive.decrypterAt independently, so no cipher
// state is shared across goroutines (spec §5). A panic in any worker
// is converted to an error instead of crashing the caller.
func (a *Archive) ExtractAll(entries []Entry, cfg ExtractConfig) ([][]byte, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	jobs := make([]extractJob, len(entries))
	for i, e := range entries {
		jobs[i].entry = e
	}

	numWorkers := cfg.MaxWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}

	minParallel := cfg.MinEntriesForParallel
	if minParallel <= 0 {
		minParallel = 1
	}

	if len(jobs) < minParallel || numWorkers <= 1 {
		for i := range jobs {
			jobs[i].data, jobs[i].err = a.ExtractFileData(jobs[i].entry)
			if jobs[i].err != nil {
				return nil, jobs[i].err
			}
		}
		return collectExtractResults(jobs), nil
	}

	var wg sync.WaitGroup
	jobChan := make(chan int, len(jobs))
	errChan := make(chan error, numWorkers)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					select {
					case errChan <- fmt.Errorf("panic in extraction worker: %v", r):
					default:
					}
				}
			}()
			for idx := range jobChan {
				data, err := a.ExtractFileData(jobs[idx].entry)
				if err != nil {
					select {
					case errChan <- err:
					default:
					}
					return
				}
				jobs[idx].data = data
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(errChan)

	if err, ok := <-errChan; ok {
		return nil, err
	}

	return collectExtractResults(jobs), nil
}

func collectExtractResults(jobs []extractJob) [][]byte {
	out := make([][]byte, len(jobs))
	for i, j := range jobs {
		out[i] = j.data
	}
	return out
}
