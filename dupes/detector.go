// Package dupes finds files with bit-identical content. It is an explicit
// opt-in pass: size buckets reject unique sizes for free, a head hash splits
// obviously different files, and only the survivors pay for a full digest.
package dupes

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"dirscout/logger"
	"dirscout/scanner"

	"golang.org/x/time/rate"
)

// Group is a set of paths sharing identical content, keyed by digest.
// Groups of fewer than two members are never materialized.
type Group struct {
	Digest    string   `json:"digest"`
	SizeBytes int64    `json:"size_bytes"`
	Paths     []string `json:"paths"`
}

// Result carries the duplicate groups plus per-file read diagnostics.
type Result struct {
	Groups      []Group  `json:"groups"`
	WastedBytes int64    `json:"wasted_bytes"`
	Errors      []string `json:"errors,omitempty"`
}

type Options struct {
	// Concurrency bounds the worker pool hashing size buckets; 0 means
	// one worker per CPU.
	Concurrency int
	// MaxIOPerSecond throttles file opens across all workers; 0 disables
	// the limiter.
	MaxIOPerSecond int
	// MmapMinSize is the size at which full digests switch to the
	// memory-mapped read path; 0 means the 128 KiB default.
	MmapMinSize int64
}

type sizeBucket struct {
	size  int64
	paths []string
}

// Detect groups the scan's file records by content. Per-file read errors
// drop the file from its group and are surfaced in Result.Errors; only
// context cancellation fails the pass.
func Detect(ctx context.Context, res *scanner.ScanResult, opts Options) (*Result, error) {
	workers := opts.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var limiter *rate.Limiter
	if opts.MaxIOPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.MaxIOPerSecond), opts.MaxIOPerSecond)
	}

	buckets := bucketBySize(res)

	out := &Result{}
	var mu sync.Mutex
	var wg sync.WaitGroup
	bucketCh := make(chan sizeBucket)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for bucket := range bucketCh {
				groups, errs := hashBucket(ctx, bucket, limiter, opts.MmapMinSize)
				mu.Lock()
				out.Groups = append(out.Groups, groups...)
				out.Errors = append(out.Errors, errs...)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, bucket := range buckets {
		select {
		case <-ctx.Done():
			break feed
		case bucketCh <- bucket:
		}
	}
	close(bucketCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Parallel hashing must not leak ordering to the caller.
	sort.Slice(out.Groups, func(i, j int) bool {
		if out.Groups[i].SizeBytes != out.Groups[j].SizeBytes {
			return out.Groups[i].SizeBytes > out.Groups[j].SizeBytes
		}
		return out.Groups[i].Digest < out.Groups[j].Digest
	})
	sort.Strings(out.Errors)
	for i := range out.Groups {
		out.WastedBytes += int64(len(out.Groups[i].Paths)-1) * out.Groups[i].SizeBytes
	}
	return out, nil
}

// bucketBySize partitions file records by size, dropping singleton buckets
// before any file is opened.
func bucketBySize(res *scanner.ScanResult) []sizeBucket {
	bySize := make(map[int64][]string)
	for i := range res.Records {
		rec := &res.Records[i]
		if rec.Kind != scanner.KindFile {
			continue
		}
		bySize[rec.SizeBytes] = append(bySize[rec.SizeBytes], rec.Path)
	}
	buckets := make([]sizeBucket, 0, len(bySize))
	for size, paths := range bySize {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		buckets = append(buckets, sizeBucket{size: size, paths: paths})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].size > buckets[j].size })
	return buckets
}

func hashBucket(ctx context.Context, bucket sizeBucket, limiter *rate.Limiter, mmapMinSize int64) ([]Group, []string) {
	var errs []string

	// Head hash first: files that differ in the first block never reach
	// the full digest.
	byHead := make(map[uint64][]string)
	for _, path := range bucket.paths {
		if err := waitIO(ctx, limiter); err != nil {
			return nil, errs
		}
		head, err := headHash(path)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", path, err))
			logger.Debugf("Skipping %s during duplicate detection: %v", path, err)
			continue
		}
		byHead[head] = append(byHead[head], path)
	}

	var groups []Group
	for _, paths := range byHead {
		if len(paths) < 2 {
			continue
		}
		byDigest := make(map[string][]string)
		for _, path := range paths {
			if err := waitIO(ctx, limiter); err != nil {
				return groups, errs
			}
			digest, err := contentDigest(path, mmapMinSize)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", path, err))
				logger.Debugf("Skipping %s during duplicate detection: %v", path, err)
				continue
			}
			byDigest[digest] = append(byDigest[digest], path)
		}
		for digest, members := range byDigest {
			if len(members) < 2 {
				continue
			}
			sort.Strings(members)
			groups = append(groups, Group{
				Digest:    digest,
				SizeBytes: bucket.size,
				Paths:     members,
			})
		}
	}
	return groups, errs
}

func waitIO(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return ctx.Err()
	}
	return limiter.Wait(ctx)
}
