package utils

import (
	"context"
	"sync"

	"go.uber.org/multierr"
)

// BatchConfig 批量操作配置
type BatchConfig struct {
	// BatchSize 批量大小
	BatchSize int
	// Concurrency 并发数量
	Concurrency int
	// OnProgress 进度回调函数
	OnProgress func(progress BatchProgress)
}

// BatchProgress 批量操作进度
type BatchProgress struct {
	Completed  int
	Total      int
	Percentage int // 0-100
	Success    int
	Failed     int
}

// DefaultBatchConfig 返回默认批量配置
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		BatchSize:   50,
		Concurrency: 5,
	}
}

// BatchItemResult 单个项目的查询结果
type BatchItemResult[R any] struct {
	Index int
	Value R
	Err   error
}

// BatchQueryResult 批量查询结果
//
// Items 与输入一一对应，按输入顺序排列。
type BatchQueryResult[R any] struct {
	Items   []BatchItemResult[R]
	Total   int
	Success int
	Failed  int
}

// Values 返回成功项的值（保持输入顺序）
func (r *BatchQueryResult[R]) Values() []R {
	values := make([]R, 0, r.Success)
	for _, item := range r.Items {
		if item.Err == nil {
			values = append(values, item.Value)
		}
	}
	return values
}

// Errors 返回失败项
func (r *BatchQueryResult[R]) Errors() []BatchItemResult[R] {
	failed := make([]BatchItemResult[R], 0, r.Failed)
	for _, item := range r.Items {
		if item.Err != nil {
			failed = append(failed, item)
		}
	}
	return failed
}

// BatchQuery 批量查询
//
// 对一组输入分批并发调用查询函数，单项失败不影响其他项。
// ctx 取消后尚未开始的项目以 ctx.Err() 记为失败。
//
// 示例：
//
//	result := BatchQuery(ctx, addresses, func(ctx context.Context, addr string, index int) (uint64, error) {
//	    return reader.FetchBalance(ctx, addr)
//	}, DefaultBatchConfig())
func BatchQuery[T any, R any](
	ctx context.Context,
	items []T,
	queryFn func(ctx context.Context, item T, index int) (R, error),
	config *BatchConfig,
) *BatchQueryResult[R] {
	cfg := DefaultBatchConfig()
	if config != nil {
		cfg.OnProgress = config.OnProgress
		if config.BatchSize > 0 {
			cfg.BatchSize = config.BatchSize
		}
		if config.Concurrency > 0 {
			cfg.Concurrency = config.Concurrency
		}
	}

	out := &BatchQueryResult[R]{
		Items: make([]BatchItemResult[R], len(items)),
		Total: len(items),
	}

	var mu sync.Mutex
	completed := 0
	record := func(idx int, value R, err error) {
		mu.Lock()
		defer mu.Unlock()
		out.Items[idx] = BatchItemResult[R]{Index: idx, Value: value, Err: err}
		if err != nil {
			out.Failed++
		} else {
			out.Success++
		}
		completed++
		if cfg.OnProgress != nil {
			cfg.OnProgress(BatchProgress{
				Completed:  completed,
				Total:      len(items),
				Percentage: completed * 100 / len(items),
				Success:    out.Success,
				Failed:     out.Failed,
			})
		}
	}

	for batchIdx, batch := range BatchArray(items, cfg.BatchSize) {
		var wg sync.WaitGroup
		sem := make(chan struct{}, cfg.Concurrency)

		for i, item := range batch {
			idx := batchIdx*cfg.BatchSize + i
			wg.Add(1)
			go func(idx int, item T) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				if err := ctx.Err(); err != nil {
					var zero R
					record(idx, zero, err)
					return
				}
				value, err := queryFn(ctx, item, idx)
				record(idx, value, err)
			}(idx, item)
		}

		wg.Wait()
	}

	return out
}

// BatchArray 将数组分批
func BatchArray[T any](array []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = len(array)
	}
	batches := make([][]T, 0)
	for i := 0; i < len(array); i += batchSize {
		end := i + batchSize
		if end > len(array) {
			end = len(array)
		}
		batches = append(batches, array[i:end])
	}
	return batches
}

// ParallelExecute 并行执行多个操作
//
// 所有操作都会执行完；返回全部结果以及按输入顺序合并的错误（multierr）。
func ParallelExecute[T any, R any](
	ctx context.Context,
	items []T,
	executeFn func(ctx context.Context, item T) (R, error),
	concurrency int,
) ([]R, error) {
	if concurrency <= 0 {
		concurrency = 5
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, item := range items {
		wg.Add(1)
		go func(index int, item T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[index], errs[index] = executeFn(ctx, item)
		}(i, item)
	}

	wg.Wait()

	var combined error
	for _, err := range errs {
		combined = multierr.Append(combined, err)
	}
	return results, combined
}
