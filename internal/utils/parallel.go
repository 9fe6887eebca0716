package utils

import "sync"

// ParallelMap 并发地将 fn 应用到 items 的每个元素上，结果保持输入顺序。
// concurrency <= 1 或元素过少时退化为串行执行，避免 goroutine 开销。
func ParallelMap[T any, R any](items []T, concurrency int, fn func(T) R) []R {
	n := len(items)
	if n == 0 {
		return nil
	}

	results := make([]R, n)
	if concurrency <= 1 || n == 1 {
		for i, item := range items {
			results[i] = fn(item)
		}
		return results
	}

	if concurrency > n {
		concurrency = n
	}

	var wg sync.WaitGroup
	idxCh := make(chan int, n)
	for i := 0; i < n; i++ {
		idxCh <- i
	}
	close(idxCh)

	wg.Add(concurrency)
	for w := 0; w < concurrency; w++ {
		go func() {
			defer wg.Done()
			for i := range idxCh {
				results[i] = fn(items[i])
			}
		}()
	}
	wg.Wait()
	return results
}
