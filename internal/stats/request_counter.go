package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// RequestCounter 请求计数器
// 总量用原子计数，QPS 用双时间窗口滑动估算
type RequestCounter struct {
	total int64

	mu             sync.RWMutex
	currentWindow  *window
	previousWindow *window
	windowDuration time.Duration
}

// window 计数时间窗口
type window struct {
	count     int64
	startTime time.Time
}

// NewRequestCounter 创建请求计数器并启动窗口滚动
func NewRequestCounter(windowDuration time.Duration) *RequestCounter {
	if windowDuration == 0 {
		windowDuration = 60 * time.Second
	}

	counter := &RequestCounter{
		windowDuration: windowDuration,
		currentWindow:  &window{startTime: time.Now()},
		previousWindow: &window{startTime: time.Now().Add(-windowDuration)},
	}

	go counter.rotate()
	return counter
}

// Increment 增加请求计数
func (rc *RequestCounter) Increment() {
	atomic.AddInt64(&rc.total, 1)

	rc.mu.Lock()
	rc.currentWindow.count++
	rc.mu.Unlock()
}

// Total 获取总请求数
func (rc *RequestCounter) Total() int64 {
	return atomic.LoadInt64(&rc.total)
}

// CurrentQPS 估算当前每秒请求数
func (rc *RequestCounter) CurrentQPS() float64 {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	elapsed := time.Since(rc.currentWindow.startTime).Seconds()
	if elapsed <= 0 {
		return 0
	}

	// 当前窗口过短时引入上一窗口，避免刚滚动后数值跳变
	if elapsed < rc.windowDuration.Seconds()/2 && rc.previousWindow.count > 0 {
		combined := float64(rc.currentWindow.count + rc.previousWindow.count)
		return combined / (elapsed + rc.windowDuration.Seconds())
	}

	return float64(rc.currentWindow.count) / elapsed
}

// rotate 定期滚动时间窗口
func (rc *RequestCounter) rotate() {
	ticker := time.NewTicker(rc.windowDuration)
	defer ticker.Stop()

	for range ticker.C {
		rc.mu.Lock()
		rc.previousWindow = rc.currentWindow
		rc.currentWindow = &window{startTime: time.Now()}
		rc.mu.Unlock()
	}
}
