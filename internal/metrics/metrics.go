package metrics

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// EndpointMetrics tracks metrics for a specific endpoint
type EndpointMetrics struct {
	Requests     int64
	Errors       int64
	TotalLatency int64
}

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Request metrics
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	// Request latency (in milliseconds)
	TotalLatency int64
	RequestCount int64

	// Task metrics
	TasksCreated   int64
	TasksCompleted int64
	TasksDeleted   int64
	TasksRolledOver int64

	// Daily intelligence metrics
	IntelligenceRuns       int64
	IntelligenceInjections int64

	// Notification metrics
	NotificationsSent   int64
	NotificationsFailed int64

	// Inventory metrics
	InventoryRestocks    int64
	InventoryConsumes    int64
	InventoryConsumeFail int64

	// WebSocket metrics
	WSConnections int64
	WSMessagesOut int64

	// Report generation metrics
	ReportsGenerated int64
	ReportErrors     int64

	// Endpoint-specific metrics
	EndpointMetrics map[string]*EndpointMetrics

	// Start time for uptime calculation
	StartTime time.Time
}

// global metrics instance
var globalMetrics *Metrics
var once sync.Once

// Init initializes the global metrics instance
func Init() {
	once.Do(func() {
		globalMetrics = &Metrics{
			StartTime:       time.Now(),
			EndpointMetrics: make(map[string]*EndpointMetrics),
		}
	})
}

// Get returns the global metrics instance
func Get() *Metrics {
	if globalMetrics == nil {
		Init()
	}
	return globalMetrics
}

// IncrementRequests increments request counters
func (m *Metrics) IncrementRequests(success bool, latencyMs int64) {
	atomic.AddInt64(&m.TotalRequests, 1)
	atomic.AddInt64(&m.TotalLatency, latencyMs)
	atomic.AddInt64(&m.RequestCount, 1)

	if success {
		atomic.AddInt64(&m.SuccessfulRequests, 1)
	} else {
		atomic.AddInt64(&m.FailedRequests, 1)
	}
}

// IncrementTaskCreated increments the task creation counter
func (m *Metrics) IncrementTaskCreated() {
	atomic.AddInt64(&m.TasksCreated, 1)
}

// IncrementTaskCompleted increments the task completion counter
func (m *Metrics) IncrementTaskCompleted() {
	atomic.AddInt64(&m.TasksCompleted, 1)
}

// IncrementTaskDeleted increments the task deletion counter
func (m *Metrics) IncrementTaskDeleted() {
	atomic.AddInt64(&m.TasksDeleted, 1)
}

// AddTasksRolledOver adds to the rollover counter
func (m *Metrics) AddTasksRolledOver(n int64) {
	atomic.AddInt64(&m.TasksRolledOver, n)
}

// IncrementIntelligenceRun increments the daily intelligence run counter
func (m *Metrics) IncrementIntelligenceRun() {
	atomic.AddInt64(&m.IntelligenceRuns, 1)
}

// AddIntelligenceInjections adds to the injected-task counter
func (m *Metrics) AddIntelligenceInjections(n int64) {
	atomic.AddInt64(&m.IntelligenceInjections, n)
}

// IncrementNotification increments notification counters
func (m *Metrics) IncrementNotification(success bool) {
	if success {
		atomic.AddInt64(&m.NotificationsSent, 1)
	} else {
		atomic.AddInt64(&m.NotificationsFailed, 1)
	}
}

// IncrementInventoryRestock increments the restock counter
func (m *Metrics) IncrementInventoryRestock() {
	atomic.AddInt64(&m.InventoryRestocks, 1)
}

// IncrementInventoryConsume increments consumption counters
func (m *Metrics) IncrementInventoryConsume(success bool) {
	if success {
		atomic.AddInt64(&m.InventoryConsumes, 1)
	} else {
		atomic.AddInt64(&m.InventoryConsumeFail, 1)
	}
}

// IncrementWSConnection increments WebSocket connection counter
func (m *Metrics) IncrementWSConnection() {
	atomic.AddInt64(&m.WSConnections, 1)
}

// DecrementWSConnection decrements WebSocket connection counter
func (m *Metrics) DecrementWSConnection() {
	atomic.AddInt64(&m.WSConnections, -1)
}

// IncrementWSMessageOut increments WebSocket outgoing message counter
func (m *Metrics) IncrementWSMessageOut() {
	atomic.AddInt64(&m.WSMessagesOut, 1)
}

// IncrementReportGenerated increments report generation counters
func (m *Metrics) IncrementReportGenerated(success bool) {
	if success {
		atomic.AddInt64(&m.ReportsGenerated, 1)
	} else {
		atomic.AddInt64(&m.ReportErrors, 1)
	}
}

// TrackEndpoint tracks metrics for a specific endpoint
func (m *Metrics) TrackEndpoint(path, method string, statusCode int, latencyMs int64) {
	key := method + " " + path

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.EndpointMetrics == nil {
		m.EndpointMetrics = make(map[string]*EndpointMetrics)
	}

	em, exists := m.EndpointMetrics[key]
	if !exists {
		em = &EndpointMetrics{}
		m.EndpointMetrics[key] = em
	}

	atomic.AddInt64(&em.Requests, 1)
	atomic.AddInt64(&em.TotalLatency, latencyMs)
	if statusCode >= 400 {
		atomic.AddInt64(&em.Errors, 1)
	}
}

// GetEndpointMetrics returns a copy of endpoint metrics
func (m *Metrics) GetEndpointMetrics() map[string]EndpointMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]EndpointMetrics)
	for k, v := range m.EndpointMetrics {
		result[k] = EndpointMetrics{
			Requests:     atomic.LoadInt64(&v.Requests),
			Errors:       atomic.LoadInt64(&v.Errors),
			TotalLatency: atomic.LoadInt64(&v.TotalLatency),
		}
	}
	return result
}

// GetAverageLatency returns average request latency in milliseconds
func (m *Metrics) GetAverageLatency() float64 {
	count := atomic.LoadInt64(&m.RequestCount)
	if count == 0 {
		return 0
	}
	total := atomic.LoadInt64(&m.TotalLatency)
	return float64(total) / float64(count)
}

// GetUptime returns the application uptime
func (m *Metrics) GetUptime() time.Duration {
	return time.Since(m.StartTime)
}

// EndpointMetricsSnapshot represents endpoint metrics in a snapshot
type EndpointMetricsSnapshot struct {
	Requests     int64   `json:"requests"`
	Errors       int64   `json:"errors"`
	ErrorRate    float64 `json:"error_rate"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// MetricsSnapshot represents a point-in-time snapshot of all metrics
type MetricsSnapshot struct {
	// Uptime
	UptimeSeconds float64 `json:"uptime_seconds"`
	StartTime     string  `json:"start_time"`

	// Request metrics
	Requests struct {
		Total        int64   `json:"total"`
		Successful   int64   `json:"successful"`
		Failed       int64   `json:"failed"`
		AvgLatencyMs float64 `json:"avg_latency_ms"`
	} `json:"requests"`

	// Task metrics
	Tasks struct {
		Created    int64 `json:"created"`
		Completed  int64 `json:"completed"`
		Deleted    int64 `json:"deleted"`
		RolledOver int64 `json:"rolled_over"`
	} `json:"tasks"`

	// Daily intelligence metrics
	Intelligence struct {
		Runs       int64 `json:"runs"`
		Injections int64 `json:"injections"`
	} `json:"intelligence"`

	// Notification metrics
	Notifications struct {
		Sent   int64 `json:"sent"`
		Failed int64 `json:"failed"`
	} `json:"notifications"`

	// Inventory metrics
	Inventory struct {
		Restocks     int64 `json:"restocks"`
		Consumes     int64 `json:"consumes"`
		ConsumeFails int64 `json:"consume_fails"`
	} `json:"inventory"`

	// WebSocket metrics
	WebSocket struct {
		Connections int64 `json:"connections"`
		MessagesOut int64 `json:"messages_out"`
	} `json:"websocket"`

	// Report metrics
	Reports struct {
		Generated int64 `json:"generated"`
		Errors    int64 `json:"errors"`
	} `json:"reports"`

	// System metrics
	System struct {
		Goroutines  int    `json:"goroutines"`
		HeapAllocMB uint64 `json:"heap_alloc_mb"`
		HeapInUseMB uint64 `json:"heap_inuse_mb"`
		NumGC       uint32 `json:"num_gc"`
	} `json:"system"`

	// Endpoint-specific metrics
	Endpoints map[string]EndpointMetricsSnapshot `json:"endpoints,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snapshot := MetricsSnapshot{}

	// Uptime
	snapshot.UptimeSeconds = m.GetUptime().Seconds()
	snapshot.StartTime = m.StartTime.Format(time.RFC3339)

	// Request metrics
	snapshot.Requests.Total = atomic.LoadInt64(&m.TotalRequests)
	snapshot.Requests.Successful = atomic.LoadInt64(&m.SuccessfulRequests)
	snapshot.Requests.Failed = atomic.LoadInt64(&m.FailedRequests)
	snapshot.Requests.AvgLatencyMs = m.GetAverageLatency()

	// Task metrics
	snapshot.Tasks.Created = atomic.LoadInt64(&m.TasksCreated)
	snapshot.Tasks.Completed = atomic.LoadInt64(&m.TasksCompleted)
	snapshot.Tasks.Deleted = atomic.LoadInt64(&m.TasksDeleted)
	snapshot.Tasks.RolledOver = atomic.LoadInt64(&m.TasksRolledOver)

	// Intelligence metrics
	snapshot.Intelligence.Runs = atomic.LoadInt64(&m.IntelligenceRuns)
	snapshot.Intelligence.Injections = atomic.LoadInt64(&m.IntelligenceInjections)

	// Notification metrics
	snapshot.Notifications.Sent = atomic.LoadInt64(&m.NotificationsSent)
	snapshot.Notifications.Failed = atomic.LoadInt64(&m.NotificationsFailed)

	// Inventory metrics
	snapshot.Inventory.Restocks = atomic.LoadInt64(&m.InventoryRestocks)
	snapshot.Inventory.Consumes = atomic.LoadInt64(&m.InventoryConsumes)
	snapshot.Inventory.ConsumeFails = atomic.LoadInt64(&m.InventoryConsumeFail)

	// WebSocket metrics
	snapshot.WebSocket.Connections = atomic.LoadInt64(&m.WSConnections)
	snapshot.WebSocket.MessagesOut = atomic.LoadInt64(&m.WSMessagesOut)

	// Report metrics
	snapshot.Reports.Generated = atomic.LoadInt64(&m.ReportsGenerated)
	snapshot.Reports.Errors = atomic.LoadInt64(&m.ReportErrors)

	// System metrics
	snapshot.System.Goroutines = runtime.NumGoroutine()
	snapshot.System.HeapAllocMB = memStats.HeapAlloc / 1024 / 1024
	snapshot.System.HeapInUseMB = memStats.HeapInuse / 1024 / 1024
	snapshot.System.NumGC = memStats.NumGC

	// Endpoint metrics
	endpointMetrics := m.GetEndpointMetrics()
	if len(endpointMetrics) > 0 {
		snapshot.Endpoints = make(map[string]EndpointMetricsSnapshot)
		for k, v := range endpointMetrics {
			em := EndpointMetricsSnapshot{
				Requests: v.Requests,
				Errors:   v.Errors,
			}
			if v.Requests > 0 {
				em.ErrorRate = float64(v.Errors) / float64(v.Requests) * 100
				em.AvgLatencyMs = float64(v.TotalLatency) / float64(v.Requests)
			}
			snapshot.Endpoints[k] = em
		}
	}

	return snapshot
}

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status  string `json:"status"` // "healthy", "degraded", "unhealthy"
	Message string `json:"message,omitempty"`
	Latency int64  `json:"latency_ms,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version"`
	Uptime     string                  `json:"uptime"`
	Timestamp  string                  `json:"timestamp"`
	Components map[string]HealthStatus `json:"components"`
}

// CheckMemoryHealth checks memory usage
func CheckMemoryHealth(maxHeapMB uint64) HealthStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	heapMB := memStats.HeapAlloc / 1024 / 1024

	if heapMB > maxHeapMB {
		return HealthStatus{
			Status:  "unhealthy",
			Message: "heap memory exceeds limit",
		}
	}

	if heapMB > (maxHeapMB * 80 / 100) {
		return HealthStatus{
			Status:  "degraded",
			Message: "heap memory usage high",
		}
	}

	return HealthStatus{
		Status: "healthy",
	}
}

// DetermineOverallStatus determines overall health from component statuses
func DetermineOverallStatus(components map[string]HealthStatus) string {
	hasUnhealthy := false
	hasDegraded := false

	for _, status := range components {
		switch status.Status {
		case "unhealthy":
			hasUnhealthy = true
		case "degraded":
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return "unhealthy"
	}
	if hasDegraded {
		return "degraded"
	}
	return "healthy"
}
