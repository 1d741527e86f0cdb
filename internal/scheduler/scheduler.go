package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task interface for scheduled tasks
type Task interface {
	Run(ctx context.Context) error
	Interval() time.Duration
	Name() string
}

// TaskStatus reports the outcome of a task's most recent run
type TaskStatus struct {
	Name      string    `json:"name"`
	Interval  string    `json:"interval"`
	Runs      int       `json:"runs"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// Scheduler runs each task once at start and then on its interval.
// A task never overlaps with itself.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	tasks  []Task
	wg     sync.WaitGroup

	mu     sync.RWMutex
	status map[string]*TaskStatus
}

// New creates a new task scheduler
func New(ctx context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		tasks:  make([]Task, 0),
		status: make(map[string]*TaskStatus),
	}
}

// AddTask adds a task to the scheduler
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)

	s.mu.Lock()
	s.status[task.Name()] = &TaskStatus{Name: task.Name(), Interval: task.Interval().String()}
	s.mu.Unlock()
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting task scheduler")
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
	slog.Info("Task scheduler started", "task_count", len(s.tasks))
}

// Stop cancels running tasks and waits for them to return
func (s *Scheduler) Stop() {
	slog.Info("Stopping task scheduler")
	s.cancel()
	s.wg.Wait()
	slog.Info("Task scheduler stopped")
}

// Status returns a snapshot of every task's last run
func (s *Scheduler) Status() []TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TaskStatus, 0, len(s.tasks))
	for _, task := range s.tasks {
		out = append(out, *s.status[task.Name()])
	}
	return out
}

// runTask runs a single task on its schedule
func (s *Scheduler) runTask(task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval())
	defer ticker.Stop()

	s.execute(task)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(task)
		}
	}
}

func (s *Scheduler) execute(task Task) {
	slog.Debug("Running task", "task", task.Name())
	err := task.Run(s.ctx)
	if err != nil {
		slog.Error("Error running task", "task", task.Name(), "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status[task.Name()]
	st.Runs++
	st.LastRun = time.Now()
	st.LastError = ""
	if err != nil {
		st.LastError = err.Error()
	}
}
