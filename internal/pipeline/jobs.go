package pipeline

import (
	"sync"
	"time"

	"finrag/internal/extract"
)

// JobStatus represents the state of a report job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusSegmenting JobStatus = "segmenting"
	StatusIndexing   JobStatus = "indexing"
	StatusExtracting JobStatus = "extracting"
	StatusRendering  JobStatus = "rendering"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// Job tracks one report pair through the pipeline.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Target      extract.Target `json:"target"`
	CurrentYear string         `json:"current_year"`
	PriorYear   string         `json:"prior_year"`

	CurrentFilename string `json:"current_filename"`
	PriorFilename   string `json:"prior_filename"`
	CurrentDocID    string `json:"current_doc_id,omitempty"`
	PriorDocID      string `json:"prior_doc_id,omitempty"`

	// Force rebuilds both indexes even when cached files exist.
	Force bool `json:"force"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	currentData []byte
	priorData   []byte
	errors      []string
}

// Progress tracks extraction progress across topics.
type Progress struct {
	TotalTopics     int      `json:"total_topics"`
	TopicsProcessed int      `json:"topics_processed"`
	FieldsExtracted int      `json:"fields_extracted"`
	Errors          []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a non-fatal error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// ErrorCount returns the number of recorded errors.
func (j *Job) ErrorCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.errors)
}

// SetTotalTopics records the size of the extraction plan.
func (j *Job) SetTotalTopics(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalTopics = n
	j.UpdatedAt = time.Now()
}

// IncrTopicsProcessed marks one topic done and adds its field count.
func (j *Job) IncrTopicsProcessed(fields int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TopicsProcessed++
	j.Progress.FieldsExtracted += fields
	j.UpdatedAt = time.Now()
}

// SetDocIDs records the derived document ids.
func (j *Job) SetDocIDs(current, prior string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.CurrentDocID = current
	j.PriorDocID = prior
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw bytes of both source documents.
func (j *Job) SetFileData(current, prior []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.currentData = current
	j.priorData = prior
}

// FileData returns the raw bytes of both source documents.
func (j *Job) FileData() (current, prior []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.currentData, j.priorData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID              string         `json:"job_id"`
	Target          extract.Target `json:"target"`
	CurrentYear     string         `json:"current_year"`
	PriorYear       string         `json:"prior_year"`
	CurrentFilename string         `json:"current_filename"`
	PriorFilename   string         `json:"prior_filename"`
	CurrentDocID    string         `json:"current_doc_id,omitempty"`
	PriorDocID      string         `json:"prior_doc_id,omitempty"`
	Status          JobStatus      `json:"status"`
	Phase           string         `json:"phase"`
	Progress        Progress       `json:"progress"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:              j.ID,
		Target:          j.Target,
		CurrentYear:     j.CurrentYear,
		PriorYear:       j.PriorYear,
		CurrentFilename: j.CurrentFilename,
		PriorFilename:   j.PriorFilename,
		CurrentDocID:    j.CurrentDocID,
		PriorDocID:      j.PriorDocID,
		Status:          j.Status,
		Phase:           j.Phase,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
		Progress: Progress{
			TotalTopics:     j.Progress.TotalTopics,
			TopicsProcessed: j.Progress.TopicsProcessed,
			FieldsExtracted: j.Progress.FieldsExtracted,
			Errors:          errs,
		},
	}
}
