package service

import (
	"context"
	"sync"
	"time"

	"docvault/internal/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const indexTaskTimeout = 30 * time.Second

// IndexDispatcher accepts index maintenance work to run after the metadata
// transaction has committed. Dispatch never blocks the caller and never
// reports failure upward; the index is best effort.
type IndexDispatcher interface {
	EnqueueUpsert(fileID uuid.UUID, doc search.Document)
	EnqueueDelete(fileID uuid.UUID)
}

type indexTask struct {
	fileID uuid.UUID
	doc    search.Document
	remove bool
}

// Indexer drains index tasks on a single background worker. A full queue
// drops the task with a warning rather than stalling uploads; a later write
// to the same file reconverges the index.
type Indexer struct {
	index  search.Index
	logger *zap.Logger
	tasks  chan indexTask
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewIndexer(index search.Index, logger *zap.Logger, queueSize int) *Indexer {
	if queueSize <= 0 {
		queueSize = 1
	}

	idx := &Indexer{
		index:  index,
		logger: logger,
		tasks:  make(chan indexTask, queueSize),
		done:   make(chan struct{}),
	}
	go idx.run()
	return idx
}

func (i *Indexer) EnqueueUpsert(fileID uuid.UUID, doc search.Document) {
	i.enqueue(indexTask{fileID: fileID, doc: doc})
}

func (i *Indexer) EnqueueDelete(fileID uuid.UUID) {
	i.enqueue(indexTask{fileID: fileID, remove: true})
}

// enqueue drops the task when the queue is full or the indexer has shut
// down; the mutex keeps the send from racing the channel close.
func (i *Indexer) enqueue(task indexTask) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.closed {
		i.logger.Warn("indexer closed, dropping task",
			zap.String("file_id", task.fileID.String()),
			zap.Bool("remove", task.remove),
		)
		return
	}

	select {
	case i.tasks <- task:
	default:
		i.logger.Warn("index queue full, dropping task",
			zap.String("file_id", task.fileID.String()),
			zap.Bool("remove", task.remove),
		)
	}
}

// Close stops accepting tasks and waits for the queue to drain. Safe to call
// more than once and concurrently with enqueues. Tests rely on it to observe
// the index synchronously.
func (i *Indexer) Close() {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		<-i.done
		return
	}
	i.closed = true
	close(i.tasks)
	i.mu.Unlock()

	<-i.done
}

func (i *Indexer) run() {
	defer close(i.done)

	for task := range i.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), indexTaskTimeout)

		var err error
		if task.remove {
			err = i.index.Delete(ctx, task.fileID)
		} else {
			err = i.index.Upsert(ctx, task.fileID, task.doc)
		}
		cancel()

		if err != nil {
			i.logger.Warn("index update failed",
				zap.String("file_id", task.fileID.String()),
				zap.Bool("remove", task.remove),
				zap.Error(err),
			)
		}
	}
}
