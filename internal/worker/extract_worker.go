package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/model"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/pkg/docconvert"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/repository"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/storage"
)

// ExtractWorker drains the extract queue: it resolves each stored upload
// through the same path guard the download route uses, runs the matching
// converter, and persists the extracted text as a Document row. File types
// with no converter are recorded as skipped so a job is never redelivered
// forever.
type ExtractWorker struct {
	conn       *amqp.Connection
	docs       *repository.DocumentRepository
	files      *storage.Local
	converters []docconvert.Converter
	queueName  string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExtractWorker(
	conn *amqp.Connection,
	docs *repository.DocumentRepository,
	files *storage.Local,
	converters []docconvert.Converter,
	queueName string,
) *ExtractWorker {
	return &ExtractWorker{
		conn:       conn,
		docs:       docs,
		files:      files,
		converters: converters,
		queueName:  queueName,
	}
}

func (w *ExtractWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var job model.ExtractJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					log.Printf("worker decode extract job failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.docs.Create(w.process(job)); err != nil {
					log.Printf("worker persist document failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// process always yields a Document; extraction problems are recorded on the
// row rather than bounced back to the queue.
func (w *ExtractWorker) process(job model.ExtractJob) *model.Document {
	doc := &model.Document{
		SpaceID:    job.SpaceID,
		OwnerToken: job.OwnerToken,
		Path:       job.Path,
	}

	converter := docconvert.ForFile(w.converters, job.OriginalName)
	if converter == nil {
		doc.Status = model.DocumentStatusSkipped
		return doc
	}

	abs, err := w.files.Resolve(job.Path)
	if err != nil {
		log.Printf("worker resolve %q failed: %v", job.Path, err)
		doc.Status = model.DocumentStatusFailed
		return doc
	}

	f, err := os.Open(abs)
	if err != nil {
		log.Printf("worker open %q failed: %v", job.Path, err)
		doc.Status = model.DocumentStatusFailed
		return doc
	}
	defer f.Close()

	text, err := converter.Convert(f)
	if err != nil {
		log.Printf("worker extract %q failed: %v", job.Path, err)
		doc.Status = model.DocumentStatusFailed
		return doc
	}

	doc.Text = text
	doc.Status = model.DocumentStatusExtracted
	return doc
}

func (w *ExtractWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
