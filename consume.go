package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumeintake/internal/database"
	"github.com/streadway/amqp"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

// retryBackoff is the base wait between attempts; attempt i waits retryBackoff*(i+1).
var retryBackoff = 500 * time.Millisecond

// retry retries a function up to `attempts` times with linear backoff
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i < attempts-1 {
			time.Sleep(retryBackoff * time.Duration(i+1))
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// applyFeedback decodes the agent's JSON reply onto result. A bad reply leaves the
// parsed resume untouched.
func applyFeedback(result *AnalysisResult, output string) error {
	if strings.TrimSpace(output) == "" {
		return fmt.Errorf("empty response from agent")
	}
	feedback := Feedback{}
	if err := json.Unmarshal([]byte(CleanJson(output)), &feedback); err != nil {
		return fmt.Errorf("json unmarshal error: %w", err)
	}
	result.Feedback = &feedback
	return nil
}

func feedbackMessage(result AnalysisResult) (string, error) {
	parsed, err := json.MarshalIndent(result.Resume, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal parsed resume: %w", err)
	}
	return fmt.Sprintf("File:\n%s\n\nParsed resume:\n%s", result.FileName, parsed), nil
}

// addFeedback asks the agent to review every successfully parsed resume. Agent failures are
// logged and skipped; feedback is optional.
func addFeedback(ctx context.Context, currentSession Session, workerConfig *WorkerConfig, results []AnalysisResult) error {
	agentSession, err := workerConfig.AgentSessionService.Create(ctx, &session.CreateRequest{
		AppName:   workerConfig.AgentName,
		UserID:    currentSession.UserID.String(),
		SessionID: currentSession.ID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to create agent session: %w", err)
	}

	for i := range results {
		if results[i].IsErrorResult || results[i].Resume == nil {
			continue
		}
		msg, err := feedbackMessage(results[i])
		if err != nil {
			log.Printf("⚠️ Skipping feedback for %s: %v", results[i].FileName, err)
			continue
		}

		// ✅ Retry the AI agent stream separately (in case of transient agent failures)
		finalOutput, streamErr := retry(2,
			func() (string, error) {
				stream := workerConfig.AgentRunner.Run(ctx, agentSession.Session.UserID(), agentSession.Session.ID(), &genai.Content{
					Role: "user",
					Parts: []*genai.Part{
						{Text: msg},
					},
				}, agent.RunConfig{})

				var output string
				for event, err := range stream {
					if err != nil {
						return "", err
					}
					if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
						output = event.Content.Parts[0].Text
					}
				}

				if output == "" {
					return "", fmt.Errorf("empty agent response")
				}
				return output, nil
			})
		if streamErr != nil {
			log.Printf("⚠️ Agent failed for %s after retries: %v", results[i].FileName, streamErr)
			continue
		}
		if err := applyFeedback(&results[i], finalOutput); err != nil {
			log.Printf("⚠️ Unusable agent feedback for %s: %v", results[i].FileName, err)
		}
	}

	err = workerConfig.AgentSessionService.Delete(ctx, &session.DeleteRequest{
		AppName:   agentSession.Session.AppName(),
		UserID:    agentSession.Session.UserID(),
		SessionID: agentSession.Session.ID(),
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %v", err)
	}
	return nil
}

// analyzeSession runs the intake pipeline for all resumes in a session, optionally adds AI
// feedback, and stores the aggregated results.
func analyzeSession(ctx context.Context, currentSession Session, workerConfig *WorkerConfig) error {
	resumes, err := workerConfig.DB.GetResumesBySession(ctx, currentSession.ID)
	if err != nil {
		return fmt.Errorf("error getting resumes for session: %v, err: %w", currentSession.ID, err)
	}

	analyzed, err := analyzeResumes(ctx, workerConfig, currentSession.ID, resumes)
	if err != nil {
		return err
	}
	results := &AnalysisResults{
		SessionID: currentSession.ID,
		Results:   analyzed,
	}

	if workerConfig.AgentRunner != nil {
		if err := addFeedback(ctx, currentSession, workerConfig, results.Results); err != nil {
			log.Printf("⚠️ AI feedback skipped for session %s: %v", currentSession.ID, err)
		}
	}
	log.Printf("session id: %s analyzed (%d resumes, %d failed)", currentSession.ID, len(results.Results), results.FailedCount())

	// save final result to db
	resultsJSON, err := json.Marshal(results.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal analyses results: %w", err)
	}

	_, err = retry(3, func() (any, error) {
		return nil, workerConfig.DB.CreateOrUpdateAnalysesResults(ctx, database.CreateOrUpdateAnalysesResultsParams{
			Results:     resultsJSON,
			SessionID:   results.SessionID,
			ResumeCount: int32(len(results.Results)),
			FailedCount: int32(results.FailedCount()),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save analyses results after retries: %w", err)
	}

	return nil
}

// setSessionStatus records the status in the database and announces it on session_updates.
func (workerConfig *WorkerConfig) setSessionStatus(ctx context.Context, sessionID uuid.UUID, status, message string) {
	err := workerConfig.DB.UpdateSessionStatus(ctx, database.UpdateSessionStatusParams{
		Status: status,
		ID:     sessionID,
	})
	if err != nil {
		log.Printf("⚠️ failed to set session %s status to %s: %v", sessionID, status, err)
	}
	if workerConfig.RabbitConn == nil {
		return
	}

	update := map[string]any{
		"session_id": sessionID,
		"status":     status,
		"message":    message,
		"timestamp":  time.Now(),
	}
	if err := publishSessionUpdate(workerConfig.RabbitConn, sessionID.String(), update); err != nil {
		log.Println("failed to publish update:", err)
	}
}

func worker(id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	//    to consume message on the queue
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error connecting to rabbitmq channel: " + err.Error())
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		"sessions", // queue name
		true,       // durable (survives broker restarts)
		false,      // auto-delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(
		"sessions", // queue name
		"",         // consumer tag
		true,       // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for msg := range msgs {
		ctx := context.Background()
		currentSession := Session{}
		if err := json.Unmarshal(msg.Body, &currentSession); err != nil {
			log.Printf("error unmarshalling message body. err: %v", err)
			if currentSession.ID != uuid.Nil {
				workerConfig.setSessionStatus(ctx, currentSession.ID, "failed", "analysis failed")
			}
			continue
		}
		log.Printf("Worker %d processing session. session_id: %s", id+1, currentSession.ID)
		workerConfig.setSessionStatus(ctx, currentSession.ID, "processing", "analysis started")

		if err := analyzeSession(ctx, currentSession, workerConfig); err != nil {
			log.Printf("error analyzing session_id: %v. err: %v", currentSession.ID, err)
			workerConfig.setSessionStatus(ctx, currentSession.ID, "failed", "analysis failed")
			continue
		}
		workerConfig.setSessionStatus(ctx, currentSession.ID, "completed", "analysis completed")
	}
}

func (workerConfig *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("worker id ", i+1, "started")
		go worker(i, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}
