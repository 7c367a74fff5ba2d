package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	_ "github.com/lib/pq"
	"github.com/muhammadolammi/resumeintake/internal/config"
	"github.com/muhammadolammi/resumeintake/internal/database"
	"github.com/muhammadolammi/resumeintake/internal/intake"
	"github.com/streadway/amqp"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}
	dbqueries := database.New(db)

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2.AccessKey, cfg.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}
	r2Client := NewR2Client(awsConfig, cfg.R2.AccountID)

	pipeline, err := intake.FromConfig(cfg.Extraction, slog.Default())
	if err != nil {
		log.Fatalf("failed to build intake pipeline: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ. err:  %v", err)
	}

	workerConfig := WorkerConfig{
		DB: dbqueries,
		Fetch: func(ctx context.Context, key string, limit int64) ([]byte, error) {
			return DownloadFromR2(ctx, r2Client, cfg.R2.Bucket, key, limit)
		},
		Pipeline:          pipeline,
		Extraction:        cfg.Extraction,
		ResumeConcurrency: cfg.ResumeConcurrency,
		RABBITMQUrl:       cfg.RabbitMQURL,
		RabbitConn:        conn,
	}

	if cfg.GoogleAPIKey != "" {
		agentName := "resume reviewer"
		reviewer, err := GetAgent(context.Background(), cfg.GoogleAPIKey, agentName)
		if err != nil {
			log.Fatalf("failed to create agent: %v", err)
		}
		inMemoryService := session.InMemoryService()
		r, err := runner.New(runner.Config{
			AppName:        reviewer.Name(),
			Agent:          reviewer,
			SessionService: inMemoryService,
		})
		if err != nil {
			log.Fatalf("failed to create runner: %v", err)
		}
		workerConfig.AgentName = agentName
		workerConfig.AgentRunner = r
		workerConfig.AgentSessionService = inMemoryService
	} else {
		log.Println("⚠️ GOOGLE_API_KEY not set, AI feedback disabled")
	}

	fmt.Printf("Starting %d workers consumer pool\n", cfg.WorkerCount)
	workerConfig.StartConsumerWorkerPool(cfg.WorkerCount)
}
