package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"plinio/config"
	"plinio/models"
	"plinio/services/notification"
	"plinio/services/tasks"
)

// InitEmailWorker runs the async email worker in background.
func InitEmailWorker(notifSvc notification.NotificationService) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEmailSend, handleEmailTask(notifSvc))

	go func() {
		log.Println("[EmailWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[EmailWorker] worker stopped: %v", err)
		}
	}()

	return srv
}

func handleEmailTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.EmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[EmailWorker] invalid payload: %v", err)
			return err
		}

		sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		if err := notifSvc.Send(sendCtx, p); err != nil {
			log.Printf("[EmailWorker] send to %s failed: %v", p.To, err)
			return err
		}
		return nil
	}
}
