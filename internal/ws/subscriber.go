package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pubgarena/backend/internal/tournament"
	"github.com/redis/go-redis/v9"
)

// StartEventSubscriber subscribes to the tournament_events channel and fans
// incoming participant events out to feed subscribers. Events arrive via
// redis so that every process instance sees joins committed by the others.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, tournament.EventChannel)
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] tournament_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			idf, ok := payload["tournament_id"].(float64)
			if !ok {
				log.Printf("[WS] event missing tournament_id: %s", msg.Payload)
				continue
			}

			FeedHub.BroadcastToTournament(int(idf), payload)
		}
	}()
}
