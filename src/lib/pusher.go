package lib

import (
	"log"
	"os"

	"github.com/pusher/pusher-http-go/v5"
)

var pusherClient *pusher.Client

func GetPusherClient() *pusher.Client {
	if pusherClient != nil {
		return pusherClient
	}
	pusherClient = &pusher.Client{
		AppID:   os.Getenv("PUSHER_APP_ID"),
		Key:     os.Getenv("PUSHER_KEY"),
		Secret:  os.Getenv("PUSHER_SECRET"),
		Cluster: os.Getenv("PUSHER_CLUSTER"),
	}
	return pusherClient
}

func NewPusherClient(c *pusher.Client) {
	pusherClient = c
}

// NotifyReservationsChanged pushes an empty "something changed" signal on the
// reservations channel. Subscribers re-fetch the full set rather than
// consuming a diff.
func NotifyReservationsChanged() {
	client := GetPusherClient()
	if err := client.Trigger("reservations", "changed", map[string]any{}); err != nil {
		log.Printf("[pusher] Error triggering reservations change event: %s\n", err.Error())
	}
}
