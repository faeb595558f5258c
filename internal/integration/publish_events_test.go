package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftkart/order-service-go/internal/events"
	"github.com/craftkart/order-service-go/internal/order"
	"github.com/craftkart/order-service-go/internal/testutil"
)

func TestPublishOrderCreated_RoundTrip(t *testing.T) {
	conn, _ := testutil.StartRabbitMQ(t)

	pub, err := events.NewPublisher(conn)
	require.NoError(t, err)
	defer pub.Close()

	gwID := "order_gw_evt"
	o := &order.Order{
		ID:              "order-evt-1",
		UserID:          "user-evt",
		TotalAmount:     699,
		Status:          order.StatusOrderPlaced,
		PaymentMethod:   order.PaymentPrepaid,
		RazorpayOrderID: &gwID,
		Items:           []order.Item{{ProductID: "p1", Quantity: 2, Price: 300}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, pub.PublishOrderCreated(ctx, o))

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	deadline := time.Now().Add(10 * time.Second)
	for {
		msg, ok, err := ch.Get(events.OrderCreatedQueue, true)
		require.NoError(t, err)
		if ok {
			var ev events.OrderCreated
			require.NoError(t, json.Unmarshal(msg.Body, &ev))
			assert.Equal(t, "OrderCreated", ev.EventType)
			assert.Equal(t, "order-evt-1", ev.OrderID)
			assert.Equal(t, "user-evt", ev.UserID)
			require.Len(t, ev.Items, 1)
			assert.Equal(t, 2, ev.Items[0].Quantity)
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for OrderCreated message")
		}
		time.Sleep(100 * time.Millisecond)
	}
}
