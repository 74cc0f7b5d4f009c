package shop

const (
	TopicOrderLifecycle = "shop.order.lifecycle"
	TopicWaitlistNotify = "shop.waitlist.notify"
)

// Partition key = order_id (notify events: product_id), so events for one
// entity keep their order.
func PartitionKey(id string) []byte { return []byte(id) }
