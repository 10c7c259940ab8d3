package rabbitmq

// QueueConfig связывает очередь с ключом маршрутизации в exchange алертов.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetAlertQueues возвращает очереди платёжных алертов:
// скорые сроки оплаты и просрочки.
func GetAlertQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "alerts.upcoming", RoutingKey: "upcoming"},
		{QueueName: "alerts.overdue", RoutingKey: "overdue"},
	}
}
