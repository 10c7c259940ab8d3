// Package smtp — почтовый транспорт для алертов стойки. Интерфейсы
// закрывают net/smtp, чтобы отправку писем можно было мокать в тестах.
package smtp

import "io"

// Client — минимальный срез SMTP-клиента, который нужен рассыльщику алертов.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает соединение и отдаёт адрес отправителя.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
