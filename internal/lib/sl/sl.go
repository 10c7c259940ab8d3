// Package sl — мелкие помощники для slog, общие для всех сервисов стойки.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error", чтобы ошибки
// во всех логах выглядели одинаково.
//
//	log.Error("checkin failed", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
