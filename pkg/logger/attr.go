package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// CustomerID records a payment-provider customer reference.
func CustomerID(id string) slog.Attr {
	return slog.String("customer_id", id)
}

func PriceID(id string) slog.Attr {
	return slog.String("price_id", id)
}

func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Provider records the payment provider name (stripe, paddle).
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
