package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gwu-libraries/elements-migrate/authors"
)

func TestWorkerParsesWithinBudget(t *testing.T) {
	w := NewParserWorker(10 * time.Second)
	parsed, err := w.Parse(context.Background(), "Ledger H, Bar H, and CE Heath")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("got %d authors, want 3", len(parsed))
	}
	if got := parsed[2].String(); got != "|CE|Heath" {
		t.Errorf("third author = %q", got)
	}
}

func TestWorkerTimeoutInstallsFreshParser(t *testing.T) {
	spawned := 0
	slow := func(ctx context.Context, names string) ([]*authors.Author, error) {
		if names == "stall" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []*authors.Author{{LastName: []string{names}}}, nil
	}
	w := NewWorker(20*time.Millisecond, func() ParseFunc {
		spawned++
		return slow
	})

	if _, err := w.Parse(context.Background(), "stall"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if spawned != 2 {
		t.Errorf("spawned %d parse functions, want 2", spawned)
	}

	parsed, err := w.Parse(context.Background(), "Smith")
	if err != nil {
		t.Fatalf("Parse after timeout: %v", err)
	}
	if len(parsed) != 1 || parsed[0].Surname() != "Smith" {
		t.Errorf("parsed = %v", parsed)
	}
	if spawned != 2 {
		t.Errorf("healthy parse respawned the function: %d", spawned)
	}
}

func TestWorkerPassesThroughCallerCancellation(t *testing.T) {
	w := NewWorker(time.Minute, func() ParseFunc {
		return func(ctx context.Context, names string) ([]*authors.Author, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if _, err := w.Parse(ctx, "whatever"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWorkerPassesThroughParseErrors(t *testing.T) {
	w := NewParserWorker(time.Second)
	_, err := w.Parse(context.Background(), "%%%")
	var pe *authors.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}
