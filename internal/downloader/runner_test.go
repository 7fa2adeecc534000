package downloader

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"spacedash/pkg/logger"
)

// MockClient is a mock image downloader failing for configured URLs
type MockClient struct {
	failures map[string]error
	counter  int32
	order    []string
}

func (m *MockClient) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	atomic.AddInt32(&m.counter, 1)
	m.order = append(m.order, url)
	if err, ok := m.failures[url]; ok {
		return nil, err
	}
	return []byte("image:" + url), nil
}

func TestRunnerSequentialOrder(t *testing.T) {
	client := &MockClient{failures: map[string]error{"b": fmt.Errorf("status 404")}}
	runner := NewRunner(client, logger.NewNopLogger())

	jobs := []Job{{Index: 0, Name: "A", URL: "a"}, {Index: 1, Name: "B", URL: "b"}, {Index: 2, Name: "C", URL: "c"}}
	results := runner.Run(context.Background(), jobs)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if got := fmt.Sprint(client.order); got != "[a b c]" {
		t.Errorf("Expected jobs in order [a b c], got %s", got)
	}
	if !results[0].Success || results[1].Success || !results[2].Success {
		t.Errorf("Unexpected success pattern: %v %v %v", results[0].Success, results[1].Success, results[2].Success)
	}
	if results[1].Error == nil {
		t.Error("Expected an error on the failed job")
	}
	if string(results[2].Data) != "image:c" {
		t.Errorf("Unexpected data %q", results[2].Data)
	}
}

func TestRunnerObserver(t *testing.T) {
	client := &MockClient{failures: map[string]error{"x": fmt.Errorf("boom")}}
	runner := NewRunner(client, logger.NewNopLogger())

	var calls []string
	runner.OnResult(func(done, total int, r Result) {
		calls = append(calls, fmt.Sprintf("%d/%d:%v", done, total, r.Success))
	})

	runner.Run(context.Background(), []Job{{URL: "x"}, {URL: "y"}})

	if got := fmt.Sprint(calls); got != "[1/2:false 2/2:true]" {
		t.Errorf("Unexpected observer calls: %s", got)
	}
}

func TestRunnerEmpty(t *testing.T) {
	client := &MockClient{}
	results := NewRunner(client, logger.NewNopLogger()).Run(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
	if atomic.LoadInt32(&client.counter) != 0 {
		t.Error("Expected no downloads")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Result{
		{Success: true, Size: 10},
		{Success: false},
		{Success: true, Size: 5},
	})

	if s.Total != 3 || s.Succeeded != 2 || s.Failed != 1 || s.Bytes != 15 {
		t.Errorf("Unexpected summary: %+v", s)
	}
}
